package pubsub

import (
	"context"
	"encoding/json"
	"testing"

	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/pubsub/pstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func newTestTopic(t *testing.T) (*pstest.Server, *pubsub.Client, *pubsub.Topic) {
	t.Helper()

	srv := pstest.NewServer()
	t.Cleanup(func() { _ = srv.Close() })

	conn, err := grpc.NewClient(srv.Addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)

	ctx := context.Background()
	client, err := pubsub.NewClient(ctx, "parliament-test", option.WithGRPCConn(conn))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	topic, err := client.CreateTopic(ctx, "legislation-runs")
	require.NoError(t, err)
	return srv, client, topic
}

func TestPublish(t *testing.T) {
	t.Parallel()

	srv, _, topic := newTestTopic(t)
	pub := New(topic)
	defer func() { _ = pub.Close() }()

	payload := map[string]any{"run_id": "run-1", "total_items": 2}
	id, err := pub.Publish(context.Background(), payload, map[string]string{"state": "done"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	msgs := srv.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "done", msgs[0].Attributes["state"])

	var got map[string]any
	require.NoError(t, json.Unmarshal(msgs[0].Data, &got))
	assert.Equal(t, "run-1", got["run_id"])
	assert.InDelta(t, 2, got["total_items"], 0)
}

func TestPublishUnconfigured(t *testing.T) {
	t.Parallel()

	_, err := New(nil).Publish(context.Background(), "x", nil)
	require.Error(t, err)
	assert.NoError(t, New(nil).Close())
}

func TestPublishUnmarshalable(t *testing.T) {
	t.Parallel()

	_, _, topic := newTestTopic(t)
	pub := New(topic)
	defer func() { _ = pub.Close() }()

	_, err := pub.Publish(context.Background(), make(chan int), nil)
	require.Error(t, err)
}

func TestOpenRequiresTopic(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), Config{ProjectID: "p"})
	require.Error(t, err)
}
