package pipeline

import (
	"bytes"
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/JakeFAU/legislation-crawler/internal/clock/fixed"
	"github.com/JakeFAU/legislation-crawler/internal/legislation"
	"github.com/JakeFAU/legislation-crawler/internal/parser"
)

func TestSummaryWriteTo(t *testing.T) {
	t.Parallel()

	longTitle := strings.Repeat("é", 70)
	records := []legislation.Record{
		{LawNumber: "03.25", Title: "Pétitions", Stage: legislation.StageLecture1},
		{LawNumber: "12.24", Title: longTitle, Stage: legislation.StageLecture2},
		{Title: "", Stage: ""},
		{LawNumber: "07.25", Title: "Archives", Stage: legislation.StageLecture1},
		{LawNumber: "08.25", Title: "Culture", Stage: legislation.StageLecture1},
	}
	s := Summary{RunID: "run-1", State: StateDone, Year: legislation.Year{Label: "2024-2025", ID: "2025"}, Path: "data/extracted-data-2025.json", NewItems: 5}
	s.summarize(records)

	assert.Equal(t, []StageCount{
		{Stage: legislation.StageLecture1, Count: 3},
		{Stage: legislation.StageLecture2, Count: 1},
		{Stage: legislation.StageUnknown, Count: 1},
	}, s.Stages)
	assert.Equal(t, []string{"03.25", "12.24", "07.25", "08.25"}, s.LawNumbers)
	assert.Equal(t, 2, s.Remaining)

	var out bytes.Buffer
	_, err := s.WriteTo(&out)
	require.NoError(t, err)
	text := out.String()
	assert.Contains(t, text, "Current Year: 2024-2025")
	assert.Contains(t, text, "Total Items: 5 (5 new)")
	assert.Contains(t, text, "Law Numbers Found: 03.25, 12.24, 07.25, 08.25")
	assert.Contains(t, text, "  1. N°03.25: Pétitions... (Lecture 1)")
	assert.Contains(t, text, "  2. N°12.24: "+strings.Repeat("é", 60)+"... (Lecture 2)")
	assert.Contains(t, text, "  3. N°Unknown: Unknown... (Unknown)")
	assert.Contains(t, text, "... and 2 more items")
}

func TestSummaryWriteToEmpty(t *testing.T) {
	t.Parallel()

	s := Summary{State: StateNoNewData}
	s.summarize(nil)
	var out bytes.Buffer
	_, err := s.WriteTo(&out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "No results to display")
	assert.Contains(t, out.String(), "existing snapshot unchanged")
}

func TestSummaryStageMap(t *testing.T) {
	t.Parallel()

	s := Summary{Stages: []StageCount{{Stage: legislation.StageLecture1, Count: 2}}}
	assert.Equal(t, map[string]int{"Lecture 1": 2}, s.StageMap())
}

func TestStateTransitions(t *testing.T) {
	t.Parallel()

	assert.True(t, allowed(StateIdle, StateResolvingYear))
	assert.True(t, allowed(StateCrawling, StateNoNewData))
	assert.False(t, allowed(StateIdle, StateDone))
	assert.False(t, allowed(StateDone, StateFailed))
	assert.True(t, StateDone.Terminal())
	assert.True(t, StateFailed.Terminal())
	assert.False(t, StateCrawling.Terminal())
	assert.True(t, StateNoNewData.Succeeded())
	assert.False(t, StateFailed.Succeeded())

	m := newMachine(zap.NewNop())
	m.to(StateResolvingYear)
	m.to(StateFailed)
	assert.Equal(t, []State{StateIdle, StateResolvingYear, StateFailed}, m.history)
}

type staticFetcher struct {
	body []byte
	err  error
}

func (f staticFetcher) Fetch(context.Context, string, url.Values) ([]byte, error) {
	return f.body, f.err
}

func TestResolveYear(t *testing.T) {
	t.Parallel()

	base, err := url.Parse("https://www.chambredesrepresentants.ma")
	require.NoError(t, err)
	p := parser.New(base, nil)
	clock := fixed.New(testNow)

	tests := []struct {
		name    string
		fetcher staticFetcher
		want    legislation.Year
		wantErr error
	}{
		{
			name:    "selector option",
			fetcher: staticFetcher{body: []byte(`<select name="field_annee_legislative_target_id"><option value="All">- Tout -</option><option value="2025">2024-2025</option></select>`)},
			want:    legislation.Year{Label: "2024-2025", ID: "2025"},
		},
		{
			name:    "sentinel only falls back to calendar",
			fetcher: staticFetcher{body: []byte(`<select name="field_annee_legislative_target_id"><option value="All">- Tout -</option></select>`)},
			want:    legislation.Year{Label: "2025-2026", ID: "2025"},
		},
		{
			name:    "missing selector",
			fetcher: staticFetcher{body: []byte(`<html><body></body></html>`)},
			wantErr: ErrYearNotResolved,
		},
		{
			name:    "fetch failure",
			fetcher: staticFetcher{err: errors.New("timeout")},
			wantErr: ErrYearNotResolved,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ResolveYear(context.Background(), tt.fetcher, p, "https://x.test/list", clock, zap.NewNop())
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
