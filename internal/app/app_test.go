package app

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JakeFAU/legislation-crawler/internal/config"
	"github.com/JakeFAU/legislation-crawler/internal/fakesite"
	"github.com/JakeFAU/legislation-crawler/internal/pipeline"
)

func testConfig(t *testing.T, baseURL string) config.Config {
	t.Helper()
	cfg, err := config.LoadViper(viper.New(), "")
	require.NoError(t, err)
	cfg.Scraper.BaseURL = baseURL
	cfg.Scraper.OutputDir = t.TempDir()
	cfg.Request.Timeout = 5 * time.Second
	cfg.Request.RetryAttempts = 0
	cfg.Request.DelayBetweenRequests = 0
	cfg.Logging.Enabled = false
	return cfg
}

func TestAppCrawl(t *testing.T) {
	t.Parallel()

	site := fakesite.New("2024-2025", "2025")
	site.Commission63()
	server := httptest.NewServer(site)
	defer server.Close()

	cfg := testConfig(t, server.URL)
	a, err := New(cfg)
	require.NoError(t, err)
	defer a.Close()

	summary, err := a.Crawl(context.Background())
	require.NoError(t, err)
	assert.Equal(t, pipeline.StateDone, summary.State)
	assert.Equal(t, filepath.Join(cfg.Scraper.OutputDir, "extracted-data-2025.json"), summary.Path)
	assert.Equal(t, 2, summary.TotalItems)
}

func TestAppBrokenMirrorIsSkipped(t *testing.T) {
	t.Parallel()

	site := fakesite.New("2024-2025", "2025")
	site.Commission63()
	server := httptest.NewServer(site)
	defer server.Close()

	cfg := testConfig(t, server.URL)
	cfg.Mirror.Postgres.DSN = "postgres://%zz"
	a, err := New(cfg)
	require.NoError(t, err)
	defer a.Close()

	summary, err := a.Crawl(context.Background())
	require.NoError(t, err)
	assert.Equal(t, pipeline.StateDone, summary.State)
	assert.Nil(t, a.mirrors.Records)
}

func TestNewRejectsBadProxy(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, "https://www.chambredesrepresentants.ma")
	cfg.Proxy.URLs = []string{"::not a url"}
	_, err := New(cfg)
	require.Error(t, err)
}

func TestNewRejectsBadLogLevel(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, "https://www.chambredesrepresentants.ma")
	cfg.Logging.Enabled = true
	cfg.Logging.Level = "loud"
	_, err := New(cfg)
	require.Error(t, err)
}

func TestAccessors(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, "https://www.chambredesrepresentants.ma")
	a, err := New(cfg)
	require.NoError(t, err)
	defer a.Close()
	assert.NotNil(t, a.Logger())
	assert.Equal(t, cfg.Scraper.OutputDir, a.Config().Scraper.OutputDir)
	assert.NotNil(t, a.Pipeline(context.Background()))
}
