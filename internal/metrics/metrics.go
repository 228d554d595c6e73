// Package metrics exposes Prometheus collectors for the legislation crawler.
// The crawler is a batch job, so collectors live on a dedicated registry
// that is written to a node_exporter textfile at the end of a run.
package metrics

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	registry *prometheus.Registry

	fetchRequestsTotal      *prometheus.CounterVec
	fetchDurationSeconds    *prometheus.HistogramVec
	fetchRetriesTotal       *prometheus.CounterVec
	proxyRotationsTotal     prometheus.Counter
	crawlPagesTotal         *prometheus.CounterVec
	crawlItemsTotal         *prometheus.CounterVec
	ministryMatchesTotal    *prometheus.CounterVec
	runsTotal               *prometheus.CounterVec
	snapshotItems           *prometheus.GaugeVec
	lastRunTimestampSeconds prometheus.Gauge

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		registry = prometheus.NewRegistry()
		factory := promauto.With(registry)

		fetchRequestsTotal = factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "legislation_fetch_requests_total",
				Help: "Total number of fetch attempts, labeled by site and outcome.",
			},
			[]string{"site", "outcome"},
		)

		fetchDurationSeconds = factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "legislation_fetch_duration_seconds",
				Help:    "Histogram of fetch attempt latencies, labeled by site.",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"site"},
		)

		fetchRetriesTotal = factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "legislation_fetch_retries_total",
				Help: "Total number of retried fetch attempts, labeled by site.",
			},
			[]string{"site"},
		)

		proxyRotationsTotal = factory.NewCounter(
			prometheus.CounterOpts{
				Name: "legislation_proxy_rotations_total",
				Help: "Total number of forward proxy rotations.",
			},
		)

		crawlPagesTotal = factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "legislation_crawl_pages_total",
				Help: "Total number of listing pages fetched, labeled by facet and status.",
			},
			[]string{"facet", "status"},
		)

		crawlItemsTotal = factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "legislation_crawl_items_total",
				Help: "Total number of listing items handled, labeled by result.",
			},
			[]string{"result"},
		)

		ministryMatchesTotal = factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "legislation_ministry_matches_total",
				Help: "Total number of ministry assignments, labeled by ministry id.",
			},
			[]string{"ministry_id"},
		)

		runsTotal = factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "legislation_runs_total",
				Help: "Total number of pipeline runs, labeled by terminal state.",
			},
			[]string{"state"},
		)

		snapshotItems = factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "legislation_snapshot_items",
				Help: "Number of records in the last written snapshot, labeled by stage.",
			},
			[]string{"stage"},
		)

		lastRunTimestampSeconds = factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "legislation_last_run_timestamp_seconds",
				Help: "Unix time at which the last run finished.",
			},
		)
	})
}

// Registry returns the registry holding every collector of this package.
func Registry() *prometheus.Registry {
	Init()
	return registry
}

// WriteTextfile writes the current metric values in the text exposition
// format, replacing path atomically.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, Registry()); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

// SanitizeSite sanitizes a URL to extract a lowercase hostname.
// It returns "unknown" if the URL is invalid.
func SanitizeSite(rawURL string) string {
	if !strings.HasPrefix(rawURL, "http") {
		rawURL = "http://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "unknown"
	}
	return strings.ToLower(u.Hostname())
}

// ObserveFetch records one fetch attempt.
func ObserveFetch(rawURL, outcome string, duration time.Duration) {
	Init()
	site := SanitizeSite(rawURL)
	fetchRequestsTotal.WithLabelValues(site, outcome).Inc()
	fetchDurationSeconds.WithLabelValues(site).Observe(duration.Seconds())
}

// ObserveFetchRetry increments the retry counter.
func ObserveFetchRetry(rawURL string) {
	Init()
	fetchRetriesTotal.WithLabelValues(SanitizeSite(rawURL)).Inc()
}

// ObserveProxyRotation increments the proxy rotation counter.
func ObserveProxyRotation() {
	Init()
	proxyRotationsTotal.Inc()
}

// ObserveListingPage records a listing page fetch for a facet
// ("commission" or "ministry").
func ObserveListingPage(facet, status string) {
	Init()
	crawlPagesTotal.WithLabelValues(facet, status).Inc()
}

// ObserveItem records how a listing item was handled.
func ObserveItem(result string) {
	Init()
	crawlItemsTotal.WithLabelValues(result).Inc()
}

// ObserveMinistryMatch records a ministry assignment.
func ObserveMinistryMatch(ministryID string) {
	Init()
	ministryMatchesTotal.WithLabelValues(ministryID).Inc()
}

// ObserveRun records the terminal state of a run.
func ObserveRun(state string, finishedAt time.Time) {
	Init()
	runsTotal.WithLabelValues(state).Inc()
	lastRunTimestampSeconds.Set(float64(finishedAt.Unix()))
}

// SetSnapshotItems publishes per-stage record counts of the snapshot.
func SetSnapshotItems(byStage map[string]int) {
	Init()
	snapshotItems.Reset()
	for stage, n := range byStage {
		snapshotItems.WithLabelValues(stage).Set(float64(n))
	}
}
