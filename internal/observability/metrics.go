// Package observability exposes run counters in Prometheus text format.
package observability

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
)

// Metrics tracks operational metrics for scrape runs and the feed API.
type Metrics struct {
	// Run metrics
	RunsTotal     atomic.Int64
	RunDurationMs atomic.Int64
	SourcesTotal  atomic.Int64
	SourcesFailed atomic.Int64
	ActiveSources atomic.Int32

	// Page metrics
	PagesFetched    atomic.Int64
	PagesFailed     atomic.Int64
	PagesEmpty      atomic.Int64
	BytesDownloaded atomic.Int64

	// Notice metrics
	CandidatesFound atomic.Int64
	NoticesKept     atomic.Int64
	NoticesServed   atomic.Int64

	// API metrics
	FeedRequests atomic.Int64
	FeedErrors   atomic.Int64

	logger *slog.Logger
}

// NewMetrics creates a new Metrics instance.
func NewMetrics(logger *slog.Logger) *Metrics {
	return &Metrics{
		logger: logger.With("component", "metrics"),
	}
}

type metric struct {
	name  string
	help  string
	kind  string
	value int64
}

func (m *Metrics) collect() []metric {
	return []metric{
		{"noticegoat_runs_total", "Total scrape runs", "counter", m.RunsTotal.Load()},
		{"noticegoat_last_run_duration_ms", "Duration of the last scrape run in milliseconds", "gauge", m.RunDurationMs.Load()},
		{"noticegoat_sources_total", "Total source scrapes attempted", "counter", m.SourcesTotal.Load()},
		{"noticegoat_sources_failed_total", "Total source scrapes that produced no notices and at least one error", "counter", m.SourcesFailed.Load()},
		{"noticegoat_active_sources", "Sources currently being scraped", "gauge", int64(m.ActiveSources.Load())},
		{"noticegoat_pages_fetched_total", "Total pages fetched successfully", "counter", m.PagesFetched.Load()},
		{"noticegoat_pages_failed_total", "Total pages that failed to fetch or parse", "counter", m.PagesFailed.Load()},
		{"noticegoat_pages_empty_total", "Total pages that yielded no candidates", "counter", m.PagesEmpty.Load()},
		{"noticegoat_bytes_downloaded_total", "Total bytes downloaded", "counter", m.BytesDownloaded.Load()},
		{"noticegoat_candidates_found_total", "Total raw candidates extracted", "counter", m.CandidatesFound.Load()},
		{"noticegoat_notices_kept_total", "Total candidates surviving normalization", "counter", m.NoticesKept.Load()},
		{"noticegoat_notices_served_total", "Total notices returned by the feed endpoint", "counter", m.NoticesServed.Load()},
		{"noticegoat_feed_requests_total", "Total feed endpoint requests", "counter", m.FeedRequests.Load()},
		{"noticegoat_feed_errors_total", "Total feed endpoint failures", "counter", m.FeedErrors.Load()},
	}
}

// ServeHTTP serves metrics in Prometheus text exposition format.
func (m *Metrics) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	for _, metric := range m.collect() {
		fmt.Fprintf(w, "# HELP %s %s\n", metric.name, metric.help)
		fmt.Fprintf(w, "# TYPE %s %s\n", metric.name, metric.kind)
		fmt.Fprintf(w, "%s %d\n", metric.name, metric.value)
	}
}

// Snapshot returns all metrics as a map keyed by metric name without the
// namespace prefix.
func (m *Metrics) Snapshot() map[string]int64 {
	out := make(map[string]int64)
	for _, metric := range m.collect() {
		out[metric.name[len("noticegoat_"):]] = metric.value
	}
	return out
}
