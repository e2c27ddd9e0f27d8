package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/IshaanNene/NoticeGoat/internal/config"
	"github.com/IshaanNene/NoticeGoat/internal/engine"
	"github.com/IshaanNene/NoticeGoat/internal/fetcher"
	"github.com/IshaanNene/NoticeGoat/internal/observability"
	"github.com/IshaanNene/NoticeGoat/internal/schemas"
	"github.com/IshaanNene/NoticeGoat/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

type stubFeeds struct {
	result  types.FeedResult
	lastQ   engine.Query
	panicky bool
}

func (s *stubFeeds) Feed(_ context.Context, q engine.Query) types.FeedResult {
	if s.panicky {
		panic("source table corrupted")
	}
	s.lastQ = q
	return s.result
}

func (s *stubFeeds) Sources() []types.Source {
	return []types.Source{{
		Name:       "SSC",
		BaseURL:    "https://ssc.gov.in",
		Fetcher:    "http",
		Mode:       types.ModeFirstWorking,
		Strategies: []types.Strategy{types.StrategyPDFLinks},
		Pages:      []types.PageSpec{{URL: "https://ssc.gov.in/notice-board"}},
	}}
}

func newTestServer(t *testing.T, feeds FeedBuilder) (*httptest.Server, *observability.Metrics) {
	t.Helper()
	cfg := config.DefaultConfig()
	metrics := observability.NewMetrics(testLogger)
	srv := httptest.NewServer(NewServer(cfg, feeds, metrics, testLogger).Handler())
	t.Cleanup(srv.Close)
	return srv, metrics
}

func getJSON(t *testing.T, url string) (*http.Response, map[string]any, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}

	var out map[string]any
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode %s: %v", body, err)
	}
	return resp, out, body
}

func TestFeedEndpointHeadersAndShape(t *testing.T) {
	feeds := &stubFeeds{result: types.FeedResult{
		RunID:     "run-1",
		UpdatedAt: time.Date(2024, time.August, 5, 10, 0, 0, 0, time.UTC),
		Count:     1,
		Items: []types.Notice{{
			Title: "SSC GD Constable recruitment", URL: "https://ssc.gov.in/gd.pdf",
			Channel: types.ChannelJobs, Categories: []string{"GD"}, Source: "SSC",
		}},
		Errors: []string{"Adda247: https://adda247.com/jobs/: timeout"},
	}}
	srv, metrics := newTestServer(t, feeds)

	for _, path := range []string{"/api/notices", "/api/coach"} {
		t.Run(path, func(t *testing.T) {
			resp, body, raw := getJSON(t, srv.URL+path)

			if resp.StatusCode != http.StatusOK {
				t.Errorf("expected 200, got %d", resp.StatusCode)
			}
			if cc := resp.Header.Get("Cache-Control"); cc != "s-maxage=900, stale-while-revalidate=300" {
				t.Errorf("unexpected Cache-Control %q", cc)
			}
			if o := resp.Header.Get("Access-Control-Allow-Origin"); o != "*" {
				t.Errorf("unexpected Access-Control-Allow-Origin %q", o)
			}
			if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "application/json") {
				t.Errorf("unexpected Content-Type %q", ct)
			}

			if body["ok"] != true {
				t.Errorf("expected ok=true, got %v", body["ok"])
			}
			if body["count"] != float64(1) {
				t.Errorf("expected count 1, got %v", body["count"])
			}
			if body["updatedAt"] != "2024-08-05T10:00:00Z" {
				t.Errorf("unexpected updatedAt %v", body["updatedAt"])
			}
			if _, ok := body["errors"]; ok {
				t.Error("errors are only shown with debug=1")
			}
			if err := schemas.ValidateFeedJSON(raw); err != nil {
				t.Errorf("feed does not match schema: %v", err)
			}
		})
	}
	if got := metrics.FeedRequests.Load(); got != 2 {
		t.Errorf("expected 2 feed requests, got %d", got)
	}
}

func TestFeedEndpointQueryParsing(t *testing.T) {
	feeds := &stubFeeds{}
	srv, _ := newTestServer(t, feeds)

	resp, body, _ := getJSON(t, srv.URL+"/api/notices?only=jobs,Result&source=adda,%20ssc&limit=5")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if want := []types.Channel{types.ChannelJobs, types.ChannelResult}; !reflect.DeepEqual(feeds.lastQ.Channels, want) {
		t.Errorf("channels: got %v, want %v", feeds.lastQ.Channels, want)
	}
	if want := []string{"adda", "ssc"}; !reflect.DeepEqual(feeds.lastQ.Sources, want) {
		t.Errorf("sources: got %v, want %v", feeds.lastQ.Sources, want)
	}
	if feeds.lastQ.Limit != 5 {
		t.Errorf("expected limit 5, got %d", feeds.lastQ.Limit)
	}

	items, ok := body["items"].([]any)
	if !ok {
		t.Fatalf("items should be an array even when empty, got %v", body["items"])
	}
	if len(items) != 0 {
		t.Errorf("expected no items, got %d", len(items))
	}
}

func TestParseLimit(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 0},
		{"10", 10},
		{"0", 0},
		{"-3", 0},
		{"abc", 0},
		{"2.5", 0},
	}
	for _, tt := range tests {
		if got := ParseLimit(tt.raw); got != tt.want {
			t.Errorf("ParseLimit(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestFeedEndpointDebugCapsErrors(t *testing.T) {
	var errs []string
	for i := range 30 {
		errs = append(errs, fmt.Sprintf("S%d: page: boom", i))
	}
	feeds := &stubFeeds{result: types.FeedResult{UpdatedAt: time.Now(), Errors: errs}}
	srv, _ := newTestServer(t, feeds)

	_, body, _ := getJSON(t, srv.URL+"/api/notices?debug=1")
	got, ok := body["errors"].([]any)
	if !ok {
		t.Fatalf("expected errors array, got %v", body["errors"])
	}
	if len(got) != 20 {
		t.Errorf("expected 20 errors, got %d", len(got))
	}
	if got[0] != "S0: page: boom" {
		t.Errorf("unexpected first error %v", got[0])
	}
}

func TestFeedEndpointPanicBecomesFailureBody(t *testing.T) {
	srv, metrics := newTestServer(t, &stubFeeds{panicky: true})

	resp, body, _ := getJSON(t, srv.URL+"/api/notices")
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", resp.StatusCode)
	}
	if body["ok"] != false {
		t.Errorf("expected ok=false, got %v", body["ok"])
	}
	if body["error"] != "source table corrupted" {
		t.Errorf("unexpected error %v", body["error"])
	}
	if items, ok := body["items"].([]any); !ok || len(items) != 0 {
		t.Errorf("expected empty items array, got %v", body["items"])
	}
	if got := metrics.FeedErrors.Load(); got != 1 {
		t.Errorf("expected 1 feed error, got %d", got)
	}
}

func TestHealthAndSources(t *testing.T) {
	srv, _ := newTestServer(t, &stubFeeds{})

	resp, body, _ := getJSON(t, srv.URL+"/api/health")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if body["status"] != "ok" {
		t.Errorf("unexpected status %v", body["status"])
	}

	resp, err := http.Get(srv.URL + "/api/sources")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var sources []sourceInfo
	if err := json.NewDecoder(resp.Body).Decode(&sources); err != nil {
		t.Fatalf("decode sources: %v", err)
	}
	if len(sources) != 1 {
		t.Fatalf("expected 1 source, got %d", len(sources))
	}
	if sources[0].Name != "SSC" || sources[0].Mode != types.ModeFirstWorking {
		t.Errorf("unexpected source %+v", sources[0])
	}
	if sources[0].Pages[0].URL != "https://ssc.gov.in/notice-board" {
		t.Errorf("unexpected page %q", sources[0].Pages[0].URL)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, &stubFeeds{})

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), "noticegoat_feed_requests_total") {
		t.Error("metrics output missing feed request counter")
	}
}

func TestUnknownMethodRejected(t *testing.T) {
	srv, _ := newTestServer(t, &stubFeeds{})

	resp, err := http.Post(srv.URL+"/api/notices", "application/json", strings.NewReader("{}"))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", resp.StatusCode)
	}
}

// page renders a WordPress-style listing padded past the minimum body size.
func page(articles ...string) string {
	return "<html><body>" + strings.Join(articles, "") +
		"<!--" + strings.Repeat(" padding", 80) + " --></body></html>"
}

func article(title, href, date string) string {
	out := `<article><h2><a href="` + href + `">` + title + `</a></h2>`
	if date != "" {
		out += `<time datetime="` + date + `"></time>`
	}
	return out + "</article>"
}

func TestFeedEndpointThreeSourcesOneFailing(t *testing.T) {
	var base string
	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		switch r.URL.Path {
		case "/a":
			fmt.Fprint(w, page(
				article("SSC CHSL recruitment 2024 apply online", "/chsl", ""),
				article("SSC MTS admit card released", "/mts", ""),
			))
		case "/b":
			http.Error(w, "maintenance", http.StatusServiceUnavailable)
		case "/c":
			fmt.Fprint(w, page(article("CHSL recruitment notice", base+"/chsl", "2024-07-01")))
		default:
			http.NotFound(w, r)
		}
	}))
	defer site.Close()
	base = site.URL

	cfg := config.DefaultConfig()
	cfg.Fetcher.Timeout = 2 * time.Second

	src := func(name, path string) types.Source {
		return types.Source{
			Name:       name,
			BaseURL:    base,
			Fetcher:    "http",
			Mode:       types.ModeAll,
			Strategies: []types.Strategy{types.StrategyListing},
			Pages:      []types.PageSpec{{URL: base + path, Channel: types.ChannelNews}},
		}
	}
	eng := engine.New(cfg.Aggregator,
		[]types.Source{src("A", "/a"), src("B", "/b"), src("C", "/c")},
		testLogger,
		engine.WithFetcher(fetcher.NewHTTPFetcher(cfg.Fetcher, testLogger)),
	)
	defer eng.Close()

	srv := httptest.NewServer(NewServer(cfg, eng, eng.Metrics(), testLogger).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/notices?debug=1")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if err := schemas.ValidateFeedJSON(raw); err != nil {
		t.Fatalf("feed does not match schema: %v", err)
	}

	var body struct {
		OK     bool           `json:"ok"`
		Count  int            `json:"count"`
		Items  []types.Notice `json:"items"`
		Errors []string       `json:"errors"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatal(err)
	}

	if !body.OK {
		t.Error("expected ok=true")
	}
	if body.Count != 2 || len(body.Items) != 2 {
		t.Fatalf("expected 2 items, got count=%d items=%+v", body.Count, body.Items)
	}

	var chsl *types.Notice
	for i := range body.Items {
		if body.Items[i].URL == base+"/chsl" {
			chsl = &body.Items[i]
		}
	}
	if chsl == nil {
		t.Fatalf("merged item missing: %+v", body.Items)
	}
	if chsl.Source != "A" || chsl.Title != "SSC CHSL recruitment 2024 apply online" {
		t.Errorf("first-seen title and source should win: %+v", chsl)
	}
	if want := time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC); chsl.Date == nil || !chsl.Date.Equal(want) {
		t.Errorf("date should be backfilled to %v, got %v", want, chsl.Date)
	}

	if len(body.Errors) != 1 || !strings.HasPrefix(body.Errors[0], "B: ") {
		t.Errorf("expected one error from B, got %v", body.Errors)
	}

	// Channel priority: jobs before admit-card.
	if body.Items[0].Channel != types.ChannelJobs || body.Items[1].Channel != types.ChannelAdmitCard {
		t.Errorf("unexpected order: %s, %s", body.Items[0].Channel, body.Items[1].Channel)
	}
}
