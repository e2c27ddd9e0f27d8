// Package api serves the aggregated notice feed over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IshaanNene/NoticeGoat/internal/config"
	"github.com/IshaanNene/NoticeGoat/internal/engine"
	"github.com/IshaanNene/NoticeGoat/internal/observability"
	"github.com/IshaanNene/NoticeGoat/internal/types"
)

// FeedBuilder runs a scrape and builds the ranked feed.
type FeedBuilder interface {
	Feed(ctx context.Context, q engine.Query) types.FeedResult
	Sources() []types.Source
}

// Server provides the JSON feed API.
type Server struct {
	mux     *http.ServeMux
	http    *http.Server
	cfg     *config.Config
	feeds   FeedBuilder
	metrics *observability.Metrics
	logger  *slog.Logger
}

// feedResponse is the 200 body of the feed endpoint.
type feedResponse struct {
	OK bool `json:"ok"`
	types.FeedResult
}

// errorResponse is the 5xx body of the feed endpoint.
type errorResponse struct {
	OK    bool           `json:"ok"`
	Error string         `json:"error"`
	Items []types.Notice `json:"items"`
}

// sourceInfo is one entry of the sources listing.
type sourceInfo struct {
	Name       string           `json:"name"`
	BaseURL    string           `json:"baseUrl"`
	Fetcher    string           `json:"fetcher"`
	Mode       string           `json:"mode"`
	Strategies []types.Strategy `json:"strategies"`
	Pages      []types.PageSpec `json:"pages"`
}

// NewServer creates a new API server.
func NewServer(cfg *config.Config, feeds FeedBuilder, metrics *observability.Metrics, logger *slog.Logger) *Server {
	s := &Server{
		mux:     http.NewServeMux(),
		cfg:     cfg,
		feeds:   feeds,
		metrics: metrics,
		logger:  logger.With("component", "api_server"),
	}
	s.registerRoutes()
	s.http = &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the root handler with panic recovery applied.
func (s *Server) Handler() http.Handler {
	return s.recoverer(s.mux)
}

// Start listens on the configured address and serves until Shutdown.
func (s *Server) Start() error {
	s.logger.Info("API server starting", "addr", s.http.Addr)

	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("api server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("API server shutting down")
	return s.http.Shutdown(ctx)
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	s.mux.HandleFunc("GET /api/sources", s.handleSources)

	// Feed
	s.mux.HandleFunc("GET /api/notices", s.handleFeed)
	s.mux.HandleFunc("GET /api/coach", s.handleFeed)

	if s.cfg.Metrics.Enabled && s.metrics != nil {
		s.mux.Handle("GET "+s.cfg.Metrics.Path, s.metrics)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": config.Version,
	})
}

func (s *Server) handleSources(w http.ResponseWriter, r *http.Request) {
	sources := s.feeds.Sources()
	out := make([]sourceInfo, 0, len(sources))
	for _, src := range sources {
		out = append(out, sourceInfo{
			Name:       src.Name,
			BaseURL:    src.BaseURL,
			Fetcher:    src.Fetcher,
			Mode:       src.Mode,
			Strategies: src.Strategies,
			Pages:      src.Pages,
		})
	}
	s.jsonResponse(w, http.StatusOK, out)
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	if s.metrics != nil {
		s.metrics.FeedRequests.Add(1)
	}
	params := r.URL.Query()
	q := engine.Query{
		Channels: engine.ParseChannels(params.Get("only")),
		Sources:  engine.ParseList(params.Get("source")),
		Limit:    ParseLimit(params.Get("limit")),
	}

	result := s.feeds.Feed(r.Context(), q)
	if result.Items == nil {
		result.Items = []types.Notice{}
	}
	if params.Get("debug") == "1" {
		result.Errors = capErrors(result.Errors, s.cfg.API.MaxErrors)
	} else {
		result.Errors = nil
	}
	if s.metrics != nil {
		s.metrics.NoticesServed.Add(int64(result.Count))
	}

	s.setFeedHeaders(w)
	s.jsonResponse(w, http.StatusOK, feedResponse{OK: true, FeedResult: result})
}

// ParseLimit reads the limit query value. Anything that is not a
// non-negative integer means no limit.
func ParseLimit(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func capErrors(errs []string, limit int) []string {
	if limit > 0 && len(errs) > limit {
		return errs[:limit]
	}
	return errs
}

func (s *Server) setFeedHeaders(w http.ResponseWriter) {
	if cc := s.cfg.API.CacheControl; cc != "" {
		w.Header().Set("Cache-Control", cc)
	}
}

// recoverer turns a panic in any handler into the failure body.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				s.logger.Error("handler panicked", "path", r.URL.Path, "panic", rec)
				if s.metrics != nil {
					s.metrics.FeedErrors.Add(1)
				}
				s.jsonResponse(w, http.StatusInternalServerError, errorResponse{
					OK:    false,
					Error: fmt.Sprint(rec),
					Items: []types.Notice{},
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if origin := s.cfg.API.AllowOrigin; origin != "" {
		w.Header().Set("Access-Control-Allow-Origin", origin)
	}
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Debug("write response", "error", err)
	}
}
