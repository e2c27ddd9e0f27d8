// Package engine scrapes configured sources concurrently and turns the
// combined candidates into a ranked, de-duplicated feed.
package engine

import (
	"log/slog"

	"github.com/IshaanNene/NoticeGoat/internal/config"
	"github.com/IshaanNene/NoticeGoat/internal/fetcher"
	"github.com/IshaanNene/NoticeGoat/internal/observability"
	"github.com/IshaanNene/NoticeGoat/internal/parser"
	"github.com/IshaanNene/NoticeGoat/internal/pipeline"
	"github.com/IshaanNene/NoticeGoat/internal/types"
)

// Engine owns the source catalog and the collaborators used to scrape it.
// It holds no per-run state, so concurrent runs are independent.
type Engine struct {
	cfg      config.AggregatorConfig
	sources  []types.Source
	fetchers map[string]fetcher.Fetcher
	parsers  *parser.Registry
	pipeline *pipeline.Pipeline
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithFetcher registers a fetcher under its type name.
func WithFetcher(f fetcher.Fetcher) Option {
	return func(e *Engine) { e.fetchers[f.Type()] = f }
}

// WithRegistry replaces the extractor registry.
func WithRegistry(r *parser.Registry) Option {
	return func(e *Engine) { e.parsers = r }
}

// WithPipeline replaces the normalization pipeline.
func WithPipeline(p *pipeline.Pipeline) Option {
	return func(e *Engine) { e.pipeline = p }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// New creates an Engine over the given sources.
func New(cfg config.AggregatorConfig, sources []types.Source, logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		cfg:      cfg,
		sources:  sources,
		fetchers: make(map[string]fetcher.Fetcher),
		logger:   logger.With("component", "engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.parsers == nil {
		e.parsers = parser.NewRegistry(logger)
	}
	if e.pipeline == nil {
		e.pipeline = pipeline.Default(logger)
	}
	if e.metrics == nil {
		e.metrics = observability.NewMetrics(logger)
	}
	return e
}

// Sources returns the configured sources.
func (e *Engine) Sources() []types.Source {
	return e.sources
}

// Metrics returns the metrics sink.
func (e *Engine) Metrics() *observability.Metrics {
	return e.metrics
}

// Close closes every registered fetcher.
func (e *Engine) Close() error {
	var firstErr error
	for _, f := range e.fetchers {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
