// Package parser turns fetched pages into raw notice candidates. Each
// extraction strategy encodes one site layout; a page runs an ordered chain
// of them and keeps the first non-empty result.
package parser

import (
	"fmt"
	"log/slog"

	"github.com/IshaanNene/NoticeGoat/internal/types"
)

// Input is one fetched page plus the context an extractor needs.
type Input struct {
	Page   *types.Page
	Source string

	// LinkBase is the URL relative links resolve against.
	LinkBase string

	// Channel is the page's channel hint, possibly unclassified.
	Channel types.Channel
}

// Extractor pulls candidates out of a page. Finding nothing is not an
// error; an error means the page could not be read as this strategy
// expects at all.
type Extractor interface {
	Strategy() types.Strategy
	Extract(in *Input) ([]types.Candidate, error)
}

// Registry maps strategy names to extractors.
type Registry struct {
	extractors map[types.Strategy]Extractor
	logger     *slog.Logger
}

// NewRegistry creates a registry holding every built-in strategy.
func NewRegistry(logger *slog.Logger) *Registry {
	r := &Registry{
		extractors: make(map[types.Strategy]Extractor),
		logger:     logger.With("component", "parser"),
	}
	r.Register(NewListingExtractor())
	r.Register(NewTableExtractor())
	r.Register(NewHeadingsExtractor())
	r.Register(NewPDFLinksExtractor())
	r.Register(NewFeedExtractor())
	return r
}

// Register adds or replaces the extractor for its strategy.
func (r *Registry) Register(e Extractor) {
	r.extractors[e.Strategy()] = e
}

// Get returns the extractor for a strategy.
func (r *Registry) Get(s types.Strategy) (Extractor, bool) {
	e, ok := r.extractors[s]
	return e, ok
}

// Extract runs the strategy chain over one page and returns the candidates
// of the first strategy that yields any, along with that strategy's name.
// It returns an error only if the chain is empty of usable strategies or
// every strategy failed outright.
func (r *Registry) Extract(in *Input, chain []types.Strategy) ([]types.Candidate, types.Strategy, error) {
	if len(chain) == 0 {
		chain = []types.Strategy{types.StrategyListing}
	}

	var lastErr error
	failed := 0
	for _, s := range chain {
		e, ok := r.extractors[s]
		if !ok {
			lastErr = &types.ParseError{URL: in.Page.URL, Strategy: s, Err: fmt.Errorf("unknown strategy")}
			failed++
			continue
		}

		cands, err := e.Extract(in)
		if err != nil {
			r.logger.Debug("strategy failed", "source", in.Source, "url", in.Page.URL, "strategy", s, "error", err)
			lastErr = &types.ParseError{URL: in.Page.URL, Strategy: s, Err: err}
			failed++
			continue
		}
		if len(cands) > 0 {
			r.logger.Debug("strategy matched", "source", in.Source, "url", in.Page.URL, "strategy", s, "count", len(cands))
			return cands, s, nil
		}
	}

	if failed == len(chain) {
		return nil, "", lastErr
	}
	r.logger.Debug("no candidates", "source", in.Source, "url", in.Page.URL)
	return nil, "", nil
}
