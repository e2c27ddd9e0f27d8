// Package pipeline normalizes raw candidates into feed notices through a
// chain of middleware.
package pipeline

import (
	"log/slog"

	"github.com/IshaanNene/NoticeGoat/internal/types"
)

// Middleware processes a notice and returns the (possibly modified) notice.
// Return nil to drop the notice from the pipeline.
type Middleware interface {
	// Name returns the middleware's identifier.
	Name() string

	// Process transforms a notice. Return nil to drop it.
	Process(n *types.Notice) (*types.Notice, error)
}

// Pipeline chains middleware processors together.
type Pipeline struct {
	middlewares []Middleware
	logger      *slog.Logger
}

// New creates an empty Pipeline.
func New(logger *slog.Logger) *Pipeline {
	return &Pipeline{
		logger: logger.With("component", "pipeline"),
	}
}

// Default creates the standard normalization chain: sanitize, require a
// title and URL, then derive channel, date and categories.
func Default(logger *slog.Logger) *Pipeline {
	p := New(logger)
	p.Use(NewHTMLSanitizeMiddleware())
	p.Use(&RequiredFieldsMiddleware{})
	p.Use(&ClassifyMiddleware{})
	p.Use(&DateMiddleware{})
	p.Use(&CategoryMiddleware{})
	return p
}

// Use adds a middleware to the pipeline chain.
func (p *Pipeline) Use(mw Middleware) {
	p.middlewares = append(p.middlewares, mw)
	p.logger.Debug("middleware added", "name", mw.Name(), "position", len(p.middlewares))
}

// Process runs the notice through all middleware in order.
func (p *Pipeline) Process(n *types.Notice) (*types.Notice, error) {
	current := n

	for _, mw := range p.middlewares {
		result, err := mw.Process(current)
		if err != nil {
			return nil, &types.PipelineError{
				Stage:  mw.Name(),
				Notice: current,
				Err:    err,
			}
		}
		if result == nil {
			p.logger.Debug("notice dropped", "stage", mw.Name(), "url", n.URL)
			return nil, nil
		}
		current = result
	}

	return current, nil
}

// Normalize converts candidates to notices, dropping any the chain rejects.
// A middleware error drops only the offending candidate.
func (p *Pipeline) Normalize(cands []types.Candidate) []types.Notice {
	out := make([]types.Notice, 0, len(cands))
	for _, c := range cands {
		n, err := p.Process(FromCandidate(c))
		if err != nil {
			p.logger.Warn("normalize failed", "source", c.Source, "url", c.URL, "error", err)
			continue
		}
		if n != nil {
			out = append(out, *n)
		}
	}
	return out
}

// Len returns the number of middleware in the chain.
func (p *Pipeline) Len() int {
	return len(p.middlewares)
}

// FromCandidate copies a candidate into an unnormalized notice. The
// candidate's channel hint becomes the notice's provisional channel.
func FromCandidate(c types.Candidate) *types.Notice {
	var cats []string
	if len(c.Categories) > 0 {
		cats = append(cats, c.Categories...)
	}
	return &types.Notice{
		Title:      c.Title,
		URL:        c.URL,
		PDF:        c.PDF,
		View:       c.View,
		Channel:    c.Channel,
		DateText:   c.DateText,
		Categories: cats,
		Size:       c.Size,
		Source:     c.Source,
	}
}
