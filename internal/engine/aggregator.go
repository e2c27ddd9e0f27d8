package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/IshaanNene/NoticeGoat/internal/types"
)

// RunResult is the combined, unranked output of one pass over all sources.
type RunResult struct {
	RunID    string
	Notices  []types.Notice
	Errors   []string
	Sources  []SourceResult
	Duration time.Duration
}

// RunAll scrapes every source concurrently and waits for all of them.
// Each source writes only its own result slot, and a panic in one source
// becomes an error entry for that source alone. Results are combined in
// catalog order, so output does not depend on completion order.
func (e *Engine) RunAll(ctx context.Context) RunResult {
	start := time.Now()
	runID := uuid.NewString()
	logger := e.logger.With("run_id", runID)

	if e.cfg.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.RunTimeout)
		defer cancel()
	}

	results := make([]SourceResult, len(e.sources))

	// A plain Group, not WithContext: one source failing must not cancel
	// the others.
	var g errgroup.Group
	if e.cfg.MaxParallel > 0 {
		g.SetLimit(e.cfg.MaxParallel)
	}

	for i, src := range e.sources {
		g.Go(func() error {
			e.metrics.ActiveSources.Add(1)
			defer e.metrics.ActiveSources.Add(-1)
			defer func() {
				if r := recover(); r != nil {
					logger.Error("source panicked", "source", src.Name, "panic", r)
					results[i] = SourceResult{
						Source: src.Name,
						Errors: []error{&types.SourceError{Source: src.Name, Err: fmt.Errorf("panic: %v", r)}},
					}
				}
			}()
			results[i] = e.ScrapeSource(ctx, src)
			return nil
		})
	}
	_ = g.Wait()

	run := RunResult{RunID: runID, Sources: results}
	for _, r := range results {
		e.metrics.SourcesTotal.Add(1)
		if r.Failed() {
			e.metrics.SourcesFailed.Add(1)
		}
		run.Notices = append(run.Notices, r.Notices...)
		for _, err := range r.Errors {
			run.Errors = append(run.Errors, err.Error())
		}
	}
	run.Duration = time.Since(start)

	e.metrics.RunsTotal.Add(1)
	e.metrics.RunDurationMs.Store(run.Duration.Milliseconds())

	logger.Info("run complete",
		"sources", len(results),
		"notices", len(run.Notices),
		"errors", len(run.Errors),
		"duration", run.Duration,
	)
	return run
}

// Feed runs every source and builds the ranked feed for the query.
func (e *Engine) Feed(ctx context.Context, q Query) types.FeedResult {
	run := e.RunAll(ctx)
	return Build(run.Notices, run.Errors, q, time.Now().UTC(), run.RunID)
}
