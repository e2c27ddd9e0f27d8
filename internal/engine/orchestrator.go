package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/IshaanNene/NoticeGoat/internal/fetcher"
	"github.com/IshaanNene/NoticeGoat/internal/parser"
	"github.com/IshaanNene/NoticeGoat/internal/types"
)

// SourceResult is everything one source produced in a run.
type SourceResult struct {
	Source   string
	Notices  []types.Notice
	Errors   []error
	Pages    int
	Duration time.Duration
}

// Failed reports whether the source produced nothing but errors.
func (r *SourceResult) Failed() bool {
	return len(r.Notices) == 0 && len(r.Errors) > 0
}

// ScrapeSource walks a source's pages in order. It never fails as a whole:
// each page failure is recorded and the next page is tried.
func (e *Engine) ScrapeSource(ctx context.Context, src types.Source) SourceResult {
	start := time.Now()
	res := SourceResult{Source: src.Name}
	logger := e.logger.With("source", src.Name)

	f, ok := e.fetchers[src.Fetcher]
	if !ok {
		res.Errors = append(res.Errors, &types.SourceError{
			Source: src.Name,
			Err:    fmt.Errorf("%w: %q", types.ErrNoFetcher, src.Fetcher),
		})
		res.Duration = time.Since(start)
		return res
	}

	for _, page := range src.Pages {
		res.Pages++
		notices, err := e.scrapePage(ctx, f, src, page)
		if err != nil {
			e.metrics.PagesFailed.Add(1)
			logger.Warn("page failed", "url", page.URL, "error", err)
			res.Errors = append(res.Errors, &types.PageError{Source: src.Name, Page: page.URL, Err: err})
			continue
		}
		res.Notices = append(res.Notices, notices...)

		if src.Mode == types.ModeFirstWorking && len(notices) > 0 {
			// Probing misses before the working page are expected.
			res.Errors = nil
			break
		}
	}

	res.Duration = time.Since(start)
	logger.Info("source scraped",
		"pages", res.Pages,
		"notices", len(res.Notices),
		"errors", len(res.Errors),
		"duration", res.Duration,
	)
	return res
}

// scrapePage fetches, extracts and normalizes one page. A panic anywhere in
// extraction is converted to an error for this page only.
func (e *Engine) scrapePage(ctx context.Context, f fetcher.Fetcher, src types.Source, spec types.PageSpec) (notices []types.Notice, err error) {
	defer func() {
		if r := recover(); r != nil {
			notices = nil
			err = fmt.Errorf("panic while parsing: %v", r)
		}
	}()

	page, err := f.Fetch(ctx, spec.URL)
	if err != nil {
		return nil, err
	}
	e.metrics.PagesFetched.Add(1)
	e.metrics.BytesDownloaded.Add(int64(len(page.Body)))

	in := &parser.Input{
		Page:     page,
		Source:   src.Name,
		LinkBase: src.LinkBaseFor(page),
		Channel:  spec.Channel,
	}
	cands, _, err := e.parsers.Extract(in, src.StrategiesFor(spec))
	if err != nil {
		return nil, err
	}
	if len(cands) == 0 {
		e.metrics.PagesEmpty.Add(1)
		return nil, nil
	}
	e.metrics.CandidatesFound.Add(int64(len(cands)))

	notices = e.pipeline.Normalize(cands)
	e.metrics.NoticesKept.Add(int64(len(notices)))
	return notices, nil
}
