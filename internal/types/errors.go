package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	ErrTimeout       = errors.New("request timed out")
	ErrHTTPStatus    = errors.New("unexpected HTTP status")
	ErrEmptyResponse = errors.New("empty response body")
	ErrBodyTooLarge  = errors.New("response body too large")
	ErrInvalidURL    = errors.New("invalid URL")
	ErrNoFetcher     = errors.New("no fetcher available for source")
	ErrNoPages       = errors.New("source has no pages")
)

// FetchError wraps errors that occur during fetching.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch %s (status %d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError wraps errors that occur while extracting candidates from a page.
type ParseError struct {
	URL      string
	Strategy Strategy
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s (strategy=%s): %v", e.URL, e.Strategy, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// PageError is a failure confined to one page of one source. The source
// keeps going with its remaining pages.
type PageError struct {
	Source string
	Page   string
	Err    error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Source, e.Page, e.Err)
}

func (e *PageError) Unwrap() error { return e.Err }

// SourceError is a failure of a whole source, e.g. a recovered panic in its
// worker. Other sources are unaffected.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// StorageError wraps errors that occur during storage/export.
type StorageError struct {
	Backend string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error (%s): %v", e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// PipelineError wraps errors that occur in the normalization pipeline.
type PipelineError struct {
	Stage  string
	Notice *Notice
	Err    error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline error at stage %q: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }
