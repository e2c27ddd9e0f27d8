// Package fetcher retrieves source pages over HTTP or through a headless
// browser.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/IshaanNene/NoticeGoat/internal/types"
)

// Fetcher is the interface for all page fetcher implementations.
type Fetcher interface {
	// Fetch retrieves the page at rawURL. Implementations enforce their own
	// per-call timeout and return a *types.FetchError on failure.
	Fetch(ctx context.Context, rawURL string) (*types.Page, error)

	// Close releases any resources held by the fetcher.
	Close() error

	// Type returns the fetcher type identifier.
	Type() string
}

// deadlineErr names the deadline that ended a fetch. parent is the caller's
// context before the per-fetch timeout was applied.
func deadlineErr(parent context.Context, timeout time.Duration) error {
	if errors.Is(parent.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: run deadline exceeded", types.ErrTimeout)
	}
	return fmt.Errorf("%w after %s", types.ErrTimeout, timeout)
}
