package fetcher

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/IshaanNene/NoticeGoat/internal/config"
	"github.com/IshaanNene/NoticeGoat/internal/types"
)

func TestBrowserFetcherLazy(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Browser.MaxPages = 0
	bf := NewBrowserFetcher(cfg.Browser, cfg.Fetcher, testLogger)

	if bf.Type() != "browser" {
		t.Errorf("unexpected type %q", bf.Type())
	}
	if cap(bf.slots) != 1 {
		t.Errorf("max_pages below 1 should give one slot, got %d", cap(bf.slots))
	}
	if bf.browser != nil {
		t.Fatal("constructing should not launch a browser")
	}
	if err := bf.Close(); err != nil {
		t.Errorf("close without launch: %v", err)
	}
	if err := bf.Close(); err != nil {
		t.Errorf("second close: %v", err)
	}
}

// A fetch that never gets a page slot times out without launching Chromium.
func TestBrowserFetcherSlotWait(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Browser.MaxPages = 1

	tests := []struct {
		name       string
		fetchLimit time.Duration
		runLimit   time.Duration
		want       string
	}{
		{"fetch timeout", 100 * time.Millisecond, 0, "after 100ms"},
		{"run deadline", 5 * time.Second, 100 * time.Millisecond, "run deadline exceeded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetchCfg := cfg.Fetcher
			fetchCfg.Timeout = tt.fetchLimit
			bf := NewBrowserFetcher(cfg.Browser, fetchCfg, testLogger)
			bf.slots <- struct{}{}

			ctx := context.Background()
			if tt.runLimit > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, tt.runLimit)
				defer cancel()
			}

			_, err := bf.Fetch(ctx, "https://notices.example/")
			if !errors.Is(err, types.ErrTimeout) {
				t.Fatalf("expected ErrTimeout, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
			if bf.browser != nil {
				t.Error("browser should not have been launched")
			}
		})
	}
}
