package fetcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/IshaanNene/NoticeGoat/internal/config"
	"github.com/IshaanNene/NoticeGoat/internal/types"
)

// BrowserFetcher implements Fetcher using a headless browser via Rod, for
// sources that render their notice lists client-side. Chromium is launched
// on the first Fetch, so constructing one is cheap.
type BrowserFetcher struct {
	cfg      config.BrowserConfig
	fetchCfg config.FetcherConfig
	logger   *slog.Logger

	mu      sync.Mutex
	browser *rod.Browser
	slots   chan struct{}
}

// NewBrowserFetcher creates a new headless browser fetcher.
func NewBrowserFetcher(cfg config.BrowserConfig, fetchCfg config.FetcherConfig, logger *slog.Logger) *BrowserFetcher {
	maxPages := cfg.MaxPages
	if maxPages < 1 {
		maxPages = 1
	}
	return &BrowserFetcher{
		cfg:      cfg,
		fetchCfg: fetchCfg,
		logger:   logger.With("component", "browser_fetcher"),
		slots:    make(chan struct{}, maxPages),
	}
}

// connect launches and connects to Chromium once.
func (bf *BrowserFetcher) connect() (*rod.Browser, error) {
	bf.mu.Lock()
	defer bf.mu.Unlock()
	if bf.browser != nil {
		return bf.browser, nil
	}

	l := launcher.New().
		Headless(true).
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("no-sandbox").
		Set("disable-blink-features", "AutomationControlled")
	if bf.cfg.WindowSize != "" {
		l = l.Set("window-size", bf.cfg.WindowSize)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}
	bf.browser = browser

	bf.logger.Info("browser fetcher ready",
		"max_pages", cap(bf.slots),
		"stealth", bf.cfg.Stealth,
	)
	return browser, nil
}

// Fetch navigates to rawURL and returns the rendered HTML.
func (bf *BrowserFetcher) Fetch(ctx context.Context, rawURL string) (*types.Page, error) {
	parent := ctx
	if bf.fetchCfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, bf.fetchCfg.Timeout)
		defer cancel()
	}

	select {
	case bf.slots <- struct{}{}:
		defer func() { <-bf.slots }()
	case <-ctx.Done():
		return nil, bf.wrapErr(parent, ctx, rawURL, ctx.Err())
	}

	browser, err := bf.connect()
	if err != nil {
		return nil, &types.FetchError{URL: rawURL, Err: err}
	}

	start := time.Now()

	var page *rod.Page
	if bf.cfg.Stealth {
		page, err = stealth.Page(browser)
	} else {
		page, err = browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	}
	if err != nil {
		return nil, &types.FetchError{URL: rawURL, Err: fmt.Errorf("open page: %w", err)}
	}
	defer func() { _ = page.Close() }()

	page = page.Context(ctx)

	if len(bf.fetchCfg.UserAgents) > 0 {
		err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
			UserAgent:      bf.fetchCfg.UserAgents[0],
			AcceptLanguage: bf.fetchCfg.AcceptLanguage,
		})
		if err != nil {
			bf.logger.Warn("failed to set user agent", "error", err)
		}
	}

	if err := page.Navigate(rawURL); err != nil {
		return nil, bf.wrapErr(parent, ctx, rawURL, err)
	}

	if bf.cfg.WaitStable > 0 {
		if err := page.WaitStable(bf.cfg.WaitStable); err != nil {
			bf.logger.Warn("page stability timeout, continuing", "url", rawURL, "error", err)
		}
	}

	html, err := page.HTML()
	if err != nil {
		return nil, bf.wrapErr(parent, ctx, rawURL, err)
	}

	if len(html) < bf.fetchCfg.MinBodySize {
		return nil, &types.FetchError{
			URL: rawURL,
			Err: fmt.Errorf("%w (%d bytes)", types.ErrEmptyResponse, len(html)),
		}
	}

	finalURL := rawURL
	if info, err := page.Info(); err == nil && info != nil {
		finalURL = info.URL
	}

	duration := time.Since(start)
	bf.logger.Debug("browser fetch complete",
		"url", rawURL,
		"final_url", finalURL,
		"size", len(html),
		"duration", duration,
	)

	return types.NewBrowserPage(rawURL, finalURL, []byte(html), duration), nil
}

// Close shuts down the browser if it was ever launched.
func (bf *BrowserFetcher) Close() error {
	bf.mu.Lock()
	defer bf.mu.Unlock()
	if bf.browser == nil {
		return nil
	}
	err := bf.browser.Close()
	bf.browser = nil
	return err
}

// Type returns the fetcher type identifier.
func (bf *BrowserFetcher) Type() string {
	return "browser"
}

func (bf *BrowserFetcher) wrapErr(parent, ctx context.Context, rawURL string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		err = deadlineErr(parent, bf.fetchCfg.Timeout)
	}
	return &types.FetchError{URL: rawURL, Err: err}
}
