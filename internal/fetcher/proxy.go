package fetcher

import (
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"sync/atomic"
)

// ProxyPool rotates outbound requests across a fixed set of proxies.
type ProxyPool struct {
	proxies  []*url.URL
	rotation string
	index    atomic.Int64
	logger   *slog.Logger
}

// NewProxyPool creates a pool from proxy URLs. Unparseable URLs are
// skipped with a warning.
func NewProxyPool(rawURLs []string, rotation string, logger *slog.Logger) *ProxyPool {
	pp := &ProxyPool{
		proxies:  make([]*url.URL, 0, len(rawURLs)),
		rotation: rotation,
		logger:   logger.With("component", "proxy_pool"),
	}

	for _, rawURL := range rawURLs {
		u, err := url.Parse(rawURL)
		if err != nil || u.Host == "" {
			pp.logger.Warn("invalid proxy URL", "url", rawURL, "error", err)
			continue
		}
		pp.proxies = append(pp.proxies, u)
	}

	pp.logger.Info("proxy pool initialized", "count", len(pp.proxies), "rotation", rotation)
	return pp
}

// ProxyFunc returns an http.Transport-compatible proxy function.
func (pp *ProxyPool) ProxyFunc() func(*http.Request) (*url.URL, error) {
	return func(req *http.Request) (*url.URL, error) {
		return pp.Next(), nil
	}
}

// Next returns the next proxy, or nil for a direct connection when the
// pool is empty.
func (pp *ProxyPool) Next() *url.URL {
	if len(pp.proxies) == 0 {
		return nil
	}
	switch pp.rotation {
	case "random":
		return pp.proxies[rand.Intn(len(pp.proxies))]
	default: // round_robin
		idx := (pp.index.Add(1) - 1) % int64(len(pp.proxies))
		return pp.proxies[idx]
	}
}

// Count returns the number of usable proxies.
func (pp *ProxyPool) Count() int {
	return len(pp.proxies)
}
