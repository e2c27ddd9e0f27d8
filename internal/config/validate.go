package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be 1-65535, got %d", cfg.Server.Port)
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be > 0")
	}

	if cfg.API.MaxErrors < 0 {
		return fmt.Errorf("api.max_errors must be >= 0, got %d", cfg.API.MaxErrors)
	}

	if cfg.Fetcher.Timeout < time.Second || cfg.Fetcher.Timeout > time.Minute {
		return fmt.Errorf("fetcher.timeout must be between 1s and 60s, got %s", cfg.Fetcher.Timeout)
	}
	if cfg.Fetcher.MaxBodySize <= 0 {
		return fmt.Errorf("fetcher.max_body_size must be > 0")
	}
	if cfg.Fetcher.MinBodySize < 0 {
		return fmt.Errorf("fetcher.min_body_size must be >= 0")
	}
	if int64(cfg.Fetcher.MinBodySize) > cfg.Fetcher.MaxBodySize {
		return fmt.Errorf("fetcher.min_body_size must not exceed fetcher.max_body_size")
	}
	if cfg.Fetcher.MaxRedirects < 0 {
		return fmt.Errorf("fetcher.max_redirects must be >= 0")
	}
	if r := cfg.Fetcher.ProxyRotation; r != "round_robin" && r != "random" {
		return fmt.Errorf("fetcher.proxy_rotation must be 'round_robin' or 'random', got %q", r)
	}
	for _, p := range cfg.Fetcher.Proxies {
		if err := ValidateURL(p); err != nil {
			return fmt.Errorf("fetcher.proxies: %w", err)
		}
	}

	if cfg.Browser.MaxPages < 1 {
		return fmt.Errorf("browser.max_pages must be >= 1, got %d", cfg.Browser.MaxPages)
	}

	if cfg.Aggregator.MaxParallel < 0 {
		return fmt.Errorf("aggregator.max_parallel must be >= 0, got %d", cfg.Aggregator.MaxParallel)
	}
	if cfg.Aggregator.RunTimeout < 0 {
		return fmt.Errorf("aggregator.run_timeout must be >= 0")
	}

	validStorageTypes := map[string]bool{
		"json": true, "jsonl": true, "csv": true, "mongo": true,
	}
	for _, t := range strings.Split(cfg.Storage.Type, ",") {
		t = strings.TrimSpace(t)
		if !validStorageTypes[t] {
			return fmt.Errorf("storage.type %q is not supported (valid: json, jsonl, csv, mongo)", t)
		}
		if t == "mongo" && cfg.Storage.MongoURI == "" {
			return fmt.Errorf("storage.mongo_uri is required for mongo storage")
		}
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", cfg.Logging.Format)
	}

	if len(cfg.Sources) == 0 {
		return fmt.Errorf("at least one source must be configured")
	}
	seen := make(map[string]bool, len(cfg.Sources))
	for i, sc := range cfg.Sources {
		if err := ValidateSource(sc); err != nil {
			return fmt.Errorf("sources[%d]: %w", i, err)
		}
		if seen[sc.Name] {
			return fmt.Errorf("sources[%d]: duplicate source name %q", i, sc.Name)
		}
		seen[sc.Name] = true
	}

	return nil
}

// ValidateSource checks one source descriptor.
func ValidateSource(sc SourceConfig) error {
	if err := validate.Struct(sc); err != nil {
		return fmt.Errorf("source %q: %w", sc.Name, err)
	}
	return ValidateURL(sc.BaseURL)
}

// ValidateURL checks if a URL string is valid for fetching.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}
