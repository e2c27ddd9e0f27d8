package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for NoticeGoat.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"     yaml:"server"`
	API        APIConfig        `mapstructure:"api"        yaml:"api"`
	Fetcher    FetcherConfig    `mapstructure:"fetcher"    yaml:"fetcher"`
	Browser    BrowserConfig    `mapstructure:"browser"    yaml:"browser"`
	Aggregator AggregatorConfig `mapstructure:"aggregator" yaml:"aggregator"`
	Storage    StorageConfig    `mapstructure:"storage"    yaml:"storage"`
	Logging    LoggingConfig    `mapstructure:"logging"    yaml:"logging"`
	Metrics    MetricsConfig    `mapstructure:"metrics"    yaml:"metrics"`
	Sources    []SourceConfig   `mapstructure:"sources"    yaml:"sources"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host            string        `mapstructure:"host"             yaml:"host"`
	Port            int           `mapstructure:"port"             yaml:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// APIConfig controls the feed endpoint.
type APIConfig struct {
	CacheControl string `mapstructure:"cache_control" yaml:"cache_control"`
	AllowOrigin  string `mapstructure:"allow_origin"  yaml:"allow_origin"`
	MaxErrors    int    `mapstructure:"max_errors"    yaml:"max_errors"`
}

// FetcherConfig controls page fetching.
type FetcherConfig struct {
	Timeout         time.Duration `mapstructure:"timeout"           yaml:"timeout"`
	UserAgents      []string      `mapstructure:"user_agents"       yaml:"user_agents"`
	AcceptLanguage  string        `mapstructure:"accept_language"   yaml:"accept_language"`
	FollowRedirects bool          `mapstructure:"follow_redirects"  yaml:"follow_redirects"`
	MaxRedirects    int           `mapstructure:"max_redirects"     yaml:"max_redirects"`
	MinBodySize     int           `mapstructure:"min_body_size"     yaml:"min_body_size"`
	MaxBodySize     int64         `mapstructure:"max_body_size"     yaml:"max_body_size"`
	TLSInsecure     bool          `mapstructure:"tls_insecure"      yaml:"tls_insecure"`
	IdleConnTimeout time.Duration `mapstructure:"idle_conn_timeout" yaml:"idle_conn_timeout"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"    yaml:"max_idle_conns"`

	// Proxies are rotated per request when set. Rotation is "round_robin"
	// or "random".
	Proxies       []string `mapstructure:"proxies"        yaml:"proxies,omitempty"`
	ProxyRotation string   `mapstructure:"proxy_rotation" yaml:"proxy_rotation"`
}

// BrowserConfig controls the headless browser used by sources whose
// fetcher is "browser".
type BrowserConfig struct {
	Stealth    bool          `mapstructure:"stealth"     yaml:"stealth"`
	MaxPages   int           `mapstructure:"max_pages"   yaml:"max_pages"`
	WindowSize string        `mapstructure:"window_size" yaml:"window_size"`
	WaitStable time.Duration `mapstructure:"wait_stable" yaml:"wait_stable"`
}

// AggregatorConfig controls the per-run fan-out.
type AggregatorConfig struct {
	// MaxParallel caps concurrently scraped sources. 0 means no cap.
	MaxParallel int `mapstructure:"max_parallel" yaml:"max_parallel"`

	// RunTimeout bounds a whole run on top of the per-fetch timeout.
	// 0 disables it.
	RunTimeout time.Duration `mapstructure:"run_timeout" yaml:"run_timeout"`
}

// StorageConfig controls snapshot export.
type StorageConfig struct {
	Type       string `mapstructure:"type"        yaml:"type"`
	OutputPath string `mapstructure:"output_path" yaml:"output_path"`
	MongoURI   string `mapstructure:"mongo_uri"   yaml:"mongo_uri"`
	Database   string `mapstructure:"database"    yaml:"database"`
	Collection string `mapstructure:"collection"  yaml:"collection"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	Output string `mapstructure:"output" yaml:"output"`
}

// MetricsConfig controls Prometheus metrics.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path"    yaml:"path"`
}

// DefaultConfig returns a Config with sensible defaults and the built-in
// source catalog.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ShutdownTimeout: 10 * time.Second,
		},
		API: APIConfig{
			CacheControl: "s-maxage=900, stale-while-revalidate=300",
			AllowOrigin:  "*",
			MaxErrors:    20,
		},
		Fetcher: FetcherConfig{
			Timeout: 12 * time.Second,
			UserAgents: []string{
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
				"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
			},
			AcceptLanguage:  "en-IN,en;q=0.9",
			FollowRedirects: true,
			MaxRedirects:    10,
			MinBodySize:     500,
			MaxBodySize:     10 * 1024 * 1024, // 10MB
			IdleConnTimeout: 90 * time.Second,
			MaxIdleConns:    100,
			ProxyRotation:   "round_robin",
		},
		Browser: BrowserConfig{
			Stealth:    true,
			MaxPages:   4,
			WindowSize: "1366,768",
			WaitStable: 300 * time.Millisecond,
		},
		Aggregator: AggregatorConfig{
			MaxParallel: 0,
			RunTimeout:  0,
		},
		Storage: StorageConfig{
			Type:       "json",
			OutputPath: "./output",
			Database:   "noticegoat",
			Collection: "feeds",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Sources: DefaultSources(),
	}
}
