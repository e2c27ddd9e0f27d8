package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/IshaanNene/NoticeGoat/internal/types"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := Validate(cfg); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Fetcher.Timeout != 12*time.Second {
		t.Errorf("expected 12s fetch timeout, got %s", cfg.Fetcher.Timeout)
	}
	if cfg.API.MaxErrors != 20 {
		t.Errorf("expected max_errors 20, got %d", cfg.API.MaxErrors)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		substr string
	}{
		{"timeout too small", func(c *Config) { c.Fetcher.Timeout = 500 * time.Millisecond }, "fetcher.timeout"},
		{"timeout too large", func(c *Config) { c.Fetcher.Timeout = 2 * time.Minute }, "fetcher.timeout"},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"bad storage", func(c *Config) { c.Storage.Type = "parquet" }, "storage.type"},
		{"mongo without uri", func(c *Config) { c.Storage.Type = "json,mongo" }, "mongo_uri"},
		{"bad proxy rotation", func(c *Config) { c.Fetcher.ProxyRotation = "sticky" }, "proxy_rotation"},
		{"bad proxy", func(c *Config) { c.Fetcher.Proxies = []string{"socks5://p:1080"} }, "fetcher.proxies"},
		{"no sources", func(c *Config) { c.Sources = nil }, "at least one source"},
		{"duplicate source", func(c *Config) { c.Sources = append(c.Sources, c.Sources[0]) }, "duplicate"},
		{"bad channel", func(c *Config) { c.Sources[0].Pages[0].Channel = "gossip" }, "sources[0]"},
		{"bad strategy", func(c *Config) { c.Sources[0].Strategies = []string{"magic"} }, "sources[0]"},
		{"no pages", func(c *Config) { c.Sources[0].Pages = nil }, "sources[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.substr) {
				t.Errorf("error %q should mention %q", err, tt.substr)
			}
		})
	}
}

func TestBuildResolvesPages(t *testing.T) {
	sc := SourceConfig{
		Name:    "Example",
		BaseURL: "https://example.com/blog/",
		Pages: []PageConfig{
			{URL: "/jobs/", Channel: "jobs"},
			{URL: "category/result", Channel: "RESULT"},
			{URL: "https://other.example.org/x", Strategies: []string{"table"}},
		},
	}
	src, err := sc.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if src.Fetcher != "http" || src.Mode != types.ModeAll {
		t.Errorf("unexpected defaults: fetcher=%q mode=%q", src.Fetcher, src.Mode)
	}
	want := []string{
		"https://example.com/jobs/",
		"https://example.com/blog/category/result",
		"https://other.example.org/x",
	}
	for i, w := range want {
		if src.Pages[i].URL != w {
			t.Errorf("page %d: got %q, want %q", i, src.Pages[i].URL, w)
		}
	}
	if src.Pages[1].Channel != types.ChannelResult {
		t.Errorf("expected result channel, got %q", src.Pages[1].Channel)
	}
	if got := src.StrategiesFor(src.Pages[0]); len(got) != 1 || got[0] != types.StrategyListing {
		t.Errorf("expected listing default strategy, got %v", got)
	}
	if got := src.StrategiesFor(src.Pages[2]); len(got) != 1 || got[0] != types.StrategyTable {
		t.Errorf("expected table override, got %v", got)
	}
}

func TestBuildSourcesSkipsDisabled(t *testing.T) {
	cfgs := DefaultSources()
	cfgs[0].Disabled = true
	srcs, err := BuildSources(cfgs)
	if err != nil {
		t.Fatalf("build sources: %v", err)
	}
	if len(srcs) != len(cfgs)-1 {
		t.Errorf("expected %d sources, got %d", len(cfgs)-1, len(srcs))
	}
	for _, s := range srcs {
		if s.Name == cfgs[0].Name {
			t.Errorf("disabled source %q was built", s.Name)
		}
	}
}

func TestLoadFromFileReplacesSources(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "noticegoat.yaml")
	content := `
fetcher:
  timeout: 5s
aggregator:
  max_parallel: 3
sources:
  - name: Local
    base_url: http://localhost:9999
    pages:
      - url: /notices
        channel: notification
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Fetcher.Timeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %s", cfg.Fetcher.Timeout)
	}
	if cfg.Aggregator.MaxParallel != 3 {
		t.Errorf("expected max_parallel 3, got %d", cfg.Aggregator.MaxParallel)
	}
	if len(cfg.Sources) != 1 || cfg.Sources[0].Name != "Local" {
		t.Fatalf("expected the file's single source, got %+v", cfg.Sources)
	}
	if cfg.API.MaxErrors != 20 {
		t.Errorf("unset keys should keep defaults, got max_errors=%d", cfg.API.MaxErrors)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("loaded config should validate: %v", err)
	}
}

func TestMarshalRoundTrips(t *testing.T) {
	out, err := Marshal(DefaultConfig())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(out), "name: SSC") {
		t.Error("yaml output should include the SSC source")
	}
}
