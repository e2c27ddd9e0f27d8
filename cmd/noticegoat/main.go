package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/IshaanNene/NoticeGoat/internal/config"
	"github.com/IshaanNene/NoticeGoat/internal/engine"
	"github.com/IshaanNene/NoticeGoat/internal/fetcher"
	"github.com/IshaanNene/NoticeGoat/internal/observability"
	"github.com/IshaanNene/NoticeGoat/internal/types"
)

var (
	cfgFile string
	verbose bool
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "noticegoat",
		Short: "NoticeGoat: government exam notice aggregator",
		Long: `NoticeGoat scrapes government exam notice boards and coaching sites,
classifies every notice (jobs, admit cards, results, answer keys, cut-offs,
notifications, news), merges duplicates and serves a ranked JSON feed.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(scrapeCmd())
	rootCmd.AddCommand(sourcesCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads and validates the configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// buildEngine wires fetchers and metrics into an engine over the enabled
// sources. The browser fetcher is only registered when a source needs it.
func buildEngine(cfg *config.Config, logger *slog.Logger) (*engine.Engine, error) {
	sources, err := config.BuildSources(cfg.Sources)
	if err != nil {
		return nil, fmt.Errorf("build sources: %w", err)
	}

	opts := []engine.Option{
		engine.WithFetcher(fetcher.NewHTTPFetcher(cfg.Fetcher, logger)),
		engine.WithMetrics(observability.NewMetrics(logger)),
	}
	if needsBrowser(sources) {
		opts = append(opts, engine.WithFetcher(fetcher.NewBrowserFetcher(cfg.Browser, cfg.Fetcher, logger)))
	}
	return engine.New(cfg.Aggregator, sources, logger, opts...), nil
}

func needsBrowser(sources []types.Source) bool {
	for _, s := range sources {
		if s.Fetcher == "browser" {
			return true
		}
	}
	return false
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("NoticeGoat %s\n", config.Version)
		},
	}
}

// configCmd creates the "config" subcommand for inspecting configuration.
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			out, err := config.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

// setupLogger creates a structured logger from the logging config.
// --verbose forces debug level.
func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var w io.Writer = os.Stderr
	switch cfg.Output {
	case "", "stderr":
	case "stdout":
		w = os.Stdout
	default:
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log output %s: %v, using stderr\n", cfg.Output, err)
		} else {
			w = f
		}
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}
