package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/IshaanNene/NoticeGoat/internal/config"
	"github.com/IshaanNene/NoticeGoat/internal/engine"
	"github.com/IshaanNene/NoticeGoat/internal/schemas"
	"github.com/IshaanNene/NoticeGoat/internal/storage"
	"github.com/IshaanNene/NoticeGoat/internal/types"
)

var (
	scrapeFormat   string
	scrapeOutput   string
	scrapeOnly     string
	scrapeSource   string
	scrapeLimit    int
	scrapeValidate bool
	scrapeRaw      bool
)

// scrapeCmd creates the "scrape" subcommand.
func scrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Run one scrape of all sources",
		Long: `Scrape every enabled source once and print the ranked feed as a table,
or export it with --format (json, jsonl, csv, mongo, or a comma-separated list).`,
		RunE: runScrape,
	}

	cmd.Flags().StringVarP(&scrapeFormat, "format", "f", "", "export format: json, jsonl, csv, mongo (default: print a table)")
	cmd.Flags().StringVarP(&scrapeOutput, "output", "o", "", "output directory (overrides storage.output_path)")
	cmd.Flags().StringVar(&scrapeOnly, "only", "", "comma-separated channels to keep (e.g. jobs,result)")
	cmd.Flags().StringVar(&scrapeSource, "source", "", "comma-separated source name substrings to keep")
	cmd.Flags().IntVarP(&scrapeLimit, "limit", "l", 0, "maximum notices (0 = unlimited)")
	cmd.Flags().BoolVar(&scrapeValidate, "validate", false, "validate the feed against the JSON schema")
	cmd.Flags().BoolVar(&scrapeRaw, "json", false, "print the feed as JSON instead of a table")

	return cmd
}

func runScrape(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if scrapeOutput != "" {
		cfg.Storage.OutputPath = scrapeOutput
	}
	if scrapeFormat != "" {
		cfg.Storage.Type = strings.ToLower(scrapeFormat)
	}
	logger := setupLogger(cfg.Logging)

	eng, err := buildEngine(cfg, logger)
	if err != nil {
		return err
	}
	defer eng.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	q := engine.Query{
		Channels: engine.ParseChannels(scrapeOnly),
		Sources:  engine.ParseList(scrapeSource),
		Limit:    scrapeLimit,
	}
	if q.Limit < 0 {
		q.Limit = 0
	}

	start := time.Now()
	feed := eng.Feed(ctx, q)
	logger.Info("scrape complete", "run_id", feed.RunID, "items", feed.Count, "errors", len(feed.Errors), "elapsed", time.Since(start))

	if scrapeValidate {
		if err := schemas.ValidateFeed(feed); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "feed is valid against the schema")
	}

	if scrapeFormat != "" {
		return export(ctx, cfg.Storage, feed, logger)
	}

	out := cmd.OutOrStdout()
	if scrapeRaw {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(feed)
	}
	if err := writeTable(out, []string{"CHANNEL", "DATE", "SOURCE", "TITLE"}, feedRows(feed.Items)); err != nil {
		return err
	}

	fmt.Fprintf(out, "\n%d notices from %d sources in %s\n", feed.Count, len(eng.Sources()), time.Since(start).Round(time.Millisecond))
	if len(feed.Errors) > 0 {
		fmt.Fprintf(os.Stderr, "%d errors:\n", len(feed.Errors))
		for _, e := range feed.Errors {
			fmt.Fprintf(os.Stderr, "  %s\n", e)
		}
	}
	return nil
}

func export(ctx context.Context, cfg config.StorageConfig, feed types.FeedResult, logger *slog.Logger) error {
	store, err := storage.New(cfg, logger)
	if err != nil {
		return err
	}
	if err := store.Store(ctx, feed); err != nil {
		store.Close()
		return err
	}
	if err := store.Close(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "exported %d notices (%s) to %s\n", feed.Count, cfg.Type, cfg.OutputPath)
	return nil
}

func feedRows(items []types.Notice) [][]string {
	rows := make([][]string, 0, len(items))
	for _, n := range items {
		date := n.DateText
		if n.Date != nil {
			date = n.Date.Format("2006-01-02")
		}
		channel := string(n.Channel)
		if channel == "" {
			channel = "-"
		}
		rows = append(rows, []string{channel, truncate(date, 12), truncate(n.Source, 16), truncate(n.Title, 80)})
	}
	return rows
}
