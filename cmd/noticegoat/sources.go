package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/IshaanNene/NoticeGoat/internal/config"
)

// sourcesCmd creates the "sources" subcommand.
func sourcesCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "List configured sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(cfg.Sources))
			for _, sc := range cfg.Sources {
				if sc.Disabled && !all {
					continue
				}
				src, err := sc.Build()
				if err != nil {
					return fmt.Errorf("source %q: %w", sc.Name, err)
				}
				strategies := make([]string, len(src.Strategies))
				for i, s := range src.Strategies {
					strategies[i] = string(s)
				}
				status := "enabled"
				if sc.Disabled {
					status = "disabled"
				}
				rows = append(rows, []string{
					src.Name,
					src.Fetcher,
					src.Mode,
					strings.Join(strategies, ","),
					strconv.Itoa(len(src.Pages)),
					status,
					truncate(src.BaseURL, 50),
				})
			}
			return writeTable(cmd.OutOrStdout(),
				[]string{"NAME", "FETCHER", "MODE", "STRATEGIES", "PAGES", "STATUS", "BASE URL"}, rows)
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include disabled sources")
	return cmd
}
