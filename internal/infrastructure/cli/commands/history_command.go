package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/doeshing/statusline-go/internal/app"
	"github.com/doeshing/statusline-go/internal/domain"
	"github.com/doeshing/statusline-go/internal/infrastructure/cli/helpers"
	"github.com/doeshing/statusline-go/internal/infrastructure/history"
)

// NewHistoryCommand creates the history command with all subcommands
func NewHistoryCommand(lazy *app.Lazy) *cobra.Command {
	var limit int

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded status refreshes",
		Long:  "List status refreshes recorded when history.enabled is true.",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := historyStore(cmd.Context(), lazy)
			if err != nil {
				return err
			}
			return listHistoryEntries(cmd.OutOrStdout(), store, limit)
		},
	}

	historyCmd.Flags().IntVar(&limit, "limit", domain.DefaultHistoryLimit, "Max entries to show")
	historyCmd.AddCommand(
		newHistoryClearCommand(lazy),
		newHistoryStatsCommand(lazy),
	)

	return historyCmd
}

// newHistoryClearCommand creates the 'history clear' subcommand
func newHistoryClearCommand(lazy *app.Lazy) *cobra.Command {
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := historyStore(cmd.Context(), lazy)
			if err != nil {
				return err
			}
			if !helpers.ConfirmAction(cmd.InOrStdin(), cmd.OutOrStdout(), "Delete all history entries?", assumeYes) {
				fmt.Fprintln(cmd.OutOrStdout(), MsgAborted)
				return nil
			}
			if err := store.Clear(); err != nil {
				return fmt.Errorf("failed to clear history: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared history at %s\n", store.Path())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

// newHistoryStatsCommand creates the 'history stats' subcommand
func newHistoryStatsCommand(lazy *app.Lazy) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show totals, top models and sites",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := historyStore(cmd.Context(), lazy)
			if err != nil {
				return err
			}
			return showHistoryStats(cmd.OutOrStdout(), store)
		},
	}
}

func historyStore(ctx context.Context, lazy *app.Lazy) (*history.SQLiteStore, error) {
	container, err := lazy.Get(ctx)
	if err != nil {
		return nil, err
	}
	store := container.HistoryStore()
	if store == nil {
		return nil, errors.New(ErrHistoryStoreUnavailable)
	}
	return store, nil
}

// listHistoryEntries lists recent history entries
func listHistoryEntries(out io.Writer, store *history.SQLiteStore, limit int) error {
	records, err := store.Records(limit)
	if err != nil {
		return fmt.Errorf("failed to retrieve history records: %w", err)
	}

	if len(records) == 0 {
		fmt.Fprintln(out, MsgNoHistoryRecorded)
		return nil
	}

	for _, rec := range records {
		fmt.Fprintf(out, "%s | %s | $%.2f | +%d/-%d %s | %s | %s\n",
			rec.Timestamp.Local().Format(domain.TimestampFormat),
			rec.Model,
			rec.CostUSD,
			rec.LinesAdded,
			rec.LinesRemoved,
			rec.Trend,
			siteOrDash(rec.Site),
			rec.WorkingDir)
	}

	return nil
}

// showHistoryStats displays totals and the most frequent models and sites
func showHistoryStats(out io.Writer, store *history.SQLiteStore) error {
	records, err := store.Records(domain.MaxHistoryAnalysisRecords)
	if err != nil {
		return fmt.Errorf("failed to retrieve history for analysis: %w", err)
	}

	if len(records) == 0 {
		fmt.Fprintln(out, MsgNoHistoryRecorded)
		return nil
	}

	summary := helpers.SummarizeHistory(records)
	fmt.Fprintf(out, "Entries analyzed: %d\nTotal cost: $%.2f\nAverage cost: $%.2f\nLines: +%d/-%d\n",
		summary.Entries,
		summary.TotalCostUSD,
		helpers.AverageCost(summary),
		summary.LinesAdded,
		summary.LinesRemoved)

	fmt.Fprintln(out, "Top models:")
	for _, stat := range helpers.CalculateTopN(summary.Models, 5) {
		fmt.Fprintf(out, "  %s (%d)\n", stat.Name, stat.Count)
	}

	if len(summary.Sites) > 0 {
		fmt.Fprintln(out, "Sites:")
		for _, stat := range helpers.CalculateTopN(summary.Sites, 0) {
			fmt.Fprintf(out, "  %s (%d)\n", stat.Name, stat.Count)
		}
	}

	fmt.Fprintln(out, "Trends:")
	for _, trend := range []domain.Trend{domain.TrendUp, domain.TrendDown, domain.TrendFlat, domain.TrendNew} {
		if n := summary.Trends[trend]; n > 0 {
			fmt.Fprintf(out, "  %s: %d\n", trend, n)
		}
	}

	return nil
}

func siteOrDash(name string) string {
	if name == "" {
		return "-"
	}
	return name
}
