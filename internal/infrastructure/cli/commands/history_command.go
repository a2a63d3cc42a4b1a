package commands

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/doeshing/calc-go/internal/app"
	"github.com/doeshing/calc-go/internal/domain"
	"github.com/doeshing/calc-go/internal/infrastructure/cli/helpers"
)

// NewHistoryCommand creates the history command with all subcommands
func NewHistoryCommand(container *app.Container) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect calculation history",
	}

	historyCmd.AddCommand(
		newHistoryListCommand(container),
		newHistoryStatsCommand(container),
		newHistoryClearCommand(container),
		newHistoryExportCommand(container),
		newHistoryImportCommand(container),
	)

	return historyCmd
}

// newHistoryListCommand creates the 'history list' subcommand
func newHistoryListCommand(container *app.Container) *cobra.Command {
	var (
		limit     int
		operation string
		since     string
		until     string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent calculations",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := domain.HistoryFilter{Limit: limit, Operation: operation}
			var err error
			if since != "" {
				if filter.Since, err = helpers.ParseDate(since); err != nil {
					return err
				}
			}
			if until != "" {
				if filter.Until, err = helpers.ParseDate(until); err != nil {
					return err
				}
			}
			return listHistoryEntries(cmd.OutOrStdout(), container, filter)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", domain.DefaultHistoryLimit, "Max entries to show")
	cmd.Flags().StringVar(&operation, "operation", "", "Filter by operation name")
	cmd.Flags().StringVar(&since, "since", "", "Show entries from this date")
	cmd.Flags().StringVar(&until, "until", "", "Show entries until this date")
	return cmd
}

// newHistoryStatsCommand creates the 'history stats' subcommand
func newHistoryStatsCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show usage statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showHistoryStats(cmd.OutOrStdout(), container)
		},
	}
}

// newHistoryClearCommand creates the 'history clear' subcommand
func newHistoryClearCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear calculation history",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := container.HistoryStore.Clear(); err != nil {
				return fmt.Errorf("failed to clear history: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "History cleared")
			return nil
		},
	}
}

// newHistoryExportCommand creates the 'history export' subcommand
func newHistoryExportCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "export <path>",
		Short: "Export history to a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := container.HistoryStore.ExportCSV(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "History exported to %s\n", args[0])
			return nil
		},
	}
}

// newHistoryImportCommand creates the 'history import' subcommand
func newHistoryImportCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "import <path>",
		Short: "Replace history with a previously exported CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := container.HistoryStore.ImportCSV(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "History loaded from %s\n", args[0])
			return nil
		},
	}
}

// listHistoryEntries lists matching history entries
func listHistoryEntries(out io.Writer, container *app.Container, filter domain.HistoryFilter) error {
	records, err := container.HistoryStore.Records(filter)
	if err != nil {
		return fmt.Errorf("failed to retrieve history records: %w", err)
	}
	if len(records) == 0 {
		fmt.Fprintln(out, msgNoCalculationsFound)
		return nil
	}
	for _, rec := range records {
		fmt.Fprintln(out, helpers.FormatRecord(rec))
	}
	return nil
}

// showHistoryStats displays aggregate usage statistics
func showHistoryStats(out io.Writer, container *app.Container) error {
	records, err := container.HistoryStore.Records(domain.HistoryFilter{
		Limit: domain.MaxHistoryAnalysisRecords,
	})
	if err != nil {
		return fmt.Errorf("failed to retrieve history for analysis: %w", err)
	}
	if len(records) == 0 {
		fmt.Fprintln(out, msgNoCalculationsFound)
		return nil
	}

	stats := helpers.AnalyzeRecords(records)
	fmt.Fprintf(out, "Total calculations: %d\n", stats.Total)
	fmt.Fprintf(out, "Most used operation: %s\n", stats.MostUsed)
	fmt.Fprintf(out, "Average result: %.2f\n", stats.AverageResult)
	fmt.Fprintln(out, "Operations breakdown:")
	ops := make([]string, 0, len(stats.OperationCounts))
	for op := range stats.OperationCounts {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	for _, op := range ops {
		fmt.Fprintf(out, "  %s: %d\n", op, stats.OperationCounts[op])
	}
	fmt.Fprintf(out, "Last calculation: %s\n", stats.LastCalculation.Format(domain.DisplayTimestampFormat))
	fmt.Fprintf(out, "Unique operations used: %d\n", stats.UniqueOperations)
	return nil
}
