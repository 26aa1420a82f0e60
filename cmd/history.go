package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/check-eternus-advcopy/internal/audit"
	"github.com/firefly-engineering/check-eternus-advcopy/internal/errors"
	"github.com/firefly-engineering/check-eternus-advcopy/internal/logging"
)

var historyCmd = &cobra.Command{
	Use:   "history [host]",
	Short: "Display recorded check results for an array",
	Long: `Prints the runs recorded with --history-dir (or history_dir in the
config file), oldest first. The host defaults to the configured one.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

var (
	historyLimit int
	historyRaw   bool
	historyClear bool
)

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "Show only the last N runs (0 for all)")
	historyCmd.Flags().BoolVar(&historyRaw, "raw", false, "Output runs as JSON lines")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "Delete the recorded runs")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, false)
	if err != nil {
		return err
	}

	host := cfg.Host
	if len(args) == 1 {
		host = args[0]
	}
	if host == "" {
		return errors.UsageError("host is required")
	}
	if cfg.HistoryDir == "" {
		return errors.UsageError("history directory is not configured (use --history-dir)")
	}

	logger := audit.NewLogger(cfg.HistoryDir)
	out := cmd.OutOrStdout()

	if historyClear {
		if err := logger.Remove(host); err != nil {
			return errors.HistoryError("remove", err)
		}
		logging.UserSuccess("Cleared history for %s", host)
		return nil
	}

	events, err := logger.Events(host)
	if err != nil {
		return errors.HistoryError("read", err)
	}

	if len(events) == 0 {
		logging.UserInfo("No runs recorded for %s", host)
		return nil
	}

	if historyLimit > 0 && len(events) > historyLimit {
		events = events[len(events)-historyLimit:]
	}

	for _, e := range events {
		if historyRaw {
			data, err := json.Marshal(e)
			if err != nil {
				return fmt.Errorf("failed to marshal event: %w", err)
			}
			fmt.Fprintln(out, string(data))
			continue
		}

		ts := e.Timestamp.Local().Format("2006-01-02 15:04:05")
		fmt.Fprintf(out, "[%s] %-8s %s\n", ts, e.Severity, e.Summary)
		for _, d := range e.Details {
			fmt.Fprintf(out, "    %s\n", d)
		}
	}

	return nil
}
