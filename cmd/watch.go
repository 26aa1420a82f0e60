package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/check-eternus-advcopy/internal/errors"
	"github.com/firefly-engineering/check-eternus-advcopy/internal/health"
	"github.com/firefly-engineering/check-eternus-advcopy/internal/logging"
	"github.com/firefly-engineering/check-eternus-advcopy/internal/monitor"
	"github.com/firefly-engineering/check-eternus-advcopy/internal/tui"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-check advanced copy sessions on an interval",
	Long: `Runs the check every interval and shows the latest sessions in a live
terminal view. With --plain, prints one status line per check instead.

Runs in the foreground until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

var (
	watchInterval time.Duration
	watchPlain    bool
)

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", time.Minute, "Check interval")
	watchCmd.Flags().BoolVar(&watchPlain, "plain", false, "Print status lines instead of the interactive view")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchInterval <= 0 {
		return errors.UsageError(fmt.Sprintf("interval must be positive (got %s)", watchInterval))
	}

	cfg, err := loadConfig(cmd, true)
	if err != nil {
		return err
	}
	prober := newProber(cfg)

	if !watchPlain {
		return tui.RunWatch(cmd.Context(), cfg.Host, watchInterval, prober)
	}

	out := cmd.OutOrStdout()
	mon := monitor.New(watchInterval, prober, monitor.WithObserver(func(res *health.Result) {
		fmt.Fprintln(out, tui.Line(cfg.Host, res, time.Now()))
	}))

	logging.Info("starting watch", "host", cfg.Host, "interval", watchInterval)
	err = mon.Run(cmd.Context())
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
