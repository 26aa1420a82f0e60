package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/check-eternus-advcopy/internal/advcopy"
	"github.com/firefly-engineering/check-eternus-advcopy/internal/errors"
	"github.com/firefly-engineering/check-eternus-advcopy/internal/logging"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file|-]",
	Short: "Evaluate a saved session listing",
	Long: `Evaluates the output of "show advanced-copy-sessions -type all" saved
from an earlier shell session, without connecting to the array. Reads
standard input when no file or "-" is given.

The report and exit code are the same as for a live check.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

var (
	parseSkipHead int
	parseSkipTail int
)

func init() {
	parseCmd.Flags().IntVar(&parseSkipHead, "skip-head", advcopy.DefaultWindow.SkipHead, "Lines to skip at the start of the capture")
	parseCmd.Flags().IntVar(&parseSkipTail, "skip-tail", advcopy.DefaultWindow.SkipTail, "Lines to skip at the end of the capture")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	source := "-"
	if len(args) == 1 {
		source = args[0]
	}

	var r io.Reader = cmd.InOrStdin()
	if source != "-" {
		f, err := os.Open(source)
		if err != nil {
			return errors.CaptureError(source, err)
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return errors.CaptureError(source, err)
	}

	w := advcopy.Window{SkipHead: parseSkipHead, SkipTail: parseSkipTail}
	logging.Debug("evaluating capture", "source", source, "bytes", len(data), "skipHead", w.SkipHead, "skipTail", w.SkipTail)

	return report(cmd.OutOrStdout(), advcopy.Evaluate(string(data), w))
}
