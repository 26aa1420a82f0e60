package cmd

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/check-eternus-advcopy/internal/advcopy"
	"github.com/firefly-engineering/check-eternus-advcopy/internal/errors"
	"github.com/firefly-engineering/check-eternus-advcopy/internal/health"
	"github.com/firefly-engineering/check-eternus-advcopy/internal/logging"
	"github.com/firefly-engineering/check-eternus-advcopy/internal/ssh"
)

const (
	programName = "check_eternus_advcopy"
	version     = "0.3"
)

var (
	verbose     bool
	jsonOutput  bool
	showVersion bool
	helpShown   bool

	configPath     string
	flagHost       string
	flagPort       int
	flagUser       string
	flagPassword   string
	flagCommand    string
	flagWait       time.Duration
	flagTimeout    time.Duration
	flagKnownHosts string
	flagHistoryDir string
)

var rootCmd = &cobra.Command{
	Use:   programName + " -H <host> -U <user> -P <password>",
	Short: "Check FUJITSU ETERNUS DX advanced copy sessions",
	Long: `check_eternus_advcopy logs into the management shell of an ETERNUS DX
array, lists its advanced copy sessions and reports their health as a
Nagios plugin:

  0 OK        every session is in an expected state
  1 WARNING   a session is in state Unknown, or the array was unreachable
  2 CRITICAL  a session is halted or in Error Suspend
  3 UNKNOWN   unexpected session state or type, or invalid usage

The password may also be supplied through ETERNUS_PASSWORD or a config file.`,
	Args:          cobra.NoArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(verbose, jsonOutput, cmd.ErrOrStderr())
	},
	RunE: runCheck,
}

// Execute runs the CLI and returns an error carrying the plugin exit code.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	return finish(rootCmd.OutOrStdout(), err)
}

// finish maps help output to UNKNOWN and prints errors nobody reported yet.
func finish(w io.Writer, err error) error {
	if err == nil && helpShown {
		return errors.UsageShown()
	}
	if err != nil && !errors.IsReported(err) {
		fmt.Fprintf(w, "%s %s: %v\n", health.DefaultHeader, health.SeverityUnknown, err)
		logFailure(err)
	}
	return err
}

// logFailure records an aborted run on stderr, keeping the cause separate.
func logFailure(err error) {
	var probeErr *errors.ProbeError
	if errors.As(err, &probeErr) {
		logging.Error(probeErr.Message, "cause", probeErr.Cause, "exitCode", probeErr.Code)
		return
	}
	logging.Error("command failed", "error", err, "exitCode", errors.ExitUnknown)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	pf.BoolVar(&jsonOutput, "json", false, "Output logs in JSON format")
	pf.StringVarP(&configPath, "config", "c", "", "Path to a TOML config file")
	pf.StringVarP(&flagHost, "host", "H", "", "Array management address")
	pf.IntVarP(&flagPort, "port", "p", ssh.DefaultPort, "SSH port")
	pf.StringVarP(&flagUser, "user", "U", "", "Login user")
	pf.StringVarP(&flagPassword, "password", "P", "", "Login password (or set ETERNUS_PASSWORD)")
	pf.StringVar(&flagCommand, "command", advcopy.ListCommand, "Listing command typed into the array shell")
	pf.DurationVar(&flagWait, "wait", ssh.DefaultSettle, "Time to wait for command output")
	pf.DurationVar(&flagTimeout, "timeout", ssh.DefaultConnectTimeout, "Connect timeout")
	pf.StringVar(&flagKnownHosts, "known-hosts", "", "Verify the array host key against this known_hosts file")
	pf.StringVar(&flagHistoryDir, "history-dir", "", "Record every run in this directory")

	rootCmd.Flags().BoolVarP(&showVersion, "version", "V", false, "Print version and exit")

	defaultHelp := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpShown = true
		defaultHelp(cmd, args)
	})

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

func versionLine() string {
	return fmt.Sprintf("Version: %s %s", programName, version)
}

// runCheck is the plugin itself: one probe, one report, exit code by severity.
func runCheck(cmd *cobra.Command, args []string) error {
	if showVersion {
		fmt.Fprintln(cmd.OutOrStdout(), versionLine())
		return errors.UsageShown()
	}

	cfg, err := loadConfig(cmd, true)
	if err != nil {
		return err
	}

	res := newProber(cfg).Run(cmd.Context())
	return report(cmd.OutOrStdout(), res)
}

// report writes the plugin output and returns the matching exit status.
func report(w io.Writer, res *health.Result) error {
	rep := health.Report{Header: health.DefaultHeader, Result: res}
	if _, err := rep.WriteTo(w); err != nil {
		return errors.Wrap(errors.ExitUnknown, "failed to write report", err)
	}
	if code := res.Severity.ExitCode(); code != errors.ExitOK {
		return errors.Exit(code)
	}
	return nil
}
