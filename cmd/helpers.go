package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/check-eternus-advcopy/internal/audit"
	"github.com/firefly-engineering/check-eternus-advcopy/internal/config"
	"github.com/firefly-engineering/check-eternus-advcopy/internal/errors"
	"github.com/firefly-engineering/check-eternus-advcopy/internal/probe"
)

// dialer opens the array transport. Tests replace it.
var dialer probe.Dialer = probe.DialSSH

// lookupEnv reads the environment. Tests replace it.
var lookupEnv = os.LookupEnv

// loadConfig merges defaults, the config file, the environment and the
// flags the user set, in increasing order of precedence.
func loadConfig(cmd *cobra.Command, validate bool) (*config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, errors.ConfigError("invalid configuration", err)
		}
		cfg = loaded
	}

	cfg.ApplyEnv(lookupEnv)
	applyFlags(cmd, cfg)

	if !validate {
		return cfg, nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.ConfigError("invalid configuration", err)
	}
	// Validate already checked the command.
	cfg.Command, _ = config.NormalizeCommand(cfg.Command)
	return cfg, nil
}

// applyFlags copies explicitly set flags over cfg.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Host = flagHost
	}
	if flags.Changed("port") {
		cfg.Port = flagPort
	}
	if flags.Changed("user") {
		cfg.User = flagUser
	}
	if flags.Changed("password") {
		cfg.Password = flagPassword
	}
	if flags.Changed("command") {
		cfg.Command = flagCommand
	}
	if flags.Changed("wait") {
		cfg.Wait.Duration = flagWait
	}
	if flags.Changed("timeout") {
		cfg.ConnectTimeout.Duration = flagTimeout
	}
	if flags.Changed("known-hosts") {
		cfg.KnownHosts = flagKnownHosts
	}
	if flags.Changed("history-dir") {
		cfg.HistoryDir = flagHistoryDir
	}
}

// newProber builds a prober for cfg, recording runs when a history
// directory is configured.
func newProber(cfg *config.Config) *probe.Prober {
	opts := []probe.Option{
		probe.WithDialer(dialer),
		probe.WithCommand(cfg.Command),
		probe.WithWindow(cfg.Window()),
	}
	if cfg.HistoryDir != "" {
		opts = append(opts, probe.WithHistory(audit.NewLogger(cfg.HistoryDir)))
	}
	return probe.New(cfg.SSHOptions(), opts...)
}
