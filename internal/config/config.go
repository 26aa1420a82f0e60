package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	securejoin "github.com/cyphar/filepath-securejoin"
	shellquote "github.com/kballard/go-shellquote"

	"github.com/firefly-engineering/check-eternus-advcopy/internal/advcopy"
	"github.com/firefly-engineering/check-eternus-advcopy/internal/ssh"
)

// EnvPassword names the environment variable holding the device password.
const EnvPassword = "ETERNUS_PASSWORD"

// Duration is a time.Duration read from a string such as "2s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config holds the probe settings.
type Config struct {
	Host           string   `toml:"host"`
	Port           int      `toml:"port"`
	User           string   `toml:"user"`
	Password       string   `toml:"password"`
	PasswordFile   string   `toml:"password_file"`
	Command        string   `toml:"command"`
	Wait           Duration `toml:"wait"`
	ConnectTimeout Duration `toml:"connect_timeout"`
	KnownHosts     string   `toml:"known_hosts"`
	HistoryDir     string   `toml:"history_dir"`
	SkipHead       int      `toml:"skip_head"`
	SkipTail       int      `toml:"skip_tail"`
}

// Default returns the settings used when nothing else is configured.
func Default() *Config {
	return &Config{
		Port:           ssh.DefaultPort,
		Command:        advcopy.ListCommand,
		Wait:           Duration{ssh.DefaultSettle},
		ConnectTimeout: Duration{ssh.DefaultConnectTimeout},
		SkipHead:       advcopy.DefaultWindow.SkipHead,
		SkipTail:       advcopy.DefaultWindow.SkipTail,
	}
}

// Load reads a TOML config file on top of Default().
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("unknown keys in config %s: %s", path, strings.Join(keys, ", "))
	}

	dir := filepath.Dir(path)

	if cfg.PasswordFile != "" && cfg.Password == "" {
		pwPath, err := resolvePath(dir, cfg.PasswordFile)
		if err != nil {
			return nil, fmt.Errorf("invalid password_file: %w", err)
		}
		pw, err := os.ReadFile(pwPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read password_file: %w", err)
		}
		cfg.Password = strings.TrimRight(string(pw), "\r\n")
	}

	if cfg.HistoryDir != "" && !filepath.IsAbs(cfg.HistoryDir) {
		cfg.HistoryDir = filepath.Join(dir, cfg.HistoryDir)
	}

	return cfg, nil
}

// resolvePath keeps relative paths inside dir, symlinks included.
func resolvePath(dir, path string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}
	return securejoin.SecureJoin(dir, path)
}

// ApplyEnv overrides the password from the environment when set.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if pw, ok := lookup(EnvPassword); ok && pw != "" {
		c.Password = pw
	}
}

// Validate checks that the Config can drive a probe run.
func (c *Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("host is required")
	}
	if c.User == "" {
		return fmt.Errorf("user is required")
	}
	if c.Password == "" {
		return fmt.Errorf("password is required")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535 (got %d)", c.Port)
	}
	if c.Wait.Duration <= 0 {
		return fmt.Errorf("wait must be positive (got %s)", c.Wait.Duration)
	}
	if c.ConnectTimeout.Duration < 0 {
		return fmt.Errorf("connect_timeout cannot be negative (got %s)", c.ConnectTimeout.Duration)
	}
	if c.SkipHead < 0 || c.SkipTail < 0 {
		return fmt.Errorf("skip_head and skip_tail cannot be negative")
	}
	if _, err := NormalizeCommand(c.Command); err != nil {
		return err
	}
	return nil
}

// NormalizeCommand checks that a listing command splits into well-formed
// words and returns it trimmed. The array CLI is not a shell, so the
// command is sent as written, never requoted.
func NormalizeCommand(command string) (string, error) {
	words, err := shellquote.Split(command)
	if err != nil {
		return "", fmt.Errorf("invalid command %q: %w", command, err)
	}
	if len(words) == 0 {
		return "", fmt.Errorf("command is required")
	}
	return strings.TrimSpace(command), nil
}

// Window returns the capture window for the configured skips.
func (c *Config) Window() advcopy.Window {
	return advcopy.Window{SkipHead: c.SkipHead, SkipTail: c.SkipTail}
}

// SSHOptions returns transport options for the configured device.
func (c *Config) SSHOptions() ssh.Options {
	opts := ssh.DefaultOptions(c.Host).
		WithPort(c.Port).
		WithCredentials(c.User, c.Password).
		WithTimeout(c.ConnectTimeout.Duration).
		WithSettle(c.Wait.Duration)
	if c.KnownHosts != "" {
		opts = opts.WithKnownHosts(c.KnownHosts)
	}
	return opts
}
