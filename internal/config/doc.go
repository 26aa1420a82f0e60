// Package config provides configuration loading for check_eternus_advcopy.
//
// # Configuration File
//
// Settings may be kept in an optional TOML file so that credentials do not
// appear on the scheduler's command line:
//
//	host            = "eternus01.example.net"
//	port            = 22
//	user            = "monitor"
//	password_file   = "secrets/eternus.pw"   # relative to the config file
//	command         = "show advanced-copy-sessions -type all"
//	wait            = "2s"
//	connect_timeout = "10s"
//	known_hosts     = "/etc/nagios/eternus_known_hosts"
//	history_dir     = "/var/lib/check_eternus_advcopy"
//	skip_head       = 4
//	skip_tail       = 1
//
// Relative password_file paths are resolved inside the config directory and
// cannot escape it. Unknown keys are rejected.
//
// # Precedence
//
// Command-line flags override the ETERNUS_PASSWORD environment variable,
// which overrides the file, which overrides Default().
//
// # Validation
//
// Validate checks that host, user and password are present and that the port,
// wait and window values are usable.
package config
