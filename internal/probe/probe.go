// Package probe runs one advanced copy health check against an array.
package probe

import (
	"context"

	"github.com/firefly-engineering/check-eternus-advcopy/internal/advcopy"
	"github.com/firefly-engineering/check-eternus-advcopy/internal/audit"
	"github.com/firefly-engineering/check-eternus-advcopy/internal/errors"
	"github.com/firefly-engineering/check-eternus-advcopy/internal/health"
	"github.com/firefly-engineering/check-eternus-advcopy/internal/logging"
	"github.com/firefly-engineering/check-eternus-advcopy/internal/ssh"
)

// Summaries reported when the session list could not be obtained.
const (
	MsgConnect = "Unable to establish connection"
	MsgAuth    = "Unable to authenticate"
	MsgCapture = "Unable to retrieve advanced copy sessions"
)

// Transport captures command output from the array's management shell.
type Transport interface {
	Capture(ctx context.Context, command string) (string, error)
	Close() error
}

// Dialer opens a Transport. Errors wrapping ssh.ErrAuth are reported as
// authentication failures, everything else as connection failures.
type Dialer func(ctx context.Context, opts ssh.Options) (Transport, error)

// DialSSH is the default Dialer.
func DialSSH(ctx context.Context, opts ssh.Options) (Transport, error) {
	c, err := ssh.Dial(ctx, opts)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Prober checks the advanced copy sessions of one array.
type Prober struct {
	opts    ssh.Options
	dial    Dialer
	command string
	window  advcopy.Window
	history *audit.Logger
}

// Option configures a Prober.
type Option func(*Prober)

// WithDialer replaces the SSH dialer.
func WithDialer(d Dialer) Option {
	return func(p *Prober) {
		p.dial = d
	}
}

// WithCommand sets the listing command typed into the shell.
func WithCommand(command string) Option {
	return func(p *Prober) {
		p.command = command
	}
}

// WithWindow sets how many capture lines are skipped at each end.
func WithWindow(w advcopy.Window) Option {
	return func(p *Prober) {
		p.window = w
	}
}

// WithHistory records every run in the given history log.
func WithHistory(logger *audit.Logger) Option {
	return func(p *Prober) {
		p.history = logger
	}
}

// New creates a Prober for the array described by opts.
func New(opts ssh.Options, options ...Option) *Prober {
	p := &Prober{
		opts:    opts,
		dial:    DialSSH,
		command: advcopy.ListCommand,
		window:  advcopy.DefaultWindow,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Host returns the array host name.
func (p *Prober) Host() string {
	return p.opts.Host
}

// Run performs one check. It never fails: transport problems are folded
// into a WARNING result.
func (p *Prober) Run(ctx context.Context) *health.Result {
	res := p.run(ctx)

	if p.history != nil {
		if err := p.history.Record(p.opts.Host, res); err != nil {
			logging.Warn("failed to record run", "host", p.opts.Host, "error", err)
		}
	}
	return res
}

func (p *Prober) run(ctx context.Context) *health.Result {
	log := logging.With("host", p.opts.Address())
	res := health.NewResult()

	t, err := p.dial(ctx, p.opts)
	if err != nil {
		log.Debug("dial failed", "error", err)
		if errors.Is(err, ssh.ErrAuth) {
			res.Fail(MsgAuth)
		} else {
			res.Fail(MsgConnect)
		}
		return res
	}
	defer t.Close()

	blob, err := t.Capture(ctx, p.command)
	if err != nil {
		log.Debug("capture failed", "error", err)
		res.Fail(MsgCapture)
		return res
	}

	res = advcopy.Evaluate(blob, p.window)
	log.Debug("evaluated sessions", "sessions", res.Sessions, "severity", res.Severity)
	return res
}
