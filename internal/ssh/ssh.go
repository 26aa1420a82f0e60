// Package ssh captures command output from a storage array's management shell.
//
// ETERNUS DX CLI sessions are interactive: the array only answers commands
// typed into a pty shell, so Capture opens a shell, types the command, waits
// a bounded settle time and snapshots whatever the shell printed.
package ssh

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	gossh "golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/firefly-engineering/check-eternus-advcopy/internal/logging"
)

// Default SSH configuration values.
const (
	DefaultPort           = 22
	DefaultTerm           = "vt102"
	DefaultConnectTimeout = 10 * time.Second
	DefaultSettle         = 2 * time.Second

	termWidth  = 200
	termHeight = 50
)

// Transport failures. Dial wraps every error in one of these.
var (
	ErrConnect = errors.New("unable to establish connection")
	ErrAuth    = errors.New("unable to authenticate")
)

// Options configures SSH connection parameters.
type Options struct {
	Host               string
	Port               int
	User               string
	Password           string
	ConnectTimeout     time.Duration
	Settle             time.Duration
	Term               string
	StrictHostKeyCheck bool
	KnownHostsFile     string
}

// DefaultOptions returns Options with defaults for an ETERNUS management port.
func DefaultOptions(host string) Options {
	return Options{
		Host:           host,
		Port:           DefaultPort,
		ConnectTimeout: DefaultConnectTimeout,
		Settle:         DefaultSettle,
		Term:           DefaultTerm,
	}
}

// WithPort returns a copy with the specified port.
func (o Options) WithPort(port int) Options {
	o.Port = port
	return o
}

// WithCredentials returns a copy authenticating as user with password.
func (o Options) WithCredentials(user, password string) Options {
	o.User = user
	o.Password = password
	return o
}

// WithTimeout returns a copy with the specified connect timeout.
func (o Options) WithTimeout(d time.Duration) Options {
	o.ConnectTimeout = d
	return o
}

// WithSettle returns a copy waiting d for command output.
func (o Options) WithSettle(d time.Duration) Options {
	o.Settle = d
	return o
}

// WithKnownHosts returns a copy verifying host keys against file.
func (o Options) WithKnownHosts(file string) Options {
	o.StrictHostKeyCheck = true
	o.KnownHostsFile = file
	return o
}

// Address returns host:port, bracketing IPv6 literals.
func (o Options) Address() string {
	return net.JoinHostPort(o.Host, strconv.Itoa(o.Port))
}

// Destination returns the user@host:port string.
func (o Options) Destination() string {
	return fmt.Sprintf("%s@%s", o.User, o.Address())
}

// ClientConfig builds the client configuration. Password and
// keyboard-interactive are both offered since firmware versions differ.
func (o Options) ClientConfig() (*gossh.ClientConfig, error) {
	hostKey := gossh.InsecureIgnoreHostKey()
	if o.StrictHostKeyCheck {
		cb, err := knownhosts.New(o.KnownHostsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load known hosts: %w", err)
		}
		hostKey = cb
	}

	password := o.Password
	return &gossh.ClientConfig{
		User: o.User,
		Auth: []gossh.AuthMethod{
			gossh.Password(password),
			gossh.KeyboardInteractive(func(_, _ string, questions []string, _ []bool) ([]string, error) {
				answers := make([]string, len(questions))
				for i := range answers {
					answers[i] = password
				}
				return answers, nil
			}),
		},
		HostKeyCallback: hostKey,
		Timeout:         o.ConnectTimeout,
	}, nil
}

// Client is an authenticated connection to the array.
type Client struct {
	client *gossh.Client
	opts   Options
}

// Dial connects and authenticates. Errors wrap ErrConnect or ErrAuth.
func Dial(ctx context.Context, o Options) (*Client, error) {
	cfg, err := o.ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnect, err)
	}

	log := logging.With("host", o.Address(), "user", o.User)
	log.Debug("dialing")

	dialer := net.Dialer{Timeout: o.ConnectTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", o.Address())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnect, err)
	}

	// Abort the handshake when ctx ends or the timeout passes.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()
	if o.ConnectTimeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(o.ConnectTimeout))
	}

	c, chans, reqs, err := gossh.NewClientConn(conn, o.Address(), cfg)
	if err != nil {
		conn.Close()
		return nil, classifyHandshake(err)
	}
	_ = conn.SetDeadline(time.Time{})

	log.Debug("authenticated", "server", string(c.ServerVersion()))
	return &Client{client: gossh.NewClient(c, chans, reqs), opts: o}, nil
}

func classifyHandshake(err error) error {
	if strings.Contains(err.Error(), "unable to authenticate") {
		return fmt.Errorf("%w: %v", ErrAuth, err)
	}
	return fmt.Errorf("%w: %v", ErrConnect, err)
}

// Capture types command into a pty shell and returns everything the shell
// printed within the settle time. The shell is then told to exit.
func (c *Client) Capture(ctx context.Context, command string) (string, error) {
	session, err := c.client.NewSession()
	if err != nil {
		return "", fmt.Errorf("failed to open session: %w", err)
	}
	defer session.Close()

	var out lockedBuffer
	session.Stdout = &out
	session.Stderr = &out

	stdin, err := session.StdinPipe()
	if err != nil {
		return "", fmt.Errorf("failed to open stdin: %w", err)
	}

	modes := gossh.TerminalModes{
		gossh.TTY_OP_ISPEED: 38400,
		gossh.TTY_OP_OSPEED: 38400,
	}
	if err := session.RequestPty(c.opts.Term, termHeight, termWidth, modes); err != nil {
		return "", fmt.Errorf("failed to request pty: %w", err)
	}
	if err := session.Shell(); err != nil {
		return "", fmt.Errorf("failed to start shell: %w", err)
	}

	if _, err := io.WriteString(stdin, command+"\n"); err != nil {
		return "", fmt.Errorf("failed to send command: %w", err)
	}

	timer := time.NewTimer(c.opts.Settle)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-timer.C:
	}

	captured := out.String()
	_, _ = io.WriteString(stdin, "exit\n")

	logging.Debug("captured output", "host", c.opts.Address(), "bytes", len(captured))
	return captured, nil
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.client.Close()
}

// lockedBuffer collects stdout and stderr, which are copied by separate goroutines.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
