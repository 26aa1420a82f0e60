package ssh

import (
	"bufio"
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	gossh "golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

const (
	testUser     = "monitor"
	testPassword = "s3cret-monitor"
)

// testServer is a minimal ETERNUS-like CLI: it echoes each typed line,
// answers it with canned output and a prompt, and hangs up on "exit".
type testServer struct {
	addr     string
	hostKey  gossh.PublicKey
	output   string
	commands chan string
	terms    chan string
}

func newTestServer(t *testing.T, output string) *testServer {
	t.Helper()

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey() error = %v", err)
	}
	signer, err := gossh.NewSignerFromKey(priv)
	if err != nil {
		t.Fatalf("NewSignerFromKey() error = %v", err)
	}

	cfg := &gossh.ServerConfig{
		PasswordCallback: func(c gossh.ConnMetadata, pass []byte) (*gossh.Permissions, error) {
			if c.User() == testUser && string(pass) == testPassword {
				return nil, nil
			}
			return nil, fmt.Errorf("password rejected for %q", c.User())
		},
	}
	cfg.AddHostKey(signer)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	s := &testServer{
		addr:     ln.Addr().String(),
		hostKey:  signer.PublicKey(),
		output:   output,
		commands: make(chan string, 16),
		terms:    make(chan string, 4),
	}
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go s.serve(conn, cfg)
		}
	}()
	return s
}

func (s *testServer) options(t *testing.T) Options {
	t.Helper()
	host, port, err := net.SplitHostPort(s.addr)
	if err != nil {
		t.Fatalf("SplitHostPort() error = %v", err)
	}
	var p int
	fmt.Sscanf(port, "%d", &p)
	return DefaultOptions(host).
		WithPort(p).
		WithCredentials(testUser, testPassword).
		WithTimeout(5 * time.Second).
		WithSettle(300 * time.Millisecond)
}

func (s *testServer) serve(conn net.Conn, cfg *gossh.ServerConfig) {
	defer conn.Close()
	_, chans, reqs, err := gossh.NewServerConn(conn, cfg)
	if err != nil {
		return
	}
	go gossh.DiscardRequests(reqs)

	for nc := range chans {
		if nc.ChannelType() != "session" {
			_ = nc.Reject(gossh.UnknownChannelType, "unsupported")
			continue
		}
		ch, requests, err := nc.Accept()
		if err != nil {
			return
		}
		go s.session(ch, requests)
	}
}

func (s *testServer) session(ch gossh.Channel, requests <-chan *gossh.Request) {
	defer ch.Close()

	var once sync.Once
	shell := make(chan struct{})
	go func() {
		defer once.Do(func() { close(shell) })
		for req := range requests {
			switch req.Type {
			case "pty-req":
				var pty struct {
					Term          string
					Columns, Rows uint32
					Width, Height uint32
					Modes         string
				}
				if err := gossh.Unmarshal(req.Payload, &pty); err == nil {
					select {
					case s.terms <- pty.Term:
					default:
					}
				}
				_ = req.Reply(true, nil)
			case "shell":
				_ = req.Reply(true, nil)
				once.Do(func() { close(shell) })
			default:
				_ = req.Reply(false, nil)
			}
		}
	}()
	<-shell

	_, _ = io.WriteString(ch, "CLI> ")
	scanner := bufio.NewScanner(ch)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		s.commands <- line
		if line == "exit" {
			return
		}
		_, _ = io.WriteString(ch, line+"\r\n"+s.output+"CLI> ")
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions("eternus01")

	if opts.Host != "eternus01" {
		t.Errorf("Host = %q, want %q", opts.Host, "eternus01")
	}
	if opts.Port != DefaultPort {
		t.Errorf("Port = %d, want %d", opts.Port, DefaultPort)
	}
	if opts.Term != "vt102" {
		t.Errorf("Term = %q, want %q", opts.Term, "vt102")
	}
	if opts.Settle != DefaultSettle {
		t.Errorf("Settle = %v, want %v", opts.Settle, DefaultSettle)
	}
	if opts.ConnectTimeout != DefaultConnectTimeout {
		t.Errorf("ConnectTimeout = %v, want %v", opts.ConnectTimeout, DefaultConnectTimeout)
	}
	if opts.StrictHostKeyCheck {
		t.Error("StrictHostKeyCheck should default to false")
	}
}

func TestOptionsBuilders(t *testing.T) {
	base := DefaultOptions("eternus01")
	opts := base.
		WithPort(2022).
		WithCredentials("monitor", "pw").
		WithTimeout(3 * time.Second).
		WithSettle(500 * time.Millisecond).
		WithKnownHosts("/etc/ssh/ssh_known_hosts")

	if opts.Port != 2022 {
		t.Errorf("Port = %d, want 2022", opts.Port)
	}
	if opts.User != "monitor" || opts.Password != "pw" {
		t.Errorf("credentials = %q/%q, want monitor/pw", opts.User, opts.Password)
	}
	if opts.ConnectTimeout != 3*time.Second {
		t.Errorf("ConnectTimeout = %v", opts.ConnectTimeout)
	}
	if opts.Settle != 500*time.Millisecond {
		t.Errorf("Settle = %v", opts.Settle)
	}
	if !opts.StrictHostKeyCheck || opts.KnownHostsFile != "/etc/ssh/ssh_known_hosts" {
		t.Errorf("known hosts = %v/%q", opts.StrictHostKeyCheck, opts.KnownHostsFile)
	}

	// Builders return copies.
	if base.Port != DefaultPort || base.User != "" {
		t.Error("builders should not modify the receiver")
	}
}

func TestOptionsAddress(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"eternus01", 22, "eternus01:22"},
		{"10.0.0.5", 2022, "10.0.0.5:2022"},
		{"::1", 22, "[::1]:22"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			opts := DefaultOptions(tt.host).WithPort(tt.port)
			if got := opts.Address(); got != tt.want {
				t.Errorf("Address() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOptionsDestination(t *testing.T) {
	opts := DefaultOptions("eternus01").WithCredentials("monitor", "pw")
	if got := opts.Destination(); got != "monitor@eternus01:22" {
		t.Errorf("Destination() = %q", got)
	}
}

func TestClientConfig_MissingKnownHosts(t *testing.T) {
	opts := DefaultOptions("eternus01").WithKnownHosts(filepath.Join(t.TempDir(), "missing"))
	if _, err := opts.ClientConfig(); err == nil {
		t.Error("ClientConfig() should fail for a missing known_hosts file")
	}
}

func TestDial_ConnectFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	addr := ln.Addr().(*net.TCPAddr)
	ln.Close()

	opts := DefaultOptions("127.0.0.1").
		WithPort(addr.Port).
		WithCredentials(testUser, testPassword).
		WithTimeout(2 * time.Second)

	_, err = Dial(context.Background(), opts)
	if !errors.Is(err, ErrConnect) {
		t.Errorf("Dial() error = %v, want ErrConnect", err)
	}
}

func TestDial_AuthFailure(t *testing.T) {
	srv := newTestServer(t, "")
	opts := srv.options(t).WithCredentials(testUser, "wrong")

	_, err := Dial(context.Background(), opts)
	if !errors.Is(err, ErrAuth) {
		t.Errorf("Dial() error = %v, want ErrAuth", err)
	}
	if errors.Is(err, ErrConnect) {
		t.Error("auth failure should not be reported as a connect failure")
	}
}

func TestDial_KnownHosts(t *testing.T) {
	srv := newTestServer(t, "")
	dir := t.TempDir()

	trusted := filepath.Join(dir, "trusted")
	if err := os.WriteFile(trusted, []byte(knownhosts.Line([]string{srv.addr}, srv.hostKey)+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	client, err := Dial(context.Background(), srv.options(t).WithKnownHosts(trusted))
	if err != nil {
		t.Fatalf("Dial() with matching host key error = %v", err)
	}
	client.Close()

	_, otherKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	otherSigner, err := gossh.NewSignerFromKey(otherKey)
	if err != nil {
		t.Fatal(err)
	}
	mismatched := filepath.Join(dir, "mismatched")
	if err := os.WriteFile(mismatched, []byte(knownhosts.Line([]string{srv.addr}, otherSigner.PublicKey())+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err = Dial(context.Background(), srv.options(t).WithKnownHosts(mismatched))
	if !errors.Is(err, ErrConnect) {
		t.Errorf("Dial() with mismatched host key error = %v, want ErrConnect", err)
	}
}

func TestCapture(t *testing.T) {
	output := "SID Gen Type\r\n1 1/1 EC Standard 2 VOL_A 3 VOL_B Active Copying 0x00 CLI\r\n"
	srv := newTestServer(t, output)

	client, err := Dial(context.Background(), srv.options(t))
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer client.Close()

	command := "show advanced-copy-sessions -type all"
	got, err := client.Capture(context.Background(), command)
	if err != nil {
		t.Fatalf("Capture() error = %v", err)
	}

	if !strings.Contains(got, "VOL_A 3 VOL_B Active") {
		t.Errorf("Capture() output missing session row:\n%s", got)
	}
	if !strings.HasPrefix(got, "CLI> "+command) {
		t.Errorf("Capture() output should start with prompt and echo:\n%s", got)
	}

	select {
	case term := <-srv.terms:
		if term != "vt102" {
			t.Errorf("pty term = %q, want vt102", term)
		}
	case <-time.After(2 * time.Second):
		t.Error("server never received a pty request")
	}

	for _, want := range []string{command, "exit"} {
		select {
		case line := <-srv.commands:
			if line != want {
				t.Errorf("server received %q, want %q", line, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("server never received %q", want)
		}
	}
}

func TestCapture_ContextCanceled(t *testing.T) {
	srv := newTestServer(t, "")

	client, err := Dial(context.Background(), srv.options(t).WithSettle(10*time.Second))
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err = client.Capture(ctx, "show advanced-copy-sessions -type all")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Capture() error = %v, want context.DeadlineExceeded", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("Capture() should return promptly when the context ends")
	}
}
