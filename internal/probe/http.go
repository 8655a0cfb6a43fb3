// Package probe implements the plaintext HTTP/1.1 probe loop.
// Each attempt is a raw TCP exchange: no TLS, no response parsing, no reuse.
package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	"github.com/sanverite/http-probe-bench/internal/core"
)

// Config controls a probe run.
type Config struct {
	// Target is the endpoint to dial, in "host:port" form.
	// If empty, DefaultTarget is used.
	Target string

	// Host is the value of the Host header. If empty, DefaultHost is used.
	Host string

	// Path is the request target. If empty, DefaultPath is used.
	Path string

	// Attempts is the number of sequential attempts. If zero or negative,
	// core.DefaultAttemptLimit is used.
	Attempts int

	// Timeout bounds a single attempt (connect + write + read).
	// Zero leaves the transport defaults in charge, which may block for a
	// long time against an unresponsive host.
	Timeout time.Duration

	// Logger receives one line per failed attempt and a closing tally.
	// Nil discards.
	Logger *log.Logger
}

const (
	DefaultTarget = "httpbin.org:80"
	DefaultHost   = "httpbin.org"
	DefaultPath   = "/get"
)

// SuccessMarker is the substring whose presence marks an attempt as successful.
const SuccessMarker = "200 OK"

// ErrNoSuccess is returned by Attempt when the full response arrived but
// did not contain SuccessMarker.
var ErrNoSuccess = errors.New("response does not contain " + strconv.Quote(SuccessMarker))

func (c Config) withDefaults() Config {
	if strings.TrimSpace(c.Target) == "" {
		c.Target = DefaultTarget
	}
	if strings.TrimSpace(c.Host) == "" {
		c.Host = DefaultHost
	}
	if c.Path == "" {
		c.Path = DefaultPath
	}
	if c.Attempts <= 0 {
		c.Attempts = core.DefaultAttemptLimit
	}
	if c.Logger == nil {
		c.Logger = log.New(io.Discard, "", 0)
	}
	return c
}

// Request returns the request payload sent on every attempt.
func Request(host, path string) []byte {
	return []byte("GET " + path + " HTTP/1.1\r\nHost: " + host + "\r\nConnection: close\r\n\r\n")
}

// Succeeded reports whether a response counts as a success.
func Succeeded(resp string) bool {
	return strings.Contains(resp, SuccessMarker)
}

// Attempt performs a single exchange against cfg.Target:
// 1) TCP connect
// 2) write the full request
// 3) read until the peer closes, rejecting invalid UTF-8
// 4) check the response for SuccessMarker
//
// It returns nil on success. Any other outcome is an error; callers that
// only count successes need not distinguish between them.
func Attempt(ctx context.Context, cfg Config) error {
	cfg = cfg.withDefaults()
	if _, _, err := splitHostPortStrict(cfg.Target); err != nil {
		return fmt.Errorf("invalid target: %w", err)
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	dialer := &net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", cfg.Target)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	if _, err := conn.Write(Request(cfg.Host, cfg.Path)); err != nil {
		return fmt.Errorf("write request: %w", err)
	}

	resp, err := readResponse(conn)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if !Succeeded(resp) {
		return ErrNoSuccess
	}
	return nil
}

// Run performs cfg.Attempts attempts one after another and records each
// outcome in state, which must be idle and allow at least cfg.Attempts
// attempts; otherwise no attempt is made. A nil state gets a fresh one.
// Failed attempts are logged and otherwise ignored; the loop never stops
// early and never retries.
//
// The returned error is non-nil only when state rejects the run itself.
func Run(ctx context.Context, cfg Config, state *core.State) (core.RunSummary, error) {
	cfg = cfg.withDefaults()
	if state == nil {
		state = core.NewState(cfg.Attempts)
	}
	if limit := state.GetSnapshot().Limit; limit < cfg.Attempts {
		return state.Summary(), fmt.Errorf("start run: %d attempts over limit %d: %w", cfg.Attempts, limit, core.ErrAttemptLimit)
	}
	if err := state.SetRunState(core.StateRunning); err != nil {
		return state.Summary(), fmt.Errorf("start run: %w", err)
	}

	for i := 0; i < cfg.Attempts; i++ {
		t0 := time.Now()
		err := Attempt(ctx, cfg)
		if err != nil {
			cfg.Logger.Printf("probe: attempt %d failed after %dms: %v", i+1, millisSince(t0), err)
		}
		if rerr := state.RecordAttempt(err == nil); rerr != nil {
			return state.Summary(), fmt.Errorf("record attempt %d: %w", i+1, rerr)
		}
	}

	if err := state.SetRunState(core.StateFinished); err != nil {
		return state.Summary(), fmt.Errorf("finish run: %w", err)
	}
	sum := state.Summary()
	cfg.Logger.Printf("probe: %d/%d attempts succeeded in %dms", sum.Successes, sum.Attempts, sum.Elapsed.Milliseconds())
	return sum, nil
}

// readResponse drains r until EOF into a single string. Bytes that are not
// valid UTF-8 fail the read.
func readResponse(r io.Reader) (string, error) {
	b, err := io.ReadAll(transform.NewReader(r, encoding.UTF8Validator))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// splitHostPortStrict validates "host:port" and returns host and port strings.
// Accepts IPv6 in bracket form, e.g., "[::1]:80".
func splitHostPortStrict(hp string) (host, port string, err error) {
	host, port, err = net.SplitHostPort(hp)
	if err != nil {
		return "", "", err
	}
	n, err := strconv.Atoi(port)
	if err != nil || n < 1 || n > 65535 {
		return "", "", fmt.Errorf("invalid port %q", port)
	}
	if strings.TrimSpace(host) == "" {
		return "", "", errors.New("empty host")
	}
	return host, port, nil
}

// millisSince returns the elapsed milliseconds since t0, clamped at zero.
func millisSince(t0 time.Time) int64 {
	diff := time.Since(t0)
	if diff < 0 {
		return 0
	}
	return diff.Milliseconds()
}
