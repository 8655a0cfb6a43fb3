package loopback

import (
	"bufio"
	"context"
	"errors"
	"log"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/net/nettest"
)

// ServerOptions configures the loopback server.
// Timeouts are short defaults suitable for a test peer.
type ServerOptions struct {
	// Addr is the listen address. If empty, a free loopback port is chosen.
	Addr            string
	Responder       Responder
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	Logger          *log.Logger
}

// Server accepts raw TCP connections and answers each one with a single
// scripted reply before closing it.
type Server struct {
	ln     net.Listener
	logger *log.Logger
	opts   ServerOptions

	served atomic.Int64
	wg     sync.WaitGroup
}

// NewServer constructs a server. It does not listen until Start is called.
func NewServer(opts ServerOptions) *Server {
	if opts.Responder == nil {
		opts.Responder = Always(OK())
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 2 * time.Second
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 2 * time.Second
	}
	if opts.ShutdownTimeout == 0 {
		opts.ShutdownTimeout = 5 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Server{
		logger: opts.Logger,
		opts:   opts,
	}
}

// Start binds the listener and serves in a background goroutine.
// It returns once the listener is ready; use Stop for shutdown.
func (s *Server) Start() error {
	var (
		ln  net.Listener
		err error
	)
	if s.opts.Addr == "" {
		ln, err = nettest.NewLocalListener("tcp")
	} else {
		ln, err = net.Listen("tcp", s.opts.Addr)
	}
	if err != nil {
		return err
	}
	s.ln = ln
	s.logger.Printf("loopback: listening on %s", ln.Addr())

	s.wg.Add(1)
	go s.acceptLoop()
	return nil
}

// Addr returns the bound "host:port". Empty before Start.
func (s *Server) Addr() string {
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Served returns the number of connections accepted so far.
func (s *Server) Served() int {
	return int(s.served.Load())
}

// Stop closes the listener and waits up to ShutdownTimeout for in-flight
// connections to finish.
func (s *Server) Stop(ctx context.Context) error {
	if s.ln == nil {
		return nil
	}
	timeout := s.opts.ShutdownTimeout
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	err := s.ln.Close()
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				s.logger.Printf("loopback: accept error: %v", err)
			}
			return
		}
		n := int(s.served.Add(1)) - 1
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.serve(conn, n)
		}()
	}
}

// serve reads the request head, writes the reply for connection n and closes.
func (s *Server) serve(conn net.Conn, n int) {
	defer conn.Close()
	start := time.Now()

	_ = conn.SetReadDeadline(start.Add(s.opts.ReadTimeout))
	line, err := readHead(bufio.NewReader(conn))
	if err != nil {
		s.logger.Printf("loopback: #%d read request: %v", n, err)
		return
	}

	reply := s.opts.Responder(n)
	_ = conn.SetWriteDeadline(time.Now().Add(s.opts.WriteTimeout))
	if err := reply.writeTo(conn); err != nil {
		s.logger.Printf("loopback: #%d write reply: %v", n, err)
		return
	}
	s.logger.Printf("loopback: #%d %q %s %dms", n, line, reply.kind(), time.Since(start).Milliseconds())
}

// readHead consumes header lines up to the blank line and returns the
// request line.
func readHead(r *bufio.Reader) (string, error) {
	var first string
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return first, err
		}
		if first == "" {
			first = trimCRLF(line)
			if first == "" {
				return "", errors.New("empty request line")
			}
			continue
		}
		if trimCRLF(line) == "" {
			return first, nil
		}
	}
}

func trimCRLF(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}
