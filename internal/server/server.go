// Package server implements the TCP listener and per-connection RESP
// request loop (§1's "network listener" external collaborator), feeding
// parsed commands into the executor and writing replies back in order.
package server

import (
	"bufio"
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/picoredis/picoredis/internal/resp"
	"github.com/picoredis/picoredis/internal/session"
)

// Submitter is the single method of *executor.Executor the server depends
// on, kept as a narrow interface so this package doesn't import executor
// just to call one method (and so tests can fake it).
type Submitter interface {
	Submit(sess *session.Session, args [][]byte) resp.Reply
}

// Server accepts TCP connections and runs one read/dispatch/write loop per
// connection, each as its own goroutine.
type Server struct {
	exec Submitter
	log  *zap.Logger

	mu      sync.Mutex
	ln      net.Listener
	conns   map[net.Conn]struct{}
	wg      sync.WaitGroup
	closing bool
}

// New constructs a Server that submits every parsed command to exec.
func New(exec Submitter, log *zap.Logger) *Server {
	return &Server{
		exec:  exec,
		log:   log.Named("server"),
		conns: make(map[net.Conn]struct{}),
	}
}

// Listen binds addr without accepting any connection yet. It returns once
// the listener is bound; call Serve to run the accept loop, or use
// ListenAndServe for both in one call.
func (s *Server) Listen(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()
	return nil
}

// Serve runs the accept loop until the listener is closed by Shutdown.
func (s *Server) Serve() error {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			s.mu.Lock()
			closing := s.closing
			s.mu.Unlock()
			if closing {
				return nil
			}
			return err
		}
		s.mu.Lock()
		s.conns[conn] = struct{}{}
		s.mu.Unlock()
		s.wg.Add(1)
		go s.handle(conn)
	}
}

// ListenAndServe binds addr and runs the accept loop, blocking until
// Shutdown closes the listener.
func (s *Server) ListenAndServe(addr string) error {
	if err := s.Listen(addr); err != nil {
		return err
	}
	return s.Serve()
}

// Shutdown stops accepting new connections and waits for in-flight
// connections to finish their current request before returning (Part D
// item 3: "drain connections before final sync flush" — the executor's
// own Shutdown performs that final flush once this returns).
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closing = true
	ln := s.ln
	// Unblock each connection's next read so its loop ends after the
	// request it is currently serving.
	for c := range s.conns {
		_ = c.SetReadDeadline(time.Now())
	}
	s.mu.Unlock()
	if ln != nil {
		_ = ln.Close()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) handle(conn net.Conn) {
	defer s.wg.Done()
	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		_ = conn.Close()
	}()

	// sess lives only as long as this goroutine; a disconnect mid-MULTI
	// drops any queued invocations with it, nothing ever runs them.
	sess := session.New()
	r := bufio.NewReader(conn)
	p := resp.NewParser(r)
	w := bufio.NewWriter(conn)

	for {
		args, err := p.ReadCommand()
		if err != nil {
			if errors.Is(err, resp.ErrProtocolError) {
				w.Write(resp.Format(resp.NewError(resp.ErrProtocol)))
				w.Flush()
			}
			s.logDisconnect(err)
			return
		}
		reply := s.exec.Submit(sess, args)
		w.Write(resp.Format(reply))
		if r.Buffered() == 0 {
			if err := w.Flush(); err != nil {
				return
			}
		}
	}
}

func (s *Server) logDisconnect(err error) {
	if errors.Is(err, resp.ErrProtocolError) {
		s.log.Warn("closing connection after protocol error", zap.Error(err))
	}
	// A clean io.EOF (peer disconnect) is not logged; it's the common case.
}
