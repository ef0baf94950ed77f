package protocol

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/park285/stripchess/internal/obslog"
	"go.uber.org/zap"
)

const defaultBufferSize = 1024

// Server is the command channel listener. It serves one connection at a
// time and reads each command with a single Read; a command that does not
// arrive in one buffer is truncated and fails to decode.
type Server struct {
	handler     *Handler
	bufferSize  int
	readTimeout time.Duration
	log         *zap.Logger
}

type ServerOptions struct {
	BufferSize  int
	ReadTimeout time.Duration
	Logger      *zap.Logger
}

func NewServer(h *Handler, opts ServerOptions) *Server {
	if opts.BufferSize <= 0 {
		opts.BufferSize = defaultBufferSize
	}
	logger := opts.Logger
	if logger == nil {
		logger = obslog.Named("protocol")
	}
	return &Server{handler: h, bufferSize: opts.BufferSize, readTimeout: opts.ReadTimeout, log: logger}
}

// ListenAndServe binds addr and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts commands on ln until ctx is done. ln is closed on return.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
		case <-stop:
		}
		_ = ln.Close()
	}()

	s.log.Info("protocol_listen", zap.String("addr", ln.Addr().String()))
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				s.log.Info("protocol_listen_stop", zap.String("addr", ln.Addr().String()))
				return nil
			}
			s.log.Warn("protocol_accept_error", zap.Error(err))
			time.Sleep(50 * time.Millisecond)
			continue
		}
		s.serveConn(ctx, conn)
	}
}

func (s *Server) serveConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	if s.readTimeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(s.readTimeout))
	}
	buf := make([]byte, s.bufferSize)
	n, err := conn.Read(buf)
	if n == 0 {
		if err != nil {
			s.log.Debug("protocol_read_empty", zap.String("remote", conn.RemoteAddr().String()), zap.Error(err))
		}
		return
	}
	s.handler.Handle(ctx, buf[:n])
}
