package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/zeusync/armino/internal/config"
	"github.com/zeusync/armino/internal/core/observability/log"
)

const shutdownTimeout = 5 * time.Second

// Server exposes the event feed over HTTP.
type Server struct {
	cfg     config.FeedConfig
	feed    *Feed
	logger  log.Log
	running atomic.Bool
}

func NewServer(cfg config.FeedConfig, feed *Feed, logger log.Log) *Server {
	if cfg.Path == "" {
		cfg.Path = "/events"
	}
	return &Server{cfg: cfg, feed: feed, logger: logger}
}

// Handler routes the feed path; everything else is 404.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(s.cfg.Path, s.feed)
	return mux
}

// Serve listens on cfg.Addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	if s.cfg.Addr == "" {
		return fmt.Errorf("%w: feed address is empty", ErrInvalidConfig)
	}
	if !s.running.CompareAndSwap(false, true) {
		return ErrServerAlreadyRunning
	}
	defer s.running.Store(false)

	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}

	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.logger.Info("event feed listening", log.String("addr", ln.Addr().String()), log.String("path", s.cfg.Path))

	select {
	case err = <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	_ = s.feed.Close()
	if err = srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown feed: %w", err)
	}
	return nil
}
