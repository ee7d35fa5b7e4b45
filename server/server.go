// Package server exposes the catalog over HTTP: the filterable product page,
// a JSON API, a CSV export and operational endpoints.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"catalog-browser/utils"
)

// Options configures the HTTP server.
type Options struct {
	Addr           string
	RequestTimeout time.Duration
	RateLimit      int // requests per minute per client IP; 0 disables
}

// Server wraps http.Server with graceful shutdown.
type Server struct {
	srv    *http.Server
	logger *utils.Logger
}

// New returns a server for handler.
func New(opts Options, handler http.Handler, logger *utils.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              opts.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Run listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("[http] Listening on http://%s", ln.Addr())
		errCh <- s.srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("[http] Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	<-errCh
	return nil
}
