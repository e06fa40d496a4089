// package server contains the HTTP API for the playlist site: routing,
// middleware, the JSON response envelope and the push-event hub
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Handler defines the interface for HTTP request handlers in the playlist service.
// Implementations serve a group of related endpoints (auth, songs, settings...).
type Handler interface {
	http.Handler
	Routes() []string // Routes returns the "METHOD /path" patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
type Router interface {
	Use(middleware ...Middleware)
	Handle(method, path string, handler http.Handler)
	Handler(handler Handler)
	ServeHTTP(w http.ResponseWriter, r *http.Request)
}

// Server wraps http.Server with graceful shutdown tied to a context.
type Server struct {
	httpServer *http.Server
	logger     *log.Logger
}

// NewServer creates a Server listening on addr.
func NewServer(addr string, handler http.Handler, logger *log.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}
