// Package server exposes compilation and publishing over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	md2gdoc "github.com/alnah/go-md2gdoc"
	"github.com/alnah/go-md2gdoc/internal/rehost"
)

// Timeouts for the HTTP listener.
const (
	ReadHeaderTimeout = 10 * time.Second
	ShutdownTimeout   = 10 * time.Second
)

// Compiler compiles one input.
type Compiler interface {
	Compile(ctx context.Context, input md2gdoc.Input) (*md2gdoc.Result, error)
}

// Publisher compiles one input and submits it as a new document.
type Publisher interface {
	Publish(ctx context.Context, input md2gdoc.Input, opts md2gdoc.PublishOptions) (*md2gdoc.Document, error)
}

// Compile-time interface implementation checks.
var (
	_ Compiler  = (*md2gdoc.Compiler)(nil)
	_ Publisher = (*md2gdoc.Publisher)(nil)
)

// Server routes compile, publish, and rehosted image requests.
type Server struct {
	router    *chi.Mux
	compiler  Compiler
	publisher Publisher
	images    rehost.Source
	logger    *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithPublisher enables POST /v1/publish.
func WithPublisher(p Publisher) Option {
	return func(s *Server) {
		s.publisher = p
	}
}

// WithImageSource enables GET /images/{id}.
func WithImageSource(src rehost.Source) Option {
	return func(s *Server) {
		s.images = src
	}
}

// WithLogger sets the logger for request failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// New builds the router.
func New(compiler Compiler, opts ...Option) *Server {
	s := &Server{
		compiler: compiler,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/compile", s.handleCompile)
		if s.publisher != nil {
			r.Post("/publish", s.handlePublish)
		}
	})
	if s.images != nil {
		rehost.Mount(r, s.images)
	}

	s.router = r
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then drains open
// requests for up to ShutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: ReadHeaderTimeout,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// requestID assigns a UUID to requests that arrive without an ID so the
// value logged by middleware.RequestID can be echoed to the caller.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(middleware.RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(middleware.RequestIDHeader, id)
		}
		w.Header().Set(middleware.RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}
