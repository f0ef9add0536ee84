// ABOUTME: HTTP server for the message bank pages
// ABOUTME: Wires routes to the store, runs the listener, and shuts down gracefully on context cancel

package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/2389/message-bank/internal/resubmit"
	"github.com/2389/message-bank/internal/store"
)

// shutdownTimeout bounds how long in-flight requests get after the context is canceled
const shutdownTimeout = 5 * time.Second

// Options configures a Server
type Options struct {
	Title        string
	SampleSize   int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Resubmit drops a repeated (message, handle) POST within its window. Nil disables it.
	Resubmit *resubmit.Guard
}

// Server serves the submit, view, and bank pages on top of a store.Store
type Server struct {
	store     store.Store
	opts      Options
	logger    *slog.Logger
	templates map[string]*template.Template
	dogPage   template.HTML
	now       func() time.Time
}

// New creates a Server. Templates and the markdown pages are parsed up front so a
// broken asset fails at startup instead of on first request.
func New(st store.Store, opts Options, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	templates, err := loadTemplates()
	if err != nil {
		return nil, err
	}

	dogPage, err := renderMarkdownPage("mydog")
	if err != nil {
		return nil, err
	}

	return &Server{
		store:     st,
		opts:      opts,
		logger:    logger.With("component", "web"),
		templates: templates,
		dogPage:   dogPage,
		now:       time.Now,
	}, nil
}

// Handler returns the routed handler wrapped in request logging
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/{$}", s.handleIndex)
	mux.HandleFunc("GET /view/{$}", s.handleView)
	mux.HandleFunc("GET /my_message_bank/{$}", s.handleBank)
	mux.HandleFunc("GET /mydog/{$}", s.handleDog)
	mux.HandleFunc("GET /health", s.handleHealth)

	return requestLogger(s.logger)(mux)
}

// Run listens on addr and serves until ctx is canceled.
// Returns nil on graceful shutdown, or an error if the server fails.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", ln.Addr().String())
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
	}()

	var serverErr error
	select {
	case <-ctx.Done():
		s.logger.Info("context canceled, initiating shutdown")
	case serverErr = <-errCh:
		s.logger.Error("server error", "error", serverErr)
	}

	// The original context is already canceled, so shutdown gets a fresh one
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	shutdownErr := httpServer.Shutdown(shutdownCtx)

	if serverErr != nil {
		return serverErr
	}
	return shutdownErr
}
