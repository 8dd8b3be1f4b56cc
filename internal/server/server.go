// Package server exposes the rendering pipeline and document store over HTTP.
//
// Routes:
//
//	GET    /health                   liveness and build info
//	POST   /render                   render an inline document
//	POST   /layout                   compute a layout for an inline document
//	GET    /documents                list stored documents
//	POST   /documents                store a document
//	GET    /documents/{id}           fetch a stored document
//	PUT    /documents/{id}           replace a stored document
//	DELETE /documents/{id}           delete a stored document
//	GET    /documents/{id}/render    render a stored document to one format
//
// Rendering endpoints share one pipeline Runner, so repeated renders of the
// same document serve from the layout and artifact caches.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/notate/pkg/pipeline"
	"github.com/matzehuels/notate/pkg/store"
)

// Default server settings.
const (
	DefaultAddr = ":8080"

	// ReadTimeout bounds reading a request; WriteTimeout bounds the whole
	// response, and PDF conversion can take a while on large documents.
	ReadTimeout  = 15 * time.Second
	WriteTimeout = 60 * time.Second

	// ShutdownTimeout bounds the graceful drain on exit.
	ShutdownTimeout = 10 * time.Second

	// MaxBodyBytes caps request bodies.
	MaxBodyBytes = 8 << 20
)

// Options configures a Server.
type Options struct {
	// Addr is the listen address. Empty means DefaultAddr.
	Addr string

	// Store persists documents. Nil means in-memory storage.
	Store store.Store

	// Runner executes render requests. Nil means an uncached runner.
	Runner *pipeline.Runner

	// Logger receives request and error logs. Nil means the default logger.
	Logger *log.Logger
}

// Server serves the rendering API.
type Server struct {
	addr   string
	store  store.Store
	runner *pipeline.Runner
	logger *log.Logger
	router chi.Router
}

// New creates a Server with its routes installed.
func New(opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	if opts.Store == nil {
		opts.Store = store.NewMemoryStore()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Runner == nil {
		opts.Runner = pipeline.NewRunner(nil, nil, opts.Logger)
	}

	s := &Server{
		addr:   opts.Addr,
		store:  opts.Store,
		runner: opts.Runner,
		logger: opts.Logger,
	}
	s.router = s.routes()
	return s
}

// Router returns the HTTP handler, for tests and embedding.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Post("/render", s.handleRender)
	r.Post("/layout", s.handleLayout)

	r.Route("/documents", func(r chi.Router) {
		r.Get("/", s.handleListDocuments)
		r.Post("/", s.handleCreateDocument)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetDocument)
			r.Put("/", s.handleUpdateDocument)
			r.Delete("/", s.handleDeleteDocument)
			r.Get("/render", s.handleRenderDocument)
		})
	})

	return r
}

// ListenAndServe runs the server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.addr,
		Handler:      s.router,
		ReadTimeout:  ReadTimeout,
		WriteTimeout: WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
