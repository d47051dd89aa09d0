// Package server serves the portfolio pages and their JSON models over HTTP.
//
// The loaded change log lives in a watch.Store as an immutable snapshot.
// Every meta request builds its own engine from that snapshot and the query
// string, so concurrent requests never share interaction state.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/time/rate"

	"github.com/Sumatoshi-tech/codefolio/internal/observability"
	"github.com/Sumatoshi-tech/codefolio/internal/sitegen"
	"github.com/Sumatoshi-tech/codefolio/internal/watch"
	"github.com/Sumatoshi-tech/codefolio/pkg/projects"
	"github.com/Sumatoshi-tech/codefolio/pkg/scene"
	"github.com/Sumatoshi-tech/codefolio/pkg/site"
)

// Server timeout defaults.
const (
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
)

// API rate limit defaults, in requests per second and burst size.
const (
	DefaultRateLimit = 20.0
	DefaultRateBurst = 40
)

// Options are the listener and limiter settings.
type Options struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	RateLimit       float64
	RateBurst       int
	CacheEntries    int
	CacheBytes      int64
}

// DefaultOptions returns the default settings listening on addr.
func DefaultOptions(addr string) Options {
	return Options{
		Addr:            addr,
		ReadTimeout:     DefaultReadTimeout,
		WriteTimeout:    DefaultWriteTimeout,
		IdleTimeout:     DefaultIdleTimeout,
		ShutdownTimeout: DefaultShutdownTimeout,
		RateLimit:       DefaultRateLimit,
		RateBurst:       DefaultRateBurst,
		CacheEntries:    DefaultCacheEntries,
		CacheBytes:      DefaultCacheBytes,
	}
}

// Server holds the page settings and the shared read-only state.
type Server struct {
	opts      Options
	site      sitegen.Site
	store     *watch.Store
	projects  []projects.Project
	sceneOpts []scene.Option

	logger  *slog.Logger
	tracer  trace.Tracer
	red     *observability.REDMetrics
	metrics http.Handler
	limiter *rate.Limiter
	cache   *responseCache
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTracer sets the tracer used by the request middleware.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Server) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithMetrics records RED metrics into red and serves handler at /metrics.
func WithMetrics(red *observability.REDMetrics, handler http.Handler) Option {
	return func(s *Server) {
		s.red = red
		s.metrics = handler
	}
}

// WithSceneOptions sets the options for every per-request scene.
func WithSceneOptions(opts ...scene.Option) Option {
	return func(s *Server) {
		s.sceneOpts = opts
	}
}

// New returns a server over store and the project list.
func New(opts Options, st sitegen.Site, store *watch.Store, list []projects.Project, options ...Option) *Server {
	s := &Server{
		opts:     opts,
		site:     st,
		store:    store,
		projects: list,
		logger:   slog.Default(),
		tracer:   noop.NewTracerProvider().Tracer(""),
	}

	for _, opt := range options {
		opt(s)
	}

	if s.red != nil {
		s.store.Subscribe(func(snap *watch.Snapshot) {
			s.red.RecordLogSize(context.Background(), snap.Records)
		})
	}

	s.cache = newResponseCache(s.opts.CacheEntries, s.opts.CacheBytes)
	s.store.Subscribe(func(*watch.Snapshot) { s.cache.reset() })

	if s.opts.RateLimit > 0 {
		burst := max(s.opts.RateBurst, 1)
		s.limiter = rate.NewLimiter(rate.Limit(s.opts.RateLimit), burst)
	}

	return s
}

// Handler returns the routed handler. Page routes are mounted under the
// site base path; probes and metrics stay at the root.
func (s *Server) Handler() http.Handler {
	pages := http.NewServeMux()

	s.route(pages, "/{$}", s.handleHome)
	s.route(pages, "/"+sitegen.ProjectsPath+"{$}", s.handleProjects)
	s.route(pages, "/"+sitegen.MetaPath+"{$}", s.handleMeta)
	s.route(pages, "/"+sitegen.ContactPath+"{$}", s.handleContact)
	s.route(pages, "/api/meta", s.limit(s.handleAPIMeta))
	s.route(pages, "/api/meta/tooltip", s.limit(s.handleAPITooltip))
	s.route(pages, "/api/projects", s.limit(s.handleAPIProjects))

	root := http.NewServeMux()
	root.Handle("GET /healthz", observability.HealthHandler())
	root.Handle("GET /readyz", observability.ReadyHandler(s.store.Ready))

	if s.metrics != nil {
		root.Handle("GET /metrics", s.metrics)
	}

	base := site.NormalizeBase(s.site.BasePath)
	if base == "/" {
		root.Handle("/", pages)
	} else {
		root.Handle(base, http.StripPrefix(base[:len(base)-1], pages))
	}

	return root
}

// route registers a GET handler traced and measured under its path pattern.
func (s *Server) route(mux *http.ServeMux, path string, h http.HandlerFunc) {
	mux.Handle(http.MethodGet+" "+path, observability.HTTPMiddleware(s.tracer, s.red, path, h))
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.opts.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		IdleTimeout:  s.opts.IdleTimeout,
	}

	errCh := make(chan error, 1)

	go func() {
		s.logger.InfoContext(ctx, "server starting", "addr", s.opts.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("listen on %s: %w", s.opts.Addr, err)

	case <-ctx.Done():
	}

	timeout := s.opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	s.logger.InfoContext(ctx, "server shutting down")

	err := srv.Shutdown(shutdownCtx)
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}
