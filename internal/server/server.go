package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/jackzampolin/sheetindex/internal/api"
	"github.com/jackzampolin/sheetindex/internal/config"
	"github.com/jackzampolin/sheetindex/internal/home"
	"github.com/jackzampolin/sheetindex/internal/jobs"
	"github.com/jackzampolin/sheetindex/internal/providers"
	"github.com/jackzampolin/sheetindex/internal/server/endpoints"
	"github.com/jackzampolin/sheetindex/internal/svcctx"
)

// Server is the main sheetindex HTTP server.
// It owns the page pool - starting it on server start and stopping it on
// server shutdown.
type Server struct {
	httpServer  *http.Server
	pagePool    *jobs.PagePool
	registry    *providers.Registry
	configStore *config.MapStore
	configMgr   *config.Manager
	logger      *slog.Logger

	// services holds all core services for context enrichment
	services *svcctx.Services

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry

	mu      sync.RWMutex
	running bool
}

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1)
	Host string
	// Port is the port to listen on (default: 8080)
	Port string
	// ConfigManager provides configuration with hot-reload support
	ConfigManager *config.Manager
	// Home is the sheetindex home directory (optional)
	Home *home.Dir
	// Registry overrides the config-built provider registry (tests)
	Registry *providers.Registry
	// Workers sizes the page pool (default: defaults.max_workers, then NumCPU)
	Workers int
	// SwaggerSpecPath points at a generated swagger.json (optional)
	SwaggerSpecPath string
	// Logger is the structured logger to use
	Logger *slog.Logger
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	// Create provider registry
	registry := cfg.Registry
	if registry == nil {
		registry = providers.NewRegistry()
		registry.SetLogger(cfg.Logger)
	}

	// Settings store mirrors the loaded config, falling back to defaults
	store := config.NewStore()
	ctx := context.Background()
	if err := config.SeedDefaults(ctx, store, cfg.Logger); err != nil {
		return nil, fmt.Errorf("failed to seed settings: %w", err)
	}

	workers := cfg.Workers
	if cfg.ConfigManager != nil {
		current := cfg.ConfigManager.Get()
		if err := config.SeedFromConfig(ctx, store, current); err != nil {
			return nil, fmt.Errorf("failed to load settings: %w", err)
		}
		if cfg.Registry == nil {
			registry.Reload(current.ToProviderRegistryConfig())
		}
		if workers == 0 {
			workers = current.Defaults.MaxWorkers
		}

		// Watch for config changes
		cfg.ConfigManager.OnChange(func(c *config.Config) {
			if err := config.SeedFromConfig(context.Background(), store, c); err != nil {
				cfg.Logger.Error("failed to reload settings", "error", err)
			}
			if cfg.Registry == nil {
				registry.Reload(c.ToProviderRegistryConfig())
				cfg.Logger.Info("provider registry reloaded from config")
			}
		})
	}

	s := &Server{
		registry:    registry,
		configStore: store,
		configMgr:   cfg.ConfigManager,
		logger:      cfg.Logger,
		pagePool: jobs.NewPagePool(jobs.PagePoolConfig{
			Name:        "pages",
			Logger:      cfg.Logger,
			WorkerCount: workers,
		}),
	}

	s.services = &svcctx.Services{
		Registry:    s.registry,
		PagePool:    s.pagePool,
		ConfigStore: s.configStore,
		Logger:      s.logger,
		Home:        cfg.Home,
	}

	// Create endpoint registry and register all endpoints
	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All(endpoints.Config{SwaggerSpecPath: cfg.SwaggerSpecPath}) {
		s.endpointRegistry.Register(ep)
	}

	// Set up HTTP server
	mux := http.NewServeMux()
	s.endpointRegistry.RegisterRoutes(mux, s.requireInit)

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:      s.withServices(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// Start starts the page pool and the HTTP server.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	// Start the page pool
	poolCtx, stopPool := context.WithCancel(context.Background())
	poolDone := make(chan struct{})
	go func() {
		s.pagePool.Start(poolCtx)
		close(poolDone)
	}()

	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		stopPool()
		<-poolDone
		s.setNotRunning()
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}

	// Start HTTP server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for context cancellation or error
	var serveErr error
	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			serveErr = fmt.Errorf("HTTP server error: %w", err)
		}
	}

	if err := s.shutdown(stopPool, poolDone); err != nil {
		return err
	}
	return serveErr
}

// shutdown performs graceful shutdown of the HTTP server and page pool.
func (s *Server) shutdown(stopPool context.CancelFunc, poolDone <-chan struct{}) error {
	s.logger.Info("shutting down server")

	// Shutdown HTTP server with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	// Stop the page pool once in-flight requests have drained
	s.logger.Info("stopping page pool")
	stopPool()
	select {
	case <-poolDone:
	case <-shutdownCtx.Done():
		s.logger.Error("page pool stop timed out")
	}

	s.setNotRunning()
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// PagePool returns the page pool.
func (s *Server) PagePool() *jobs.PagePool {
	return s.pagePool
}

// ConfigStore returns the runtime settings store.
func (s *Server) ConfigStore() config.Store {
	return s.configStore
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Registry returns the provider registry.
func (s *Server) Registry() *providers.Registry {
	return s.registry
}

// Handler returns the server's root handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// withServices wraps a handler to enrich the request context with services.
func (s *Server) withServices(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if s.services != nil {
			ctx = svcctx.WithServices(ctx, s.services)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireInit is middleware that ensures the server is fully initialized.
// Returns 503 Service Unavailable if the page pool isn't running.
func (s *Server) requireInit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.pagePool == nil || !s.pagePool.Status().Running {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"server not fully initialized"}`))
			return
		}
		next(w, r)
	}
}
