package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/sanonone/kektorgraph/internal/config"
	kgmcp "github.com/sanonone/kektorgraph/internal/mcp"
	"github.com/sanonone/kektorgraph/pkg/graph"
	"github.com/sanonone/kektorgraph/pkg/metrics"
)

// Server holds the HTTP interface and the graph it serves.
type Server struct {
	Graph *graph.Store

	cfg         *config.Config
	logger      *slog.Logger
	httpServer  *http.Server
	handler     http.Handler
	taskManager *TaskManager
	limiter     *rate.Limiter
}

// NewServer wires routes and middleware around an existing store.
// A nil logger falls back to slog.Default().
func NewServer(store *graph.Store, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if store == nil {
		return nil, fmt.Errorf("server requires a graph store")
	}
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		Graph:       store,
		cfg:         cfg,
		logger:      logger,
		taskManager: NewTaskManager(),
	}
	if cfg.Server.RateLimitRPS > 0 {
		burst := cfg.Server.RateLimitBurst
		if burst <= 0 {
			burst = int(cfg.Server.RateLimitRPS) + 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.Server.RateLimitRPS), burst)
	}

	mux := http.NewServeMux()
	s.registerHTTPHandlers(mux)

	// Chain: Recovery -> Logging -> CORS -> RateLimit -> Mux
	var handler http.Handler = mux
	handler = s.RateLimitMiddleware(handler)
	handler = s.CORSMiddleware(handler)
	handler = s.LoggingMiddleware(handler)
	handler = s.RecoveryMiddleware(handler)

	rootMux := http.NewServeMux()
	rootMux.HandleFunc("GET /healthz", s.handleHealthz)
	if cfg.Metrics.Enabled {
		rootMux.Handle("GET "+cfg.Metrics.Path, promhttp.Handler())
	}
	if cfg.MCP.Enabled {
		mcpServer := kgmcp.NewMCPServer(store)
		mcpHandler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
			return mcpServer
		}, nil)
		rootMux.Handle(cfg.MCP.Path, s.RecoveryMiddleware(mcpHandler))
	}
	rootMux.Handle("/", handler)

	s.handler = rootMux
	s.httpServer = &http.Server{
		Addr:         cfg.Server.HTTPAddr,
		Handler:      rootMux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	metrics.ObserveGraph(store)
	return s, nil
}

// Handler returns the root handler, for embedding and tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves HTTP until Shutdown is called.
func (s *Server) Run() error {
	s.logger.Info("HTTP server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server startup failed: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests, then waits for in-flight requests and
// background imports, bounded by ctx and a 5 second timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Starting graceful shutdown of HTTP server")

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP server shutdown error: %w", err)
	}
	if err := s.taskManager.Wait(ctx); err != nil {
		return fmt.Errorf("background tasks did not finish: %w", err)
	}
	return nil
}
