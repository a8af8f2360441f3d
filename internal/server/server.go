package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/denis333rus/censornet/internal/ai"
	apihttp "github.com/denis333rus/censornet/internal/api/http"
	"github.com/denis333rus/censornet/internal/api/middleware"
	"github.com/denis333rus/censornet/internal/api/ws"
	"github.com/denis333rus/censornet/internal/domain/court"
	"github.com/denis333rus/censornet/internal/domain/enforcement"
	"github.com/denis333rus/censornet/internal/domain/nav"
	"github.com/denis333rus/censornet/internal/domain/negotiation"
	"github.com/denis333rus/censornet/internal/domain/site"
	"github.com/denis333rus/censornet/internal/domain/tab"
	"github.com/denis333rus/censornet/internal/infrastructure/config"
	"github.com/denis333rus/censornet/internal/infrastructure/logging"
	"github.com/denis333rus/censornet/internal/infrastructure/monitoring"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router *gin.Engine
	store  *site.Store
	logger *logging.Logger
}

// New wires the full service from configuration: site store, tab
// manager, AI client, navigation controller, enforcement, negotiation,
// court, and the HTTP and WebSocket surfaces on top.
func New(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	metrics := monitoring.New()

	backend, err := newBackend(cfg.Store)
	if err != nil {
		return nil, err
	}
	store, err := site.NewStore(backend, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("Site store ready",
		zap.String("backend", cfg.Store.Backend),
		zap.Int("records", store.Len()))

	tabs := tab.NewManager().WithMetrics(metrics)

	aiClient := ai.NewClient(cfg.AI.Address, cfg.AI.Timeout)
	logger.Info("AI collaborator configured", zap.String("addr", cfg.AI.Address))

	delays := nav.Delays{
		Normal:  cfg.Sim.NormalDelay,
		Slowed:  cfg.Sim.SlowedDelay,
		Blocked: cfg.Sim.BlockedDelay,
	}
	navController := nav.NewController(store, tabs, aiClient, delays, logger).
		WithMetrics(metrics).
		WithGenerationTimeout(cfg.AI.Timeout)

	actions := enforcement.NewActions(store, tabs, navController, cfg.Sim.AppealChance, cfg.Sim.Seed, logger).
		WithMetrics(metrics)
	engine := negotiation.NewEngine(store, tabs, aiClient, navController, logger).
		WithMetrics(metrics)
	appeals := court.NewCourt(store, tabs, aiClient, navController, logger).
		WithMetrics(metrics)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	router.Use(monitoring.Middleware(metrics))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	handlers := apihttp.NewHandlers(store, tabs, navController, actions, engine, appeals, aiClient, logger)
	wsHandler := ws.NewHandler(tabs, logger)

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Tab lifecycle
	router.POST("/tabs", handlers.OpenTab)
	router.GET("/tabs", handlers.ListTabs)
	router.GET("/tabs/:id", handlers.GetTab)
	router.DELETE("/tabs/:id", handlers.CloseTab)

	// Navigation
	router.POST("/tabs/:id/navigate", handlers.Navigate)
	router.POST("/tabs/:id/back", handlers.Back)
	router.POST("/tabs/:id/forward", handlers.Forward)
	router.POST("/tabs/:id/reload", handlers.Reload)
	router.GET("/tabs/:id/links", handlers.Links)

	// Enforcement
	router.POST("/tabs/:id/block", handlers.Block)
	router.POST("/tabs/:id/throttle", handlers.Throttle)
	router.POST("/tabs/:id/restore", handlers.Restore)

	// Negotiation
	router.POST("/tabs/:id/messages", handlers.SendMessage)
	router.GET("/tabs/:id/messages", handlers.ListMessages)

	// Court
	router.POST("/tabs/:id/court", handlers.OpenCourt)
	router.POST("/tabs/:id/court/verdict", handlers.CloseCourt)

	// Search and registry view
	router.GET("/search", handlers.Search)
	router.GET("/sites", handlers.ListSites)

	// WebSocket
	router.GET("/stream", wsHandler.HandleConnection)

	return &Server{
		router: router,
		store:  store,
		logger: logger,
	}, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run starts the server
func (s *Server) Run(addr string) error {
	s.logger.Info("Starting regulator browser service", zap.String("addr", addr))
	return s.router.Run(addr)
}

// Close flushes and closes the site store
func (s *Server) Close() error {
	if err := s.store.Close(); err != nil {
		s.logger.Error("Error closing site store", zap.Error(err))
		return err
	}
	return nil
}

func newBackend(cfg config.StoreConfig) (site.Backend, error) {
	switch cfg.Backend {
	case "file":
		return site.NewFileBackend(cfg.Path)
	case "sqlite":
		return site.NewSQLiteBackend(cfg.Path)
	case "memory":
		return site.NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
