// Package server assembles the HTTP surface: router, middleware, storage
// lifecycle, and graceful shutdown.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apihttp "github.com/quiverhq/quiver/backend/internal/api/http"
	"github.com/quiverhq/quiver/backend/internal/api/middleware"
	"github.com/quiverhq/quiver/backend/internal/auth"
	"github.com/quiverhq/quiver/backend/internal/domain/collection"
	"github.com/quiverhq/quiver/backend/internal/domain/environment"
	"github.com/quiverhq/quiver/backend/internal/domain/history"
	"github.com/quiverhq/quiver/backend/internal/infrastructure/config"
	"github.com/quiverhq/quiver/backend/internal/infrastructure/logging"
	"github.com/quiverhq/quiver/backend/internal/infrastructure/monitoring"
	"github.com/quiverhq/quiver/backend/internal/proxy"
	"github.com/quiverhq/quiver/backend/internal/storage"
	"github.com/quiverhq/quiver/backend/internal/ws"
)

// Server wraps the HTTP server and its dependencies.
type Server struct {
	cfg     *config.Config
	logger  *logging.Logger
	metrics *monitoring.Metrics
	db      *storage.DB
	hub     *ws.Hub
	httpSrv *http.Server
}

// New builds a fully wired server from configuration.
func New(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	db, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		return nil, err
	}

	metrics := monitoring.NewMetrics()
	hub := ws.NewHub(logger).WithMetrics(metrics)

	authSvc := auth.NewService(db, cfg.Auth.SessionTTL())
	collections := collection.NewManager(db)
	environments := environment.NewManager(db)
	hist := history.NewManager(db).WithPublisher(hub).WithMetrics(metrics)

	relay := proxy.New(proxy.Config{
		Timeout:      cfg.Proxy.Timeout(),
		PreviewLimit: cfg.Proxy.PreviewLimitBytes,
		UserAgent:    proxy.DefaultConfig().UserAgent,
	}, logger).WithMetrics(metrics)

	handlers := apihttp.NewHandlers(
		relay, authSvc, collections, environments, hist, logger, cfg.Production(),
	)

	router := buildRouter(cfg, handlers, authSvc, hub, metrics)

	return &Server{
		cfg:    cfg,
		logger: logger,
		db:     db,
		hub:    hub,
		httpSrv: &http.Server{
			Addr:              cfg.Server.Host + ":" + cfg.Server.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		metrics: metrics,
	}, nil
}

func buildRouter(
	cfg *config.Config,
	handlers *apihttp.Handlers,
	authSvc *auth.Service,
	hub *ws.Hub,
	metrics *monitoring.Metrics,
) *gin.Engine {
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

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

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// The relay endpoint answers every method so non-POST calls get a 405
	// with an Allow header instead of gin's default 404.
	router.Any("/api/proxy", middleware.SecurityHeaders(), handlers.Proxy)

	authRoutes := router.Group("/api/auth")
	{
		authRoutes.POST("/register", handlers.Register)
		authRoutes.POST("/login", handlers.Login)
		authRoutes.POST("/logout", handlers.Logout)
	}

	protected := router.Group("/api", middleware.RequireAuth(authSvc))
	{
		protected.POST("/collections", handlers.CreateCollection)
		protected.GET("/collections", handlers.ListCollections)
		protected.GET("/collections/:id", handlers.GetCollection)
		protected.PUT("/collections/:id", handlers.UpdateCollection)
		protected.DELETE("/collections/:id", handlers.DeleteCollection)
		protected.POST("/collections/import", handlers.ImportCollection)

		protected.POST("/environments", handlers.CreateEnvironment)
		protected.GET("/environments", handlers.ListEnvironments)
		protected.GET("/environments/:id", handlers.GetEnvironment)
		protected.PUT("/environments/:id", handlers.UpdateEnvironment)
		protected.DELETE("/environments/:id", handlers.DeleteEnvironment)

		protected.GET("/history", handlers.ListHistory)
		protected.GET("/history/export", handlers.ExportHistory)
		protected.DELETE("/history", handlers.ClearHistory)
		protected.DELETE("/history/:id", handlers.DeleteHistoryEntry)
	}

	router.GET("/ws/history", middleware.RequireAuth(authSvc), hub.HandleConnection)

	return router
}

// Start begins serving and blocks until the listener closes.
func (s *Server) Start() error {
	s.logger.Info("server starting",
		zap.String("addr", s.httpSrv.Addr),
		zap.String("env", s.cfg.Env),
	)
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and releases resources.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpSrv.Shutdown(ctx)
	if dbErr := s.db.Close(); dbErr != nil && err == nil {
		err = dbErr
	}
	return err
}
