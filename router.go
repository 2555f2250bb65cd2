package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/agentsynergy/agentsynergy/pkg/cache"
	"github.com/agentsynergy/agentsynergy/pkg/config"
	"github.com/agentsynergy/agentsynergy/pkg/db"
	"github.com/agentsynergy/agentsynergy/pkg/handler"
	"github.com/agentsynergy/agentsynergy/pkg/middleware"
	"github.com/agentsynergy/agentsynergy/pkg/models"
	"github.com/agentsynergy/agentsynergy/pkg/observability"
	"github.com/agentsynergy/agentsynergy/pkg/service"
	"github.com/agentsynergy/agentsynergy/pkg/utils"
)

const apiVersion = "1.0.0"

type Server struct {
	ginEngine *gin.Engine
	cfg       *config.AppConfig
	db        *gorm.DB
	tokens    cache.Store
	metrics   *observability.Metrics
	logger    *slog.Logger
	port      int
}

func NewServer(cfg *config.AppConfig, gdb *gorm.DB, tokens cache.Store, metrics *observability.Metrics) (*Server, error) {
	if err := handler.RegisterValidators(); err != nil {
		return nil, err
	}

	ginEngine := gin.New()
	ginEngine.Use(gin.Recovery())
	ginEngine.Use(corsMiddleware(cfg.AllowedOrigins()))
	if cfg.TracingEnabled() {
		ginEngine.Use(otelgin.Middleware(cfg.ServiceName()))
	}
	ginEngine.Use(metrics.Middleware())
	ginEngine.Use(middleware.RequestLogger(utils.GetLogger()))

	server := &Server{
		ginEngine: ginEngine,
		cfg:       cfg,
		db:        gdb,
		tokens:    tokens,
		metrics:   metrics,
		logger:    utils.GetLogger(),
	}
	server.SetupRoutes()
	return server, nil
}

// corsMiddleware echoes allowed origins and rejects the rest. Requests
// without an Origin header are not CORS requests and pass through.
func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			if !allowed[origin] && !allowed["*"] {
				c.AbortWithStatus(http.StatusForbidden)
				return
			}
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (s *Server) SetupRoutes() {
	auth := service.NewAuthService(s.db, s.tokens, service.AuthOptions{
		SecretKey:      s.cfg.SecretKey(),
		AccessTokenTTL: time.Duration(s.cfg.AccessTokenExpireMinutes()) * time.Minute,
	})
	users := service.NewUserService(s.db)
	agents := service.NewAgentService(s.db, service.TemplateResponder{}, time.Duration(s.cfg.AgentTimeoutSeconds())*time.Second)
	agents.SetObserver(s.metrics)
	conversations := service.NewConversationService(s.db, agents)
	analyticsService := service.NewAnalyticsService(s.db, s.cfg.SubscriptionCost())
	integrations := service.NewIntegrationService(s.db)

	limiter := middleware.RateLimit(middleware.NewIPRateLimiter(s.cfg.AuthRateLimit()))

	s.ginEngine.GET("/", s.root)
	s.ginEngine.GET("/health", s.health)
	s.ginEngine.GET("/api/status", s.status)
	s.ginEngine.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	// /api/v1
	apiGroup := s.ginEngine.Group("/api/v1")
	handler.NewAuthHandler(auth, users, limiter, s.logger).RegisterRoutes(apiGroup)

	protected := apiGroup.Group("")
	protected.Use(middleware.RequireAuth(auth))
	handler.NewUserHandler(users, s.logger).RegisterRoutes(protected)
	handler.NewAgentHandler(agents, s.logger).RegisterRoutes(protected)
	handler.NewConversationHandler(conversations, s.logger).RegisterRoutes(protected)
	handler.NewAnalyticsHandler(analyticsService, s.logger).RegisterRoutes(protected)
	handler.NewIntegrationHandler(integrations, s.logger).RegisterRoutes(protected)
}

func (s *Server) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Agent Synergy API",
		"version": apiVersion,
		"docs":    "/api/status",
	})
}

// health reports unhealthy when the database does not answer a ping.
func (s *Server) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status, database, tokens := http.StatusOK, "ok", "ok"
	if err := db.Ping(ctx, s.db); err != nil {
		s.logger.Error("Health check failed", "component", "database", "error", err)
		status, database = http.StatusServiceUnavailable, "unreachable"
	}
	if err := s.tokens.Ping(ctx); err != nil {
		s.logger.Error("Health check failed", "component", "token_store", "error", err)
		status, tokens = http.StatusServiceUnavailable, "unreachable"
	}
	if status != http.StatusOK {
		c.JSON(status, gin.H{
			"status":      "unhealthy",
			"database":    database,
			"token_store": tokens,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"database":    database,
		"token_store": tokens,
		"timestamp":   time.Now().UTC(),
	})
}

func (s *Server) status(c *gin.Context) {
	c.JSON(http.StatusOK, models.Response{
		Code:    http.StatusOK,
		Message: "OK",
		Data: gin.H{
			"api_version": apiVersion,
			"status":      "operational",
			"environment": s.cfg.EnvironmentName(),
			"features": gin.H{
				"authentication": true,
				"agents":         true,
				"conversations":  true,
				"analytics":      true,
				"integrations":   true,
			},
		},
	})
}

// Start binds the configured address and serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host(), s.cfg.Port())
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.ginEngine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Listen first so a busy port fails fast.
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return err
	}
	if tcpAddr, ok := ln.Addr().(*net.TCPAddr); ok {
		s.port = tcpAddr.Port
	}
	s.logger.Info("Server listening", "addr", ln.Addr().String())

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Serve(ln)
	}()

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
