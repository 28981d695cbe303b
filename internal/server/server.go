// internal/server/server.go
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"policyfund-intake/internal/catalog"
	"policyfund-intake/internal/common/config"
	"policyfund-intake/internal/common/logger"
	"policyfund-intake/internal/common/observability"
	"policyfund-intake/internal/wizard"
)

// Server owns the HTTP surface: the session API, the fund-check endpoint
// and the operational endpoints.
type Server struct {
	httpServer *http.Server
	logger     logger.Logger
}

// New assembles the router and wraps it in an http.Server with the
// configured timeouts.
func New(cfg config.ServerConfig, svc *wizard.Service, cat *catalog.Catalog, obs *observability.Observability, log logger.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))

	h := newHandlers(svc, cat, obs, log)

	api := router.Group("/api")
	{
		api.POST("/sessions", h.createSession)
		api.GET("/sessions/:id", h.getSession)
		api.POST("/sessions/:id/intake", h.submitIntake)
		api.POST("/sessions/:id/back", h.back)
		api.PUT("/sessions/:id/checklist", h.updateChecklist)
		api.POST("/sessions/:id/submit", h.submit)
		api.DELETE("/sessions/:id", h.endSession)
	}

	router.GET("/funds/check", h.checkFunds)
	router.GET("/healthz", h.healthz)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Address,
			Handler:      router,
			ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Millisecond,
			WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Millisecond,
		},
		logger: log,
	}
}

// Start blocks serving requests until the listener fails or the server is
// shut down.
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", map[string]interface{}{
		"address": s.httpServer.Addr,
	})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// requestLogger logs each request with latency and status.
func requestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := map[string]interface{}{
			"method":  c.Request.Method,
			"path":    c.FullPath(),
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			log.Error("Request failed", fields)
			return
		}
		log.Info("Request handled", fields)
	}
}
