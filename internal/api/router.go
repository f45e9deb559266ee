package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hyx1081487532/firefly-comments/internal/config"
	"github.com/hyx1081487532/firefly-comments/internal/service"
	"github.com/hyx1081487532/firefly-comments/internal/web"
	"github.com/rs/zerolog"
)

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())

	// Handlers
	commentHandler := NewCommentHandler(services, log)
	adminHandler := NewAdminHandler(services, log)

	// Health check
	router.GET("/health", healthCheck)

	// Presentation assets: moderation console and embeddable widget
	router.GET("/admin", serveAsset("admin.html", "text/html; charset=utf-8"))
	router.GET("/embed.js", serveAsset("embed.js", "application/javascript"))

	api := router.Group("/api")
	{
		// Public endpoints
		comments := api.Group("/comments")
		{
			comments.GET("", commentHandler.ListPublic)
			comments.POST("", commentHandler.Submit)
		}

		// Moderation endpoints, gated by the shared admin secret
		admin := api.Group("/admin/comments")
		admin.Use(adminAuthMiddleware(cfg.Admin.Password, log))
		{
			admin.GET("", adminHandler.List)
			admin.GET("/export", adminHandler.Export)
			admin.POST("/:id/:action", adminHandler.Action)
			admin.DELETE("/:id", adminHandler.Delete)
		}
	}

	// Unknown paths answer in plain text
	router.NoRoute(func(c *gin.Context) {
		c.String(http.StatusNotFound, "Not found")
	})

	return router
}

// healthCheck returns the health status
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "firefly-comments",
	})
}

// serveAsset serves an embedded presentation asset
func serveAsset(name, contentType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := web.Assets.ReadFile(name)
		if err != nil {
			c.String(http.StatusNotFound, "Not found")
			return
		}
		c.Data(http.StatusOK, contentType, data)
	}
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests with a per-request id
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		requestID := uuid.New().String()
		c.Set("request_id", requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, x-admin-password")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
