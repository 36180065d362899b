package http

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/mladjabiznis1-source/sales-tracker/internal/config"
	"github.com/mladjabiznis1-source/sales-tracker/internal/http/handler"
	httpmiddleware "github.com/mladjabiznis1-source/sales-tracker/internal/http/middleware"
	"github.com/mladjabiznis1-source/sales-tracker/internal/middleware"
)

// NewRouter wires Gin routes and middleware.
func NewRouter(
	cfg config.Config,
	logger *zap.Logger,
	health *handler.HealthHandler,
	authHandler *handler.AuthHandler,
	entryHandler *handler.EntryHandler,
	webhookHandler *handler.WebhookHandler,
	authMiddleware *httpmiddleware.Auth,
	rateLimiter *middleware.RateLimiter,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpmiddleware.RequestLogger(logger))
	if rateLimiter != nil {
		r.Use(rateLimiter.Handler())
	}
	r.Use(cors.New(corsConfig(cfg)))
	r.Use(otelgin.Middleware(cfg.ServiceName))

	r.GET("/", health.Status)

	api := r.Group("/api")
	{
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)
		api.POST("/logout", authHandler.Logout)
		api.GET("/me", authHandler.Me)

		api.POST("/webhook/google-form", webhookHandler.GoogleForm)
		api.GET("/forms/entries", entryHandler.ListSubmissions)
		api.GET("/webhook/entries", entryHandler.ListPublic)

		entries := api.Group("/entries", authMiddleware.RequireSession)
		{
			entries.GET("", entryHandler.List)
			entries.POST("", entryHandler.Create)
			entries.PUT("/:id", entryHandler.Update)
			entries.DELETE("/:id", entryHandler.Delete)
		}
	}

	// The dashboard is served only as static files; all logic stays on /api.
	attachUIRoutes(r, cfg.StaticDir)

	return r
}

func corsConfig(cfg config.Config) cors.Config {
	corsCfg := cors.Config{
		AllowMethods:     cfg.CORSAllowedMethods,
		AllowHeaders:     cfg.CORSAllowedHeaders,
		AllowCredentials: cfg.CORSAllowCredentials,
	}
	if len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*" {
		// Credentialed requests cannot use the wildcard origin; reflect the
		// caller's origin instead.
		corsCfg.AllowOriginFunc = func(origin string) bool { return true }
	} else {
		corsCfg.AllowOrigins = cfg.CORSAllowedOrigins
	}
	return corsCfg
}

func attachUIRoutes(r *gin.Engine, distDir string) {
	indexPath := filepath.Join(distDir, "index.html")

	r.NoRoute(func(c *gin.Context) {
		path := c.Request.URL.Path
		if isAPIPath(path) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}

		if filePath, ok := safeJoin(distDir, path); ok {
			if info, err := os.Stat(filePath); err == nil && !info.IsDir() {
				c.File(filePath)
				return
			}
		}

		c.File(indexPath)
	})
}

func isAPIPath(path string) bool {
	return strings.HasPrefix(path, "/api")
}

func safeJoin(baseDir, requestPath string) (string, bool) {
	trimmed := strings.TrimPrefix(requestPath, "/")
	cleaned := filepath.Clean(trimmed)
	if cleaned == "." {
		return filepath.Join(baseDir, cleaned), true
	}
	if strings.HasPrefix(cleaned, "..") {
		return "", false
	}
	return filepath.Join(baseDir, cleaned), true
}
