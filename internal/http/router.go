package http

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Optional middleware in cfg is skipped when nil.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	// ClientIP keys the rate limiter, so forwarded headers are only honoured
	// from configured proxies.
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		log.Printf("Invalid trusted proxies %v, trusting none: %v", cfg.TrustedProxies, err)
		_ = router.SetTrustedProxies(nil)
	}
	router.Use(RequestIDMiddleware())
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())

	if cfg.RateLimiter != nil {
		router.Use(cfg.RateLimiter.Handler())
	}

	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
	} else {
		router.Use(func(c *gin.Context) {
			c.Set(auth.ContextKeyAuthType, auth.AuthTypeNone)
			c.Next()
		})
	}

	health := NewHealthController(cfg.HealthChecker, cfg.Version)
	books := NewBooksController(cfg.BookService, cfg.Validator)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)

	// Books API endpoints
	router.GET("/books", books.List)
	router.GET("/books/:isbn", books.Get)
	router.POST("/books", books.Create)
	router.PUT("/books/:isbn", books.Update)
	router.DELETE("/books/:isbn", books.Delete)

	return router
}
