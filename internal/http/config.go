package http

import (
	"github.com/mrlokans/library/internal/auth"
	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/services"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	BookService   services.BookService
	Validator     services.BookValidator
	HealthChecker services.HealthChecker

	// Optional middleware; nil disables it
	AuthMiddleware *auth.Middleware
	RateLimiter    *RateLimiter

	// Proxies allowed to set X-Forwarded-For; nil trusts none, so the
	// client IP is always the socket peer.
	TrustedProxies []string

	// Application info
	Version string
}

// NewRateLimiterFromConfig returns nil when rate limiting is disabled.
func NewRateLimiterFromConfig(cfg config.RateLimit) *RateLimiter {
	if !cfg.Enabled {
		return nil
	}
	return NewRateLimiter(cfg.RPS, cfg.Burst)
}
