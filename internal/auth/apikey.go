package auth

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/mrlokans/library/internal/config"
)

// Context keys for auth data
const (
	ContextKeyAuthType = "auth_type" // "apikey" or "none"
)

// AuthType indicates how the request was authenticated
type AuthType string

const (
	AuthTypeNone   AuthType = "none"
	AuthTypeAPIKey AuthType = "apikey"
)

var (
	ErrMissingAPIKey = errors.New("api key missing")
	ErrInvalidAPIKey = errors.New("api key invalid")
)

// APIKeyChecker compares presented keys against the configured shared secret.
type APIKeyChecker struct {
	key  []byte
	hash []byte
}

// NewAPIKeyChecker builds a checker. A non-empty bcrypt hash takes precedence
// over the plain key.
func NewAPIKeyChecker(key, hash string) *APIKeyChecker {
	c := &APIKeyChecker{}
	if hash != "" {
		c.hash = []byte(hash)
	} else {
		c.key = []byte(key)
	}
	return c
}

// Check returns nil when presented matches the configured key.
func (c *APIKeyChecker) Check(presented string) error {
	if presented == "" {
		return ErrMissingAPIKey
	}
	if c.hash != nil {
		if err := bcrypt.CompareHashAndPassword(c.hash, []byte(presented)); err != nil {
			return ErrInvalidAPIKey
		}
		return nil
	}
	if len(c.key) == 0 || subtle.ConstantTimeCompare(c.key, []byte(presented)) != 1 {
		return ErrInvalidAPIKey
	}
	return nil
}

// HashAPIKey produces a bcrypt hash suitable for AUTH_API_KEY_HASH.
func HashAPIKey(key string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Middleware gates requests behind the API key when auth mode is apikey.
type Middleware struct {
	checker     *APIKeyChecker
	config      config.Auth
	publicPaths map[string]bool
}

// NewMiddleware creates a new authentication middleware.
func NewMiddleware(cfg config.Auth) *Middleware {
	if cfg.HeaderName == "" {
		cfg.HeaderName = config.DefaultAPIKeyHeader
	}
	return &Middleware{
		checker: NewAPIKeyChecker(cfg.APIKey, cfg.APIKeyHash),
		config:  cfg,
		publicPaths: map[string]bool{
			"/health": true,
			"/ping":   true,
		},
	}
}

// Handler returns a Gin middleware handler that authenticates requests.
func (m *Middleware) Handler() gin.HandlerFunc {
	if m.config.Mode != config.AuthModeAPIKey {
		return func(c *gin.Context) {
			c.Set(ContextKeyAuthType, AuthTypeNone)
			c.Next()
		}
	}

	return func(c *gin.Context) {
		if !m.requiresKey(c.Request) {
			c.Set(ContextKeyAuthType, AuthTypeNone)
			c.Next()
			return
		}

		if err := m.checker.Check(c.GetHeader(m.config.HeaderName)); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
			})
			return
		}

		c.Set(ContextKeyAuthType, AuthTypeAPIKey)
		c.Next()
	}
}

// requiresKey reports whether the request must carry the API key. Writes are
// always gated; reads only when ProtectReads is set.
func (m *Middleware) requiresKey(r *http.Request) bool {
	if m.publicPaths[r.URL.Path] {
		return false
	}
	switch r.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return m.config.ProtectReads
	default:
		return true
	}
}

// GetAuthType retrieves the authentication method used.
func GetAuthType(c *gin.Context) AuthType {
	if t, exists := c.Get(ContextKeyAuthType); exists {
		if authType, ok := t.(AuthType); ok {
			return authType
		}
	}
	return AuthTypeNone
}
