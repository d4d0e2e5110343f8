// Package auth provides the optional API-key gate and response hardening
// headers for the HTTP API.
//
// It supports two authentication modes:
//   - "none": No authentication required (default)
//   - "apikey": A shared secret must be sent in a request header
//
// # Configuration
//
// Set AUTH_MODE environment variable to select the mode:
//
//	AUTH_MODE=none    # Default, no auth required
//	AUTH_MODE=apikey  # Writes require the key
//
// For apikey mode, additional configuration:
//
//	AUTH_API_KEY=<secret>             # Plain shared secret
//	AUTH_API_KEY_HASH=<bcrypt-hash>   # Takes precedence; see "library hash-api-key"
//	AUTH_API_KEY_HEADER=X-Api-Key     # Header carrying the key
//	AUTH_PROTECT_READS=false          # Also require the key on GET requests
//
// /health and /ping are never gated.
//
// # Usage
//
//	authMiddleware := auth.NewMiddleware(cfg.Auth)
//	router.Use(authMiddleware.Handler())
package auth
