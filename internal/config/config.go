package config

import (
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

type AuthMode string

const (
	AuthModeNone   AuthMode = "none"   // No authentication required (default)
	AuthModeAPIKey AuthMode = "apikey" // Shared secret in a request header
)

var (
	ErrMissingConnectionString = errors.New("DATABASE_CONNECTION_STRING must not be empty")
	ErrUnknownAuthMode         = errors.New("AUTH_MODE must be 'none' or 'apikey'")
	ErrMissingAPIKey           = errors.New("AUTH_MODE=apikey requires AUTH_API_KEY or AUTH_API_KEY_HASH")
	ErrInvalidRateLimit        = errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	ErrInvalidTrustedProxy     = errors.New("TRUSTED_PROXIES entries must be IP addresses or CIDR ranges")
	ErrUnknownGinMode          = errors.New("GIN_MODE must be 'debug', 'release' or 'test'")
)

// CronParser accepts the five-field schedules used by MAINTENANCE_SCHEDULE.
var CronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

type (
	Config struct {
		HTTP
		Global
		Database
		Auth
		RateLimit
		Tasks
		Maintenance
	}

	HTTP struct {
		Port    int32
		Host    string
		GinMode string
		// Proxies whose X-Forwarded-For is believed; empty trusts none
		TrustedProxies []string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		ConnectionString string
		LogSQL           bool
	}
	Auth struct {
		Mode         AuthMode
		APIKey       string
		APIKeyHash   string // bcrypt hash; takes precedence over APIKey
		HeaderName   string
		ProtectReads bool // Also require the key on GET routes
	}
	RateLimit struct {
		Enabled bool
		RPS     float64
		Burst   int
	}
	Tasks struct {
		Enabled         bool
		DatabasePath    string
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Maintenance struct {
		Schedule string // Cron format: "0 3 * * *" = daily at 03:00
	}
)

// ShutdownTimeout returns the graceful shutdown window.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Global.ShutdownTimeoutInSeconds) * time.Second
}

// Validate reports the first configuration problem that would prevent startup.
func (c *Config) Validate() error {
	if c.Database.ConnectionString == "" {
		return ErrMissingConnectionString
	}

	switch c.Auth.Mode {
	case AuthModeNone:
	case AuthModeAPIKey:
		if c.Auth.APIKey == "" && c.Auth.APIKeyHash == "" {
			return ErrMissingAPIKey
		}
	default:
		return fmt.Errorf("%w, got %q", ErrUnknownAuthMode, c.Auth.Mode)
	}

	switch c.HTTP.GinMode {
	case "", "debug", "release", "test":
	default:
		return fmt.Errorf("%w, got %q", ErrUnknownGinMode, c.HTTP.GinMode)
	}

	for _, proxy := range c.HTTP.TrustedProxies {
		if net.ParseIP(proxy) == nil {
			if _, _, err := net.ParseCIDR(proxy); err != nil {
				return fmt.Errorf("%w, got %q", ErrInvalidTrustedProxy, proxy)
			}
		}
	}

	if c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0) {
		return ErrInvalidRateLimit
	}

	if c.Tasks.Enabled {
		if _, err := CronParser.Parse(c.Maintenance.Schedule); err != nil {
			return fmt.Errorf("invalid MAINTENANCE_SCHEDULE %q: %w", c.Maintenance.Schedule, err)
		}
	}

	return nil
}

// NewConfig reads configuration from the environment, after loading an
// optional .env file from the working directory. Variables already present in
// the environment are not overridden by the file.
func NewConfig() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("WARNING: could not load .env file: %v", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8080)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("gin_mode", "release")
	v.SetDefault("trusted_proxies", "")
	v.SetDefault("shutdown_timeout_in_seconds", 5)

	// Database defaults
	v.SetDefault("database_connection_string", DefaultConnectionString)
	v.SetDefault("database_log_sql", false)

	// Auth defaults
	v.SetDefault("auth_mode", "none")
	v.SetDefault("auth_api_key", "")
	v.SetDefault("auth_api_key_hash", "")
	v.SetDefault("auth_api_key_header", DefaultAPIKeyHeader)
	v.SetDefault("auth_protect_reads", false)

	// Rate limit defaults
	v.SetDefault("rate_limit_enabled", false)
	v.SetDefault("rate_limit_rps", 10)
	v.SetDefault("rate_limit_burst", 20)

	// Task queue defaults
	v.SetDefault("tasks_enabled", false)
	v.SetDefault("tasks_database_path", DefaultTasksDatabasePath)
	v.SetDefault("task_workers", 1)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("maintenance_schedule", DefaultMaintenanceSchedule)

	return &Config{
		HTTP: HTTP{
			Port:           v.GetInt32("PORT"),
			Host:           v.GetString("HOST"),
			GinMode:        v.GetString("GIN_MODE"),
			TrustedProxies: splitList(v.GetString("TRUSTED_PROXIES")),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			ConnectionString: v.GetString("DATABASE_CONNECTION_STRING"),
			LogSQL:           v.GetBool("DATABASE_LOG_SQL"),
		},
		Auth: Auth{
			Mode:         AuthMode(v.GetString("AUTH_MODE")),
			APIKey:       v.GetString("AUTH_API_KEY"),
			APIKeyHash:   v.GetString("AUTH_API_KEY_HASH"),
			HeaderName:   v.GetString("AUTH_API_KEY_HEADER"),
			ProtectReads: v.GetBool("AUTH_PROTECT_READS"),
		},
		RateLimit: RateLimit{
			Enabled: v.GetBool("RATE_LIMIT_ENABLED"),
			RPS:     v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:   v.GetInt("RATE_LIMIT_BURST"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			DatabasePath:    v.GetString("TASKS_DATABASE_PATH"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Maintenance: Maintenance{
			Schedule: v.GetString("MAINTENANCE_SCHEDULE"),
		},
	}
}

// splitList splits a comma or space separated env value, dropping empty items.
func splitList(value string) []string {
	fields := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(fields) == 0 {
		return nil
	}
	return fields
}
