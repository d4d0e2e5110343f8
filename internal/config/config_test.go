package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Database: Database{ConnectionString: DefaultConnectionString},
		Auth:     Auth{Mode: AuthModeNone, HeaderName: DefaultAPIKeyHeader},
		Maintenance: Maintenance{
			Schedule: DefaultMaintenanceSchedule,
		},
	}
}

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, int32(8080), cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, "release", cfg.HTTP.GinMode)
	assert.Nil(t, cfg.HTTP.TrustedProxies)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout())
	assert.Equal(t, DefaultConnectionString, cfg.Database.ConnectionString)
	assert.False(t, cfg.Database.LogSQL)
	assert.Equal(t, AuthModeNone, cfg.Auth.Mode)
	assert.Equal(t, DefaultAPIKeyHeader, cfg.Auth.HeaderName)
	assert.False(t, cfg.Auth.ProtectReads)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 10.0, cfg.RateLimit.RPS)
	assert.Equal(t, 20, cfg.RateLimit.Burst)
	assert.False(t, cfg.Tasks.Enabled)
	assert.Equal(t, DefaultTasksDatabasePath, cfg.Tasks.DatabasePath)
	assert.Equal(t, 1, cfg.Tasks.Workers)
	assert.Equal(t, 15*time.Minute, cfg.Tasks.ReleaseAfter)
	assert.Equal(t, time.Hour, cfg.Tasks.CleanupInterval)
	assert.Equal(t, DefaultMaintenanceSchedule, cfg.Maintenance.Schedule)
	assert.NoError(t, cfg.Validate())
}

func TestNewConfig_Environment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_CONNECTION_STRING", "Data Source=/tmp/other.db")
	t.Setenv("AUTH_MODE", "apikey")
	t.Setenv("AUTH_API_KEY", "ApI@KeY")
	t.Setenv("AUTH_PROTECT_READS", "true")
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("TASK_RELEASE_AFTER", "30s")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.1, 192.168.0.0/16")

	cfg := NewConfig()

	assert.Equal(t, int32(9090), cfg.HTTP.Port)
	assert.Equal(t, "Data Source=/tmp/other.db", cfg.Database.ConnectionString)
	assert.Equal(t, AuthModeAPIKey, cfg.Auth.Mode)
	assert.Equal(t, "ApI@KeY", cfg.Auth.APIKey)
	assert.True(t, cfg.Auth.ProtectReads)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 2.5, cfg.RateLimit.RPS)
	assert.Equal(t, 30*time.Second, cfg.Tasks.ReleaseAfter)
	assert.Equal(t, []string{"10.0.0.1", "192.168.0.0/16"}, cfg.HTTP.TrustedProxies)
	assert.NoError(t, cfg.Validate())
}

func TestNewConfig_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("HOST=127.0.0.1\nPORT=7070\n"), 0o600))
	// PORT from the real environment wins over the file.
	t.Setenv("PORT", "6060")

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		os.Chdir(wd)
		os.Unsetenv("HOST")
	})

	cfg := NewConfig()

	assert.Equal(t, "127.0.0.1", cfg.HTTP.Host)
	assert.Equal(t, int32(6060), cfg.HTTP.Port)
}

func TestConfig_Validate(t *testing.T) {
	t.Run("rejects empty connection string", func(t *testing.T) {
		cfg := validConfig()
		cfg.Database.ConnectionString = ""
		assert.ErrorIs(t, cfg.Validate(), ErrMissingConnectionString)
	})

	t.Run("rejects unknown auth mode", func(t *testing.T) {
		cfg := validConfig()
		cfg.Auth.Mode = "oauth"
		assert.ErrorIs(t, cfg.Validate(), ErrUnknownAuthMode)
	})

	t.Run("apikey mode needs a key", func(t *testing.T) {
		cfg := validConfig()
		cfg.Auth.Mode = AuthModeAPIKey
		assert.ErrorIs(t, cfg.Validate(), ErrMissingAPIKey)

		cfg.Auth.APIKeyHash = "$2a$10$abcdefghijklmnopqrstuv"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("rejects non-positive rate limit when enabled", func(t *testing.T) {
		cfg := validConfig()
		cfg.RateLimit = RateLimit{Enabled: true, RPS: 0, Burst: 5}
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidRateLimit)

		cfg.RateLimit.Enabled = false
		assert.NoError(t, cfg.Validate())
	})

	t.Run("rejects malformed trusted proxy", func(t *testing.T) {
		cfg := validConfig()
		cfg.HTTP.TrustedProxies = []string{"10.0.0.0/8", "proxy.internal"}
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidTrustedProxy)

		cfg.HTTP.TrustedProxies = []string{"10.0.0.0/8", "::1"}
		assert.NoError(t, cfg.Validate())
	})

	t.Run("rejects unknown gin mode", func(t *testing.T) {
		cfg := validConfig()
		cfg.HTTP.GinMode = "production"
		assert.ErrorIs(t, cfg.Validate(), ErrUnknownGinMode)
	})

	t.Run("rejects malformed schedule only when tasks are enabled", func(t *testing.T) {
		cfg := validConfig()
		cfg.Maintenance.Schedule = "every day"
		assert.NoError(t, cfg.Validate())

		cfg.Tasks.Enabled = true
		assert.Error(t, cfg.Validate())
	})
}
