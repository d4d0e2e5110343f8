package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var ErrEmptyConnectionString = errors.New("connection string is empty")

// ConnectionFactory hands out store connections scoped to a single call.
type ConnectionFactory interface {
	// WithConnection acquires a connection, runs fn on it and releases the
	// connection on every return path, including panics inside fn.
	WithConnection(ctx context.Context, fn func(conn *gorm.DB) error) error
}

// Option customizes a SQLiteConnectionFactory.
type Option func(*options)

type options struct {
	logLevel    logger.LogLevel
	busyTimeout time.Duration
}

// WithLogLevel sets the gorm SQL log level. Defaults to logger.Warn.
func WithLogLevel(level logger.LogLevel) Option {
	return func(o *options) {
		o.logLevel = level
	}
}

// WithBusyTimeout sets how long a connection waits on a locked database.
func WithBusyTimeout(d time.Duration) Option {
	return func(o *options) {
		o.busyTimeout = d
	}
}

// SQLiteConnectionFactory opens connections to a SQLite database.
type SQLiteConnectionFactory struct {
	db  *gorm.DB
	dsn string
}

// NewSQLiteConnectionFactory opens the connection pool described by
// connectionString. Both ADO-style strings ("Data Source=./library.db") and
// plain go-sqlite3 DSNs ("file:library.db?_journal=WAL") are accepted.
func NewSQLiteConnectionFactory(connectionString string, opts ...Option) (*SQLiteConnectionFactory, error) {
	o := options{
		logLevel:    logger.Warn,
		busyTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(&o)
	}

	dsn, err := ParseConnectionString(connectionString)
	if err != nil {
		return nil, err
	}
	dsn = withBusyTimeout(dsn, o.busyTimeout)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 logger.Default.LogMode(o.logLevel),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	// Every connection to an in-memory database sees its own empty database,
	// so the pool is pinned to one connection.
	if isInMemory(dsn) {
		sqlDB.SetMaxOpenConns(1)
	}

	log.Printf("Database connection pool opened for %s", dsn)

	return &SQLiteConnectionFactory{db: db, dsn: dsn}, nil
}

func (f *SQLiteConnectionFactory) WithConnection(ctx context.Context, fn func(conn *gorm.DB) error) error {
	return f.db.WithContext(ctx).Connection(fn)
}

// Ping checks that the database is reachable.
func (f *SQLiteConnectionFactory) Ping(ctx context.Context) error {
	sqlDB, err := f.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Optimize runs SQLite's query planner maintenance on one connection.
func (f *SQLiteConnectionFactory) Optimize(ctx context.Context) error {
	return f.WithConnection(ctx, func(conn *gorm.DB) error {
		if err := conn.Exec("PRAGMA optimize").Error; err != nil {
			return fmt.Errorf("optimize database: %w", err)
		}
		return nil
	})
}

// DSN returns the go-sqlite3 DSN the pool was opened with.
func (f *SQLiteConnectionFactory) DSN() string {
	return f.dsn
}

func (f *SQLiteConnectionFactory) Close() error {
	sqlDB, err := f.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ParseConnectionString converts a connection string into a go-sqlite3 DSN.
// Keys other than "Data Source" in ADO-style strings are ignored.
func ParseConnectionString(connectionString string) (string, error) {
	s := strings.TrimSpace(connectionString)
	if s == "" {
		return "", ErrEmptyConnectionString
	}

	if !strings.Contains(s, "=") || strings.HasPrefix(s, "file:") {
		return s, nil
	}

	for _, part := range strings.Split(s, ";") {
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "data source", "datasource", "filename":
			value = strings.TrimSpace(value)
			if value == "" {
				return "", ErrEmptyConnectionString
			}
			return value, nil
		}
	}

	// Not ADO-style after all; let the driver interpret it.
	return s, nil
}

func withBusyTimeout(dsn string, timeout time.Duration) string {
	if timeout <= 0 || strings.Contains(dsn, "_timeout") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s_busy_timeout=%d", dsn, sep, timeout.Milliseconds())
}

func isInMemory(dsn string) bool {
	return strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}
