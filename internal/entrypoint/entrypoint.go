package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/library/internal/auth"
	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/database/books"
	http_controllers "github.com/mrlokans/library/internal/http"
	"github.com/mrlokans/library/internal/scheduler"
	"github.com/mrlokans/library/internal/tasks"
	"github.com/mrlokans/library/internal/validation"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := cfg.ShutdownTimeout()

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		// service connections
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for SIGINT or SIGTERM, then give in-flight requests the
	// configured shutdown window.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// OpenDatabase opens the catalog store and makes sure the Books table exists.
func OpenDatabase(ctx context.Context, cfg *config.Config) (*database.SQLiteConnectionFactory, error) {
	level := logger.Warn
	if cfg.Database.LogSQL {
		level = logger.Info
	}

	factory, err := database.NewSQLiteConnectionFactory(cfg.Database.ConnectionString, database.WithLogLevel(level))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := database.NewInitializer(factory).Initialize(ctx); err != nil {
		factory.Close()
		return nil, err
	}
	return factory, nil
}

// NewRouterConfig wires the catalog's HTTP dependencies around an open store.
func NewRouterConfig(cfg *config.Config, factory *database.SQLiteConnectionFactory, version string) http_controllers.RouterConfig {
	routerCfg := http_controllers.RouterConfig{
		BookService:    books.NewRepository(factory),
		Validator:      validation.New(),
		HealthChecker:  factory,
		RateLimiter:    http_controllers.NewRateLimiterFromConfig(cfg.RateLimit),
		TrustedProxies: cfg.HTTP.TrustedProxies,
		Version:        version,
	}

	if cfg.Auth.Mode == config.AuthModeAPIKey {
		log.Printf("Authentication mode: apikey (header %s, protect reads: %t)", cfg.Auth.HeaderName, cfg.Auth.ProtectReads)
		routerCfg.AuthMiddleware = auth.NewMiddleware(cfg.Auth)
	} else {
		log.Printf("Authentication mode: none (no authentication required)")
	}

	if routerCfg.RateLimiter != nil {
		log.Printf("Rate limiting: %.2f req/s per client, burst %d", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	return routerCfg
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Library v%s", version)

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	gin.SetMode(cfg.HTTP.GinMode)

	factory, err := OpenDatabase(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := factory.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	// Initialize task queue and maintenance schedule if enabled
	var taskClient *tasks.Client
	var maintenance *scheduler.MaintenanceScheduler
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		}

		taskClient, err = tasks.NewClient(cfg.Tasks.DatabasePath, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(tasks.NewOptimizeDatabaseQueue(factory))

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		maintenance = scheduler.NewMaintenanceScheduler(taskClient, cfg.Maintenance.Schedule)
		if err := maintenance.Start(taskCtx); err != nil {
			log.Fatalf("Failed to start maintenance scheduler: %v", err)
		}
	}

	router := http_controllers.NewRouter(NewRouterConfig(cfg, factory, version))

	// Shutdown callback for graceful cleanup
	onShutdown := func(ctx context.Context) {
		if maintenance != nil {
			maintenance.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
