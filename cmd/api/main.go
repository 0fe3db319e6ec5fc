// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/adekola/stockpoint-be/internal/adapters/dynamo"
	redis_a "github.com/adekola/stockpoint-be/internal/adapters/redis_adapter"
	"github.com/adekola/stockpoint-be/internal/core/ports"
	"github.com/adekola/stockpoint-be/internal/core/services"
	"github.com/adekola/stockpoint-be/internal/handlers"
	"github.com/adekola/stockpoint-be/internal/handlers/middleware"
	"github.com/adekola/stockpoint-be/internal/pkg/config"
	"github.com/adekola/stockpoint-be/internal/pkg/logger"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
	GoVersion = "unknown"
)

func main() {
	// Initialize structured logger
	appLogger := logger.SetupLogger("debug", "json")
	slogger := appLogger.Logger

	slogger.Info("starting stockpoint sales administration system",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
		slog.String("go_version", GoVersion),
	)

	// Load configuration
	slogger.Info("loading configuration")
	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Reconfigure logger with loaded settings
	appLogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	slogger = appLogger.Logger
	slogger.Info("configuration loaded",
		slog.String("environment", cfg.App.Environment),
		slog.String("log_level", cfg.App.LogLevel),
	)

	// Create application context
	ctx := context.Background()

	// Overlay secrets from AWS Secrets Manager in production
	if cfg.IsProduction() {
		sm, err := config.NewAWSSecretsManager(cfg.AWS.Region, cfg.App.Name, slogger)
		if err != nil {
			slogger.Error("failed to initialize secrets manager", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := cfg.ApplySecrets(ctx, sm); err != nil {
			slogger.Error("failed to apply secrets", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	if err := cfg.ValidateStrict(); err != nil {
		slogger.Error("configuration validation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize dependencies
	deps, err := initializeDependencies(ctx, cfg, appLogger)
	if err != nil {
		slogger.Error("failed to initialize dependencies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer deps.cleanup()

	// Setup HTTP server
	server := setupHTTPServer(cfg, deps, appLogger)

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		slogger.Info("starting HTTP server",
			slog.String("address", cfg.GetServerAddress()),
		)
		serverErrors <- server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogger.Error("server error", slog.String("error", err.Error()))
		}
	case sig := <-shutdown:
		slogger.Info("shutdown signal received",
			slog.String("signal", sig.String()),
		)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slogger.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
			server.Close()
		}

		slogger.Info("server shutdown complete")
	}
}

// dependencies holds all application dependencies
type dependencies struct {
	dynamoClient      *dynamo.Client
	redisClient       *redis.Client
	redisCache        ports.CacheRepository
	asynqClient       *asynq.Client
	asynqInspector    *asynq.Inspector
	salesService      *services.SalesService
	catalogService    *services.CatalogService
	salesHandler      *handlers.SalesHandler
	productsHandler   *handlers.ProductsHandler
	categoriesHandler *handlers.CategoriesHandler
	reportsHandler    *handlers.ReportsHandler
	healthHandler     *handlers.HealthHandler
}

func (d *dependencies) cleanup() {
	if d.redisClient != nil {
		d.redisClient.Close()
	}
	if d.asynqClient != nil {
		d.asynqClient.Close()
	}
	if d.asynqInspector != nil {
		d.asynqInspector.Close()
	}
}

func initializeDependencies(ctx context.Context, cfg *config.Config, appLogger *logger.Logger) (*dependencies, error) {
	deps := &dependencies{}
	slogger := appLogger.Logger

	// Initialize DynamoDB client
	slogger.Info("connecting to DynamoDB",
		slog.String("products_table", cfg.Dynamo.ProductsTable),
		slog.String("sales_table", cfg.Dynamo.SalesTable),
	)

	dynamoClient, err := dynamo.NewClient(ctx, &dynamo.Config{
		Region:          cfg.AWS.Region,
		Endpoint:        cfg.Dynamo.Endpoint,
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
		ProductsTable:   cfg.Dynamo.ProductsTable,
		SalesTable:      cfg.Dynamo.SalesTable,
		CategoriesTable: cfg.Dynamo.CategoriesTable,
		RequestTimeout:  cfg.Dynamo.RequestTimeout,
	}, slogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize DynamoDB client: %w", err)
	}
	if err := dynamoClient.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to reach DynamoDB: %w", err)
	}
	deps.dynamoClient = dynamoClient

	// Initialize Redis client
	slogger.Info("connecting to Redis",
		slog.String("host", cfg.Redis.Host),
		slog.String("port", cfg.Redis.Port),
	)

	redisClient := redis.NewClient(&redis.Options{
		Addr:            cfg.GetRedisAddress(),
		Password:        cfg.Redis.Password,
		DB:              cfg.Redis.DB,
		MaxRetries:      cfg.Redis.MaxRetries,
		MinRetryBackoff: cfg.Redis.MinRetryBackoff,
		MaxRetryBackoff: cfg.Redis.MaxRetryBackoff,
		DialTimeout:     cfg.Redis.DialTimeout,
		ReadTimeout:     cfg.Redis.ReadTimeout,
		WriteTimeout:    cfg.Redis.WriteTimeout,
		PoolSize:        cfg.Redis.PoolSize,
		MinIdleConns:    cfg.Redis.MinIdleConns,
		PoolTimeout:     cfg.Redis.PoolTimeout,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	deps.redisClient = redisClient

	// Create Redis cache wrapper
	deps.redisCache = redis_a.NewCache(redisClient, cfg.Redis.TTL, slogger)

	// Initialize Asynq client
	slogger.Info("initializing Asynq client")

	asynqRedisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Asynq.RedisAddr,
		Password: cfg.Asynq.RedisPassword,
		DB:       cfg.Asynq.RedisDB,
	}

	deps.asynqClient = asynq.NewClient(asynqRedisOpt)
	deps.asynqInspector = asynq.NewInspector(asynqRedisOpt)

	// Initialize stores
	productStore := dynamo.NewProductStore(dynamoClient, slogger)
	saleStore := dynamo.NewSaleStore(dynamoClient, slogger)
	categoryStore := dynamo.NewCategoryStore(dynamoClient, slogger)

	// Initialize services
	ledger := services.NewLedger(productStore, slogger, services.WithCache(deps.redisCache))
	deps.salesService = services.NewSalesService(ledger, saleStore, slogger)
	deps.catalogService = services.NewCatalogService(productStore, categoryStore, deps.redisCache, slogger)

	// Initialize handlers
	deps.salesHandler = handlers.NewSalesHandler(deps.salesService, slogger)
	deps.productsHandler = handlers.NewProductsHandler(deps.catalogService, slogger)
	deps.categoriesHandler = handlers.NewCategoriesHandler(deps.catalogService, slogger)
	deps.reportsHandler = handlers.NewReportsHandler(deps.asynqClient, slogger)
	deps.healthHandler = handlers.NewHealthHandler(
		dynamoClient,
		redisClient,
		deps.asynqInspector,
		cfg,
		slogger,
	)

	slogger.Info("all dependencies initialized successfully")
	return deps, nil
}

func setupHTTPServer(cfg *config.Config, deps *dependencies, appLogger *logger.Logger) *http.Server {
	mux := http.NewServeMux()

	// Setup middleware chain, innermost first
	var handler http.Handler = mux

	handler = middleware.Authenticate(cfg.Security.JWTSecret, appLogger.Logger)(handler)

	if cfg.Security.RateLimitRequests > 0 {
		handler = middleware.RateLimit(cfg.Security.RateLimitRequests, cfg.Security.RateLimitDuration)(handler)
	}

	if len(cfg.Security.AllowedOrigins) > 0 {
		handler = middleware.CORS(cfg.Security.AllowedOrigins)(handler)
	}

	if cfg.Security.SecureHeaders {
		handler = middleware.SecureHeaders(handler)
	}

	if cfg.App.Environment != "test" {
		handler = middleware.Logger(appLogger)(handler)
		handler = middleware.RequestID(handler)
		handler = middleware.Recovery(appLogger.Logger)(handler)
	}

	registerRoutes(mux, deps, cfg)

	server := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        handler,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(appLogger.Handler(), slog.LevelError),
	}

	return server
}

func registerRoutes(mux *http.ServeMux, deps *dependencies, cfg *config.Config) {
	apiV1 := "/api/v1"

	// Health and readiness endpoints
	if cfg.Server.EnableHealthCheck {
		mux.HandleFunc("GET /health", deps.healthHandler.Health)
		mux.HandleFunc("GET /ready", deps.healthHandler.Readiness)
		mux.HandleFunc("GET "+apiV1+"/health", deps.healthHandler.Health)
	}

	// Sales endpoints
	mux.HandleFunc("POST "+apiV1+"/sales", deps.salesHandler.CreateSale)
	mux.HandleFunc("PUT "+apiV1+"/sales/{id}", deps.salesHandler.EditSale)
	mux.HandleFunc("GET "+apiV1+"/sales/{id}", deps.salesHandler.GetSale)
	mux.HandleFunc("GET "+apiV1+"/sales", deps.salesHandler.ListSales)
	mux.HandleFunc("GET "+apiV1+"/sales/filter", deps.salesHandler.FilterSales)

	// Product endpoints
	mux.HandleFunc("POST "+apiV1+"/products", deps.productsHandler.CreateProducts)
	mux.HandleFunc("PUT "+apiV1+"/products/{id}", deps.productsHandler.UpdateProduct)
	mux.HandleFunc("GET "+apiV1+"/products/{id}", deps.productsHandler.GetProduct)
	mux.HandleFunc("GET "+apiV1+"/products", deps.productsHandler.ListProducts)

	// Category endpoints
	mux.HandleFunc("POST "+apiV1+"/categories", deps.categoriesHandler.CreateCategory)
	mux.HandleFunc("GET "+apiV1+"/categories", deps.categoriesHandler.ListCategories)

	// Report endpoints
	mux.HandleFunc("POST "+apiV1+"/reports/sales", deps.reportsHandler.TriggerSalesReport)

	// pprof endpoints (development only)
	if cfg.Server.EnablePprof && cfg.IsDevelopment() {
		mux.HandleFunc("GET /debug/pprof/", http.HandlerFunc(http.DefaultServeMux.ServeHTTP))
	}
}
