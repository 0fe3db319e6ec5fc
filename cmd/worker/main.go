// cmd/worker/main.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/adekola/stockpoint-be/internal/adapters/dynamo"
	"github.com/adekola/stockpoint-be/internal/adapters/email"
	"github.com/adekola/stockpoint-be/internal/adapters/storage"
	"github.com/adekola/stockpoint-be/internal/core/services"
	"github.com/adekola/stockpoint-be/internal/pkg/config"
	"github.com/adekola/stockpoint-be/internal/pkg/logger"
	"github.com/adekola/stockpoint-be/internal/workers"
)

func main() {
	// Setup logger
	appLogger := logger.SetupLogger("info", "json")
	slogger := appLogger.Logger

	// Load configuration
	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Reconfigure logger with loaded settings
	appLogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	slogger = appLogger.Logger
	slogger.Info("starting worker",
		slog.String("environment", cfg.App.Environment),
		slog.String("redis_addr", cfg.Asynq.RedisAddr))

	ctx := context.Background()

	// Initialize DynamoDB client and stores
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
		slogger.Error("failed to initialize DynamoDB client", slog.String("error", err.Error()))
		os.Exit(1)
	}

	saleStore := dynamo.NewSaleStore(dynamoClient, slogger)
	productStore := dynamo.NewProductStore(dynamoClient, slogger)

	// Initialize report storage and mailer
	reportStorage, err := storage.NewS3Storage(ctx, &storage.S3Config{
		Region:          cfg.AWS.Region,
		Bucket:          cfg.AWS.S3Bucket,
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
		Endpoint:        cfg.AWS.S3Endpoint,
		UsePathStyle:    cfg.AWS.UsePathStyle,
	}, slogger)
	if err != nil {
		slogger.Error("failed to initialize report storage", slog.String("error", err.Error()))
		os.Exit(1)
	}

	mailer, err := email.NewSESMailer(ctx, &email.SESConfig{
		Region:   cfg.AWS.Region,
		Endpoint: cfg.AWS.SESEndpoint,
		Sender:   cfg.Report.SenderEmail,
	}, slogger)
	if err != nil {
		slogger.Error("failed to initialize mailer", slog.String("error", err.Error()))
		os.Exit(1)
	}

	reportService := services.NewReportService(
		saleStore, productStore, reportStorage, mailer, cfg.Report.AdminEmails, slogger)

	asynqRedisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Asynq.RedisAddr,
		Password: cfg.Asynq.RedisPassword,
		DB:       cfg.Asynq.RedisDB,
	}

	// Create Asynq server
	srv := asynq.NewServer(
		asynqRedisOpt,
		asynq.Config{
			Concurrency:     cfg.Asynq.Concurrency,
			Queues:          cfg.Asynq.Queues,
			StrictPriority:  cfg.Asynq.StrictPriority,
			ErrorHandler:    asynq.ErrorHandlerFunc(handleError),
			RetryDelayFunc:  exponentialBackoff,
			ShutdownTimeout: cfg.Asynq.ShutdownTimeout,
			HealthCheckFunc: healthCheck,
			Logger:          newAsynqLogger(slogger),
		},
	)

	// Create task handlers
	mux := asynq.NewServeMux()

	reportProcessor := workers.NewReportProcessor(reportService, slogger)
	mux.HandleFunc(workers.TypeWeeklySalesReport, reportProcessor.ProcessWeeklyReport)

	// Schedule the weekly report
	scheduler := asynq.NewScheduler(asynqRedisOpt, &asynq.SchedulerOpts{
		Logger: newAsynqLogger(slogger),
	})

	weeklyTask, err := workers.NewWeeklyReportTask(workers.WeeklyReportPayload{})
	if err != nil {
		slogger.Error("failed to build weekly report task", slog.String("error", err.Error()))
		os.Exit(1)
	}
	entryID, err := scheduler.Register(cfg.Asynq.WeeklyReportCron, weeklyTask, asynq.Queue("default"))
	if err != nil {
		slogger.Error("failed to register weekly report schedule", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slogger.Info("weekly report scheduled",
		slog.String("entry_id", entryID),
		slog.String("cron", cfg.Asynq.WeeklyReportCron))

	// Handle shutdown gracefully
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Run(mux); err != nil {
			slogger.Error("failed to run worker server", slog.String("error", err.Error()))
			shutdown <- syscall.SIGTERM
		}
	}()

	go func() {
		if err := scheduler.Run(); err != nil {
			slogger.Error("failed to run scheduler", slog.String("error", err.Error()))
			shutdown <- syscall.SIGTERM
		}
	}()

	slogger.Info("worker started successfully",
		slog.Int("concurrency", cfg.Asynq.Concurrency),
		slog.Any("queues", cfg.Asynq.Queues))

	// Wait for shutdown signal
	sig := <-shutdown
	slogger.Info("shutdown signal received", slog.String("signal", sig.String()))

	// Gracefully shutdown
	scheduler.Shutdown()
	srv.Shutdown()
	slogger.Info("worker shutdown complete")
}

func handleError(ctx context.Context, task *asynq.Task, err error) {
	slog.ErrorContext(ctx, "task processing failed",
		slog.String("type", task.Type()),
		slog.String("payload", string(task.Payload())),
		slog.String("error", err.Error()))
}

func exponentialBackoff(n int, e error, t *asynq.Task) time.Duration {
	baseDelay := time.Second
	maxDelay := 10 * time.Minute
	delay := baseDelay * time.Duration(1<<uint(n))
	if delay > maxDelay {
		delay = maxDelay
	}
	return delay
}

func healthCheck(err error) {
	if err != nil {
		slog.Error("worker health check failed", slog.String("error", err.Error()))
	}
}

// asynqLogger adapts slog for Asynq
type asynqLogger struct {
	logger *slog.Logger
}

func newAsynqLogger(logger *slog.Logger) *asynqLogger {
	return &asynqLogger{
		logger: logger.With(slog.String("component", "asynq")),
	}
}

func (l *asynqLogger) Debug(args ...interface{}) {
	l.logger.Debug(fmt.Sprint(args...))
}

func (l *asynqLogger) Info(args ...interface{}) {
	l.logger.Info(fmt.Sprint(args...))
}

func (l *asynqLogger) Warn(args ...interface{}) {
	l.logger.Warn(fmt.Sprint(args...))
}

func (l *asynqLogger) Error(args ...interface{}) {
	l.logger.Error(fmt.Sprint(args...))
}

func (l *asynqLogger) Fatal(args ...interface{}) {
	l.logger.Error(fmt.Sprint(args...))
	os.Exit(1)
}
