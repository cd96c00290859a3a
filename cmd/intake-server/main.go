// cmd/intake-server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"insurance-intake/internal/common/config"
	"insurance-intake/internal/common/database"
	"insurance-intake/internal/common/logger"
	"insurance-intake/internal/common/observability"
	"insurance-intake/internal/engine"
	"insurance-intake/internal/notify"
	"insurance-intake/internal/repository"
	"insurance-intake/internal/server"
	"insurance-intake/internal/services/frustration"
	"insurance-intake/internal/services/quotes"
	"insurance-intake/internal/services/replygen"
	"insurance-intake/internal/services/vehicledata"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting intake server...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	if err := repository.EnsureSchema(ctx, pg.DB); err != nil {
		zapLog.Fatal("schema setup failed", zap.Error(err))
	}

	// --- Init Redis with retry ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init External Service Clients ---
	lookup := vehicledata.NewClient(cfg.APIs.NHTSA.BaseURL, config.GetDuration(cfg.APIs.NHTSA.Timeout), log)
	generator := replygen.NewClient(
		cfg.APIs.OpenAI.BaseURL,
		cfg.APIs.OpenAI.APIKey,
		cfg.APIs.OpenAI.Model,
		config.GetDuration(cfg.APIs.OpenAI.Timeout),
		log,
	)
	quoteProvider := quotes.NewClient(
		cfg.APIs.ZenQuotes.BaseURL,
		config.GetDuration(cfg.APIs.ZenQuotes.Timeout),
		config.GetDuration(cfg.APIs.ZenQuotes.CacheTTL),
		rdb.Client,
		log,
	)

	var notifier engine.Notifier
	if cfg.Notifications.Email.Enabled || cfg.Notifications.SMS.Enabled {
		n, err := notify.New(ctx, cfg.Notifications, log)
		if err != nil {
			zapLog.Fatal("notifier init failed", zap.Error(err))
		}
		notifier = n
	}

	store := repository.NewConversationStore(pg.DB, log)

	eng := engine.New(engine.Deps{
		Store:         store,
		Lookup:        lookup,
		Generator:     generator,
		Frustration:   frustration.NewDetector(),
		Quotes:        quoteProvider,
		Notifier:      notifier,
		Observability: obs,
		Logger:        log,
	})

	srv := server.New(eng, store, log)

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      srv.Handler(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	zapLog.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("shutdown error", zap.Error(err))
	}
	zapLog.Info("Server stopped")
}
