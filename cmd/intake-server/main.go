// cmd/intake-server/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"policyfund-intake/internal/catalog"
	"policyfund-intake/internal/common/aws"
	"policyfund-intake/internal/common/config"
	"policyfund-intake/internal/common/database"
	"policyfund-intake/internal/common/logger"
	"policyfund-intake/internal/common/observability"
	"policyfund-intake/internal/notify"
	"policyfund-intake/internal/server"
	"policyfund-intake/internal/session"
	"policyfund-intake/internal/sink"
	"policyfund-intake/internal/wizard"
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

	// --- Rule catalog ---
	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		zapLog.Fatal("catalog load failed", zap.Error(err))
	}
	zapLog.Info("Fund catalog loaded", zap.Int("funds", len(cat.Funds)))

	// --- Redis with retry ---
	var redisClient *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redisClient, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redisClient.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redisClient.Close()
	zapLog.Info("Redis connected successfully")

	sinkDeps := sink.Deps{}

	// --- PostgreSQL (only when the sink needs it) ---
	if cfg.Sink.Backend == "postgres" {
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
		sinkDeps.DB = pg.GetDB()
	}

	// --- Elasticsearch (only when write-through indexing is on) ---
	if cfg.Sink.IndexToSearch {
		var esClient *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping()
		}, 10, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		zapLog.Info("Elasticsearch connected successfully")
		sinkDeps.Elastic = esClient.Client
		sinkDeps.ESIndex = cfg.Database.Elasticsearch.Index
	}

	submissionSink, err := sink.New(ctx, cfg.Sink, sinkDeps, log)
	if err != nil {
		zapLog.Fatal("sink init failed", zap.Error(err))
	}
	zapLog.Info("Submission sink ready", zap.String("backend", submissionSink.Name()))

	// --- Notifications (optional) ---
	var notifier wizard.Notifier
	if cfg.Notifications.SMS.Enabled || cfg.Notifications.Email.Enabled {
		var sesClient notify.SESService
		var snsClient notify.SNSService

		if cfg.Notifications.Email.Enabled {
			c, err := aws.NewSESClient(ctx, cfg.Notifications.AWS.Region)
			if err != nil {
				zapLog.Fatal("SES client init failed", zap.Error(err))
			}
			sesClient = c
		}
		if cfg.Notifications.SMS.Enabled {
			c, err := aws.NewSNSClient(ctx, cfg.Notifications.AWS.Region)
			if err != nil {
				zapLog.Fatal("SNS client init failed", zap.Error(err))
			}
			snsClient = c
		}
		notifier = notify.New(cfg.Notifications, sesClient, snsClient, log)
		zapLog.Info("Notifications enabled",
			zap.Bool("sms", cfg.Notifications.SMS.Enabled),
			zap.Bool("email", cfg.Notifications.Email.Enabled),
		)
	}

	store := session.NewStore(redisClient.GetClient(), cfg.Session.KeyPrefix, cfg.Session.SessionTTL(), log)
	svc := wizard.NewService(store, submissionSink, notifier, log)

	srv := server.New(cfg.Server, svc, cat, obs, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			zapLog.Fatal("server failed", zap.Error(err))
		}
	case sig := <-stop:
		zapLog.Info("Shutdown signal received", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}
	zapLog.Info("Server stopped")
}
