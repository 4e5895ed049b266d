package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/vishwaD06/voice-to-action-ai-pipeline/internal/common/aws"
	"github.com/vishwaD06/voice-to-action-ai-pipeline/internal/common/camunda"
	"github.com/vishwaD06/voice-to-action-ai-pipeline/internal/common/config"
	"github.com/vishwaD06/voice-to-action-ai-pipeline/internal/common/database"
	"github.com/vishwaD06/voice-to-action-ai-pipeline/internal/common/logger"
	"github.com/vishwaD06/voice-to-action-ai-pipeline/internal/common/observability"
	"github.com/vishwaD06/voice-to-action-ai-pipeline/internal/nlp/entity"
	"github.com/vishwaD06/voice-to-action-ai-pipeline/internal/nlp/intent"
	"github.com/vishwaD06/voice-to-action-ai-pipeline/internal/notify"
	"github.com/vishwaD06/voice-to-action-ai-pipeline/internal/pipeline"
	"github.com/vishwaD06/voice-to-action-ai-pipeline/internal/server"
	pvq "github.com/vishwaD06/voice-to-action-ai-pipeline/internal/workers/voice/parse-voice-query"
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
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting voice agent...",
		zap.String("service", cfg.App.Name),
		zap.String("version", cfg.App.Version),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Load persisted intent model ---
	model := intent.New()
	if err := model.LoadFile(cfg.Model.Path); err != nil {
		if errors.Is(err, intent.ErrModelMissing) {
			zapLog.Warn("no persisted model found, serving degraded until one is trained",
				zap.String("path", cfg.Model.Path),
			)
		} else {
			zapLog.Fatal("model load failed", zap.Error(err))
		}
	} else {
		zapLog.Info("intent model loaded",
			zap.String("path", cfg.Model.Path),
			zap.Strings("classes", model.Classes()),
		)
	}

	// --- Location recognizer ---
	var recognizer entity.LocationRecognizer
	if cfg.NER.Enabled {
		recognizer = entity.NewHTTPRecognizer(
			cfg.NER.BaseURL,
			config.GetDuration(cfg.NER.Timeout),
			cfg.NER.MaxRetries,
		)
		zapLog.Info("NER recognizer enabled", zap.String("baseURL", cfg.NER.BaseURL))
	}
	extractor := entity.New(recognizer, log)

	// --- Parse cache (optional) ---
	var cache *pipeline.Cache
	if cfg.Cache.Enabled {
		var redis *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			redis, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return redis.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Warn("redis unavailable, parse cache disabled", zap.Error(err))
		} else {
			defer redis.Close()
			cache = pipeline.NewCache(redis, time.Duration(cfg.Cache.TTL)*time.Second, log)
			zapLog.Info("Redis connected successfully")
		}
	}

	// --- Analytics sink (optional) ---
	var analytics *pipeline.Sink
	if cfg.Analytics.Enabled {
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
			zapLog.Warn("elasticsearch unavailable, analytics disabled", zap.Error(err))
		} else {
			analytics = pipeline.NewSink(esClient, cfg.Analytics.Index, log)
			zapLog.Info("Elasticsearch connected successfully")
		}
	}

	pipe := pipeline.New(model, extractor, pipeline.Options{
		Cache:         cache,
		Analytics:     analytics,
		Observability: obs,
		Logger:        log,
	})

	// --- Escalation notifier (optional) ---
	var notifier *notify.Notifier
	if cfg.Notifications.Enabled {
		snsClient, err := aws.NewSNSClient(ctx, cfg.Notifications.Region)
		if err != nil {
			zapLog.Fatal("sns client failed", zap.Error(err))
		}
		sesClient, err := aws.NewSESClient(ctx, cfg.Notifications.Region)
		if err != nil {
			zapLog.Fatal("ses client failed", zap.Error(err))
		}
		notifier = notify.New(snsClient, sesClient, cfg.Notifications, log)
		zapLog.Info("escalation notifier enabled", zap.String("topic", cfg.Notifications.TopicARN))
	}

	// --- Zeebe worker transport (optional) ---
	if cfg.Camunda.Enabled {
		var zeebe *camunda.Client
		err = retryWithBackoff(func() error {
			var err error
			zeebe, err = camunda.NewClient(cfg.Camunda.BrokerAddress)
			return err
		}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		defer zeebe.Close()
		zapLog.Info("Zeebe client connected successfully")

		var escalator pvq.Escalator
		if notifier != nil {
			escalator = notifier
		}
		handler := pvq.NewHandler(pipe, escalator, config.GetDuration(cfg.Camunda.Timeout), log)
		jobWorker := zeebe.GetClient().NewJobWorker().
			JobType(pvq.TaskType).
			Handler(handler.Handle).
			MaxJobsActive(cfg.Camunda.MaxJobsActive).
			Timeout(config.GetDuration(cfg.Camunda.Timeout)).
			Open()
		defer jobWorker.Close()

		zapLog.Info("worker started", zap.String("taskType", pvq.TaskType))
	}

	// --- HTTP API ---
	srv := server.New(pipe, notifier, *cfg, log)
	go func() {
		if err := srv.Start(); err != nil {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down http server", zap.Error(err))
	}

	zapLog.Info("Voice agent stopped gracefully")
}
