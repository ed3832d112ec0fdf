// cmd/worker-manager/main.go
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"estimation-workers/internal/catalog"
	"estimation-workers/internal/common/aws"
	"estimation-workers/internal/common/cache"
	"estimation-workers/internal/common/camunda"
	"estimation-workers/internal/common/config"
	"estimation-workers/internal/common/database"
	"estimation-workers/internal/common/logger"
	"estimation-workers/internal/common/observability"

	// Intake Workers (1)
	ver "estimation-workers/internal/workers/intake/validate-estimate-request"

	// Estimation Workers (2)
	croas "estimation-workers/internal/workers/estimation/calculate-roas"
	croi "estimation-workers/internal/workers/estimation/calculate-roi"

	// Data Access Workers (1)
	lb "estimation-workers/internal/workers/data-access/lookup-benchmarks"

	// Reporting & Communication Workers (2)
	ser "estimation-workers/internal/workers/communication/send-estimate-report"
	ber "estimation-workers/internal/workers/reporting/build-estimate-report"
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
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	bootLog := logger.New("info", "console")
	bootLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	tracing, err := observability.NewTracing("worker-manager", cfg.Tracing.CollectorEndpoint)
	if err != nil {
		zapLog.Fatal("tracing init failed", zap.Error(err))
	}

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var camundaClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		camundaClient, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      10 * time.Second,
			RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zeebeClient := camundaClient.GetClient()
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry (only when rate overrides live there) ---
	var pg *database.PostgresClient
	if cfg.Catalog.Source == "postgres" {
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			// Test the connection with context
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		zapLog.Info("PostgreSQL connected successfully")
	}

	// --- Load the ROI rate catalog (builtin, or overridden from Postgres) ---
	var rateDB *sql.DB
	if pg != nil {
		rateDB = pg.DB
	}
	loadCtx, cancelLoad := context.WithTimeout(ctx, config.GetDuration(cfg.Catalog.LoadTimeout))
	rateCatalog, err := catalog.NewLoader(rateDB, cfg.Catalog.Table, log).Load(loadCtx)
	cancelLoad()
	if err != nil {
		zapLog.Fatal("rate catalog load failed", zap.Error(err))
	}
	zapLog.Info("Rate catalog loaded",
		zap.String("source", cfg.Catalog.Source),
		zap.String("version", rateCatalog.Version),
	)

	// --- Init Redis with retry (only when result caching is enabled) ---
	var rds *database.RedisClient
	var resultCache *cache.ResultCache
	if cfg.Cache.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			rds, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			// Test the connection with context
			return rds.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer rds.Close()
		resultCache = cache.New(rds.Client, time.Duration(cfg.Cache.TTL)*time.Second)
		zapLog.Info("Redis connected successfully")
	}

	// --- Init Elasticsearch with retry (only when benchmark lookups run) ---
	var esClient *database.ElasticsearchClient
	if config.IsWorkerEnabled(cfg, lb.TaskType) {
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			// Test the connection
			return esClient.Ping()
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		zapLog.Info("Elasticsearch connected successfully")
	}

	// --- Init AWS delivery clients (only for enabled report channels) ---
	var sesClient *aws.SESClient
	var snsClient *aws.SNSClient
	if config.IsWorkerEnabled(cfg, ser.TaskType) {
		if cfg.Delivery.Email.Enabled {
			sesClient, err = aws.NewSESClient(ctx, cfg.Delivery.AWS.Region)
			if err != nil {
				zapLog.Fatal("ses client init failed", zap.Error(err))
			}
		}
		if cfg.Delivery.Topic.Enabled {
			snsClient, err = aws.NewSNSClient(ctx, cfg.Delivery.AWS.Region)
			if err != nil {
				zapLog.Fatal("sns client init failed", zap.Error(err))
			}
		}
		if sesClient != nil || snsClient != nil {
			zapLog.Info("AWS delivery clients initialized", zap.String("region", cfg.Delivery.AWS.Region))
		}
	}

	// --- START: Register Workers ---
	var jobWorkers []worker.JobWorker

	// --- 1. Intake Workers (1) ---
	if config.IsWorkerEnabled(cfg, ver.TaskType) {
		wcfg := config.GetWorkerConfig(cfg, ver.TaskType)
		handler := ver.NewHandler(
			&ver.Config{
				Timeout: config.GetDuration(wcfg.Timeout),
			},
			log,
		)
		jobWorkers = append(jobWorkers, startWorker(zeebeClient, ver.TaskType, wcfg, handler.Handle, tracing, obs, zapLog))
	}

	// --- 2. Estimation Workers (2) ---
	if config.IsWorkerEnabled(cfg, croi.TaskType) {
		handler, err := croi.NewHandler(croi.HandlerOptions{
			AppConfig: cfg,
			Camunda:   camundaClient,
			Logger:    log,
			Catalog:   rateCatalog,
			Cache:     resultCache,
		})
		if err != nil {
			zapLog.Fatal("failed to create calculate-roi handler", zap.Error(err))
		}
		jobWorkers = append(jobWorkers, startWorker(zeebeClient, croi.TaskType, config.GetWorkerConfig(cfg, croi.TaskType), handler.Handle, tracing, obs, zapLog))
	}

	if config.IsWorkerEnabled(cfg, croas.TaskType) {
		handler, err := croas.NewHandler(croas.HandlerOptions{
			AppConfig: cfg,
			Camunda:   camundaClient,
			Logger:    log,
			Cache:     resultCache,
		})
		if err != nil {
			zapLog.Fatal("failed to create calculate-roas handler", zap.Error(err))
		}
		jobWorkers = append(jobWorkers, startWorker(zeebeClient, croas.TaskType, config.GetWorkerConfig(cfg, croas.TaskType), handler.Handle, tracing, obs, zapLog))
	}

	// --- 3. Data Access Workers (1) ---
	if config.IsWorkerEnabled(cfg, lb.TaskType) {
		wcfg := config.GetWorkerConfig(cfg, lb.TaskType)
		handler := lb.NewHandler(
			&lb.Config{
				Index:   cfg.Benchmarks.Index,
				Timeout: config.GetDuration(cfg.Benchmarks.Timeout),
			},
			esClient.Client, log,
		)
		jobWorkers = append(jobWorkers, startWorker(zeebeClient, lb.TaskType, wcfg, handler.Handle, tracing, obs, zapLog))
	}

	// --- 4. Reporting Workers (1) ---
	if config.IsWorkerEnabled(cfg, ber.TaskType) {
		wcfg := config.GetWorkerConfig(cfg, ber.TaskType)
		handler := ber.NewHandler(
			&ber.Config{
				Currency: cfg.Report.Currency,
				Timeout:  config.GetDuration(wcfg.Timeout),
			},
			rateCatalog, log,
		)
		jobWorkers = append(jobWorkers, startWorker(zeebeClient, ber.TaskType, wcfg, handler.Handle, tracing, obs, zapLog))
	}

	// --- 5. Communication Workers (1) ---
	if config.IsWorkerEnabled(cfg, ser.TaskType) {
		opts := ser.HandlerOptions{
			AppConfig: cfg,
			Camunda:   camundaClient,
			Logger:    log,
		}
		if sesClient != nil {
			opts.Email = sesClient
		}
		if snsClient != nil {
			opts.Topic = snsClient
		}
		handler, err := ser.NewHandler(opts)
		if err != nil {
			zapLog.Fatal("failed to create send-estimate-report handler", zap.Error(err))
		}
		jobWorkers = append(jobWorkers, startWorker(zeebeClient, ser.TaskType, config.GetWorkerConfig(cfg, ser.TaskType), handler.Handle, tracing, obs, zapLog))
	}

	zapLog.Info("All workers registered successfully", zap.Int("count", len(jobWorkers)))

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			checkCtx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
			defer cancel()

			checks := map[string]error{
				"zeebe": camundaClient.HealthCheck(checkCtx),
			}
			if pg != nil {
				checks["postgres"] = pg.Ping(checkCtx)
			}
			if rds != nil {
				checks["redis"] = rds.Ping(checkCtx)
			}
			if esClient != nil {
				checks["elasticsearch"] = esClient.Ping()
			}

			status := http.StatusOK
			body := map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			}
			for name, err := range checks {
				if err != nil {
					status = http.StatusServiceUnavailable
					body["status"] = "unavailable"
					body[name] = err.Error()
				}
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			json.NewEncoder(w).Encode(body)
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range jobWorkers {
		if w != nil {
			w.Close()
		}
	}

	if err := camundaClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	if err := tracing.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down tracing", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func startWorker(
	client zbc.Client,
	taskType string,
	wcfg config.WorkerConfig,
	handlerFunc func(worker.JobClient, entities.Job),
	tracing *observability.Tracing,
	obs *observability.Observability,
	log *zap.Logger,
) worker.JobWorker {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return nil
	}

	instrumented := camunda.Instrument(taskType, tracing, obs, handlerFunc)

	w := client.NewJobWorker().
		JobType(taskType).
		Handler(worker.JobHandler(instrumented)).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)

	return w
}
