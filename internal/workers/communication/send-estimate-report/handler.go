// internal/workers/communication/send-estimate-report/handler.go
package sendestimatereport

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"estimation-workers/internal/common/camunda"
	"estimation-workers/internal/common/config"
	"estimation-workers/internal/common/errors"
	commonhttp "estimation-workers/internal/common/http"
	"estimation-workers/internal/common/logger"
	"estimation-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "send-estimate-report"

type Handler struct {
	config       *Config
	logger       logger.Logger
	camunda      *camunda.Client
	service      *Service
	errorHandler *errors.ErrorHandler
	jobWorker    worker.JobWorker
}

type HandlerOptions struct {
	AppConfig    *config.Config
	Camunda      *camunda.Client
	CustomConfig *Config
	Logger       logger.Logger
	Email        EmailSender
	Webhook      WebhookPoster
	Topic        TopicPublisher
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)

	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for send-estimate-report: %w", err)
	}

	if workerConfig.EmailEnabled && opts.Email == nil {
		return nil, fmt.Errorf("send-estimate-report requires an email sender when the email channel is enabled")
	}
	if workerConfig.TopicEnabled && opts.Topic == nil {
		return nil, fmt.Errorf("send-estimate-report requires a topic publisher when the topic channel is enabled")
	}

	// The webhook channel needs no credentials, so a default client is fine.
	webhook := opts.Webhook
	if workerConfig.WebhookEnabled && webhook == nil {
		webhook = commonhttp.NewClient(workerConfig.WebhookTimeout)
	}

	var loggerInstance logger.Logger
	if opts.Logger != nil {
		loggerInstance = opts.Logger
	} else {
		loggerInstance = logger.NewStructured("info", "json")
	}

	handler := &Handler{
		config:       workerConfig,
		logger:       loggerInstance,
		camunda:      opts.Camunda,
		errorHandler: errors.NewErrorHandler(loggerInstance),
	}

	handler.service = NewService(ServiceDependencies{
		Logger:  loggerInstance,
		Email:   opts.Email,
		Webhook: webhook,
		Topic:   opts.Topic,
	}, handler.config)

	return handler, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	h.logger.Info("Processing report delivery request", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
		"worker":             TaskType,
	})

	if !h.config.Enabled {
		h.logger.Warn("Worker disabled by configuration, failing job", map[string]interface{}{
			"worker": TaskType,
		})
		h.errorHandler.HandleJobError(ctx, client, job, &errors.StandardError{
			Code:      "WORKER_DISABLED",
			Message:   "Report delivery is disabled",
			Retryable: false,
			Timestamp: time.Now(),
		})
		return
	}

	input, err := h.parseInput(job)
	if err != nil {
		errorCode := extractErrorCode(err)
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode).Inc()
		h.errorHandler.HandleJobError(ctx, client, job, convertToStandardError(err))
		return
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		errorCode := extractErrorCode(err)
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode).Inc()
		h.errorHandler.HandleJobError(ctx, client, job, convertToStandardError(err))
		return
	}

	h.completeJob(ctx, client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		return nil, errors.NewParseError(err)
	}
	return &input, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	variables := map[string]interface{}{
		"delivery": output,
	}

	request, err := client.NewCompleteJobCommand().JobKey(job.GetKey()).VariablesFromMap(variables)
	if err != nil {
		h.logger.Error("Failed to create complete job command", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
			"worker": TaskType,
		})
		return
	}

	_, err = request.Send(ctx)
	if err != nil {
		h.logger.Error("Failed to complete job", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
			"worker": TaskType,
		})
	} else {
		h.logger.Info("Successfully delivered estimate report", map[string]interface{}{
			"jobKey":    job.GetKey(),
			"channel":   output.Channel,
			"messageId": output.MessageID,
			"worker":    TaskType,
		})
	}
}

func (h *Handler) Register() error {
	if !h.config.Enabled {
		h.logger.Info("Worker is disabled, skipping registration", map[string]interface{}{
			"worker": TaskType,
		})
		return nil
	}

	zeebeClient := h.camunda.GetClient()

	jobWorker := zeebeClient.NewJobWorker().
		JobType(TaskType).
		Handler(h.Handle).
		MaxJobsActive(h.config.MaxJobsActive).
		Timeout(h.config.Timeout).
		Name(fmt.Sprintf("%s-worker", TaskType)).
		Open()

	h.jobWorker = jobWorker

	h.logger.Info("Report delivery worker registered with Camunda", map[string]interface{}{
		"taskType":       TaskType,
		"maxJobsActive":  h.config.MaxJobsActive,
		"timeout":        h.config.Timeout.String(),
		"emailEnabled":   h.config.EmailEnabled,
		"webhookEnabled": h.config.WebhookEnabled,
		"topicEnabled":   h.config.TopicEnabled,
	})

	return nil
}

func (h *Handler) Close() {
	if h.jobWorker != nil {
		h.logger.Info("Shutting down worker gracefully", map[string]interface{}{
			"worker": TaskType,
		})
		h.jobWorker.Close()
		h.jobWorker = nil
	}
}

func (h *Handler) HealthCheck(ctx context.Context) error {
	if err := h.camunda.HealthCheck(ctx); err != nil {
		return fmt.Errorf("camunda health check failed: %w", err)
	}

	h.logger.Info("Health check passed", map[string]interface{}{
		"worker": TaskType,
	})

	return nil
}

func (h *Handler) GetTaskType() string {
	return TaskType
}

func (h *Handler) IsEnabled() bool {
	return h.config.Enabled
}

func (h *Handler) GetConfig() *Config {
	return h.config
}

func extractErrorCode(err error) string {
	if stdErr, ok := err.(*errors.StandardError); ok {
		return string(stdErr.Code)
	}
	return "UNKNOWN_ERROR"
}

func convertToStandardError(err error) *errors.StandardError {
	if stdErr, ok := err.(*errors.StandardError); ok {
		return stdErr
	}
	return &errors.StandardError{
		Code:      errors.ErrCodeReportDeliveryFailed,
		Message:   "Failed to deliver estimate report",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now(),
	}
}

func createConfigFromAppConfig(appConfig *config.Config, customConfig *Config) *Config {
	if customConfig != nil {
		return customConfig
	}

	cfg := DefaultConfig()

	if appConfig != nil {
		if workerCfg, exists := appConfig.Workers[TaskType]; exists {
			cfg.Enabled = workerCfg.Enabled
			if workerCfg.MaxJobsActive > 0 {
				cfg.MaxJobsActive = workerCfg.MaxJobsActive
			}
			if workerCfg.Timeout > 0 {
				cfg.Timeout = time.Duration(workerCfg.Timeout) * time.Millisecond
			}
		}

		cfg.EmailEnabled = appConfig.Delivery.Email.Enabled
		cfg.FromEmail = appConfig.Delivery.Email.FromEmail
		cfg.WebhookEnabled = appConfig.Delivery.Webhook.Enabled
		if appConfig.Delivery.Webhook.Timeout > 0 {
			cfg.WebhookTimeout = time.Duration(appConfig.Delivery.Webhook.Timeout) * time.Millisecond
		}
		cfg.TopicEnabled = appConfig.Delivery.Topic.Enabled
		cfg.TopicARN = appConfig.Delivery.Topic.TopicARN
		if appConfig.Delivery.AWS.Region != "" {
			cfg.AWSRegion = appConfig.Delivery.AWS.Region
		}
	}

	return cfg
}

// Execute runs the delivery directly, outside the job plumbing.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.service.Execute(ctx, input)
}
