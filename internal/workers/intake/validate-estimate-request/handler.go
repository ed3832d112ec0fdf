// internal/workers/intake/validate-estimate-request/handler.go
package validateestimaterequest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"estimation-workers/internal/common/logger"
	"estimation-workers/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "validate-estimate-request"
)

var (
	ErrUnknownEstimator = errors.New("UNKNOWN_ESTIMATOR")
)

// Handler is the numeric sanity gate ahead of the calculators. A request
// with violations completes the job with valid=false so the process
// gateway can route it; only an unknown estimator or unparseable
// variables raise a BPMN error.
type Handler struct {
	config *Config
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	return &Handler{
		config: config,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, "UNKNOWN_ESTIMATOR", err.Error())
		return
	}

	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	var schema validation.JSONSchema
	switch input.Estimator {
	case EstimatorROI:
		schema = roiRequestSchema()
	case EstimatorROAS:
		schema = roasRequestSchema()
	default:
		return nil, fmt.Errorf("%w: %q is not a known estimator", ErrUnknownEstimator, input.Estimator)
	}

	if input.Request == nil {
		return &Output{
			Valid:     false,
			Estimator: input.Estimator,
			Errors: []FieldError{{
				Field:   "request",
				Code:    CodeMissingRequired,
				Message: "request payload is required",
			}},
		}, nil
	}

	result := validation.ValidateInput(input.Request, schema)
	fieldErrors := make([]FieldError, 0, len(result.Errors))
	for _, ve := range result.Errors {
		fieldErrors = append(fieldErrors, FieldError{
			Field:   ve.Field,
			Code:    wireCode(ve.Code),
			Message: ve.Message,
		})
	}

	// JSON numbers arrive as float64, so the schema walker cannot tell a
	// count from a fraction. Transactions must be whole.
	if raw, ok := input.Request["annualTransactions"]; ok && input.Estimator == EstimatorROI {
		if num, ok := raw.(float64); ok && num != math.Trunc(num) {
			fieldErrors = append(fieldErrors, FieldError{
				Field:   "annualTransactions",
				Code:    CodeInvalidValue,
				Message: "value must be a whole number",
			})
		}
	}

	// The calculators reject non-finite numbers, so the gate must too.
	// Walking schema.Required keeps the error order stable.
	for _, field := range schema.Required {
		if num, ok := input.Request[field].(float64); ok {
			if math.IsNaN(num) || math.IsInf(num, 0) {
				fieldErrors = append(fieldErrors, FieldError{
					Field:   field,
					Code:    CodeInvalidValue,
					Message: "value must be a finite number",
				})
			}
		}
	}

	output := &Output{
		Valid:     len(fieldErrors) == 0,
		Estimator: input.Estimator,
		Errors:    fieldErrors,
	}

	h.logger.Info("validation completed", map[string]interface{}{
		"estimator":  input.Estimator,
		"valid":      output.Valid,
		"errorCount": len(fieldErrors),
	})

	return output, nil
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, _ = client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
