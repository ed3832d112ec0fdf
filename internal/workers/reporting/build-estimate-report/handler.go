// internal/workers/reporting/build-estimate-report/handler.go
package buildestimatereport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"estimation-workers/internal/common/logger"
	"estimation-workers/internal/estimation/roi"
)

const TaskType = "build-estimate-report"

const (
	KindROI      = "roi"
	KindROAS     = "roas"
	KindCombined = "combined"
)

var (
	ErrUnknownReportKind      = errors.New("UNKNOWN_REPORT_KIND")
	ErrReportInputMissing     = errors.New("REPORT_INPUT_MISSING")
	ErrReportValidationFailed = errors.New("REPORT_VALIDATION_FAILED")
)

type Handler struct {
	config  *Config
	catalog *roi.Catalog
	logger  logger.Logger
}

func NewHandler(config *Config, catalog *roi.Catalog, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
		catalog: catalog,
		logger:  log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err), 0)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, h.mapErrorToCode(err), err.Error(), 0)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	kind := strings.ToLower(strings.TrimSpace(input.Kind))
	switch kind {
	case KindROI, KindROAS, KindCombined:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownReportKind, input.Kind)
	}

	if strings.TrimSpace(input.Merchant.Name) == "" {
		return nil, fmt.Errorf("%w: merchant.name is required", ErrReportInputMissing)
	}
	if (kind == KindROI || kind == KindCombined) && input.ROI == nil {
		return nil, fmt.Errorf("%w: roi payload required for kind %q", ErrReportInputMissing, kind)
	}
	if (kind == KindROAS || kind == KindCombined) && input.ROAS == nil {
		return nil, fmt.Errorf("%w: roas payload required for kind %q", ErrReportInputMissing, kind)
	}

	report := h.buildReport(kind, input)

	if err := validateReport(report); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReportValidationFailed, err)
	}

	h.logger.Info("estimate report assembled", map[string]interface{}{
		"reportId": report.ReportID,
		"kind":     report.Kind,
		"sections": len(report.Sections),
		"outlook":  len(report.Outlook),
	})

	return &Output{Report: report, ReportText: renderText(report)}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
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
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string, _ int32) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) mapErrorToCode(err error) string {
	if errors.Is(err, ErrUnknownReportKind) {
		return "UNKNOWN_REPORT_KIND"
	} else if errors.Is(err, ErrReportInputMissing) {
		return "REPORT_INPUT_MISSING"
	} else if errors.Is(err, ErrReportValidationFailed) {
		return "REPORT_VALIDATION_FAILED"
	}
	return "REPORT_BUILD_FAILED"
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
