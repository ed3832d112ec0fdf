// internal/workers/data-access/lookup-benchmarks/handler.go
package lookupbenchmarks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"

	"estimation-workers/internal/common/logger"
	"estimation-workers/internal/estimation/roi"
	"estimation-workers/internal/models"
	"estimation-workers/internal/workers/data-access/lookup-benchmarks/queries"
)

const (
	TaskType = "lookup-benchmarks"

	// AOV thresholds relative to the vertical median that move the
	// suggested scenario off the benchmark recommendation.
	lowAOVRatio  = 0.75
	highAOVRatio = 1.25
)

var (
	ErrMissingVertical       = errors.New("VALIDATION_FAILED")
	ErrBenchmarkNotFound     = errors.New("BENCHMARK_NOT_FOUND")
	ErrBenchmarkLookupFailed = errors.New("BENCHMARK_LOOKUP_FAILED")
	ErrLookupTimeout         = errors.New("SEARCH_TIMEOUT")
)

type Handler struct {
	config *Config
	client *elasticsearch.Client
	logger logger.Logger
}

func NewHandler(config *Config, client *elasticsearch.Client, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		client: client,
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
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err), 0)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		errorCode := h.mapErrorToCode(err)
		retries := h.getRetryCount(err)
		h.failJob(client, job, errorCode, err.Error(), retries)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}
	if strings.TrimSpace(input.Vertical) == "" {
		return nil, fmt.Errorf("%w: vertical is required", ErrMissingVertical)
	}

	result, err := queries.Execute(ctx, h.client, queries.BenchmarkQuery{
		Index:    h.config.Index,
		Name:     queries.BenchmarksByVertical,
		Vertical: input.Vertical,
		Size:     1,
	})
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, ErrLookupTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrBenchmarkLookupFailed, err)
	}

	if result.TotalHits == 0 || len(result.Data) == 0 {
		return nil, fmt.Errorf("%w: no benchmark for vertical %q", ErrBenchmarkNotFound, input.Vertical)
	}

	profile, err := decodeProfile(result.Data[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBenchmarkLookupFailed, err)
	}

	suggested, adjusted := suggestScenario(profile, input)

	h.logger.Info("benchmark resolved", map[string]interface{}{
		"vertical":          profile.Vertical,
		"sampleSize":        profile.SampleSize,
		"suggestedScenario": string(suggested),
		"adjusted":          adjusted,
	})

	return &Output{
		Benchmark:         *profile,
		SuggestedScenario: string(suggested),
		Adjusted:          adjusted,
		Took:              result.Took,
	}, nil
}

// decodeProfile maps the raw _source document onto the typed profile and
// rejects documents whose recommendation is not a known scenario.
func decodeProfile(source map[string]interface{}) (*models.BenchmarkProfile, error) {
	raw, err := json.Marshal(source)
	if err != nil {
		return nil, err
	}
	var profile models.BenchmarkProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, err
	}
	if _, err := roi.ParseScenario(profile.RecommendedScenario); err != nil {
		return nil, fmt.Errorf("benchmark document carries unknown scenario %q", profile.RecommendedScenario)
	}
	return &profile, nil
}

// suggestScenario starts from the vertical recommendation and steps it one
// level when the merchant's own AOV sits well off the vertical median.
func suggestScenario(profile *models.BenchmarkProfile, input *Input) (roi.GrowthScenario, bool) {
	recommended, _ := roi.ParseScenario(profile.RecommendedScenario)

	if input.AverageOrderValue == nil || profile.MedianAOV <= 0 {
		return recommended, false
	}

	aov := *input.AverageOrderValue
	switch {
	case aov < lowAOVRatio*profile.MedianAOV:
		stepped := stepScenario(recommended, 1)
		return stepped, stepped != recommended
	case aov > highAOVRatio*profile.MedianAOV:
		stepped := stepScenario(recommended, -1)
		return stepped, stepped != recommended
	}
	return recommended, false
}

// stepScenario moves along low, medium, high; clamping at both ends.
func stepScenario(s roi.GrowthScenario, delta int) roi.GrowthScenario {
	order := roi.Scenarios()
	for i, candidate := range order {
		if candidate != s {
			continue
		}
		next := i + delta
		if next < 0 {
			next = 0
		}
		if next > len(order)-1 {
			next = len(order) - 1
		}
		return order[next]
	}
	return s
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

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string, retries int32) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
		"retries":      retries,
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
	if errors.Is(err, ErrBenchmarkNotFound) {
		return "BENCHMARK_NOT_FOUND"
	} else if errors.Is(err, ErrLookupTimeout) {
		return "SEARCH_TIMEOUT"
	} else if errors.Is(err, ErrBenchmarkLookupFailed) {
		return "BENCHMARK_LOOKUP_FAILED"
	} else if errors.Is(err, ErrMissingVertical) {
		return "VALIDATION_FAILED"
	}
	return "UNKNOWN_ERROR"
}

func (h *Handler) getRetryCount(err error) int32 {
	if errors.Is(err, ErrBenchmarkLookupFailed) {
		return 3
	} else if errors.Is(err, ErrLookupTimeout) {
		return 2
	}
	return 0
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
