// internal/workers/data-access/lookup-benchmarks/handler_test.go
package lookupbenchmarks

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"estimation-workers/internal/common/logger"
	"estimation-workers/internal/estimation/roi"
	"estimation-workers/internal/models"
	"estimation-workers/internal/workers/data-access/lookup-benchmarks/queries"
)

func createTestConfig() *Config {
	cfg := DefaultConfig()
	cfg.Timeout = 5 * time.Second
	return cfg
}

func createTestLogger(t *testing.T) logger.Logger {
	return logger.NewZapAdapter(zaptest.NewLogger(t))
}

func testProfiles() []map[string]interface{} {
	return []map[string]interface{}{
		{
			"vertical":            "food",
			"sampleSize":          240,
			"medianAnnualGMV":     750000.0,
			"medianAOV":           40.0,
			"medianProfitMargin":  0.22,
			"recommendedScenario": "medium",
		},
		{
			"vertical":            "fashion",
			"sampleSize":          180,
			"medianAnnualGMV":     1200000.0,
			"medianAOV":           120.0,
			"medianProfitMargin":  0.35,
			"recommendedScenario": "high",
		},
		{
			"vertical":            "electronics",
			"sampleSize":          95,
			"medianAnnualGMV":     2400000.0,
			"medianAOV":           300.0,
			"medianProfitMargin":  0.12,
			"recommendedScenario": "low",
		},
	}
}

// benchmarkSearchServer fakes the search API: it matches the term clause the
// builders produce against a canned profile set and answers with the usual
// hits envelope. The product header keeps the v8 client's check happy.
func benchmarkSearchServer(t *testing.T, profiles []map[string]interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")

		var body struct {
			Query struct {
				Term map[string]string `json:"term"`
			} `json:"query"`
		}
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&body)
		}

		hits := []map[string]interface{}{}
		for _, p := range profiles {
			if p["vertical"] == body.Query.Term["vertical"] {
				hits = append(hits, map[string]interface{}{"_source": p})
			}
		}

		response := map[string]interface{}{
			"took": 3,
			"hits": map[string]interface{}{
				"total":     map[string]interface{}{"value": len(hits), "relation": "eq"},
				"max_score": 1.0,
				"hits":      hits,
			},
		}
		_ = json.NewEncoder(w).Encode(response)
	}))
}

func newTestClient(t *testing.T, url string) *elasticsearch.Client {
	t.Helper()
	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{url}})
	require.NoError(t, err)
	return client
}

func floatVal(f float64) *float64 {
	return &f
}

func TestHandler_Execute_Success(t *testing.T) {
	srv := benchmarkSearchServer(t, testProfiles())
	defer srv.Close()

	handler := NewHandler(createTestConfig(), newTestClient(t, srv.URL), createTestLogger(t))

	tests := []struct {
		name     string
		input    *Input
		validate func(t *testing.T, output *Output)
	}{
		{
			name:  "no merchant metrics keeps the recommendation",
			input: &Input{Vertical: "food"},
			validate: func(t *testing.T, output *Output) {
				assert.Equal(t, "food", output.Benchmark.Vertical)
				assert.Equal(t, 240, output.Benchmark.SampleSize)
				assert.Equal(t, 40.0, output.Benchmark.MedianAOV)
				assert.Equal(t, "medium", output.SuggestedScenario)
				assert.False(t, output.Adjusted)
			},
		},
		{
			// 25 < 0.75 * 40 = 30, step medium -> high
			name:  "AOV far below the median steps the scenario up",
			input: &Input{Vertical: "food", AverageOrderValue: floatVal(25)},
			validate: func(t *testing.T, output *Output) {
				assert.Equal(t, "high", output.SuggestedScenario)
				assert.True(t, output.Adjusted)
			},
		},
		{
			// 55 > 1.25 * 40 = 50, step medium -> low
			name:  "AOV far above the median steps the scenario down",
			input: &Input{Vertical: "food", AverageOrderValue: floatVal(55)},
			validate: func(t *testing.T, output *Output) {
				assert.Equal(t, "low", output.SuggestedScenario)
				assert.True(t, output.Adjusted)
			},
		},
		{
			// 42 sits inside [30, 50], no adjustment
			name:  "AOV inside the band keeps the recommendation",
			input: &Input{Vertical: "food", AverageOrderValue: floatVal(42), AnnualGMV: floatVal(500000)},
			validate: func(t *testing.T, output *Output) {
				assert.Equal(t, "medium", output.SuggestedScenario)
				assert.False(t, output.Adjusted)
			},
		},
		{
			// thresholds are strict: 30 == 0.75 * 40 does not step
			name:  "AOV exactly at the lower threshold stays put",
			input: &Input{Vertical: "food", AverageOrderValue: floatVal(30)},
			validate: func(t *testing.T, output *Output) {
				assert.Equal(t, "medium", output.SuggestedScenario)
				assert.False(t, output.Adjusted)
			},
		},
		{
			// 80 < 0.75 * 120 = 90 but the recommendation is already high
			name:  "step up clamps at high",
			input: &Input{Vertical: "fashion", AverageOrderValue: floatVal(80)},
			validate: func(t *testing.T, output *Output) {
				assert.Equal(t, "high", output.SuggestedScenario)
				assert.False(t, output.Adjusted)
			},
		},
		{
			// 400 > 1.25 * 300 = 375 but the recommendation is already low
			name:  "step down clamps at low",
			input: &Input{Vertical: "electronics", AverageOrderValue: floatVal(400)},
			validate: func(t *testing.T, output *Output) {
				assert.Equal(t, "low", output.SuggestedScenario)
				assert.False(t, output.Adjusted)
			},
		},
		{
			name:  "vertical casing is normalized before the term match",
			input: &Input{Vertical: "  Food "},
			validate: func(t *testing.T, output *Output) {
				assert.Equal(t, "food", output.Benchmark.Vertical)
				assert.Equal(t, "medium", output.SuggestedScenario)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := handler.execute(context.Background(), tt.input)

			require.NoError(t, err)
			require.NotNil(t, output)
			assert.GreaterOrEqual(t, output.Took, int64(0))

			if tt.validate != nil {
				tt.validate(t, output)
			}
		})
	}
}

func TestHandler_Execute_UnknownVertical(t *testing.T) {
	srv := benchmarkSearchServer(t, testProfiles())
	defer srv.Close()

	handler := NewHandler(createTestConfig(), newTestClient(t, srv.URL), createTestLogger(t))

	output, err := handler.execute(context.Background(), &Input{Vertical: "aerospace"})

	assert.ErrorIs(t, err, ErrBenchmarkNotFound)
	assert.Contains(t, err.Error(), "aerospace")
	assert.Nil(t, output)
}

func TestHandler_Execute_InvalidInput(t *testing.T) {
	handler := NewHandler(createTestConfig(), nil, createTestLogger(t))

	t.Run("nil input", func(t *testing.T) {
		output, err := handler.execute(context.Background(), nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be nil")
		assert.Nil(t, output)
	})

	t.Run("missing vertical", func(t *testing.T) {
		output, err := handler.execute(context.Background(), &Input{Vertical: "   "})
		assert.ErrorIs(t, err, ErrMissingVertical)
		assert.Nil(t, output)
	})
}

func TestHandler_Execute_SearchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"type":"search_phase_execution_exception"}}`))
	}))
	defer srv.Close()

	handler := NewHandler(createTestConfig(), newTestClient(t, srv.URL), createTestLogger(t))

	output, err := handler.execute(context.Background(), &Input{Vertical: "food"})

	assert.ErrorIs(t, err, ErrBenchmarkLookupFailed)
	assert.Nil(t, output)
}

func TestHandler_Execute_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	handler := NewHandler(createTestConfig(), newTestClient(t, srv.URL), createTestLogger(t))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	output, err := handler.execute(ctx, &Input{Vertical: "food"})

	assert.ErrorIs(t, err, ErrLookupTimeout)
	assert.Nil(t, output)
}

func TestHandler_Execute_MalformedDocument(t *testing.T) {
	srv := benchmarkSearchServer(t, []map[string]interface{}{
		{
			"vertical":            "food",
			"sampleSize":          12,
			"medianAOV":           40.0,
			"recommendedScenario": "aggressive",
		},
	})
	defer srv.Close()

	handler := NewHandler(createTestConfig(), newTestClient(t, srv.URL), createTestLogger(t))

	output, err := handler.execute(context.Background(), &Input{Vertical: "food"})

	assert.ErrorIs(t, err, ErrBenchmarkLookupFailed)
	assert.Contains(t, err.Error(), "aggressive")
	assert.Nil(t, output)
}

func TestHandler_ErrorMapping(t *testing.T) {
	handler := NewHandler(createTestConfig(), nil, createTestLogger(t))

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"benchmark not found", ErrBenchmarkNotFound, "BENCHMARK_NOT_FOUND"},
		{"lookup timeout", ErrLookupTimeout, "SEARCH_TIMEOUT"},
		{"lookup failed", ErrBenchmarkLookupFailed, "BENCHMARK_LOOKUP_FAILED"},
		{"missing vertical", ErrMissingVertical, "VALIDATION_FAILED"},
		{"unknown error", errors.New("random error"), "UNKNOWN_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code := handler.mapErrorToCode(tt.err)
			assert.Equal(t, tt.expected, code)
		})
	}
}

func TestHandler_RetryCounts(t *testing.T) {
	handler := NewHandler(createTestConfig(), nil, createTestLogger(t))

	assert.Equal(t, int32(3), handler.getRetryCount(ErrBenchmarkLookupFailed))
	assert.Equal(t, int32(2), handler.getRetryCount(ErrLookupTimeout))
	assert.Equal(t, int32(0), handler.getRetryCount(ErrBenchmarkNotFound))
	assert.Equal(t, int32(0), handler.getRetryCount(ErrMissingVertical))
}

func TestSuggestScenario_NoMedianAOV(t *testing.T) {
	profile := &models.BenchmarkProfile{
		Vertical:            "food",
		RecommendedScenario: "medium",
	}

	suggested, adjusted := suggestScenario(profile, &Input{Vertical: "food", AverageOrderValue: floatVal(10)})

	assert.Equal(t, roi.ScenarioMedium, suggested)
	assert.False(t, adjusted)
}

func TestStepScenario(t *testing.T) {
	tests := []struct {
		name     string
		from     roi.GrowthScenario
		delta    int
		expected roi.GrowthScenario
	}{
		{"low up", roi.ScenarioLow, 1, roi.ScenarioMedium},
		{"medium up", roi.ScenarioMedium, 1, roi.ScenarioHigh},
		{"high up clamps", roi.ScenarioHigh, 1, roi.ScenarioHigh},
		{"high down", roi.ScenarioHigh, -1, roi.ScenarioMedium},
		{"medium down", roi.ScenarioMedium, -1, roi.ScenarioLow},
		{"low down clamps", roi.ScenarioLow, -1, roi.ScenarioLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, stepScenario(tt.from, tt.delta))
		})
	}
}

func TestBuildQuery(t *testing.T) {
	t.Run("vertical term is lowercased", func(t *testing.T) {
		req, err := queries.BuildQuery(queries.BenchmarkQuery{
			Index:    "merchant_benchmarks",
			Name:     queries.BenchmarksByVertical,
			Vertical: "  Fashion ",
			Size:     1,
		})
		require.NoError(t, err)
		require.NotNil(t, req)

		body, err := io.ReadAll(req.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), `"vertical":"fashion"`)
		assert.Contains(t, string(body), `"sampleSize":"desc"`)
		require.NotNil(t, req.Size)
		assert.Equal(t, 1, *req.Size)
	})

	t.Run("missing index", func(t *testing.T) {
		_, err := queries.BuildQuery(queries.BenchmarkQuery{Name: queries.BenchmarksByVertical, Vertical: "food"})
		assert.ErrorIs(t, err, queries.ErrMissingIndex)
	})

	t.Run("missing vertical", func(t *testing.T) {
		_, err := queries.BuildQuery(queries.BenchmarkQuery{Index: "merchant_benchmarks", Name: queries.BenchmarksByVertical})
		assert.ErrorIs(t, err, queries.ErrMissingVertical)
	})

	t.Run("unknown query name", func(t *testing.T) {
		_, err := queries.BuildQuery(queries.BenchmarkQuery{Index: "merchant_benchmarks", Name: "benchmarks_by_region", Vertical: "food"})
		assert.ErrorIs(t, err, queries.ErrUnknownQueryName)
	})
}
