// internal/workers/estimation/calculate-roi/handler_test.go
package calculateroi

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estimation-workers/internal/common/cache"
	"estimation-workers/internal/common/errors"
	"estimation-workers/internal/common/logger"
	"estimation-workers/internal/estimation/roi"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig(cacheEnabled bool) *Config {
	return &Config{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       10 * time.Second,
		CacheEnabled:  cacheEnabled,
	}
}

func createTestHandler(t *testing.T, resultCache *cache.ResultCache, config *Config) *Handler {
	t.Helper()
	if config == nil {
		config = createTestConfig(resultCache != nil)
	}
	catalog := roi.DefaultCatalog()
	handler, err := NewHandler(HandlerOptions{
		CustomConfig: config,
		Logger:       logger.NewTestLogger(t),
		Catalog:      &catalog,
		Cache:        resultCache,
	})
	require.NoError(t, err)
	return handler
}

func createMediumInput() *Input {
	return &Input{
		AnnualGMV:          1000000,
		AverageOrderValue:  50,
		AnnualTransactions: 20000,
		ProfitMargin:       0.3,
		Scenario:           "medium",
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_MediumScenario(t *testing.T) {
	handler := createTestHandler(t, nil, nil)

	output, err := handler.Execute(context.Background(), createMediumInput())

	require.NoError(t, err)
	assert.NotEmpty(t, output.EstimateID)
	assert.Equal(t, "medium", output.Scenario)
	assert.Contains(t, output.CatalogVersion, "builtin-")
	assert.False(t, output.FromCache)

	assert.Len(t, output.Features, 7)
	assert.InDelta(t, 350000.0, output.TotalRevenueImpact, 1e-9)
	assert.InDelta(t, 35.0, output.TotalGMVSharePct, 1e-9)
	assert.InDelta(t, 105000.0, output.TotalMarginImpact, 1e-9)
	assert.InDelta(t, 4410.20, output.UpgradeCost, 1e-9)
	require.NotNil(t, output.RecoupMonths)
	assert.InDelta(t, 0.504022857142857, *output.RecoupMonths, 1e-12)
}

func TestHandler_Execute_ScenarioOrdering(t *testing.T) {
	handler := createTestHandler(t, nil, nil)

	var totals []float64
	for _, scenario := range []string{"low", "medium", "high"} {
		input := createMediumInput()
		input.Scenario = scenario

		output, err := handler.Execute(context.Background(), input)
		require.NoError(t, err)
		totals = append(totals, output.TotalRevenueImpact)
	}

	assert.LessOrEqual(t, totals[0], totals[1])
	assert.LessOrEqual(t, totals[1], totals[2])
}

func TestHandler_Execute_ZeroMarginHasNoRecoupHorizon(t *testing.T) {
	handler := createTestHandler(t, nil, nil)

	input := createMediumInput()
	input.ProfitMargin = 0

	output, err := handler.Execute(context.Background(), input)

	require.NoError(t, err)
	assert.Nil(t, output.RecoupMonths)
	assert.InDelta(t, 0.0, output.TotalMarginImpact, 1e-9)
}

// ==========================
// Invalid Input
// ==========================

func TestHandler_Execute_InvalidInput(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(input *Input)
		wantField string
	}{
		{
			name:      "zero annualGMV",
			mutate:    func(in *Input) { in.AnnualGMV = 0 },
			wantField: "annualGMV",
		},
		{
			name:      "negative averageOrderValue",
			mutate:    func(in *Input) { in.AverageOrderValue = -10 },
			wantField: "averageOrderValue",
		},
		{
			name:      "negative transactions",
			mutate:    func(in *Input) { in.AnnualTransactions = -1 },
			wantField: "annualTransactions",
		},
		{
			name:      "profit margin above one",
			mutate:    func(in *Input) { in.ProfitMargin = 1.01 },
			wantField: "profitMargin",
		},
		{
			name:      "unknown scenario",
			mutate:    func(in *Input) { in.Scenario = "maximum" },
			wantField: "scenario",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := createTestHandler(t, nil, nil)

			input := createMediumInput()
			tt.mutate(input)

			output, err := handler.Execute(context.Background(), input)

			assert.Nil(t, output, "no partial result on invalid input")
			require.Error(t, err)

			stdErr, ok := err.(*errors.StandardError)
			require.True(t, ok, "expected a standard error, got %T", err)
			assert.Equal(t, errors.ErrCodeInvalidInput, stdErr.Code)
			assert.False(t, stdErr.Retryable)
			assert.Equal(t, tt.wantField, stdErr.Metadata["field"])
		})
	}
}

// ==========================
// Result Cache
// ==========================

func TestHandler_Execute_CacheRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	resultCache := cache.New(client, 15*time.Minute)

	handler := createTestHandler(t, resultCache, nil)

	first, err := handler.Execute(context.Background(), createMediumInput())
	require.NoError(t, err)
	assert.False(t, first.FromCache)

	second, err := handler.Execute(context.Background(), createMediumInput())
	require.NoError(t, err)
	assert.True(t, second.FromCache)

	assert.Equal(t, first.TotalRevenueImpact, second.TotalRevenueImpact)
	assert.Equal(t, first.UpgradeCost, second.UpgradeCost)
	assert.NotEqual(t, first.EstimateID, second.EstimateID,
		"each job gets its own estimate id even when served from cache")
}

func TestHandler_Execute_CacheMissOnDifferentScenario(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	resultCache := cache.New(client, 15*time.Minute)

	handler := createTestHandler(t, resultCache, nil)

	_, err := handler.Execute(context.Background(), createMediumInput())
	require.NoError(t, err)

	input := createMediumInput()
	input.Scenario = "high"

	output, err := handler.Execute(context.Background(), input)
	require.NoError(t, err)
	assert.False(t, output.FromCache)
	assert.Equal(t, "high", output.Scenario)
}

func TestHandler_Execute_CacheFailureFallsBackToCompute(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.MatchExpectationsInOrder(false)
	mock.Regexp().ExpectGet(`estimate:roi:.*`).SetErr(assert.AnError)
	mock.Regexp().ExpectSet(`estimate:roi:.*`, `.*`, 15*time.Minute).SetErr(assert.AnError)

	resultCache := cache.New(client, 15*time.Minute)
	handler := createTestHandler(t, resultCache, nil)

	output, err := handler.Execute(context.Background(), createMediumInput())

	require.NoError(t, err, "cache trouble must never fail the estimate")
	assert.False(t, output.FromCache)
	assert.InDelta(t, 350000.0, output.TotalRevenueImpact, 1e-9)
}

func TestHandler_Execute_InvalidInputNeverCached(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	resultCache := cache.New(client, 15*time.Minute)

	handler := createTestHandler(t, resultCache, nil)

	input := createMediumInput()
	input.AnnualGMV = 0

	_, err := handler.Execute(context.Background(), input)
	require.Error(t, err)
	assert.Empty(t, mr.Keys())
}

// ==========================
// Construction
// ==========================

func TestNewHandler_RequiresCatalog(t *testing.T) {
	_, err := NewHandler(HandlerOptions{
		CustomConfig: createTestConfig(false),
		Logger:       logger.NewTestLogger(t),
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "catalog")
}

func TestNewHandler_RejectsInvalidConfig(t *testing.T) {
	catalog := roi.DefaultCatalog()
	_, err := NewHandler(HandlerOptions{
		CustomConfig: &Config{Enabled: true, MaxJobsActive: 0, Timeout: time.Second},
		Logger:       logger.NewTestLogger(t),
		Catalog:      &catalog,
	})

	assert.Error(t, err)
}
