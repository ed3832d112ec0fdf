// internal/workers/estimation/calculate-roas/handler_test.go
package calculateroas

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estimation-workers/internal/common/cache"
	"estimation-workers/internal/common/errors"
	"estimation-workers/internal/common/logger"
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

func createTestHandler(t *testing.T, resultCache *cache.ResultCache) *Handler {
	t.Helper()
	handler, err := NewHandler(HandlerOptions{
		CustomConfig: createTestConfig(resultCache != nil),
		Logger:       logger.NewTestLogger(t),
		Cache:        resultCache,
	})
	require.NoError(t, err)
	return handler
}

func createCampaignInput() *Input {
	return &Input{
		TotalRevenue:        10000,
		AdSpend:             2000,
		NewBuyerShare:       0.3,
		NewBuyerDiscountPct: 0.2,
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_CampaignExample(t *testing.T) {
	handler := createTestHandler(t, nil)

	output, err := handler.Execute(context.Background(), createCampaignInput())

	require.NoError(t, err)
	assert.NotEmpty(t, output.EstimateID)
	assert.False(t, output.FromCache)

	assert.InDelta(t, 5.0, output.ReportedROAS, 1e-9)
	assert.InDelta(t, 3000.0, output.NewBuyerRevenue, 1e-9)
	assert.InDelta(t, 600.0, output.DiscountCost, 1e-9)
	assert.InDelta(t, 9400.0, output.AdjustedRevenue, 1e-9)
	assert.InDelta(t, 4.7, output.TrueROAS, 1e-9)
	assert.InDelta(t, 2600.0, output.TotalAcquisitionCost, 1e-9)
	assert.InDelta(t, 6.0, output.OverstatementPct, 1e-9)
}

func TestHandler_Execute_NoDiscountMeansNoOverstatement(t *testing.T) {
	handler := createTestHandler(t, nil)

	input := createCampaignInput()
	input.NewBuyerDiscountPct = 0

	output, err := handler.Execute(context.Background(), input)

	require.NoError(t, err)
	assert.InDelta(t, output.ReportedROAS, output.TrueROAS, 1e-9)
	assert.InDelta(t, 0.0, output.OverstatementPct, 1e-9)
	assert.InDelta(t, 2000.0, output.TotalAcquisitionCost, 1e-9)
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
			name:      "zero ad spend",
			mutate:    func(in *Input) { in.AdSpend = 0 },
			wantField: "adSpend",
		},
		{
			name:      "negative revenue",
			mutate:    func(in *Input) { in.TotalRevenue = -1 },
			wantField: "totalRevenue",
		},
		{
			name:      "new buyer share above one",
			mutate:    func(in *Input) { in.NewBuyerShare = 1.5 },
			wantField: "newBuyerShare",
		},
		{
			name:      "negative discount",
			mutate:    func(in *Input) { in.NewBuyerDiscountPct = -0.2 },
			wantField: "newBuyerDiscountPct",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := createTestHandler(t, nil)

			input := createCampaignInput()
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

	handler := createTestHandler(t, resultCache)

	first, err := handler.Execute(context.Background(), createCampaignInput())
	require.NoError(t, err)
	assert.False(t, first.FromCache)

	second, err := handler.Execute(context.Background(), createCampaignInput())
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, first.TrueROAS, second.TrueROAS)
	assert.NotEqual(t, first.EstimateID, second.EstimateID)
}

func TestHandler_Execute_CacheKeySeparateFromROIEngine(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	resultCache := cache.New(client, 15*time.Minute)

	handler := createTestHandler(t, resultCache)

	_, err := handler.Execute(context.Background(), createCampaignInput())
	require.NoError(t, err)

	for _, key := range mr.Keys() {
		assert.Contains(t, key, "estimate:roas:")
	}
}
