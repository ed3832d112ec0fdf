package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleResult struct {
	Scenario string  `json:"scenario"`
	Total    float64 `json:"total"`
}

type sampleInput struct {
	AnnualGMV float64 `json:"annualGMV"`
	Scenario  string  `json:"scenario"`
}

// ==========================
// Key Construction Tests
// ==========================

func TestKey_Deterministic(t *testing.T) {
	in := sampleInput{AnnualGMV: 1000000, Scenario: "medium"}

	k1, err := Key("roi", "builtin-abc123", in)
	require.NoError(t, err)
	k2, err := Key("roi", "builtin-abc123", in)
	require.NoError(t, err)

	assert.Equal(t, k1, k2)
	assert.Contains(t, k1, "estimate:roi:")
}

func TestKey_ScopedByCatalogVersionAndEngine(t *testing.T) {
	in := sampleInput{AnnualGMV: 1000000, Scenario: "medium"}

	base, err := Key("roi", "builtin-abc123", in)
	require.NoError(t, err)

	otherVersion, err := Key("roi", "db-def456", in)
	require.NoError(t, err)
	assert.NotEqual(t, base, otherVersion)

	otherEngine, err := Key("roas", "builtin-abc123", in)
	require.NoError(t, err)
	assert.NotEqual(t, base, otherEngine)

	otherInput, err := Key("roi", "builtin-abc123", sampleInput{AnnualGMV: 2000000, Scenario: "medium"})
	require.NoError(t, err)
	assert.NotEqual(t, base, otherInput)
}

// ==========================
// Round Trip Tests
// ==========================

func TestResultCache_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	rc := New(client, 10*time.Minute)

	key, err := Key("roi", "builtin-abc123", sampleInput{AnnualGMV: 1000000, Scenario: "medium"})
	require.NoError(t, err)

	stored := sampleResult{Scenario: "medium", Total: 350000}
	require.NoError(t, rc.Store(context.Background(), key, stored))

	var got sampleResult
	found, err := rc.Lookup(context.Background(), key, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, stored, got)
}

func TestResultCache_EntryExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	rc := New(client, time.Minute)

	key := "estimate:roi:expiry-test"
	require.NoError(t, rc.Store(context.Background(), key, sampleResult{Scenario: "low", Total: 1}))

	mr.FastForward(2 * time.Minute)

	var got sampleResult
	found, err := rc.Lookup(context.Background(), key, &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestResultCache_MissOnUnknownKey(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	rc := New(client, time.Minute)

	var got sampleResult
	found, err := rc.Lookup(context.Background(), "estimate:roi:nope", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestResultCache_CorruptEntryIsMiss(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	rc := New(client, time.Minute)

	key := "estimate:roi:corrupt"
	require.NoError(t, mr.Set(key, "{not valid json"))

	var got sampleResult
	found, err := rc.Lookup(context.Background(), key, &got)
	assert.False(t, found)
	assert.Error(t, err)
}

// ==========================
// Error Propagation Tests
// ==========================

func TestResultCache_LookupPropagatesRedisError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	rc := New(client, time.Minute)

	mock.ExpectGet("estimate:roi:down").SetErr(errors.New("connection refused"))

	var got sampleResult
	found, err := rc.Lookup(context.Background(), "estimate:roi:down", &got)
	assert.False(t, found)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
