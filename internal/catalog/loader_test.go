// internal/catalog/loader_test.go
package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estimation-workers/internal/common/logger"
	"estimation-workers/internal/estimation/roi"
)

const testTable = "estimation_feature_rates"

func overrideColumns() []string {
	return []string{
		"feature_key", "low_rate", "medium_rate", "high_rate",
		"low_cost", "medium_cost", "high_cost",
	}
}

func featureByKey(t *testing.T, cat *roi.Catalog, key string) roi.Feature {
	t.Helper()
	for _, f := range cat.Features {
		if f.Key == key {
			return f
		}
	}
	t.Fatalf("feature %s not in catalog", key)
	return roi.Feature{}
}

// =============================================================================
// BUILTIN FALLBACK
// =============================================================================

func TestLoader_BuiltinCatalogWithoutDatabase(t *testing.T) {
	loader := NewLoader(nil, testTable, logger.NewTestLogger(t))

	cat, err := loader.Load(context.Background())

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(cat.Version, "builtin-"))
	assert.Len(t, cat.Features, 7)
}

func TestLoader_BuiltinVersionWhenTableEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT feature_key, low_rate, medium_rate, high_rate`).
		WillReturnRows(sqlmock.NewRows(overrideColumns()))

	loader := NewLoader(db, testTable, logger.NewTestLogger(t))
	cat, err := loader.Load(context.Background())

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(cat.Version, "builtin-"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// =============================================================================
// DATABASE OVERRIDES
// =============================================================================

func TestLoader_AppliesOverrides(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows(overrideColumns()).
		AddRow(roi.FeatureCustomAudiences, 0.03, 0.05, 0.08, 100.00, 950.00, 2800.00)
	mock.ExpectQuery(`SELECT feature_key, low_rate, medium_rate, high_rate`).
		WillReturnRows(rows)

	loader := NewLoader(db, testTable, logger.NewTestLogger(t))
	cat, err := loader.Load(context.Background())

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(cat.Version, "db-"))

	overridden := featureByKey(t, cat, roi.FeatureCustomAudiences)
	assert.Equal(t, roi.ScenarioValues{Low: 0.03, Medium: 0.05, High: 0.08}, overridden.Rate)
	assert.Equal(t, roi.ScenarioValues{Low: 100.00, Medium: 950.00, High: 2800.00}, overridden.UpgradeCost)

	untouched := featureByKey(t, cat, roi.FeatureCheckoutUpsells)
	assert.Equal(t, roi.ScenarioValues{Low: 0.05, Medium: 0.10, High: 0.20}, untouched.Rate)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoader_OverrideChangesVersion(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows(overrideColumns()).
		AddRow(roi.FeaturePrioritySupport, 0.005, 0.01, 0.02, 16.13, 70.95, 408.50)
	mock.ExpectQuery(`SELECT feature_key, low_rate, medium_rate, high_rate`).
		WillReturnRows(rows)

	loader := NewLoader(db, testTable, logger.NewTestLogger(t))
	cat, err := loader.Load(context.Background())

	require.NoError(t, err)
	builtin := roi.DefaultCatalog()
	assert.NotEqual(t, builtin.Version, cat.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// =============================================================================
// ROW VALIDATION
// =============================================================================

func TestLoader_SkipsInvalidRows(t *testing.T) {
	tests := []struct {
		name string
		row  []interface{}
	}{
		{
			name: "unknown feature key",
			row:  []interface{}{"bulk_discounts", 0.01, 0.02, 0.03, 0.0, 0.0, 0.0},
		},
		{
			name: "rate above one",
			row:  []interface{}{roi.FeatureStreamlinedCheckout, 0.01, 0.02, 1.5, 0.0, 0.0, 0.0},
		},
		{
			name: "zero rate",
			row:  []interface{}{roi.FeatureStreamlinedCheckout, 0.0, 0.02, 0.03, 0.0, 0.0, 0.0},
		},
		{
			name: "rates decrease across scenarios",
			row:  []interface{}{roi.FeatureStreamlinedCheckout, 0.03, 0.02, 0.01, 0.0, 0.0, 0.0},
		},
		{
			name: "negative cost",
			row:  []interface{}{roi.FeatureCheckoutCustomization, 0.01, 0.03, 0.05, -5.0, 378.75, 650.19},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			rows := sqlmock.NewRows(overrideColumns()).
				AddRow(tt.row[0], tt.row[1], tt.row[2], tt.row[3], tt.row[4], tt.row[5], tt.row[6])
			mock.ExpectQuery(`SELECT feature_key, low_rate, medium_rate, high_rate`).
				WillReturnRows(rows)

			loader := NewLoader(db, testTable, logger.NewTestLogger(t))
			cat, err := loader.Load(context.Background())

			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(cat.Version, "builtin-"),
				"invalid row must be skipped, leaving the builtin catalog")
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestLoader_KeepsValidRowWhenAnotherIsInvalid(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows(overrideColumns()).
		AddRow("bulk_discounts", 0.01, 0.02, 0.03, 0.0, 0.0, 0.0).
		AddRow(roi.FeatureCheckoutUpsells, 0.06, 0.12, 0.22, 1531.25, 3062.50, 6125.00)
	mock.ExpectQuery(`SELECT feature_key, low_rate, medium_rate, high_rate`).
		WillReturnRows(rows)

	loader := NewLoader(db, testTable, logger.NewTestLogger(t))
	cat, err := loader.Load(context.Background())

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(cat.Version, "db-"))
	upsells := featureByKey(t, cat, roi.FeatureCheckoutUpsells)
	assert.Equal(t, 0.12, upsells.Rate.Medium)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// =============================================================================
// FAILURE MODES
// =============================================================================

func TestLoader_QueryErrorPropagates(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT feature_key, low_rate, medium_rate, high_rate`).
		WillReturnError(assert.AnError)

	loader := NewLoader(db, testTable, logger.NewTestLogger(t))
	cat, err := loader.Load(context.Background())

	assert.Error(t, err)
	assert.Nil(t, cat)
	assert.NoError(t, mock.ExpectationsWereMet())
}
