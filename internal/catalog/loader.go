// internal/catalog/loader.go

// Package catalog assembles the active feature rate catalog at startup.
// The builtin table ships with the binary; a Postgres table can override
// rates and upgrade costs per feature without a redeploy. The catalog is
// loaded once and shared read-only by every worker for the lifetime of
// the process.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"estimation-workers/internal/common/errors"
	"estimation-workers/internal/common/logger"
	"estimation-workers/internal/estimation/roi"
)

type Loader struct {
	db     *sql.DB
	table  string
	logger logger.Logger
}

func NewLoader(db *sql.DB, table string, log logger.Logger) *Loader {
	return &Loader{db: db, table: table, logger: log}
}

type override struct {
	rate roi.ScenarioValues
	cost roi.ScenarioValues
}

// Load returns the builtin catalog with any database overrides applied.
// Rows that fail validation are skipped and logged so one bad override
// cannot take the fleet down. With no database configured the builtin
// catalog is returned unchanged. Failures come back as classified
// StandardErrors (connection, load, query timeout) so the startup log
// says which stage gave out.
func (l *Loader) Load(ctx context.Context) (*roi.Catalog, error) {
	base := roi.DefaultCatalog()
	if l.db == nil {
		return &base, nil
	}

	known := make(map[string]bool, len(base.Features))
	for _, f := range base.Features {
		known[f.Key] = true
	}

	query := fmt.Sprintf(`
		SELECT feature_key, low_rate, medium_rate, high_rate,
		       low_cost, medium_cost, high_cost
		FROM %s`, l.table)

	rows, err := l.db.QueryContext(ctx, query)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.NewQueryTimeoutError("load " + l.table)
		}
		return nil, errors.NewDatabaseConnectionFailedError(fmt.Errorf("query %s: %w", l.table, err))
	}
	defer rows.Close()

	overrides := make(map[string]override)
	for rows.Next() {
		var key string
		var lowRate, mediumRate, highRate, lowCost, mediumCost, highCost float64
		if err := rows.Scan(&key, &lowRate, &mediumRate, &highRate, &lowCost, &mediumCost, &highCost); err != nil {
			return nil, errors.NewCatalogLoadFailedError(fmt.Errorf("scan %s row: %w", l.table, err))
		}

		if !known[key] {
			l.logger.Warn("skipping rate override for unknown feature", map[string]interface{}{
				"featureKey": key,
			})
			continue
		}

		if reason := checkOverride(lowRate, mediumRate, highRate, lowCost, mediumCost, highCost); reason != "" {
			l.logger.Warn("skipping invalid rate override", map[string]interface{}{
				"featureKey": key,
				"reason":     reason,
			})
			continue
		}

		overrides[key] = override{
			rate: roi.ScenarioValues{Low: lowRate, Medium: mediumRate, High: highRate},
			cost: roi.ScenarioValues{Low: lowCost, Medium: mediumCost, High: highCost},
		}
	}
	if err := rows.Err(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.NewQueryTimeoutError("load " + l.table)
		}
		return nil, errors.NewCatalogLoadFailedError(fmt.Errorf("read %s rows: %w", l.table, err))
	}

	if len(overrides) == 0 {
		return &base, nil
	}

	features := make([]roi.Feature, len(base.Features))
	copy(features, base.Features)
	for i := range features {
		ov, ok := overrides[features[i].Key]
		if !ok {
			continue
		}
		features[i].Rate = ov.rate
		features[i].UpgradeCost = ov.cost
	}

	cat := &roi.Catalog{
		Version:  "db-" + roi.RateTableHash(features),
		Features: features,
	}

	l.logger.Info("loaded rate catalog with database overrides", map[string]interface{}{
		"overrides": len(overrides),
		"version":   cat.Version,
	})

	return cat, nil
}

// checkOverride returns a non-empty reason when the row cannot be used.
// Rates must be finite fractions in (0, 1] and must not shrink as the
// scenario steps up, or the scenario ordering guarantee would break.
// Costs only need to be finite and non-negative.
func checkOverride(lowRate, mediumRate, highRate, lowCost, mediumCost, highCost float64) string {
	for _, v := range []float64{lowRate, mediumRate, highRate, lowCost, mediumCost, highCost} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return "value is not finite"
		}
	}
	if lowRate <= 0 || mediumRate <= 0 || highRate <= 0 {
		return "rate must be positive"
	}
	if lowRate > 1 || mediumRate > 1 || highRate > 1 {
		return "rate above 1"
	}
	if lowRate > mediumRate || mediumRate > highRate {
		return "rates must not decrease from low to high"
	}
	if lowCost < 0 || mediumCost < 0 || highCost < 0 {
		return "cost must not be negative"
	}
	return ""
}
