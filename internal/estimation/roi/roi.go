// internal/estimation/roi/roi.go

// Package roi projects the revenue return of a commerce plan upgrade. Given a
// merchant's current metrics and a growth scenario it evaluates the fixed
// feature catalog and aggregates per-feature uplift into a single result.
//
// Compute is a pure function: identical inputs produce bit-identical results,
// nothing is logged, and a validation failure returns an
// estimation.InvalidInputError with no partial result.
package roi

import (
	"math"
	"strings"

	"estimation-workers/internal/estimation"
)

const monthsPerYear = 12

// GrowthScenario selects one column of the catalog's constant tables. It is a
// pure input; it never changes the formula structure or the feature set.
type GrowthScenario string

const (
	ScenarioLow    GrowthScenario = "low"
	ScenarioMedium GrowthScenario = "medium"
	ScenarioHigh   GrowthScenario = "high"
)

// Scenarios lists the variants from most conservative to most aggressive.
func Scenarios() []GrowthScenario {
	return []GrowthScenario{ScenarioLow, ScenarioMedium, ScenarioHigh}
}

func (s GrowthScenario) Valid() bool {
	switch s {
	case ScenarioLow, ScenarioMedium, ScenarioHigh:
		return true
	}
	return false
}

// ParseScenario normalizes a wire value into a GrowthScenario.
func ParseScenario(raw string) (GrowthScenario, error) {
	s := GrowthScenario(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", estimation.NewInvalidInput("scenario", "must be one of low, medium, high")
	}
	return s, nil
}

// MerchantMetrics is the immutable per-call input. ProfitMargin is a fraction
// in [0,1], not a percentage.
type MerchantMetrics struct {
	AnnualGMV          float64 `json:"annualGMV"`
	AverageOrderValue  float64 `json:"averageOrderValue"`
	AnnualTransactions int64   `json:"annualTransactions"`
	ProfitMargin       float64 `json:"profitMargin"`
}

// FeatureImpact is the projected uplift of a single catalog feature.
// AdditionalOrders stays zero for ordervalue-kind features.
type FeatureImpact struct {
	Key              string  `json:"key"`
	Name             string  `json:"name"`
	AdditionalOrders float64 `json:"additionalOrders"`
	RevenueImpact    float64 `json:"revenueImpact"`
	GMVSharePct      float64 `json:"gmvSharePct"`
	MarginImpact     float64 `json:"marginImpact"`
}

// ROIResult aggregates the feature impacts for one scenario. RecoupMonths is
// nil when the total margin impact is zero (margin 0 or no transactions are
// valid inputs with an undefined payback horizon, not errors).
type ROIResult struct {
	Scenario           GrowthScenario  `json:"scenario"`
	Features           []FeatureImpact `json:"features"`
	TotalRevenueImpact float64         `json:"totalRevenueImpact"`
	TotalGMVSharePct   float64         `json:"totalGMVSharePct"`
	TotalMarginImpact  float64         `json:"totalMarginImpact"`
	UpgradeCost        float64         `json:"upgradeCost"`
	RecoupMonths       *float64        `json:"recoupMonths"`
}

// Compute evaluates the builtin catalog against the metrics and scenario.
func Compute(m MerchantMetrics, s GrowthScenario) (*ROIResult, error) {
	return ComputeWithCatalog(DefaultCatalog(), m, s)
}

// ComputeWithCatalog evaluates an explicit catalog. Validation runs before any
// arithmetic; the first violated constraint wins, in declared field order.
func ComputeWithCatalog(c Catalog, m MerchantMetrics, s GrowthScenario) (*ROIResult, error) {
	if err := validateMetrics(m); err != nil {
		return nil, err
	}
	if !s.Valid() {
		return nil, estimation.NewInvalidInput("scenario", "must be one of low, medium, high")
	}

	features := make([]FeatureImpact, 0, len(c.Features))
	var totalRevenue, totalMargin, totalCost float64

	for _, f := range c.Features {
		rate := f.Rate.For(s)
		// Conversion uplift adds rate*transactions orders at the current AOV;
		// order-value uplift adds rate*AOV to each of the current transactions.
		// Both reduce to transactions * AOV * rate.
		revenue := float64(m.AnnualTransactions) * m.AverageOrderValue * rate

		impact := FeatureImpact{
			Key:           f.Key,
			Name:          f.Name,
			RevenueImpact: revenue,
			GMVSharePct:   revenue / m.AnnualGMV * 100,
			MarginImpact:  revenue * m.ProfitMargin,
		}
		if f.Kind == ImpactConversion {
			impact.AdditionalOrders = float64(m.AnnualTransactions) * rate
		}

		features = append(features, impact)
		totalRevenue += revenue
		totalMargin += impact.MarginImpact
		totalCost += f.UpgradeCost.For(s)
	}

	result := &ROIResult{
		Scenario:           s,
		Features:           features,
		TotalRevenueImpact: totalRevenue,
		TotalGMVSharePct:   totalRevenue / m.AnnualGMV * 100,
		TotalMarginImpact:  totalMargin,
		UpgradeCost:        totalCost,
	}
	if totalMargin > 0 {
		months := totalCost / (totalMargin / monthsPerYear)
		result.RecoupMonths = &months
	}
	return result, nil
}

func validateMetrics(m MerchantMetrics) error {
	if math.IsNaN(m.AnnualGMV) || math.IsInf(m.AnnualGMV, 0) || m.AnnualGMV <= 0 {
		return estimation.NewInvalidInput("annualGMV", "must be greater than zero")
	}
	if math.IsNaN(m.AverageOrderValue) || math.IsInf(m.AverageOrderValue, 0) || m.AverageOrderValue <= 0 {
		return estimation.NewInvalidInput("averageOrderValue", "must be greater than zero")
	}
	if m.AnnualTransactions < 0 {
		return estimation.NewInvalidInput("annualTransactions", "must not be negative")
	}
	if math.IsNaN(m.ProfitMargin) || m.ProfitMargin < 0 || m.ProfitMargin > 1 {
		return estimation.NewInvalidInput("profitMargin", "must be a fraction between 0 and 1")
	}
	return nil
}
