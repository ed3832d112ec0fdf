// internal/workers/estimation/calculate-roi/models.go
package calculateroi

import (
	"estimation-workers/internal/common/cache"
	"estimation-workers/internal/common/logger"
	"estimation-workers/internal/estimation/roi"
)

type Input struct {
	AnnualGMV          float64 `json:"annualGMV"`
	AverageOrderValue  float64 `json:"averageOrderValue"`
	AnnualTransactions int64   `json:"annualTransactions"`
	ProfitMargin       float64 `json:"profitMargin"`
	Scenario           string  `json:"scenario"`
}

// Output carries the full projection plus the serving context. EstimateID
// is minted per job, so two jobs served from the same cached computation
// still get distinct ids.
type Output struct {
	EstimateID         string              `json:"estimateId"`
	Scenario           string              `json:"scenario"`
	CatalogVersion     string              `json:"catalogVersion"`
	FromCache          bool                `json:"fromCache"`
	Features           []roi.FeatureImpact `json:"features"`
	TotalRevenueImpact float64             `json:"totalRevenueImpact"`
	TotalGMVSharePct   float64             `json:"totalGMVSharePct"`
	TotalMarginImpact  float64             `json:"totalMarginImpact"`
	UpgradeCost        float64             `json:"upgradeCost"`
	RecoupMonths       *float64            `json:"recoupMonths"`
}

type ServiceDependencies struct {
	Logger  logger.Logger
	Catalog *roi.Catalog
	Cache   *cache.ResultCache
}
