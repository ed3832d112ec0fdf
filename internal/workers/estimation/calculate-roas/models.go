// internal/workers/estimation/calculate-roas/models.go
package calculateroas

import (
	"estimation-workers/internal/common/cache"
	"estimation-workers/internal/common/logger"
)

type Input struct {
	TotalRevenue        float64 `json:"totalRevenue"`
	AdSpend             float64 `json:"adSpend"`
	NewBuyerShare       float64 `json:"newBuyerShare"`
	NewBuyerDiscountPct float64 `json:"newBuyerDiscountPct"`
}

type Output struct {
	EstimateID           string  `json:"estimateId"`
	FromCache            bool    `json:"fromCache"`
	ReportedROAS         float64 `json:"reportedROAS"`
	NewBuyerRevenue      float64 `json:"newBuyerRevenue"`
	DiscountCost         float64 `json:"discountCost"`
	AdjustedRevenue      float64 `json:"adjustedRevenue"`
	TrueROAS             float64 `json:"trueROAS"`
	TotalAcquisitionCost float64 `json:"totalAcquisitionCost"`
	OverstatementPct     float64 `json:"overstatementPct"`
}

type ServiceDependencies struct {
	Logger logger.Logger
	Cache  *cache.ResultCache
}
