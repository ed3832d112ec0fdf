// internal/workers/reporting/build-estimate-report/models.go
package buildestimatereport

import (
	"estimation-workers/internal/estimation/roi"
	"estimation-workers/internal/models"
)

// Input unmarshals straight from the process variable scope: the calculator
// outputs sit under roi/roas, the originating request metrics are flat.
type Input struct {
	Kind     string             `json:"kind"`
	Merchant models.MerchantRef `json:"merchant"`

	// Request metrics, used to rebuild the scenario outlook with the same
	// catalog the estimate was computed with.
	AnnualGMV          float64 `json:"annualGMV,omitempty"`
	AverageOrderValue  float64 `json:"averageOrderValue,omitempty"`
	AnnualTransactions int64   `json:"annualTransactions,omitempty"`
	ProfitMargin       float64 `json:"profitMargin,omitempty"`

	ROI  *ROIPayload  `json:"roi,omitempty"`
	ROAS *ROASPayload `json:"roas,omitempty"`
}

// ROIPayload mirrors the calculate-roi output variable.
type ROIPayload struct {
	EstimateID         string              `json:"estimateId"`
	Scenario           string              `json:"scenario"`
	CatalogVersion     string              `json:"catalogVersion"`
	Features           []roi.FeatureImpact `json:"features"`
	TotalRevenueImpact float64             `json:"totalRevenueImpact"`
	TotalGMVSharePct   float64             `json:"totalGMVSharePct"`
	TotalMarginImpact  float64             `json:"totalMarginImpact"`
	UpgradeCost        float64             `json:"upgradeCost"`
	RecoupMonths       *float64            `json:"recoupMonths"`
}

// ROASPayload mirrors the calculate-roas output variable.
type ROASPayload struct {
	EstimateID           string  `json:"estimateId"`
	ReportedROAS         float64 `json:"reportedROAS"`
	NewBuyerRevenue      float64 `json:"newBuyerRevenue"`
	DiscountCost         float64 `json:"discountCost"`
	AdjustedRevenue      float64 `json:"adjustedRevenue"`
	TrueROAS             float64 `json:"trueROAS"`
	TotalAcquisitionCost float64 `json:"totalAcquisitionCost"`
	OverstatementPct     float64 `json:"overstatementPct"`
}

type Output struct {
	Report     *models.EstimateReport `json:"report"`
	ReportText string                 `json:"reportText"`
}
