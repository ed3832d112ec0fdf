// internal/estimation/roas/roas.go

// Package roas computes a merchant's true return on ad spend. Ad platforms
// report revenue/spend and ignore the acquisition discounts handed to new
// buyers; Compute subtracts that discount cost and reports how far the
// platform number overstates the adjusted one.
//
// Compute is pure and idempotent: no state, no logging, identical inputs give
// identical results, and validation failures return an
// estimation.InvalidInputError with no partial result.
package roas

import (
	"math"

	"estimation-workers/internal/estimation"
)

// ROASInput is the immutable per-call input. NewBuyerShare and
// NewBuyerDiscountPct are fractions in [0,1], not percentages.
type ROASInput struct {
	TotalRevenue        float64 `json:"totalRevenue"`
	AdSpend             float64 `json:"adSpend"`
	NewBuyerShare       float64 `json:"newBuyerShare"`
	NewBuyerDiscountPct float64 `json:"newBuyerDiscountPct"`
}

// ROASResult carries the reported figure, the discount-adjusted figure, and
// the intermediate dollar amounts behind them.
type ROASResult struct {
	ReportedROAS         float64 `json:"reportedROAS"`
	NewBuyerRevenue      float64 `json:"newBuyerRevenue"`
	DiscountCost         float64 `json:"discountCost"`
	AdjustedRevenue      float64 `json:"adjustedRevenue"`
	TrueROAS             float64 `json:"trueROAS"`
	TotalAcquisitionCost float64 `json:"totalAcquisitionCost"`
	OverstatementPct     float64 `json:"overstatementPct"`
}

// Compute evaluates the closed-form chain. A zero ad spend is rejected as
// invalid input; it must never surface as an infinite ratio.
func Compute(in ROASInput) (*ROASResult, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	reported := in.TotalRevenue / in.AdSpend
	newBuyerRevenue := in.TotalRevenue * in.NewBuyerShare
	discountCost := newBuyerRevenue * in.NewBuyerDiscountPct
	adjusted := in.TotalRevenue - discountCost
	trueROAS := adjusted / in.AdSpend

	return &ROASResult{
		ReportedROAS:         reported,
		NewBuyerRevenue:      newBuyerRevenue,
		DiscountCost:         discountCost,
		AdjustedRevenue:      adjusted,
		TrueROAS:             trueROAS,
		TotalAcquisitionCost: in.AdSpend + discountCost,
		OverstatementPct:     (reported - trueROAS) / reported * 100,
	}, nil
}

func validateInput(in ROASInput) error {
	if math.IsNaN(in.TotalRevenue) || math.IsInf(in.TotalRevenue, 0) || in.TotalRevenue <= 0 {
		return estimation.NewInvalidInput("totalRevenue", "must be greater than zero")
	}
	if math.IsNaN(in.AdSpend) || math.IsInf(in.AdSpend, 0) || in.AdSpend <= 0 {
		return estimation.NewInvalidInput("adSpend", "must be greater than zero")
	}
	if math.IsNaN(in.NewBuyerShare) || in.NewBuyerShare < 0 || in.NewBuyerShare > 1 {
		return estimation.NewInvalidInput("newBuyerShare", "must be a fraction between 0 and 1")
	}
	if math.IsNaN(in.NewBuyerDiscountPct) || in.NewBuyerDiscountPct < 0 || in.NewBuyerDiscountPct > 1 {
		return estimation.NewInvalidInput("newBuyerDiscountPct", "must be a fraction between 0 and 1")
	}
	return nil
}
