// internal/workers/estimation/calculate-roas/validation.go
package calculateroas

import "estimation-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"totalRevenue", "adSpend", "newBuyerShare", "newBuyerDiscountPct"},
		Properties: map[string]validation.Property{
			"totalRevenue": {
				Type:             "number",
				Description:      "Revenue attributed to the campaign",
				ExclusiveMinimum: floatPtr(0),
			},
			"adSpend": {
				Type:             "number",
				Description:      "Campaign ad spend, zero is rejected rather than divided by",
				ExclusiveMinimum: floatPtr(0),
			},
			"newBuyerShare": {
				Type:        "number",
				Description: "Share of revenue from first time buyers, fraction",
				Minimum:     floatPtr(0),
				Maximum:     floatPtr(1),
			},
			"newBuyerDiscountPct": {
				Type:        "number",
				Description: "Acquisition discount as a fraction of new buyer revenue",
				Minimum:     floatPtr(0),
				Maximum:     floatPtr(1),
			},
		},
		AdditionalProperties: true,
	}
}

func GetOutputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"estimateId": {
				Type:        "string",
				Description: "Unique id for this estimate",
			},
			"fromCache": {
				Type:        "boolean",
				Description: "Whether the computation was served from cache",
			},
			"reportedROAS": {
				Type:        "number",
				Description: "Revenue over spend as ad platforms report it",
			},
			"newBuyerRevenue": {
				Type:        "number",
				Description: "Revenue attributed to first time buyers",
			},
			"discountCost": {
				Type:        "number",
				Description: "Dollar cost of acquisition discounts",
			},
			"adjustedRevenue": {
				Type:        "number",
				Description: "Revenue net of discount cost",
			},
			"trueROAS": {
				Type:        "number",
				Description: "Adjusted revenue over spend",
			},
			"totalAcquisitionCost": {
				Type:        "number",
				Description: "Ad spend plus discount cost",
			},
			"overstatementPct": {
				Type:        "number",
				Description: "How far the reported figure overstates the true one",
			},
		},
		AdditionalProperties: false,
	}
}

func firstViolation(errs []validation.ValidationError, fieldOrder []string) validation.ValidationError {
	for _, field := range fieldOrder {
		for _, e := range errs {
			if e.Field == field {
				return e
			}
		}
	}
	return errs[0]
}

func floatPtr(f float64) *float64 {
	return &f
}
