// internal/workers/intake/validate-estimate-request/validation.go
package validateestimaterequest

import "estimation-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"estimator", "request"},
		Properties: map[string]validation.Property{
			"estimator": {
				Type:        "string",
				Description: "Which calculator the request is for",
				Enum:        []string{EstimatorROI, EstimatorROAS},
			},
			"request": {
				Type:        "object",
				Description: "Raw calculator request to check",
			},
		},
		AdditionalProperties: false,
	}
}

func GetOutputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"valid": {
				Type:        "boolean",
				Description: "Whether the request passed every check",
			},
			"estimator": {
				Type:        "string",
				Description: "Echo of the requested calculator",
			},
			"errors": {
				Type:        "array",
				Description: "Violations found, empty when valid",
			},
		},
		AdditionalProperties: false,
	}
}

// roiRequestSchema mirrors the ROI core's validation ranges so a request
// rejected here would also be rejected by the calculator, and vice versa.
func roiRequestSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"annualGMV", "averageOrderValue", "annualTransactions", "profitMargin", "scenario"},
		Properties: map[string]validation.Property{
			"annualGMV": {
				Type:             "number",
				Description:      "Trailing twelve month gross merchandise volume",
				ExclusiveMinimum: floatPtr(0),
			},
			"averageOrderValue": {
				Type:             "number",
				Description:      "Average order value",
				ExclusiveMinimum: floatPtr(0),
			},
			"annualTransactions": {
				Type:        "number",
				Description: "Completed transactions per year",
				Minimum:     floatPtr(0),
			},
			"profitMargin": {
				Type:        "number",
				Description: "Profit margin as a fraction, 0 and 1 inclusive",
				Minimum:     floatPtr(0),
				Maximum:     floatPtr(1),
			},
			"scenario": {
				Type:        "string",
				Description: "Growth scenario",
				Enum:        []string{"low", "medium", "high"},
			},
		},
		AdditionalProperties: false,
	}
}

func roasRequestSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"totalRevenue", "adSpend", "newBuyerShare", "newBuyerDiscountPct"},
		Properties: map[string]validation.Property{
			"totalRevenue": {
				Type:             "number",
				Description:      "Attributed campaign revenue",
				ExclusiveMinimum: floatPtr(0),
			},
			"adSpend": {
				Type:             "number",
				Description:      "Campaign ad spend, zero is rejected",
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
		AdditionalProperties: false,
	}
}

// wireCode collapses the walker's detailed codes into the coarser set the
// process gateway routes on.
func wireCode(walkerCode string) string {
	switch walkerCode {
	case "REQUIRED_FIELD_MISSING":
		return CodeMissingRequired
	case "INVALID_TYPE":
		return CodeInvalidType
	case "MINIMUM_VIOLATION", "EXCLUSIVE_MINIMUM_VIOLATION", "MIN_LENGTH_VIOLATION":
		return CodeBelowMinimum
	case "MAXIMUM_VIOLATION", "MAX_LENGTH_VIOLATION":
		return CodeAboveMaximum
	default:
		return CodeInvalidValue
	}
}

func floatPtr(f float64) *float64 {
	return &f
}
