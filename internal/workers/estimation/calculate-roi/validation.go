// internal/workers/estimation/calculate-roi/validation.go
package calculateroi

import "estimation-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
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
				Description: "Completed transactions per year, whole number",
				Minimum:     floatPtr(0),
			},
			"profitMargin": {
				Type:        "number",
				Description: "Profit margin as a fraction of revenue",
				Minimum:     floatPtr(0),
				Maximum:     floatPtr(1),
			},
			"scenario": {
				Type:        "string",
				Description: "Growth scenario selecting the rate column",
				Enum:        []string{"low", "medium", "high"},
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
			"scenario": {
				Type:        "string",
				Description: "Scenario the projection was computed for",
			},
			"catalogVersion": {
				Type:        "string",
				Description: "Version of the rate catalog used",
			},
			"fromCache": {
				Type:        "boolean",
				Description: "Whether the computation was served from cache",
			},
			"features": {
				Type:        "array",
				Description: "Per feature uplift projections",
			},
			"totalRevenueImpact": {
				Type:        "number",
				Description: "Sum of feature revenue impacts per year",
			},
			"totalGMVSharePct": {
				Type:        "number",
				Description: "Total impact as a percentage of annual GMV",
			},
			"totalMarginImpact": {
				Type:        "number",
				Description: "Total impact at the merchant profit margin",
			},
			"upgradeCost": {
				Type:        "number",
				Description: "One time cost of enabling the paid features",
			},
			"recoupMonths": {
				Type:        "number",
				Description: "Months to recoup the upgrade cost, null when undefined",
			},
		},
		AdditionalProperties: false,
	}
}

// firstViolation picks the walker error to surface. Walking the declared
// field order keeps the reported field stable when several are invalid.
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
