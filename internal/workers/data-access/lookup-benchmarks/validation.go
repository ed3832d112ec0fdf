// internal/workers/data-access/lookup-benchmarks/validation.go
package lookupbenchmarks

import "estimation-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"vertical"},
		Properties: map[string]validation.Property{
			"vertical": {
				Type:        "string",
				Description: "Merchant vertical to resolve benchmarks for",
			},
			"annualGMV": {
				Type:             "number",
				Description:      "Merchant trailing twelve month GMV, context only",
				ExclusiveMinimum: floatPtr(0),
			},
			"averageOrderValue": {
				Type:             "number",
				Description:      "Merchant AOV, compared against the vertical median",
				ExclusiveMinimum: floatPtr(0),
			},
		},
		AdditionalProperties: true,
	}
}

func GetOutputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"benchmark": {
				Type:        "object",
				Description: "Vertical benchmark profile document",
			},
			"suggestedScenario": {
				Type:        "string",
				Description: "Growth scenario suggested for the ROI estimate",
				Enum:        []string{"low", "medium", "high"},
			},
			"adjusted": {
				Type:        "boolean",
				Description: "Whether merchant metrics moved the suggestion off the recommendation",
			},
			"took": {
				Type:        "number",
				Description: "Query time in milliseconds",
			},
		},
		AdditionalProperties: false,
	}
}

func floatPtr(f float64) *float64 {
	return &f
}
