// internal/workers/reporting/build-estimate-report/validation.go
package buildestimatereport

import "estimation-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"kind", "merchant"},
		Properties: map[string]validation.Property{
			"kind": {
				Type:        "string",
				Description: "Which estimates the report covers",
				Enum:        []string{"roi", "roas", "combined"},
			},
			"merchant": {
				Type:        "object",
				Description: "Merchant the report is prepared for",
			},
			"roi": {
				Type:        "object",
				Description: "calculate-roi output, required for roi and combined",
			},
			"roas": {
				Type:        "object",
				Description: "calculate-roas output, required for roas and combined",
			},
		},
		AdditionalProperties: true,
	}
}

func GetOutputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"report": {
				Type:        "object",
				Description: "Structured estimate report",
			},
			"reportText": {
				Type:        "string",
				Description: "Plain text rendering for email and webhook bodies",
			},
		},
		AdditionalProperties: false,
	}
}
