// internal/workers/reporting/build-estimate-report/schema.go
package buildestimatereport

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"estimation-workers/internal/models"
)

// reportSchema is the contract report consumers rely on. The assembled
// report is checked against it before the job completes.
var reportSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"reportId", "kind", "generatedAt", "currency", "merchant", "headline", "sections"},
	"properties": map[string]interface{}{
		"reportId": map[string]interface{}{"type": "string", "minLength": 1},
		"kind": map[string]interface{}{
			"type": "string",
			"enum": []interface{}{"roi", "roas", "combined"},
		},
		"generatedAt": map[string]interface{}{"type": "string"},
		"currency":    map[string]interface{}{"type": "string", "minLength": 3, "maxLength": 3},
		"merchant": map[string]interface{}{
			"type":     "object",
			"required": []interface{}{"name"},
			"properties": map[string]interface{}{
				"name":     map[string]interface{}{"type": "string", "minLength": 1},
				"email":    map[string]interface{}{"type": "string"},
				"vertical": map[string]interface{}{"type": "string"},
			},
		},
		"headline": map[string]interface{}{"type": "string", "minLength": 1},
		"sections": map[string]interface{}{
			"type":     "array",
			"minItems": 1,
			"items": map[string]interface{}{
				"type":     "object",
				"required": []interface{}{"title", "rows"},
				"properties": map[string]interface{}{
					"title": map[string]interface{}{"type": "string", "minLength": 1},
					"rows": map[string]interface{}{
						"type":     "array",
						"minItems": 1,
						"items": map[string]interface{}{
							"type":     "object",
							"required": []interface{}{"label", "value"},
							"properties": map[string]interface{}{
								"label":  map[string]interface{}{"type": "string", "minLength": 1},
								"value":  map[string]interface{}{"type": "string", "minLength": 1},
								"detail": map[string]interface{}{"type": "string"},
							},
						},
					},
				},
			},
		},
		"outlook": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type":     "object",
				"required": []interface{}{"scenario", "revenueImpact", "marginImpact", "upgradeCost", "recoupMonths"},
			},
		},
	},
}

func validateReport(report *models.EstimateReport) error {
	schemaLoader := gojsonschema.NewGoLoader(reportSchema)
	documentLoader := gojsonschema.NewGoLoader(report)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("report validation failed: %v", errs)
	}

	return nil
}
