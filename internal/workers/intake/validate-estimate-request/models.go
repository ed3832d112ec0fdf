// internal/workers/intake/validate-estimate-request/models.go
package validateestimaterequest

// Estimators this gate knows how to check.
const (
	EstimatorROI  = "roi"
	EstimatorROAS = "roas"
)

// Wire codes reported per violated field.
const (
	CodeMissingRequired = "MISSING_REQUIRED"
	CodeInvalidType     = "INVALID_TYPE"
	CodeInvalidValue    = "INVALID_VALUE"
	CodeBelowMinimum    = "BELOW_MINIMUM"
	CodeAboveMaximum    = "ABOVE_MAXIMUM"
)

type Input struct {
	Estimator string                 `json:"estimator"`
	Request   map[string]interface{} `json:"request"`
}

type Output struct {
	Valid     bool         `json:"valid"`
	Estimator string       `json:"estimator"`
	Errors    []FieldError `json:"errors"`
}

type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
