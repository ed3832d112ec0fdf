// pkg/registry/schema.go
package registry

// EstimatorRegistry is the machine readable catalog of every estimator
// task type the fleet ships. Process modelers use it to discover task
// types, their input and output contracts, and the error codes a
// boundary event can catch.
type EstimatorRegistry struct {
	Version     string      `json:"version"`
	LastUpdated string      `json:"lastUpdated"`
	Estimators  []Estimator `json:"estimators"`
}

// Estimator describes one worker. InputSchema and OutputSchema mirror
// the worker's GetInputSchema and GetOutputSchema, serialized as plain
// JSON Schema so non Go consumers can read them.
type Estimator struct {
	ID                   string                 `json:"id"`
	DisplayName          string                 `json:"displayName"`
	Description          string                 `json:"description"`
	Category             string                 `json:"category"`
	Version              string                 `json:"version"`
	TaskType             string                 `json:"taskType"`
	ImplementationStatus string                 `json:"implementationStatus"`
	InputSchema          map[string]interface{} `json:"inputSchema"`
	OutputSchema         map[string]interface{} `json:"outputSchema"`
	ErrorCodes           []string               `json:"errorCodes"`
	Timeout              string                 `json:"timeout"`
	Retries              int                    `json:"retries"`
	Workflows            []string               `json:"workflows"`
	Tags                 []string               `json:"tags"`
}
