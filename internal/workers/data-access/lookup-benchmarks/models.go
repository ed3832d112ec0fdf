// internal/workers/data-access/lookup-benchmarks/models.go
package lookupbenchmarks

import "estimation-workers/internal/models"

type Input struct {
	Vertical          string   `json:"vertical"`
	AnnualGMV         *float64 `json:"annualGMV,omitempty"`
	AverageOrderValue *float64 `json:"averageOrderValue,omitempty"`
}

type Output struct {
	Benchmark         models.BenchmarkProfile `json:"benchmark"`
	SuggestedScenario string                  `json:"suggestedScenario"`
	Adjusted          bool                    `json:"adjusted"`
	Took              int64                   `json:"took"` // milliseconds
}
