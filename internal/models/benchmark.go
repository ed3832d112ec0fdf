// internal/models/benchmark.go
package models

// BenchmarkProfile is one vertical's aggregate document from the
// merchant_benchmarks index. Medians are in account currency; the
// recommended scenario is the starting point before any adjustment
// against the individual merchant's metrics.
type BenchmarkProfile struct {
	Vertical            string  `json:"vertical"`
	SampleSize          int     `json:"sampleSize"`
	MedianAnnualGMV     float64 `json:"medianAnnualGMV"`
	MedianAOV           float64 `json:"medianAOV"`
	MedianProfitMargin  float64 `json:"medianProfitMargin"`
	RecommendedScenario string  `json:"recommendedScenario"`
}
