// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Load reads and parses a registry file.
func Load(path string) (*EstimatorRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg EstimatorRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("failed to parse registry: %w", err)
	}
	return &reg, nil
}

// Save writes the registry back to disk, stamping LastUpdated first.
func (r *EstimatorRegistry) Save(path string) error {
	r.LastUpdated = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create registry directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write registry: %w", err)
	}
	return nil
}

// Validate checks the structural rules every registry must satisfy:
// at least one estimator, unique non-empty ids, the display fields a
// modeler needs, and both schemas present.
func (r *EstimatorRegistry) Validate() error {
	if len(r.Estimators) == 0 {
		return fmt.Errorf("registry contains no estimators")
	}

	seen := make(map[string]bool, len(r.Estimators))
	for i, est := range r.Estimators {
		if est.ID == "" {
			return fmt.Errorf("estimator at index %d has an empty id", i)
		}
		if seen[est.ID] {
			return fmt.Errorf("duplicate estimator id: %s", est.ID)
		}
		seen[est.ID] = true

		if est.DisplayName == "" {
			return fmt.Errorf("estimator %s is missing displayName", est.ID)
		}
		if est.TaskType == "" {
			return fmt.Errorf("estimator %s is missing taskType", est.ID)
		}
		if est.Category == "" {
			return fmt.Errorf("estimator %s is missing category", est.ID)
		}
		if est.InputSchema == nil {
			return fmt.Errorf("estimator %s is missing inputSchema", est.ID)
		}
		if est.OutputSchema == nil {
			return fmt.Errorf("estimator %s is missing outputSchema", est.ID)
		}
	}
	return nil
}

// Find returns the estimator with the given id, or nil.
func (r *EstimatorRegistry) Find(id string) *Estimator {
	for i := range r.Estimators {
		if r.Estimators[i].ID == id {
			return &r.Estimators[i]
		}
	}
	return nil
}

// FindByTaskType returns the estimator registered for a task type, or nil.
func (r *EstimatorRegistry) FindByTaskType(taskType string) *Estimator {
	for i := range r.Estimators {
		if r.Estimators[i].TaskType == taskType {
			return &r.Estimators[i]
		}
	}
	return nil
}
