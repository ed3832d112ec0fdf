// pkg/registry/registry_test.go
package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRegistry() *EstimatorRegistry {
	return &EstimatorRegistry{
		Version: "1.0.0",
		Estimators: []Estimator{
			{
				ID:                   "calculate-roi",
				DisplayName:          "Calculate ROI",
				Description:          "Projects revenue impact of a platform upgrade",
				Category:             "estimation",
				Version:              "1.0.0",
				TaskType:             "calculate-roi",
				ImplementationStatus: "completed",
				InputSchema:          map[string]interface{}{"type": "object"},
				OutputSchema:         map[string]interface{}{"type": "object"},
				ErrorCodes:           []string{"INVALID_INPUT"},
				Timeout:              "30s",
				Retries:              0,
				Workflows:            []string{"merchant-growth-estimate"},
				Tags:                 []string{"roi"},
			},
			{
				ID:                   "calculate-roas",
				DisplayName:          "Calculate True ROAS",
				Description:          "Adjusts reported ROAS for new buyer discounts",
				Category:             "estimation",
				Version:              "1.0.0",
				TaskType:             "calculate-roas",
				ImplementationStatus: "completed",
				InputSchema:          map[string]interface{}{"type": "object"},
				OutputSchema:         map[string]interface{}{"type": "object"},
				ErrorCodes:           []string{"INVALID_INPUT"},
				Timeout:              "30s",
				Retries:              0,
				Workflows:            []string{"merchant-growth-estimate"},
				Tags:                 []string{"roas"},
			},
		},
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "configs", "registry.json")

	reg := sampleRegistry()
	require.NoError(t, reg.Save(path))
	assert.NotEmpty(t, reg.LastUpdated, "Save should stamp LastUpdated")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, reg.Version, loaded.Version)
	assert.Equal(t, reg.LastUpdated, loaded.LastUpdated)
	require.Len(t, loaded.Estimators, 2)
	assert.Equal(t, "calculate-roi", loaded.Estimators[0].ID)
	assert.Equal(t, []string{"merchant-growth-estimate"}, loaded.Estimators[1].Workflows)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}

func TestLoad_MalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse registry")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*EstimatorRegistry)
		errContains string
	}{
		{
			name:   "valid registry passes",
			mutate: func(r *EstimatorRegistry) {},
		},
		{
			name:        "empty registry",
			mutate:      func(r *EstimatorRegistry) { r.Estimators = nil },
			errContains: "no estimators",
		},
		{
			name:        "empty id",
			mutate:      func(r *EstimatorRegistry) { r.Estimators[1].ID = "" },
			errContains: "empty id",
		},
		{
			name:        "duplicate id",
			mutate:      func(r *EstimatorRegistry) { r.Estimators[1].ID = r.Estimators[0].ID },
			errContains: "duplicate estimator id",
		},
		{
			name:        "missing display name",
			mutate:      func(r *EstimatorRegistry) { r.Estimators[0].DisplayName = "" },
			errContains: "missing displayName",
		},
		{
			name:        "missing task type",
			mutate:      func(r *EstimatorRegistry) { r.Estimators[0].TaskType = "" },
			errContains: "missing taskType",
		},
		{
			name:        "missing category",
			mutate:      func(r *EstimatorRegistry) { r.Estimators[0].Category = "" },
			errContains: "missing category",
		},
		{
			name:        "missing input schema",
			mutate:      func(r *EstimatorRegistry) { r.Estimators[0].InputSchema = nil },
			errContains: "missing inputSchema",
		},
		{
			name:        "missing output schema",
			mutate:      func(r *EstimatorRegistry) { r.Estimators[1].OutputSchema = nil },
			errContains: "missing outputSchema",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := sampleRegistry()
			tt.mutate(reg)

			err := reg.Validate()
			if tt.errContains == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestFindHelpers(t *testing.T) {
	reg := sampleRegistry()

	found := reg.Find("calculate-roas")
	require.NotNil(t, found)
	assert.Equal(t, "Calculate True ROAS", found.DisplayName)
	assert.Nil(t, reg.Find("no-such-estimator"))

	byTask := reg.FindByTaskType("calculate-roi")
	require.NotNil(t, byTask)
	assert.Equal(t, "calculate-roi", byTask.ID)
	assert.Nil(t, reg.FindByTaskType("no-such-task"))
}

// The shipped registry file has to stay in sync with the fleet: every
// task type the worker manager can start must have an entry, and the
// file must pass the same validation the updater tool enforces.
func TestShippedRegistryIsValid(t *testing.T) {
	reg, err := Load(filepath.Join("..", "..", "configs", "estimator-registry.json"))
	require.NoError(t, err)
	require.NoError(t, reg.Validate())

	fleet := []string{
		"validate-estimate-request",
		"calculate-roi",
		"calculate-roas",
		"lookup-benchmarks",
		"build-estimate-report",
		"send-estimate-report",
	}
	assert.Len(t, reg.Estimators, len(fleet))
	for _, taskType := range fleet {
		est := reg.FindByTaskType(taskType)
		require.NotNil(t, est, "task type %s missing from shipped registry", taskType)
		assert.Equal(t, "completed", est.ImplementationStatus)
		assert.NotEmpty(t, est.ErrorCodes, "estimator %s should list its catchable error codes", est.ID)
		assert.Contains(t, est.Workflows, "merchant-growth-estimate")
	}
}
