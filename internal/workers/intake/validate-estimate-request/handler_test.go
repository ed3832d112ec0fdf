// internal/workers/intake/validate-estimate-request/handler_test.go
package validateestimaterequest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estimation-workers/internal/common/logger"
)

// ==========================
// Test Helper Functions
// ==========================

func createValidROIRequest() map[string]interface{} {
	return map[string]interface{}{
		"annualGMV":          1000000.0,
		"averageOrderValue":  50.0,
		"annualTransactions": 20000.0,
		"profitMargin":       0.3,
		"scenario":           "medium",
	}
}

func createValidROASRequest() map[string]interface{} {
	return map[string]interface{}{
		"totalRevenue":        10000.0,
		"adSpend":             2000.0,
		"newBuyerShare":       0.3,
		"newBuyerDiscountPct": 0.2,
	}
}

func findError(t *testing.T, errs []FieldError, field string) FieldError {
	t.Helper()
	for _, e := range errs {
		if e.Field == field {
			return e
		}
	}
	t.Fatalf("no error reported for field %s, got %v", field, errs)
	return FieldError{}
}

// ==========================
// Valid Requests
// ==========================

func TestHandler_Execute_ValidROIRequest(t *testing.T) {
	handler := NewHandler(LoadConfig(), logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		Estimator: EstimatorROI,
		Request:   createValidROIRequest(),
	})

	require.NoError(t, err)
	assert.True(t, output.Valid)
	assert.Equal(t, EstimatorROI, output.Estimator)
	assert.Empty(t, output.Errors)
}

func TestHandler_Execute_ValidROASRequest(t *testing.T) {
	handler := NewHandler(LoadConfig(), logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		Estimator: EstimatorROAS,
		Request:   createValidROASRequest(),
	})

	require.NoError(t, err)
	assert.True(t, output.Valid)
	assert.Empty(t, output.Errors)
}

func TestHandler_Execute_BoundaryValuesPass(t *testing.T) {
	tests := []struct {
		name      string
		estimator string
		mutate    func(req map[string]interface{})
	}{
		{
			name:      "profit margin zero",
			estimator: EstimatorROI,
			mutate:    func(req map[string]interface{}) { req["profitMargin"] = 0.0 },
		},
		{
			name:      "profit margin one",
			estimator: EstimatorROI,
			mutate:    func(req map[string]interface{}) { req["profitMargin"] = 1.0 },
		},
		{
			name:      "zero transactions",
			estimator: EstimatorROI,
			mutate:    func(req map[string]interface{}) { req["annualTransactions"] = 0.0 },
		},
		{
			name:      "new buyer share zero",
			estimator: EstimatorROAS,
			mutate:    func(req map[string]interface{}) { req["newBuyerShare"] = 0.0 },
		},
		{
			name:      "new buyer share one",
			estimator: EstimatorROAS,
			mutate:    func(req map[string]interface{}) { req["newBuyerShare"] = 1.0 },
		},
		{
			name:      "full discount",
			estimator: EstimatorROAS,
			mutate:    func(req map[string]interface{}) { req["newBuyerDiscountPct"] = 1.0 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler(LoadConfig(), logger.NewTestLogger(t))

			var req map[string]interface{}
			if tt.estimator == EstimatorROI {
				req = createValidROIRequest()
			} else {
				req = createValidROASRequest()
			}
			tt.mutate(req)

			output, err := handler.Execute(context.Background(), &Input{
				Estimator: tt.estimator,
				Request:   req,
			})

			require.NoError(t, err)
			assert.True(t, output.Valid, "errors: %v", output.Errors)
		})
	}
}

// ==========================
// Violations
// ==========================

func TestHandler_Execute_ROIViolations(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(req map[string]interface{})
		wantField string
		wantCode  string
	}{
		{
			name:      "missing annualGMV",
			mutate:    func(req map[string]interface{}) { delete(req, "annualGMV") },
			wantField: "annualGMV",
			wantCode:  CodeMissingRequired,
		},
		{
			name:      "zero annualGMV",
			mutate:    func(req map[string]interface{}) { req["annualGMV"] = 0.0 },
			wantField: "annualGMV",
			wantCode:  CodeBelowMinimum,
		},
		{
			name:      "zero averageOrderValue",
			mutate:    func(req map[string]interface{}) { req["averageOrderValue"] = 0.0 },
			wantField: "averageOrderValue",
			wantCode:  CodeBelowMinimum,
		},
		{
			name:      "negative transactions",
			mutate:    func(req map[string]interface{}) { req["annualTransactions"] = -1.0 },
			wantField: "annualTransactions",
			wantCode:  CodeBelowMinimum,
		},
		{
			name:      "fractional transactions",
			mutate:    func(req map[string]interface{}) { req["annualTransactions"] = 19999.5 },
			wantField: "annualTransactions",
			wantCode:  CodeInvalidValue,
		},
		{
			name:      "profit margin above one",
			mutate:    func(req map[string]interface{}) { req["profitMargin"] = 1.2 },
			wantField: "profitMargin",
			wantCode:  CodeAboveMaximum,
		},
		{
			name:      "negative profit margin",
			mutate:    func(req map[string]interface{}) { req["profitMargin"] = -0.1 },
			wantField: "profitMargin",
			wantCode:  CodeBelowMinimum,
		},
		{
			name:      "unknown scenario",
			mutate:    func(req map[string]interface{}) { req["scenario"] = "aggressive" },
			wantField: "scenario",
			wantCode:  CodeInvalidValue,
		},
		{
			name:      "string where number expected",
			mutate:    func(req map[string]interface{}) { req["annualGMV"] = "a lot" },
			wantField: "annualGMV",
			wantCode:  CodeInvalidType,
		},
		{
			name:      "unexpected extra field",
			mutate:    func(req map[string]interface{}) { req["discountRate"] = 0.5 },
			wantField: "discountRate",
			wantCode:  CodeInvalidValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler(LoadConfig(), logger.NewTestLogger(t))

			req := createValidROIRequest()
			tt.mutate(req)

			output, err := handler.Execute(context.Background(), &Input{
				Estimator: EstimatorROI,
				Request:   req,
			})

			require.NoError(t, err, "violations complete the job, they do not fail it")
			assert.False(t, output.Valid)
			fieldErr := findError(t, output.Errors, tt.wantField)
			assert.Equal(t, tt.wantCode, fieldErr.Code)
			assert.NotEmpty(t, fieldErr.Message)
		})
	}
}

func TestHandler_Execute_ROASViolations(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(req map[string]interface{})
		wantField string
		wantCode  string
	}{
		{
			name:      "zero ad spend",
			mutate:    func(req map[string]interface{}) { req["adSpend"] = 0.0 },
			wantField: "adSpend",
			wantCode:  CodeBelowMinimum,
		},
		{
			name:      "negative revenue",
			mutate:    func(req map[string]interface{}) { req["totalRevenue"] = -100.0 },
			wantField: "totalRevenue",
			wantCode:  CodeBelowMinimum,
		},
		{
			name:      "new buyer share above one",
			mutate:    func(req map[string]interface{}) { req["newBuyerShare"] = 1.5 },
			wantField: "newBuyerShare",
			wantCode:  CodeAboveMaximum,
		},
		{
			name:      "missing discount",
			mutate:    func(req map[string]interface{}) { delete(req, "newBuyerDiscountPct") },
			wantField: "newBuyerDiscountPct",
			wantCode:  CodeMissingRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler(LoadConfig(), logger.NewTestLogger(t))

			req := createValidROASRequest()
			tt.mutate(req)

			output, err := handler.Execute(context.Background(), &Input{
				Estimator: EstimatorROAS,
				Request:   req,
			})

			require.NoError(t, err)
			assert.False(t, output.Valid)
			fieldErr := findError(t, output.Errors, tt.wantField)
			assert.Equal(t, tt.wantCode, fieldErr.Code)
		})
	}
}

func TestHandler_Execute_MultipleViolationsAllReported(t *testing.T) {
	handler := NewHandler(LoadConfig(), logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		Estimator: EstimatorROI,
		Request: map[string]interface{}{
			"annualGMV":          0.0,
			"averageOrderValue":  -5.0,
			"annualTransactions": 100.0,
			"profitMargin":       2.0,
			"scenario":           "medium",
		},
	})

	require.NoError(t, err)
	assert.False(t, output.Valid)
	assert.GreaterOrEqual(t, len(output.Errors), 3)
}

// ==========================
// Hard Failures
// ==========================

func TestHandler_Execute_UnknownEstimator(t *testing.T) {
	handler := NewHandler(LoadConfig(), logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		Estimator: "cac",
		Request:   map[string]interface{}{},
	})

	assert.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownEstimator)
	assert.Nil(t, output)
}

func TestHandler_Execute_MissingRequestPayload(t *testing.T) {
	handler := NewHandler(LoadConfig(), logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		Estimator: EstimatorROI,
	})

	require.NoError(t, err)
	assert.False(t, output.Valid)
	fieldErr := findError(t, output.Errors, "request")
	assert.Equal(t, CodeMissingRequired, fieldErr.Code)
}
