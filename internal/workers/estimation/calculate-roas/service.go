// internal/workers/estimation/calculate-roas/service.go
package calculateroas

import (
	"context"

	"github.com/google/uuid"

	"estimation-workers/internal/common/cache"
	"estimation-workers/internal/common/errors"
	"estimation-workers/internal/common/logger"
	"estimation-workers/internal/common/metrics"
	"estimation-workers/internal/estimation"
	"estimation-workers/internal/estimation/roas"
)

const engineName = "roas"

type Service struct {
	config *Config
	logger logger.Logger
	cache  *cache.ResultCache
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	svc := &Service{
		config: config,
		logger: deps.Logger,
	}
	if config.CacheEnabled {
		svc.cache = deps.Cache
	}
	return svc
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	coreInput := roas.ROASInput{
		TotalRevenue:        input.TotalRevenue,
		AdSpend:             input.AdSpend,
		NewBuyerShare:       input.NewBuyerShare,
		NewBuyerDiscountPct: input.NewBuyerDiscountPct,
	}

	// No catalog feeds this engine, so the key is input-only.
	var key string
	if s.cache != nil {
		var err error
		key, err = cache.Key(engineName, "", coreInput)
		if err != nil {
			s.logger.Warn("failed to derive cache key, computing directly", map[string]interface{}{
				"error": err.Error(),
			})
			key = ""
		}
	}

	if key != "" {
		var cached roas.ROASResult
		hit, lookupErr := s.cache.Lookup(ctx, key, &cached)
		if lookupErr != nil {
			s.logger.Warn("estimate cache lookup failed, computing directly", map[string]interface{}{
				"error": lookupErr.Error(),
			})
		}
		if hit {
			metrics.EstimateCacheHits.WithLabelValues(engineName).Inc()
			return buildOutput(&cached, true), nil
		}
		metrics.EstimateCacheMisses.WithLabelValues(engineName).Inc()
	}

	result, err := roas.Compute(coreInput)
	if err != nil {
		return nil, s.invalidInput(err)
	}
	metrics.EstimatesComputed.WithLabelValues(engineName, "none").Inc()

	if key != "" {
		if storeErr := s.cache.Store(ctx, key, result); storeErr != nil {
			s.logger.Warn("failed to store estimate in cache", map[string]interface{}{
				"error": storeErr.Error(),
			})
		}
	}

	s.logger.Info("true ROAS computed", map[string]interface{}{
		"reportedROAS":     result.ReportedROAS,
		"trueROAS":         result.TrueROAS,
		"overstatementPct": result.OverstatementPct,
	})

	return buildOutput(result, false), nil
}

func buildOutput(result *roas.ROASResult, fromCache bool) *Output {
	return &Output{
		EstimateID:           uuid.NewString(),
		FromCache:            fromCache,
		ReportedROAS:         result.ReportedROAS,
		NewBuyerRevenue:      result.NewBuyerRevenue,
		DiscountCost:         result.DiscountCost,
		AdjustedRevenue:      result.AdjustedRevenue,
		TrueROAS:             result.TrueROAS,
		TotalAcquisitionCost: result.TotalAcquisitionCost,
		OverstatementPct:     result.OverstatementPct,
	}
}

func (s *Service) invalidInput(err error) *errors.StandardError {
	if iie, ok := estimation.AsInvalidInput(err); ok {
		metrics.EstimateInvalidInput.WithLabelValues(engineName, iie.Field).Inc()
		return errors.NewInvalidInputError(iie.Field, iie.Constraint)
	}
	return errors.NewInvalidInputError("request", err.Error())
}
