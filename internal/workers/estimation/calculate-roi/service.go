// internal/workers/estimation/calculate-roi/service.go
package calculateroi

import (
	"context"

	"github.com/google/uuid"

	"estimation-workers/internal/common/cache"
	"estimation-workers/internal/common/errors"
	"estimation-workers/internal/common/logger"
	"estimation-workers/internal/common/metrics"
	"estimation-workers/internal/estimation"
	"estimation-workers/internal/estimation/roi"
)

const engineName = "roi"

type Service struct {
	config  *Config
	logger  logger.Logger
	catalog *roi.Catalog
	cache   *cache.ResultCache
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	svc := &Service{
		config:  config,
		logger:  deps.Logger,
		catalog: deps.Catalog,
	}
	if config.CacheEnabled {
		svc.cache = deps.Cache
	}
	return svc
}

// cacheKeyInput is the canonical form hashed into the cache key. The
// catalog version is mixed in separately by cache.Key.
type cacheKeyInput struct {
	Metrics  roi.MerchantMetrics `json:"metrics"`
	Scenario roi.GrowthScenario  `json:"scenario"`
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	scenario, err := roi.ParseScenario(input.Scenario)
	if err != nil {
		return nil, s.invalidInput(err)
	}

	merchant := roi.MerchantMetrics{
		AnnualGMV:          input.AnnualGMV,
		AverageOrderValue:  input.AverageOrderValue,
		AnnualTransactions: input.AnnualTransactions,
		ProfitMargin:       input.ProfitMargin,
	}

	var key string
	if s.cache != nil {
		key, err = cache.Key(engineName, s.catalog.Version, cacheKeyInput{
			Metrics:  merchant,
			Scenario: scenario,
		})
		if err != nil {
			s.logger.Warn("failed to derive cache key, computing directly", map[string]interface{}{
				"error": err.Error(),
			})
			key = ""
		}
	}

	if key != "" {
		var cached roi.ROIResult
		hit, lookupErr := s.cache.Lookup(ctx, key, &cached)
		if lookupErr != nil {
			s.logger.Warn("estimate cache lookup failed, computing directly", map[string]interface{}{
				"error": lookupErr.Error(),
			})
		}
		if hit {
			metrics.EstimateCacheHits.WithLabelValues(engineName).Inc()
			return s.buildOutput(&cached, true), nil
		}
		metrics.EstimateCacheMisses.WithLabelValues(engineName).Inc()
	}

	result, err := roi.ComputeWithCatalog(*s.catalog, merchant, scenario)
	if err != nil {
		return nil, s.invalidInput(err)
	}
	metrics.EstimatesComputed.WithLabelValues(engineName, string(scenario)).Inc()

	if key != "" {
		if storeErr := s.cache.Store(ctx, key, result); storeErr != nil {
			s.logger.Warn("failed to store estimate in cache", map[string]interface{}{
				"error": storeErr.Error(),
			})
		}
	}

	s.logger.Info("ROI estimate computed", map[string]interface{}{
		"scenario":           string(scenario),
		"totalRevenueImpact": result.TotalRevenueImpact,
		"catalogVersion":     s.catalog.Version,
	})

	return s.buildOutput(result, false), nil
}

func (s *Service) buildOutput(result *roi.ROIResult, fromCache bool) *Output {
	return &Output{
		EstimateID:         uuid.NewString(),
		Scenario:           string(result.Scenario),
		CatalogVersion:     s.catalog.Version,
		FromCache:          fromCache,
		Features:           result.Features,
		TotalRevenueImpact: result.TotalRevenueImpact,
		TotalGMVSharePct:   result.TotalGMVSharePct,
		TotalMarginImpact:  result.TotalMarginImpact,
		UpgradeCost:        result.UpgradeCost,
		RecoupMonths:       result.RecoupMonths,
	}
}

// invalidInput maps a core validation failure onto the standard error
// shape so the offending field travels in the BPMN error variables.
func (s *Service) invalidInput(err error) *errors.StandardError {
	if iie, ok := estimation.AsInvalidInput(err); ok {
		metrics.EstimateInvalidInput.WithLabelValues(engineName, iie.Field).Inc()
		return errors.NewInvalidInputError(iie.Field, iie.Constraint)
	}
	return errors.NewInvalidInputError("request", err.Error())
}
