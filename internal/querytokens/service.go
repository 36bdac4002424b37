package querytokens

import (
	"context"
	"log/slog"
	"time"

	"github.com/Adithya-Monish-Kumar-K/Query-Prep-Toolkit/pkg/metrics"
)

// Service computes weight maps, consulting the cache when one is set.
type Service struct {
	analyzer Analyzer
	cache    *Cache
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewService creates a Service. cache may be nil.
func NewService(a Analyzer, cache *Cache, m *metrics.Metrics) *Service {
	return &Service{
		analyzer: a,
		cache:    cache,
		metrics:  m,
		logger:   slog.Default().With("component", "querytokens"),
	}
}

func (s *Service) Weights(ctx context.Context, text string) (WeightMap, error) {
	if s.cache == nil {
		return s.compute(text)
	}
	weights, hit, err := s.cache.GetOrCompute(ctx, text, func() (WeightMap, error) {
		return s.compute(text)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("weights resolved", "cache_hit", hit, "tokens", len(weights))
	return weights, nil
}

func (s *Service) compute(text string) (WeightMap, error) {
	start := time.Now()
	weights, err := Weights(s.analyzer, text)
	s.metrics.AnalyzeDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}
	s.metrics.TokensPerQuery.Observe(float64(len(weights)))
	return weights, nil
}
