package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/google/uuid"
	"github.com/jengzang/riskzones-backend-go/internal/analysis/clustering"
	"github.com/jengzang/riskzones-backend-go/internal/models"
	"github.com/jengzang/riskzones-backend-go/internal/observability"
	"github.com/jonboulle/clockwork"
)

// Working-set bounds of a clustering request
const (
	DefaultClusterLimit = 3000
	MinClusterLimit     = 500
	MaxClusterLimit     = 10000
)

// WorkingSetReader loads the incidents a clustering run works on
type WorkingSetReader interface {
	FetchWorkingSet(ctx context.Context, q models.ClusterQuery) ([]models.Incident, error)
}

// ClusterService runs risk-zone clustering over the stored incidents
type ClusterService struct {
	store    WorkingSetReader
	pipeline *clustering.Pipeline
	seed     int64 // 0 derives a seed from the clock per run
	clock    clockwork.Clock
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewClusterService creates a new cluster service
func NewClusterService(store WorkingSetReader, cfg clustering.Config, seed int64, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *ClusterService {
	return &ClusterService{
		store:    store,
		pipeline: clustering.NewPipeline(cfg),
		seed:     seed,
		clock:    clock,
		logger:   logger,
		metrics:  metrics,
	}
}

// ClampClusterLimit applies the working-set bounds; an unset limit takes the
// default
func ClampClusterLimit(limit int) int {
	if limit == 0 {
		return DefaultClusterLimit
	}
	if limit < MinClusterLimit {
		return MinClusterLimit
	}
	if limit > MaxClusterLimit {
		return MaxClusterLimit
	}
	return limit
}

// Cluster loads the working set for q and clusters it. Too small a working
// set yields an error wrapping clustering.ErrInsufficientData.
func (s *ClusterService) Cluster(ctx context.Context, q models.ClusterQuery) (*models.ClusterResult, error) {
	q.Limit = ClampClusterLimit(q.Limit)

	runID := uuid.NewString()
	start := s.clock.Now()
	seed := s.seed
	if seed == 0 {
		seed = start.UnixNano()
	}
	logger := s.logger.With("run_id", runID)

	records, err := s.store.FetchWorkingSet(ctx, q)
	if err != nil {
		s.metrics.ClusterRuns.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to load working set: %w", err)
	}
	s.metrics.WorkingSetSize.Observe(float64(len(records)))

	report, err := s.pipeline.Run(records, rand.New(rand.NewSource(seed)))
	elapsed := s.clock.Since(start)
	s.metrics.ClusterDuration.Observe(elapsed.Seconds())
	if err != nil {
		outcome := "error"
		if errors.Is(err, clustering.ErrInsufficientData) {
			outcome = "insufficient_data"
		}
		s.metrics.ClusterRuns.WithLabelValues(outcome).Inc()
		logger.Warn("clustering run failed", "size", len(records), "region", q.Region, "category", q.Category, "error", err)
		return nil, err
	}

	s.metrics.ClusterRuns.WithLabelValues("success").Inc()
	s.metrics.ClusterK.Observe(float64(report.Result.K))
	s.metrics.ExcludedIncidents.Add(float64(report.Excluded))

	logger.Info("clustering run complete",
		"size", len(records),
		"excluded", report.Excluded,
		"dim", report.Dim,
		"weather_vocab", len(report.WeatherTerms),
		"road_vocab", len(report.RoadTerms),
		"k", report.Result.K,
		"inertia", report.Result.Inertia,
		"profiles", len(report.Result.Profiles),
		"seed", seed,
		"duration", elapsed,
	)
	logger.Debug("feature vocabularies", "weather", report.WeatherTerms, "road", report.RoadTerms)
	for _, c := range report.Candidates {
		logger.Debug("model candidate", "k", c.K, "inertia", c.Inertia, "score", c.Score)
	}

	return &report.Result, nil
}
