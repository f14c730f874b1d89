package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jengzang/riskzones-backend-go/internal/models"
	"github.com/jengzang/riskzones-backend-go/internal/repository"
)

const dateLayout = "2006-01-02"

// SummaryReader aggregates incidents over a half-open time range
type SummaryReader interface {
	Summary(ctx context.Context, from, to string) (*models.StatsSummary, error)
}

// StatsService handles business logic for statistics
type StatsService struct {
	store SummaryReader
}

// NewStatsService creates a new stats service
func NewStatsService(store SummaryReader) *StatsService {
	return &StatsService{store: store}
}

// Summary returns KPIs and breakdowns for the range. A bare date as the upper
// bound includes that whole day.
func (s *StatsService) Summary(ctx context.Context, q models.StatsQuery) (*models.StatsSummary, error) {
	fromRaw := strings.TrimSpace(q.From)
	toRaw := strings.TrimSpace(q.To)
	if fromRaw == "" || toRaw == "" {
		return nil, fmt.Errorf("%w: from/to required", ErrInvalidQuery)
	}

	from, _, err := parseBound(fromRaw)
	if err != nil {
		return nil, fmt.Errorf("%w: from: %v", ErrInvalidQuery, err)
	}
	to, dateOnly, err := parseBound(toRaw)
	if err != nil {
		return nil, fmt.Errorf("%w: to: %v", ErrInvalidQuery, err)
	}
	if dateOnly {
		to = to.AddDate(0, 0, 1)
	}
	if !from.Before(to) {
		return nil, fmt.Errorf("%w: from must be before to", ErrInvalidQuery)
	}

	summary, err := s.store.Summary(ctx, from.Format(repository.TimeLayout), to.Format(repository.TimeLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to get statistics: %w", err)
	}

	summary.From = fromRaw[:len(dateLayout)]
	summary.To = toRaw[:len(dateLayout)]
	return summary, nil
}

func parseBound(s string) (t time.Time, dateOnly bool, err error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, true, nil
	}
	t, err = time.Parse(repository.TimeLayout, s)
	return t, false, err
}
