package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jengzang/riskzones-backend-go/internal/models"
)

// ErrInvalidQuery marks request parameters the caller has to fix
var ErrInvalidQuery = errors.New("invalid query")

// Page bounds of the incident list
const (
	DefaultEventLimit = 500
	MaxEventLimit     = 2000
)

// EventReader pages through stored incidents
type EventReader interface {
	ListEvents(ctx context.Context, filter models.EventFilter) ([]models.Incident, int64, error)
}

// EventService handles business logic for the incident list
type EventService struct {
	store EventReader
}

// NewEventService creates a new event service
func NewEventService(store EventReader) *EventService {
	return &EventService{store: store}
}

// List returns one page of incidents, newest first
func (s *EventService) List(ctx context.Context, filter models.EventFilter) (*models.EventsResponse, error) {
	switch {
	case filter.Limit == 0:
		filter.Limit = DefaultEventLimit
	case filter.Limit < 1:
		filter.Limit = 1
	case filter.Limit > MaxEventLimit:
		filter.Limit = MaxEventLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	items, total, err := s.store.ListEvents(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents: %w", err)
	}

	return &models.EventsResponse{
		Items:  items,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}, nil
}
