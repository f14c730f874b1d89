package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jengzang/riskzones-backend-go/internal/models"
)

// Suggestion bounds
const (
	DefaultSearchLimit = 10
	MaxSearchLimit     = 50
	minSearchRunes     = 2
)

// Suggester looks up distinct column values by prefix
type Suggester interface {
	Suggest(ctx context.Context, field, prefix string, limit int) ([]string, error)
}

// SearchService suggests regions and categories for filter inputs
type SearchService struct {
	store Suggester
}

// NewSearchService creates a new search service
func NewSearchService(store Suggester) *SearchService {
	return &SearchService{store: store}
}

// Suggest returns values of the requested type starting with q. Queries
// shorter than two characters return no suggestions.
func (s *SearchService) Suggest(ctx context.Context, q models.SearchQuery) ([]string, error) {
	prefix := strings.TrimSpace(q.Q)
	if utf8.RuneCountInString(prefix) < minSearchRunes {
		return []string{}, nil
	}

	var field string
	switch q.Type {
	case "regions":
		field = "region"
	case "categories":
		field = "category"
	default:
		return nil, fmt.Errorf("%w: bad type %q", ErrInvalidQuery, q.Type)
	}

	limit := q.Limit
	switch {
	case limit == 0:
		limit = DefaultSearchLimit
	case limit < 1:
		limit = 1
	case limit > MaxSearchLimit:
		limit = MaxSearchLimit
	}

	items, err := s.store.Suggest(ctx, field, prefix, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", q.Type, err)
	}
	return items, nil
}
