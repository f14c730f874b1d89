package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/riskzones-backend-go/internal/models"
	"github.com/jengzang/riskzones-backend-go/internal/service"
	"github.com/jengzang/riskzones-backend-go/pkg/response"
)

// SearchHandler handles HTTP requests for filter suggestions
type SearchHandler struct {
	searchService *service.SearchService
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searchService *service.SearchService) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
	}
}

// Search handles GET /api/v1/search
func (h *SearchHandler) Search(c *gin.Context) {
	var q models.SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	items, err := h.searchService.Suggest(c.Request.Context(), q)
	if err != nil {
		if errors.Is(err, service.ErrInvalidQuery) {
			response.BadRequest(c, err.Error())
			return
		}
		c.Error(err)
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, models.SearchResponse{Items: items})
}
