package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/riskzones-backend-go/internal/models"
	"github.com/jengzang/riskzones-backend-go/internal/service"
	"github.com/jengzang/riskzones-backend-go/pkg/response"
)

// StatsHandler handles HTTP requests for statistics
type StatsHandler struct {
	statsService *service.StatsService
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

// GetSummary handles GET /api/v1/stats
func (h *StatsHandler) GetSummary(c *gin.Context) {
	var q models.StatsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	summary, err := h.statsService.Summary(c.Request.Context(), q)
	if err != nil {
		if errors.Is(err, service.ErrInvalidQuery) {
			response.BadRequest(c, err.Error())
			return
		}
		c.Error(err)
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, summary)
}
