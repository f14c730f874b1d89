package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/jengzang/riskzones-backend-go/internal/models"
	"github.com/jengzang/riskzones-backend-go/internal/service"
	"github.com/jengzang/riskzones-backend-go/pkg/response"
)

// EventHandler handles HTTP requests for the incident list
type EventHandler struct {
	eventService *service.EventService
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService *service.EventService) *EventHandler {
	return &EventHandler{
		eventService: eventService,
	}
}

// GetEvents handles GET /api/v1/events
func (h *EventHandler) GetEvents(c *gin.Context) {
	var filter models.EventFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	events, err := h.eventService.List(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, events)
}
