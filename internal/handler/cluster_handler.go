package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/riskzones-backend-go/internal/analysis/clustering"
	"github.com/jengzang/riskzones-backend-go/internal/models"
	"github.com/jengzang/riskzones-backend-go/internal/service"
	"github.com/jengzang/riskzones-backend-go/pkg/response"
)

// ClusterHandler handles HTTP requests for risk-zone clustering
type ClusterHandler struct {
	clusterService *service.ClusterService
}

// NewClusterHandler creates a new cluster handler
func NewClusterHandler(clusterService *service.ClusterService) *ClusterHandler {
	return &ClusterHandler{
		clusterService: clusterService,
	}
}

// GetClusters handles GET /api/v1/clusters
func (h *ClusterHandler) GetClusters(c *gin.Context) {
	var q models.ClusterQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	result, err := h.clusterService.Cluster(c.Request.Context(), q)
	if err != nil {
		if errors.Is(err, clustering.ErrInsufficientData) {
			response.BadRequest(c, err.Error())
			return
		}
		c.Error(err)
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, result)
}
