package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/riskzones-backend-go/internal/analysis/clustering"
	"github.com/jengzang/riskzones-backend-go/internal/auth"
	"github.com/jengzang/riskzones-backend-go/internal/handler"
	"github.com/jengzang/riskzones-backend-go/internal/middleware"
	"github.com/jengzang/riskzones-backend-go/internal/observability"
	"github.com/jengzang/riskzones-backend-go/internal/repository"
	"github.com/jengzang/riskzones-backend-go/internal/service"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies are the long-lived objects the HTTP API is built from
type Dependencies struct {
	DB          *sql.DB
	Tokens      *auth.Tokens
	Limiter     *middleware.RateLimiter
	Clustering  clustering.Config
	ClusterSeed int64
	Clock       clockwork.Clock
	Logger      *slog.Logger
	Metrics     *observability.Metrics
	Gatherer    prometheus.Gatherer
}

// SetupRouter 设置路由
func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger(deps.Logger, deps.Metrics))

	// CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		if err := deps.DB.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Risk zones API is running",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))

	incidents := repository.NewIncidentRepository(deps.DB, deps.Clustering.Tags.Ignored...)

	clusterHandler := handler.NewClusterHandler(
		service.NewClusterService(incidents, deps.Clustering, deps.ClusterSeed, deps.Clock, deps.Logger, deps.Metrics),
	)
	eventHandler := handler.NewEventHandler(service.NewEventService(incidents))
	searchHandler := handler.NewSearchHandler(service.NewSearchService(incidents))
	statsHandler := handler.NewStatsHandler(service.NewStatsService(incidents))

	// API 路由组
	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(deps.Limiter, deps.Metrics), middleware.Auth(deps.Tokens))
	{
		api.GET("/clusters", clusterHandler.GetClusters)
		api.GET("/events", eventHandler.GetEvents)
		api.GET("/search", searchHandler.Search)
		api.GET("/stats", statsHandler.GetSummary)
	}

	return r
}
