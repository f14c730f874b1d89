package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jengzang/riskzones-backend-go/internal/observability"
	"github.com/jengzang/riskzones-backend-go/pkg/response"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client. The table is bounded; the
// least recently seen client is forgotten first.
type RateLimiter struct {
	mu       sync.Mutex
	limiters *lru.Cache[string, *rate.Limiter]
	rps      rate.Limit
	burst    int
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(rps float64, burst, maxClients int) (*RateLimiter, error) {
	cache, err := lru.New[string, *rate.Limiter](maxClients)
	if err != nil {
		return nil, err
	}
	return &RateLimiter{
		limiters: cache,
		rps:      rate.Limit(rps),
		burst:    burst,
	}, nil
}

// Allow checks if a request from the given client is allowed
func (rl *RateLimiter) Allow(client string) bool {
	rl.mu.Lock()
	limiter, ok := rl.limiters.Get(client)
	if !ok {
		limiter = rate.NewLimiter(rl.rps, rl.burst)
		rl.limiters.Add(client, limiter)
	}
	rl.mu.Unlock()

	return limiter.Allow()
}

// RateLimit middleware limits requests per client IP
func RateLimit(limiter *RateLimiter, metrics *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			metrics.RateLimitedRequests.Inc()
			response.Abort(c, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
			return
		}

		c.Next()
	}
}
