package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/riskzones-backend-go/internal/auth"
	"github.com/jengzang/riskzones-backend-go/pkg/response"
)

const principalKey = "principal"

// Auth middleware requires a valid bearer token and stores the caller in the
// request context
func Auth(tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			response.Abort(c, http.StatusUnauthorized, "Missing Authorization Bearer token")
			return
		}

		principal, err := tokens.Verify(strings.TrimSpace(token))
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// PrincipalFrom returns the authenticated caller, if any
func PrincipalFrom(c *gin.Context) (*auth.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil, false
	}
	p, ok := v.(*auth.Principal)
	return p, ok
}
