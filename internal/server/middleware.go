// Auth and metrics middleware.
package server

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/venturelab/workbench/internal/actions"
	"github.com/venturelab/workbench/pkg/types"
)

type ctxKey int

const ctxKeyUser ctxKey = 0

// tokenMiddleware checks the Authorization bearer token and stamps the
// operator into the request context for the action layer's authenticator.
// An empty configured token disables the check.
func tokenMiddleware(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token != "" {
			header := c.GetHeader("Authorization")
			presented, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					types.Fail(types.CodeUnauthorized, "authentication required"))
				return
			}
		}
		ctx := context.WithValue(c.Request.Context(), ctxKeyUser,
			actions.User{ID: "api", Name: "api operator"})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// bearerAuthenticator resolves the operator stamped by tokenMiddleware.
type bearerAuthenticator struct{}

func (bearerAuthenticator) Authenticate(ctx context.Context) (actions.User, error) {
	user, ok := ctx.Value(ctxKeyUser).(actions.User)
	if !ok {
		return actions.User{}, types.ErrMissingIdentifier
	}
	return user, nil
}

// metricsMiddleware records the request counter and duration histogram.
func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		requestsTotal.WithLabelValues(c.Request.Method, route, status).Inc()
		requestDuration.WithLabelValues(c.Request.Method, route).
			Observe(time.Since(start).Seconds())
	}
}
