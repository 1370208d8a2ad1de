// auth.go guards the analysis endpoints with a single static service key.
// There are no user accounts: automation callers present the key via
// X-API-Key or a bearer token. An empty configured key leaves the
// endpoints open (development mode).
package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vibelab/channel-dna-api/internal/models"
)

// ServiceKeyAuth returns middleware enforcing the configured service key.
func ServiceKeyAuth(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			c.Next()
			return
		}

		provided := c.GetHeader("X-API-Key")
		if provided == "" {
			if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
				provided = strings.TrimPrefix(auth, "Bearer ")
			}
		}

		if subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:   "unauthorized",
				Message: "Provide the service API key via X-API-Key or a bearer token",
				Code:    http.StatusUnauthorized,
			})
			return
		}

		c.Next()
	}
}
