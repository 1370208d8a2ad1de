// Package router wires the HTTP routes to their handlers.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/vibelab/channel-dna-api/internal/handlers"
	"github.com/vibelab/channel-dna-api/internal/middleware"
)

// SetupRouter configures all application routes. The health endpoint is
// public; everything else sits behind the service key (a no-op when the key
// is empty).
func SetupRouter(h *handlers.Handler, allowedOrigins []string, serviceKey string) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORS(allowedOrigins))

	router.GET("/health", h.HealthCheck)

	auth := router.Group("/")
	auth.Use(middleware.ServiceKeyAuth(serviceKey))
	{
		auth.POST("/analyze_and_profile", h.AnalyzeAndProfile)
		// Shorter alias kept for existing callers.
		auth.POST("/analyze", h.AnalyzeAndProfile)

		v1 := auth.Group("/api/v1")
		{
			v1.GET("/analyses", h.ListAnalyses)
			v1.GET("/analyses/:id", h.GetAnalysis)
		}
	}

	return router
}
