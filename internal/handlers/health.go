package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vibelab/channel-dna-api/internal/models"
)

// HealthCheck handles GET /health. The service is considered healthy even
// when the optional history store is down; the store status is reported
// separately so probes can alert without failing deploys.
func (h *Handler) HealthCheck(c *gin.Context) {
	history := "disabled"
	if h.store != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := h.store.HealthCheck(ctx); err != nil {
			h.log.WithError(err).Warn("history store health check failed")
			history = "error"
		} else {
			history = "ok"
		}
	}

	c.JSON(http.StatusOK, models.HealthResponse{
		OK:      true,
		Version: Version,
		History: history,
	})
}
