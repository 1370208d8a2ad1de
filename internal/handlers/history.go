package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vibelab/channel-dna-api/internal/models"
)

// ListAnalyses handles GET /api/v1/analyses. Supports ?limit=N (default 20,
// max 100).
func (h *Handler) ListAnalyses(c *gin.Context) {
	if h.store == nil {
		h.historyDisabled(c)
		return
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	records, err := h.store.ListAnalysisRecords(c.Request.Context(), limit)
	if err != nil {
		h.log.WithError(err).Error("failed to list analysis records")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to list analysis records",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	if records == nil {
		records = []models.AnalysisRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"analyses": records, "count": len(records)})
}

// GetAnalysis handles GET /api/v1/analyses/:id.
func (h *Handler) GetAnalysis(c *gin.Context) {
	if h.store == nil {
		h.historyDisabled(c)
		return
	}

	rec, err := h.store.GetAnalysisRecord(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: "Analysis record not found",
			Code:    http.StatusNotFound,
		})
		return
	}

	c.JSON(http.StatusOK, rec)
}

func (h *Handler) historyDisabled(c *gin.Context) {
	c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
		Error:   "history_disabled",
		Message: "History requires DATABASE_URL to be configured",
		Code:    http.StatusServiceUnavailable,
	})
}
