// Package handlers contains the HTTP handlers for the API endpoints.
package handlers

import (
	"context"

	"github.com/vibelab/channel-dna-api/internal/logger"
	"github.com/vibelab/channel-dna-api/internal/models"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// Runner executes one validated batch request end to end.
type Runner interface {
	Run(ctx context.Context, in *models.BatchInput) *models.AnalyzeResponse
}

// HistoryStore persists request summaries. Nil disables history.
type HistoryStore interface {
	HealthCheck(ctx context.Context) error
	CreateAnalysisRecord(ctx context.Context, rec *models.AnalysisRecord) error
	GetAnalysisRecord(ctx context.Context, id string) (*models.AnalysisRecord, error)
	ListAnalysisRecords(ctx context.Context, limit int) ([]models.AnalysisRecord, error)
}

// Handler holds dependencies for the HTTP handlers.
type Handler struct {
	runner             Runner
	store              HistoryStore
	log                *logger.Logger
	defaultConcurrency int
}

// New creates a handler. store may be nil when no database is configured.
func New(runner Runner, store HistoryStore, log *logger.Logger, defaultConcurrency int) *Handler {
	return &Handler{
		runner:             runner,
		store:              store,
		log:                log,
		defaultConcurrency: defaultConcurrency,
	}
}
