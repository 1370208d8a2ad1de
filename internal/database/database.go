// Package database handles the optional PostgreSQL history store.
//
// The store records one summary row per completed analysis request for
// later inspection; it never feeds results back into the pipeline. When
// DATABASE_URL is unset the service runs without it.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/vibelab/channel-dna-api/internal/models"
)

// DB wraps the sqlx connection with application-specific queries.
type DB struct {
	*sqlx.DB
}

// New opens a pooled connection and pings the database.
func New(databaseURL string) (*DB, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Conservative pool settings for serverless Postgres, which closes
	// idle connections aggressively.
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(2 * time.Minute)
	db.SetConnMaxIdleTime(30 * time.Second)

	return &DB{db}, nil
}

// HealthCheck verifies the database connection is alive.
func (db *DB) HealthCheck(ctx context.Context) error {
	return db.PingContext(ctx)
}

// CreateAnalysisRecord inserts one request summary.
func (db *DB) CreateAnalysisRecord(ctx context.Context, rec *models.AnalysisRecord) error {
	query := `
		INSERT INTO analysis_requests (id, url_count, ok_count, warning_count, profile_ok, response)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	return db.QueryRowContext(ctx, query,
		rec.ID, rec.URLCount, rec.OKCount, rec.WarningCount,
		rec.ProfileOK, rec.Response,
	).Scan(&rec.CreatedAt)
}

// GetAnalysisRecord retrieves one saved request by ID.
func (db *DB) GetAnalysisRecord(ctx context.Context, id string) (*models.AnalysisRecord, error) {
	var rec models.AnalysisRecord
	err := db.GetContext(ctx, &rec, `SELECT * FROM analysis_requests WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("analysis record not found: %w", err)
	}
	return &rec, nil
}

// ListAnalysisRecords returns recent request summaries, newest first.
func (db *DB) ListAnalysisRecords(ctx context.Context, limit int) ([]models.AnalysisRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var records []models.AnalysisRecord
	err := db.SelectContext(ctx, &records,
		`SELECT * FROM analysis_requests ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list analysis records: %w", err)
	}
	return records, nil
}
