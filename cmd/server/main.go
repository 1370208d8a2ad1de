// Command server runs the channel-DNA analysis API.
//
// The service fetches YouTube transcripts through an Apify actor, runs a
// per-video Gemini analysis on each transcript, and can synthesize one
// channel profile from the per-video results.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/vibelab/channel-dna-api/internal/config"
	"github.com/vibelab/channel-dna-api/internal/database"
	"github.com/vibelab/channel-dna-api/internal/handlers"
	"github.com/vibelab/channel-dna-api/internal/logger"
	"github.com/vibelab/channel-dna-api/internal/router"
	"github.com/vibelab/channel-dna-api/internal/services/analysis"
	"github.com/vibelab/channel-dna-api/internal/services/apify"
	"github.com/vibelab/channel-dna-api/internal/services/gemini"
	"github.com/vibelab/channel-dna-api/internal/services/pipeline"
)

func main() {
	// Local development only; deployed environments set real env vars.
	_ = godotenv.Load()

	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	gin.SetMode(cfg.GinMode)

	// History store is optional: without DATABASE_URL the API still serves
	// analysis requests, it just keeps no records.
	var store handlers.HistoryStore
	if cfg.DatabaseURL != "" {
		db, err := database.New(cfg.DatabaseURL)
		if err != nil {
			log.WithError(err).Fatal("failed to connect to database")
		}
		defer db.Close()

		if err := db.RunMigrations("migrations"); err != nil {
			log.WithError(err).Fatal("failed to run migrations")
		}
		log.Info("history store enabled")
		store = db
	} else {
		log.Info("DATABASE_URL not set, history store disabled")
	}

	ctx := context.Background()

	gen, err := gemini.New(ctx, gemini.Config{
		APIKey:   cfg.GeminiAPIKey,
		Project:  cfg.GoogleCloudProject,
		Location: cfg.GeminiLocation,
		Model:    cfg.GeminiModel,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to initialize gemini client")
	}

	fetcher := apify.New(cfg.ApifyToken, cfg.ApifyActorID, cfg.ApifyTimeout)
	analyzer := analysis.NewAnalyzer(gen, int32(cfg.MaxOutputTokens), int32(cfg.RepairMaxOutputTokens), log.Entry)
	profiler := analysis.NewProfiler(gen, gen.Model(), int32(cfg.MaxOutputTokens), log.Entry)
	pipe := pipeline.New(fetcher, analyzer, profiler, cfg.MaxTranscriptChars, log.Entry)

	h := handlers.New(pipe, store, log, cfg.DefaultConcurrency)
	r := router.SetupRouter(h, cfg.AllowedOrigins, cfg.ServiceAPIKey)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.WithField("port", cfg.Port).WithField("model", gen.Model()).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM. In-flight batches get 30 seconds
	// to drain before the process exits.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Fatal("forced shutdown")
	}

	log.Info("server exited")
}
