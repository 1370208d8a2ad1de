// Package pipeline orchestrates the per-video fetch -> extract -> analyze
// pipelines under a bounded-concurrency admission gate, then fans the
// successful subset into the channel-profile synthesis.
//
// Batch semantics are fail-open: one video's failure never aborts the
// others, and every failure is converted into a structured result. The
// caller always gets exactly one VideoResult per input URL, in input order.
package pipeline

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"github.com/vibelab/channel-dna-api/internal/models"
	"github.com/vibelab/channel-dna-api/internal/services/analysis"
	"github.com/vibelab/channel-dna-api/internal/textutil"
)

// Fetcher retrieves transcript + metadata for one (url, language) attempt.
// Satisfied by apify.Client.
type Fetcher interface {
	Fetch(ctx context.Context, youtubeURL, language string) (*models.FetchedRecord, error)
}

// Pipeline wires the fetch, analysis, and profile stages together.
type Pipeline struct {
	fetcher            Fetcher
	analyzer           *analysis.Analyzer
	profiler           *analysis.Profiler
	maxTranscriptChars int
	log                *logrus.Entry
}

// New creates a pipeline with explicitly injected stage clients.
func New(fetcher Fetcher, analyzer *analysis.Analyzer, profiler *analysis.Profiler, maxTranscriptChars int, log *logrus.Entry) *Pipeline {
	return &Pipeline{
		fetcher:            fetcher,
		analyzer:           analyzer,
		profiler:           profiler,
		maxTranscriptChars: maxTranscriptChars,
		log:                log,
	}
}

// Run executes the batch. Results land in a pre-sized slice indexed by
// position, so input ordering is preserved no matter the completion order.
func (p *Pipeline) Run(ctx context.Context, in *models.BatchInput) *models.AnalyzeResponse {
	sem := semaphore.NewWeighted(int64(in.Concurrency))
	videos := make([]models.VideoResult, len(in.URLs))

	var wg sync.WaitGroup
	for i, url := range in.URLs {
		wg.Add(1)
		go func(idx int, url string) {
			defer wg.Done()

			if err := sem.Acquire(ctx, 1); err != nil {
				videos[idx] = models.VideoResult{
					Index: idx + 1,
					URL:   url,
					OK:    false,
					Stage: models.StageApify,
					Error: err.Error(),
				}
				return
			}
			defer sem.Release(1)

			videos[idx] = p.processOne(ctx, idx+1, url, in.Languages)
		}(i, url)
	}
	wg.Wait()

	var profile *models.ProfileResult
	if in.MakeChannelProfile {
		profile = p.profiler.Build(ctx, videos)
	}

	return &models.AnalyzeResponse{
		OK:             true,
		Count:          len(videos),
		Videos:         videos,
		ChannelProfile: profile,
		Warnings:       buildWarnings(videos),
	}
}

// processOne runs the full per-video pipeline: language-priority fetch,
// transcript extraction, then analysis. Terminal failures are returned as
// tagged results, never as errors.
func (p *Pipeline) processOne(ctx context.Context, index int, url string, languages []string) models.VideoResult {
	itemLog := p.log.WithFields(logrus.Fields{"index": index, "url": url})

	// Sequential fallback, not a race: callers expect priority order
	// respected because transcript quality differs by language. Stop at the
	// first attempt that returns without error; keep the last error.
	var rec *models.FetchedRecord
	var fetchErr error
	for _, lang := range languages {
		rec, fetchErr = p.fetcher.Fetch(ctx, url, lang)
		if fetchErr == nil {
			break
		}
		itemLog.WithFields(logrus.Fields{"language": lang, "error": fetchErr.Error()}).Debug("fetch attempt failed")
		rec = nil
	}

	if rec == nil {
		errMsg := "Apify failed"
		if fetchErr != nil {
			errMsg = fetchErr.Error()
		}
		return models.VideoResult{
			Index: index,
			URL:   url,
			OK:    false,
			Stage: models.StageApify,
			Error: errMsg,
		}
	}

	transcript := textutil.CompactText(rec.TranscriptText, p.maxTranscriptChars)
	if transcript == "" {
		transcript = textutil.SegmentsToText(rec.Segments, p.maxTranscriptChars)
	}

	if transcript == "" {
		return models.VideoResult{
			Index: index,
			URL:   url,
			OK:    false,
			Stage: models.StageTranscript,
			Meta: &models.VideoMeta{
				Title:       rec.Title,
				Channel:     rec.ChannelName,
				PublishedAt: rec.PublishedAt,
				Language:    rec.Language,
			},
			Error: "NO_TRANSCRIPT_RETURNED_BY_APIFY",
		}
	}

	meta := &models.VideoMeta{
		Title:           rec.Title,
		Description:     rec.Description,
		Channel:         rec.ChannelName,
		PublishedAt:     rec.PublishedAt,
		DurationSeconds: rec.DurationSeconds,
		ViewCount:       rec.ViewCount,
		LikeCount:       rec.LikeCount,
		CommentCount:    rec.CommentCount,
		Language:        rec.Language,
	}

	itemLog.WithField("transcript_chars", textutil.CharCount(transcript)).Info("transcript extracted, analyzing")

	return models.VideoResult{
		Index:           index,
		URL:             url,
		OK:              true, // fetch/transcript succeeded; analysis failures ride along
		Meta:            meta,
		TranscriptChars: textutil.CharCount(transcript),
		VideoAnalysis:   p.analyzer.Analyze(ctx, index, meta, transcript),
	}
}

// buildWarnings flattens the accountable failures, in item order: one entry
// per outer-failed item, and one per item whose analysis sub-stage failed
// even though fetch succeeded.
func buildWarnings(videos []models.VideoResult) []models.Warning {
	warnings := []models.Warning{}
	for _, v := range videos {
		if !v.OK {
			warnings = append(warnings, models.Warning{
				Index: v.Index,
				URL:   v.URL,
				Stage: v.Stage,
				Error: v.Error,
			})
			continue
		}
		if v.VideoAnalysis != nil && !v.VideoAnalysis.OK {
			warnings = append(warnings, models.Warning{
				Index: v.Index,
				URL:   v.URL,
				Stage: models.StageAnalysis,
				Error: v.VideoAnalysis.Error,
			})
		}
	}
	return warnings
}
