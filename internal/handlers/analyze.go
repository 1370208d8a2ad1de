package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vibelab/channel-dna-api/internal/models"
	"github.com/vibelab/channel-dna-api/internal/textutil"
)

// maxBodyBytes caps the request body. Transcript URLs are short; anything
// near this limit is a caller bug.
const maxBodyBytes = 1 << 20

// AnalyzeAndProfile handles POST /analyze_and_profile: fetch transcripts for
// each URL, analyze each video, and optionally synthesize a channel profile.
//
// The body is lenient in two ways automation callers depend on: a JSON string
// wrapping the object is unwrapped and decoded again, and the legacy key
// "languages_priority" is honored when "languages" is absent.
func (h *Handler) AnalyzeAndProfile(c *gin.Context) {
	log := h.log.WithRequest(c.Request)

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		h.requestError(c, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	req, errMsg, status := decodeAnalyzeRequest(body)
	if errMsg != "" {
		h.requestError(c, status, errMsg)
		return
	}

	if req.Concurrency < 0 || req.Concurrency > models.MaxConcurrency {
		h.requestError(c, http.StatusUnprocessableEntity, "concurrency must be between 1 and 20")
		return
	}

	urls := textutil.NormalizeURLs(req.URLs)
	if len(urls) == 0 {
		h.requestError(c, http.StatusBadRequest, "urls is empty")
		return
	}

	concurrency := req.Concurrency
	if concurrency == 0 {
		concurrency = h.defaultConcurrency
	}

	makeProfile := true
	if req.MakeChannelProfile != nil {
		makeProfile = *req.MakeChannelProfile
	}

	in := &models.BatchInput{
		URLs:               urls,
		Languages:          textutil.PickLanguagePriority(req.Languages),
		Concurrency:        concurrency,
		MakeChannelProfile: makeProfile,
	}

	log.WithField("url_count", len(in.URLs)).WithField("concurrency", in.Concurrency).
		Info("starting batch analysis")

	resp := h.runner.Run(c.Request.Context(), in)

	if h.store != nil {
		h.saveHistory(resp)
	}

	c.JSON(http.StatusOK, resp)
}

// decodeAnalyzeRequest decodes the body, unwrapping a string-encoded object
// and mapping the legacy languages key. On error the message is non-empty
// and status distinguishes malformed bodies (400) from well-formed objects
// whose fields violate the schema (422).
func decodeAnalyzeRequest(body []byte) (*models.AnalyzeRequest, string, int) {
	var probe any
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, "Invalid JSON body", http.StatusBadRequest
	}

	if s, ok := probe.(string); ok {
		body = []byte(s)
		if err := json.Unmarshal(body, &probe); err != nil {
			return nil, "Body was a string but not valid JSON", http.StatusBadRequest
		}
	}

	raw, ok := probe.(map[string]any)
	if !ok {
		return nil, "Body must be a JSON object", http.StatusBadRequest
	}

	var req models.AnalyzeRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, err.Error(), http.StatusUnprocessableEntity
	}

	if len(req.Languages) == 0 {
		if legacy, present := raw["languages_priority"]; present {
			if encoded, err := json.Marshal(legacy); err == nil {
				var langs models.StringList
				if err := json.Unmarshal(encoded, &langs); err == nil {
					req.Languages = langs
				}
			}
		}
	}

	return &req, "", 0
}

// saveHistory records the request summary. Failures are logged, never
// surfaced: history is an audit trail, not part of the response contract.
func (h *Handler) saveHistory(resp *models.AnalyzeResponse) {
	payload, err := json.Marshal(resp)
	if err != nil {
		h.log.WithError(err).Error("failed to encode response for history")
		return
	}

	okCount := 0
	for _, v := range resp.Videos {
		if v.OK {
			okCount++
		}
	}

	rec := &models.AnalysisRecord{
		ID:           uuid.New().String(),
		URLCount:     resp.Count,
		OKCount:      okCount,
		WarningCount: len(resp.Warnings),
		Response:     payload,
	}
	if resp.ChannelProfile != nil {
		profileOK := resp.ChannelProfile.OK
		rec.ProfileOK = &profileOK
	}

	// The request context may already be done; use a fresh one.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := h.store.CreateAnalysisRecord(ctx, rec); err != nil {
		h.log.WithError(err).Error("failed to save analysis record")
	}
}

func (h *Handler) requestError(c *gin.Context, status int, message string) {
	kind := "bad_request"
	if status == http.StatusUnprocessableEntity {
		kind = "validation_error"
	}
	c.JSON(status, models.ErrorResponse{
		Error:   kind,
		Message: message,
		Code:    status,
	})
}
