// Package models defines the data structures used throughout the application.
//
// Models are plain structs with JSON tags. The `db` tags work with sqlx for
// database column mapping on the history records.
package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Stage identifies which pipeline stage produced a per-video failure.
type Stage string

const (
	// StageApify means every language-priority fetch attempt failed.
	StageApify Stage = "apify"
	// StageTranscript means the fetch succeeded but no usable transcript
	// text could be derived.
	StageTranscript Stage = "transcript"
	// StageAnalysis means the per-video Gemini analysis failed even after
	// the single repair attempt. The item itself still reports ok=true.
	StageAnalysis Stage = "gemini_video_analysis"
)

// MaxConcurrency is the hard cap on simultaneously in-flight video pipelines.
const MaxConcurrency = 20

// StringList accepts either a JSON array of strings or a single string.
// Automation tools sometimes send "urls" as one newline-separated string.
type StringList []string

// UnmarshalJSON implements flexible decoding for StringList.
func (s *StringList) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*s = arr
		return nil
	}
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*s = []string{one}
		return nil
	}
	var null *struct{}
	if err := json.Unmarshal(data, &null); err == nil {
		*s = nil
		return nil
	}
	return fmt.Errorf("expected string or array of strings, got %s", string(data))
}

// AnalyzeRequest is the JSON body for POST /analyze_and_profile.
// The handler also accepts the legacy key "languages_priority" for
// "languages" and a JSON-encoded string body wrapping the object.
type AnalyzeRequest struct {
	URLs               StringList `json:"urls"`
	Languages          StringList `json:"languages"`
	Concurrency        int        `json:"concurrency"`
	MakeChannelProfile *bool      `json:"make_channel_profile"`
}

// BatchInput is the validated, normalized form of one analysis request.
// Created once per request; immutable thereafter.
type BatchInput struct {
	URLs               []string
	Languages          []string
	Concurrency        int
	MakeChannelProfile bool
}

// FetchedRecord is the standardized transcript-provider response for one
// video. All metadata fields are optional; numeric counts stay nil when the
// provider omits them. Raw keeps the untouched provider payload for
// diagnostics only.
type FetchedRecord struct {
	Title           string
	Description     string
	ChannelName     string
	PublishedAt     string
	DurationSeconds *float64
	ViewCount       *float64
	LikeCount       *float64
	CommentCount    *float64
	Language        string
	TranscriptText  string
	Segments        []any
	Raw             json.RawMessage
}

// VideoMeta is the metadata subset echoed back per video.
type VideoMeta struct {
	Title           string   `json:"title"`
	Description     string   `json:"description,omitempty"`
	Channel         string   `json:"channel"`
	PublishedAt     string   `json:"published_at"`
	DurationSeconds *float64 `json:"duration_seconds,omitempty"`
	ViewCount       *float64 `json:"view_count,omitempty"`
	LikeCount       *float64 `json:"like_count,omitempty"`
	CommentCount    *float64 `json:"comment_count,omitempty"`
	Language        string   `json:"language"`
}

// VideoAnalysis is the per-video generation sub-result. OK=false carries the
// error plus up to 1200 characters of the best-effort model text.
type VideoAnalysis struct {
	OK    bool   `json:"ok"`
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
}

// VideoResult is the tagged outcome for one input URL. Exactly one per URL;
// Index is the 1-based position in the deduplicated input list.
//
// OK reflects fetch/transcript success only: an item whose analysis failed
// twice still reports OK=true with a failed VideoAnalysis attached, because
// downstream consumers re-check the inner flag separately.
type VideoResult struct {
	Index           int            `json:"index"`
	URL             string         `json:"url"`
	OK              bool           `json:"ok"`
	Stage           Stage          `json:"stage,omitempty"`
	Error           string         `json:"error,omitempty"`
	Meta            *VideoMeta     `json:"meta,omitempty"`
	TranscriptChars int            `json:"transcript_chars,omitempty"`
	VideoAnalysis   *VideoAnalysis `json:"videoAnalysis,omitempty"`
}

// ProfileResult is the channel-profile synthesis outcome. At most one per
// request; null in the response when profiling was not requested.
type ProfileResult struct {
	OK    bool   `json:"ok"`
	Model string `json:"model,omitempty"`
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
}

// Warning is one accountable per-video failure, in item order.
type Warning struct {
	Index int    `json:"index"`
	URL   string `json:"url"`
	Stage Stage  `json:"stage"`
	Error string `json:"error"`
}

// AnalyzeResponse is the consolidated result document for one request.
// len(Videos) always equals the number of deduplicated input URLs, and
// ordering matches input order.
type AnalyzeResponse struct {
	OK             bool           `json:"ok"`
	Count          int            `json:"count"`
	Videos         []VideoResult  `json:"videos"`
	ChannelProfile *ProfileResult `json:"channelProfile"`
	Warnings       []Warning      `json:"warnings"`
}

// AnalysisRecord is one saved request summary in the optional history store.
type AnalysisRecord struct {
	ID           string          `json:"id" db:"id"`
	URLCount     int             `json:"url_count" db:"url_count"`
	OKCount      int             `json:"ok_count" db:"ok_count"`
	WarningCount int             `json:"warning_count" db:"warning_count"`
	ProfileOK    *bool           `json:"profile_ok,omitempty" db:"profile_ok"`
	Response     json.RawMessage `json:"response" db:"response"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}

// ErrorResponse is a standard error format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	OK      bool   `json:"ok"`
	Version string `json:"version"`
	History string `json:"history"`
}
