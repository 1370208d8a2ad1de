// Package apify calls the Apify transcript actor and standardizes its
// response into a FetchedRecord.
//
// The actor's run-sync endpoint returns the dataset items directly (usually
// a JSON array; occasionally a bare object). Field names vary between actor
// versions, so standardization absorbs a fixed list of alternate spellings
// per logical field, first present wins.
package apify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vibelab/channel-dna-api/internal/models"
)

// DefaultActorID is the transcript actor used when none is configured.
const DefaultActorID = "starvibe~youtube-video-transcript"

// Ordered candidate field names per logical attribute. Kept as static data
// rather than inline conditionals so the absorption list is testable and
// easy to extend.
var (
	channelAliases        = []string{"channel_name", "channelName", "channel"}
	publishedAtAliases    = []string{"published_at", "publishedAt"}
	durationAliases       = []string{"duration_seconds", "duration"}
	viewCountAliases      = []string{"view_count", "views"}
	likeCountAliases      = []string{"like_count", "likes"}
	commentCountAliases   = []string{"comment_count", "commentsCount"}
	transcriptTextAliases = []string{"transcript_text", "transcriptText", "text"}
	segmentsAliases       = []string{"transcript", "captions", "segments"}
)

// Client talks to one Apify actor. Safe for concurrent use.
type Client struct {
	httpClient *http.Client
	token      string
	actorID    string
}

// New creates an actor client. The timeout bounds each individual fetch
// attempt; the language-priority walk issues one attempt per language.
func New(token, actorID string, timeout time.Duration) *Client {
	if actorID == "" {
		actorID = DefaultActorID
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		token:      token,
		actorID:    actorID,
	}
}

// endpoint builds the run-sync-get-dataset-items URL. Actor IDs may be
// written "owner/name"; the API path wants "owner~name".
func (c *Client) endpoint() string {
	actor := strings.ReplaceAll(c.actorID, "/", "~")
	return fmt.Sprintf("https://api.apify.com/v2/acts/%s/run-sync-get-dataset-items", actor)
}

type actorInput struct {
	YouTubeURL            string `json:"youtube_url"`
	Language              string `json:"language"`
	IncludeTranscriptText bool   `json:"include_transcript_text"`
}

// Fetch runs the actor once for the given URL and language and standardizes
// the first dataset item. Any HTTP status >= 400 is a failure carrying the
// response body as error detail.
func (c *Client) Fetch(ctx context.Context, youtubeURL, language string) (*models.FetchedRecord, error) {
	if c.token == "" {
		return nil, fmt.Errorf("APIFY_TOKEN is missing")
	}

	body, err := json.Marshal(actorInput{
		YouTubeURL:            youtubeURL,
		Language:              language,
		IncludeTranscriptText: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal actor input: %w", err)
	}

	params := url.Values{}
	params.Set("token", c.token)
	params.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.endpoint()+"?"+params.Encode(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("apify request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read apify response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("Apify HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	item, err := firstItem(respBody)
	if err != nil {
		return nil, err
	}

	return standardize(item, language), nil
}

// firstItem unwraps the dataset payload: a JSON array yields its first
// object, a bare object is used as-is, anything else is an error.
func firstItem(payload []byte) (map[string]any, error) {
	var decoded any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, fmt.Errorf("apify returned invalid JSON: %w", err)
	}

	switch v := decoded.(type) {
	case []any:
		if len(v) > 0 {
			if obj, ok := v[0].(map[string]any); ok {
				return obj, nil
			}
		}
		return nil, fmt.Errorf("apify returned unexpected payload: empty or non-object array")
	case map[string]any:
		return v, nil
	default:
		return nil, fmt.Errorf("apify returned unexpected payload: %T", decoded)
	}
}

// standardize maps a raw actor item into a FetchedRecord, absorbing the
// known field-name variants and defaulting everything to empty/nil.
func standardize(item map[string]any, language string) *models.FetchedRecord {
	raw, _ := json.Marshal(item)

	rec := &models.FetchedRecord{
		Title:           firstString(item, "title"),
		Description:     firstString(item, "description"),
		ChannelName:     firstString(item, channelAliases...),
		PublishedAt:     firstString(item, publishedAtAliases...),
		DurationSeconds: firstNumber(item, durationAliases...),
		ViewCount:       firstNumber(item, viewCountAliases...),
		LikeCount:       firstNumber(item, likeCountAliases...),
		CommentCount:    firstNumber(item, commentCountAliases...),
		Language:        firstString(item, "language"),
		TranscriptText:  firstString(item, transcriptTextAliases...),
		Raw:             raw,
	}
	if rec.Language == "" {
		rec.Language = language
	}
	for _, key := range segmentsAliases {
		if segs, ok := item[key].([]any); ok && len(segs) > 0 {
			rec.Segments = segs
			break
		}
	}
	return rec
}

func firstString(item map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := item[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func firstNumber(item map[string]any, keys ...string) *float64 {
	for _, key := range keys {
		switch v := item[key].(type) {
		case float64:
			return &v
		case string:
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}
