package apify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

// roundTripFunc lets tests serve canned actor responses without a network.
type roundTripFunc func(req *http.Request) *http.Response

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

func newTestClient(status int, body string, capture *http.Request) *Client {
	return &Client{
		httpClient: &http.Client{
			Transport: roundTripFunc(func(req *http.Request) *http.Response {
				if capture != nil {
					*capture = *req
				}
				return &http.Response{
					StatusCode: status,
					Body:       io.NopCloser(strings.NewReader(body)),
					Header:     make(http.Header),
				}
			}),
		},
		token:   "test-token",
		actorID: DefaultActorID,
	}
}

func TestFetchMissingToken(t *testing.T) {
	c := New("", "", time.Second)
	_, err := c.Fetch(context.Background(), "https://youtu.be/abc", "en")
	if err == nil || err.Error() != "APIFY_TOKEN is missing" {
		t.Errorf("expected missing-token error, got %v", err)
	}
}

func TestFetchHTTPError(t *testing.T) {
	c := newTestClient(402, `{"error":"insufficient credit"}`, nil)
	_, err := c.Fetch(context.Background(), "https://youtu.be/abc", "en")
	if err == nil {
		t.Fatal("expected error for HTTP 402")
	}
	expected := `Apify HTTP 402: {"error":"insufficient credit"}`
	if err.Error() != expected {
		t.Errorf("error = %q, expected %q", err.Error(), expected)
	}
}

func TestFetchRequestShape(t *testing.T) {
	var captured http.Request
	c := newTestClient(200, `[{"title":"t"}]`, &captured)

	if _, err := c.Fetch(context.Background(), "https://youtu.be/abc", "ko"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if captured.Method != http.MethodPost {
		t.Errorf("method = %s, expected POST", captured.Method)
	}
	if !strings.Contains(captured.URL.Path, "starvibe~youtube-video-transcript/run-sync-get-dataset-items") {
		t.Errorf("unexpected path %s", captured.URL.Path)
	}
	q := captured.URL.Query()
	if q.Get("token") != "test-token" || q.Get("format") != "json" {
		t.Errorf("unexpected query %v", q)
	}

	body, _ := io.ReadAll(captured.Body)
	var input map[string]any
	if err := json.Unmarshal(body, &input); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if input["youtube_url"] != "https://youtu.be/abc" || input["language"] != "ko" {
		t.Errorf("unexpected actor input %v", input)
	}
	if input["include_transcript_text"] != true {
		t.Errorf("include_transcript_text = %v, expected true", input["include_transcript_text"])
	}
}

func TestFetchStandardizesAliases(t *testing.T) {
	payload := `[{
		"title": "Video Title",
		"channelName": "The Channel",
		"publishedAt": "2024-01-02",
		"duration": 321.5,
		"views": "10432",
		"likes": 99,
		"transcriptText": "hello transcript",
		"captions": [{"text": "seg one"}, {"text": "seg two"}]
	}]`

	c := newTestClient(200, payload, nil)
	rec, err := c.Fetch(context.Background(), "https://youtu.be/abc", "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.Title != "Video Title" {
		t.Errorf("Title = %q", rec.Title)
	}
	if rec.ChannelName != "The Channel" {
		t.Errorf("ChannelName = %q", rec.ChannelName)
	}
	if rec.PublishedAt != "2024-01-02" {
		t.Errorf("PublishedAt = %q", rec.PublishedAt)
	}
	if rec.DurationSeconds == nil || *rec.DurationSeconds != 321.5 {
		t.Errorf("DurationSeconds = %v", rec.DurationSeconds)
	}
	if rec.ViewCount == nil || *rec.ViewCount != 10432 {
		t.Errorf("ViewCount = %v, expected numeric string to parse", rec.ViewCount)
	}
	if rec.LikeCount == nil || *rec.LikeCount != 99 {
		t.Errorf("LikeCount = %v", rec.LikeCount)
	}
	if rec.CommentCount != nil {
		t.Errorf("CommentCount = %v, expected nil when absent", rec.CommentCount)
	}
	if rec.TranscriptText != "hello transcript" {
		t.Errorf("TranscriptText = %q", rec.TranscriptText)
	}
	if len(rec.Segments) != 2 {
		t.Errorf("Segments len = %d, expected 2", len(rec.Segments))
	}
	// Requested language backfills when the item has none.
	if rec.Language != "en" {
		t.Errorf("Language = %q, expected fallback to requested", rec.Language)
	}
	if len(rec.Raw) == 0 {
		t.Error("Raw payload not kept")
	}
}

func TestFetchBareObjectPayload(t *testing.T) {
	c := newTestClient(200, `{"title":"solo","language":"ko"}`, nil)
	rec, err := c.Fetch(context.Background(), "https://youtu.be/abc", "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Title != "solo" || rec.Language != "ko" {
		t.Errorf("unexpected record %+v", rec)
	}
}

func TestFetchBadPayloads(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty array", `[]`},
		{"array of scalars", `[1, 2]`},
		{"scalar", `42`},
		{"invalid json", `{not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(200, tt.body, nil)
			if _, err := c.Fetch(context.Background(), "https://youtu.be/abc", "en"); err == nil {
				t.Errorf("expected error for payload %s", tt.body)
			}
		})
	}
}

func TestEndpointSlashActorID(t *testing.T) {
	c := New("tok", "owner/actor-name", time.Second)
	if got := c.endpoint(); !strings.Contains(got, "/acts/owner~actor-name/") {
		t.Errorf("endpoint = %s, expected owner~actor-name", got)
	}
}
