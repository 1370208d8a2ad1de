// Package gemini wraps the google.golang.org/genai client: prompt text in,
// trimmed response text out, bounded by a max-output-token ceiling.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Config selects the backend. APIKey takes precedence; otherwise the client
// targets Vertex AI with Project/Location.
type Config struct {
	APIKey   string
	Project  string
	Location string
	Model    string
}

// Client is a configured generation client. Constructed once at startup and
// passed by reference into the pipeline; safe for concurrent use.
type Client struct {
	client *genai.Client
	model  string
}

// New constructs the client. Configuration problems (no API key and no
// project) surface here, at startup, not on the first request.
func New(ctx context.Context, cfg Config) (*Client, error) {
	var cc genai.ClientConfig
	switch {
	case cfg.APIKey != "":
		cc = genai.ClientConfig{APIKey: cfg.APIKey}
	case cfg.Project != "":
		cc = genai.ClientConfig{
			Backend:  genai.BackendVertexAI,
			Project:  cfg.Project,
			Location: cfg.Location,
		}
	default:
		return nil, fmt.Errorf("gemini not configured: set GEMINI_API_KEY or GOOGLE_CLOUD_PROJECT")
	}

	client, err := genai.NewClient(ctx, &cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{client: client, model: cfg.Model}, nil
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

// Generate sends one prompt and returns the trimmed response text. Each call
// is independent and stateless; repair semantics belong to the caller.
func (c *Client) Generate(ctx context.Context, prompt string, maxOutputTokens int32) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{genai.NewPartFromText(prompt)}, genai.RoleUser),
	}

	var genCfg *genai.GenerateContentConfig
	if maxOutputTokens > 0 {
		genCfg = &genai.GenerateContentConfig{MaxOutputTokens: maxOutputTokens}
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, genCfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}

	return strings.TrimSpace(result.Text()), nil
}
