// Package vision implements the image risk oracle on top of a hosted
// vision-model API.
package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/saferoute/saferoute/internal/provider/resilience"
	"github.com/saferoute/saferoute/internal/risk"
)

const (
	// ProviderName identifies this oracle provider.
	ProviderName = "vision"

	// DefaultBaseURL is the vision model API base URL.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// DefaultModel is the vision model used for assessments.
	DefaultModel = "gemini-2.0-flash"
)

const assessmentPrompt = `You are a road safety analyst. Assess the driving risk visible in this street-level image%s.
Reply with exactly three lines:
Risk Score: <integer 0-100>
Explanation: <one sentence>
Precaution: <one sentence>`

// ClientConfig holds configuration for the vision oracle client.
type ClientConfig struct {
	// APIKey is the vision API key (required).
	APIKey string

	// BaseURL is the API base URL (optional).
	BaseURL string

	// Model is the model identifier (optional).
	Model string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client calls the vision model API to assess one image at a time.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a vision oracle client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.ClientConfig{Name: ProviderName})
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		model:      model,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// AssessImage scores a single image reference, optionally shaped by a
// contextual hint (current weather, time of day). The reply text is parsed
// tolerantly; transport and decode failures are returned as errors for the
// batch scorer to degrade.
func (c *Client) AssessImage(ctx context.Context, imageRef, hint string) (risk.ScoreResult, error) {
	contextNote := ""
	if hint != "" {
		contextNote = fmt.Sprintf(" (context: %s)", hint)
	}

	body := generateRequest{
		Contents: []content{{
			Parts: []part{
				{Text: fmt.Sprintf(assessmentPrompt, contextNote)},
				{FileData: &fileData{MimeType: "image/jpeg", FileURI: imageRef}},
			},
		}},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return risk.ScoreResult{}, fmt.Errorf("encoding request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return risk.ScoreResult{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return risk.ScoreResult{}, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return risk.ScoreResult{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return risk.ScoreResult{}, fmt.Errorf("decoding response: %w", err)
	}

	text := genResp.text()
	if text == "" {
		return risk.ScoreResult{}, fmt.Errorf("%w: empty reply", risk.ErrOracleUnavailable)
	}

	return risk.ParseAssessment(text), nil
}

// Vision model API request/response structures.

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text     string    `json:"text,omitempty"`
	FileData *fileData `json:"file_data,omitempty"`
}

type fileData struct {
	MimeType string `json:"mime_type"`
	FileURI  string `json:"file_uri"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (r *generateResponse) text() string {
	if len(r.Candidates) == 0 || len(r.Candidates[0].Content.Parts) == 0 {
		return ""
	}
	return r.Candidates[0].Content.Parts[0].Text
}
