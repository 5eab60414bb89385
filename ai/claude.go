package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"ainote-server/noteerr"
)

const (
	claudeBaseURL    = "https://api.anthropic.com/v1/messages"
	claudeModel      = "claude-3-5-sonnet-20240620"
	claudeMaxTokens  = 1000
	claudeAPIVersion = "2023-06-01"
	claudeTimeout    = 60 * time.Second
)

// ClaudeClient calls the Anthropic Messages API
type ClaudeClient struct {
	apiKey  string
	baseURL string
	model   string
	prompt  string
	client  *http.Client
}

type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Messages  []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string        `json:"role"`
	Content []claudeBlock `json:"content"`
}

type claudeBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type claudeResponse struct {
	Content []claudeBlock `json:"content"`
}

type claudeError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewClaudeClient creates a Claude provider with the default model and
// prompt template
func NewClaudeClient(apiKey string) *ClaudeClient {
	return &ClaudeClient{
		apiKey:  apiKey,
		baseURL: claudeBaseURL,
		model:   claudeModel,
		prompt:  DefaultPrompt,
		client:  &http.Client{Timeout: claudeTimeout},
	}
}

// WithBaseURL overrides the API endpoint. Used by tests.
func (c *ClaudeClient) WithBaseURL(url string) *ClaudeClient {
	c.baseURL = url
	return c
}

// WithPrompt overrides the prompt template
func (c *ClaudeClient) WithPrompt(template string) *ClaudeClient {
	c.prompt = template
	return c
}

func (c *ClaudeClient) ID() string {
	return ProviderClaude
}

// Annotate sends the prompt-wrapped content to Claude and returns the
// generated text
func (c *ClaudeClient) Annotate(ctx context.Context, userContent string) (string, error) {
	if c.apiKey == "" {
		return "", noteerr.New(noteerr.KindConfiguration, "ANTHROPIC_API_KEY not set")
	}

	reqBody := claudeRequest{
		Model:     c.model,
		MaxTokens: claudeMaxTokens,
		Messages: []claudeMessage{
			{
				Role: "user",
				Content: []claudeBlock{
					{Type: "text", Text: buildPrompt(c.prompt, userContent)},
				},
			},
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", noteerr.Wrap(noteerr.KindProviderFailure, err, "marshaling claude request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", noteerr.Wrap(noteerr.KindProviderFailure, err, "creating claude request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", claudeAPIVersion)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", noteerr.Wrap(noteerr.KindProviderFailure, err, "calling claude")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", noteerr.Wrap(noteerr.KindProviderFailure, err, "reading claude response")
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr claudeError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			return "", noteerr.New(noteerr.KindProviderFailure, "claude API error (%d): %s", resp.StatusCode, apiErr.Error.Message)
		}
		return "", noteerr.New(noteerr.KindProviderFailure, "claude API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var claudeResp claudeResponse
	if err := json.Unmarshal(respBody, &claudeResp); err != nil {
		return "", noteerr.Wrap(noteerr.KindProviderFailure, err, "decoding claude response")
	}

	if len(claudeResp.Content) == 0 || claudeResp.Content[0].Text == "" {
		return "", noteerr.New(noteerr.KindProviderFailure, "claude returned no content")
	}

	return claudeResp.Content[0].Text, nil
}
