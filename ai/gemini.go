package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"ainote-server/noteerr"
)

const (
	geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"
	geminiModel   = "gemini-1.5-flash"
	geminiTimeout = 60 * time.Second
)

// GeminiClient calls the Google Generative Language API
type GeminiClient struct {
	apiKey  string
	baseURL string
	model   string
	prompt  string
	client  *http.Client
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type geminiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// NewGeminiClient creates a Gemini provider with the default model and
// prompt template
func NewGeminiClient(apiKey string) *GeminiClient {
	return &GeminiClient{
		apiKey:  apiKey,
		baseURL: geminiBaseURL,
		model:   geminiModel,
		prompt:  DefaultPrompt,
		client:  &http.Client{Timeout: geminiTimeout},
	}
}

// WithBaseURL overrides the API endpoint. Used by tests.
func (c *GeminiClient) WithBaseURL(url string) *GeminiClient {
	c.baseURL = url
	return c
}

// WithPrompt overrides the prompt template
func (c *GeminiClient) WithPrompt(template string) *GeminiClient {
	c.prompt = template
	return c
}

func (c *GeminiClient) ID() string {
	return ProviderGemini
}

// Annotate sends the prompt-wrapped content to Gemini and returns the
// generated text
func (c *GeminiClient) Annotate(ctx context.Context, userContent string) (string, error) {
	if c.apiKey == "" {
		return "", noteerr.New(noteerr.KindConfiguration, "GEMINI_API_KEY not set")
	}

	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: buildPrompt(c.prompt, userContent)}}},
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", noteerr.Wrap(noteerr.KindProviderFailure, err, "marshaling gemini request")
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return "", noteerr.Wrap(noteerr.KindProviderFailure, err, "creating gemini request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", noteerr.Wrap(noteerr.KindProviderFailure, err, "calling gemini")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", noteerr.Wrap(noteerr.KindProviderFailure, err, "reading gemini response")
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr geminiError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			return "", noteerr.New(noteerr.KindProviderFailure, "gemini API error (%d): %s", resp.StatusCode, apiErr.Error.Message)
		}
		return "", noteerr.New(noteerr.KindProviderFailure, "gemini API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var geminiResp geminiResponse
	if err := json.Unmarshal(respBody, &geminiResp); err != nil {
		return "", noteerr.Wrap(noteerr.KindProviderFailure, err, "decoding gemini response")
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", noteerr.New(noteerr.KindProviderFailure, "gemini returned no candidates")
	}

	return geminiResp.Candidates[0].Content.Parts[0].Text, nil
}
