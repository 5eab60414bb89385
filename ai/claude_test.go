package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ainote-server/noteerr"
)

func TestClaudeAnnotate(t *testing.T) {
	var gotReq claudeRequest
	var gotKey, gotVersion string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"content": []map[string]string{{"type": "text", "text": "EKS를 공부해 보세요..."}},
		})
	}))
	defer server.Close()

	client := NewClaudeClient("test-key").WithBaseURL(server.URL)

	text, err := client.Annotate(context.Background(), "studied load balancers")
	require.NoError(t, err)
	assert.Equal(t, "EKS를 공부해 보세요...", text)

	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, claudeAPIVersion, gotVersion)
	assert.Equal(t, claudeModel, gotReq.Model)
	assert.Equal(t, claudeMaxTokens, gotReq.MaxTokens)
	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, "user", gotReq.Messages[0].Role)
	assert.Contains(t, gotReq.Messages[0].Content[0].Text, "studied load balancers")
}

func TestClaudeAnnotateMissingKey(t *testing.T) {
	client := NewClaudeClient("")

	_, err := client.Annotate(context.Background(), "anything")
	require.Error(t, err)
	assert.Equal(t, noteerr.KindConfiguration, noteerr.KindOf(err))
}

func TestClaudeAnnotateAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"type": "error",
			"error": map[string]string{
				"type":    "invalid_request_error",
				"message": "max_tokens is too large",
			},
		})
	}))
	defer server.Close()

	client := NewClaudeClient("test-key").WithBaseURL(server.URL)

	_, err := client.Annotate(context.Background(), "anything")
	require.Error(t, err)
	assert.Equal(t, noteerr.KindProviderFailure, noteerr.KindOf(err))
	assert.Contains(t, err.Error(), "max_tokens is too large")
}

func TestRegistryLookup(t *testing.T) {
	registry := NewRegistry()
	registry.Register(NewGeminiClient("key"))
	registry.Register(NewClaudeClient("key"))

	p, err := registry.Get(ProviderGemini)
	require.NoError(t, err)
	assert.Equal(t, ProviderGemini, p.ID())

	_, err = registry.Get("gpt")
	require.Error(t, err)
	assert.Equal(t, noteerr.KindConfiguration, noteerr.KindOf(err))

	assert.ElementsMatch(t, []string{ProviderGemini, ProviderClaude}, registry.IDs())
}
