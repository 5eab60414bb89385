package dispatch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ainote-server/models"
	"ainote-server/noteerr"
)

func TestDispatchSendsPayloadAndAcceptsAck(t *testing.T) {
	var got models.InvokeRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		json.NewEncoder(w).Encode(models.InvokeResponse{Message: "annotation stored"})
	}))
	defer server.Close()

	client := NewClient(map[string]string{"gemini": server.URL})

	err := client.Dispatch(context.Background(), "gemini", 42, "studied TCP handshake")
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.NoteID)
	assert.Equal(t, "studied TCP handshake", got.Content)
}

func TestDispatchMissingEndpoint(t *testing.T) {
	client := NewClient(map[string]string{"gemini": "http://worker.invalid"})

	assert.True(t, client.HasEndpoint("gemini"))
	assert.False(t, client.HasEndpoint("claude"))

	err := client.Dispatch(context.Background(), "claude", 1, "content")
	require.Error(t, err)
	assert.Equal(t, noteerr.KindConfiguration, noteerr.KindOf(err))
}

func TestDispatchRemoteFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "model exploded"})
	}))
	defer server.Close()

	client := NewClient(map[string]string{"claude": server.URL})

	err := client.Dispatch(context.Background(), "claude", 7, "content")
	require.Error(t, err)
	assert.Equal(t, noteerr.KindProviderFailure, noteerr.KindOf(err))
	assert.Contains(t, err.Error(), "model exploded")
}

func TestDispatchUnreachableEndpoint(t *testing.T) {
	// A closed server: connection refused must come back as a typed
	// failure, never a panic
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(map[string]string{"gemini": url})

	err := client.Dispatch(context.Background(), "gemini", 7, "content")
	require.Error(t, err)
	assert.Equal(t, noteerr.KindProviderFailure, noteerr.KindOf(err))
}
