// Package dispatch forwards annotation work to a remote compute endpoint
// (one URL per provider, e.g. a Lambda function URL). The remote side runs
// the provider itself and writes the annotation straight into the shared
// notes store before acknowledging, so a successful Dispatch means the
// round trip including the database write has already completed.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"ainote-server/models"
	"ainote-server/noteerr"
)

const dispatchTimeout = 120 * time.Second

// Client sends annotation requests to per-provider remote endpoints
type Client struct {
	endpoints map[string]string
	client    *http.Client
}

// NewClient creates a dispatcher over the provider id -> endpoint URL map.
// Providers without an entry can only be annotated in-process.
func NewClient(endpoints map[string]string) *Client {
	return &Client{
		endpoints: endpoints,
		client:    &http.Client{Timeout: dispatchTimeout},
	}
}

// HasEndpoint reports whether a remote endpoint is configured for the
// provider
func (c *Client) HasEndpoint(providerID string) bool {
	return c.endpoints[providerID] != ""
}

// Dispatch forwards {content, noteId} to the provider's endpoint and waits
// for the synchronous ack. No local store write follows: the remote worker
// has already called SetAnnotation by the time it acknowledges. If the
// worker dies after generating the annotation but before its write, the
// result is lost; there is no write-back retry protocol.
func (c *Client) Dispatch(ctx context.Context, providerID string, noteID int64, content string) error {
	url := c.endpoints[providerID]
	if url == "" {
		return noteerr.New(noteerr.KindConfiguration, "no remote endpoint configured for provider %q", providerID)
	}

	payload := models.InvokeRequest{
		Content: content,
		NoteID:  noteID,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return noteerr.Wrap(noteerr.KindProviderFailure, err, "marshaling dispatch payload")
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return noteerr.Wrap(noteerr.KindProviderFailure, err, "creating dispatch request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return noteerr.Wrap(noteerr.KindProviderFailure, err, "calling remote endpoint for "+providerID)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return noteerr.Wrap(noteerr.KindProviderFailure, err, "reading dispatch response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return noteerr.New(noteerr.KindProviderFailure, "remote endpoint for %s returned %d: %s", providerID, resp.StatusCode, string(respBody))
	}

	return nil
}
