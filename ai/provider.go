// Package ai holds the annotation provider clients. Each backend is one
// client type behind the Provider interface; adding a backend means adding
// a file and a registry entry.
package ai

import (
	"context"
	"fmt"

	"ainote-server/noteerr"
)

// Known provider ids. These match the ai_type enum in the notes table.
const (
	ProviderGemini = "gemini"
	ProviderClaude = "claude"
)

// DefaultPrompt is the instructional template wrapped around the user's
// note. The response-language and minimum-length constraints live in the
// template itself, so swapping it is a configuration change.
const DefaultPrompt = `You are an expert in AWS. Based on the data provided by the user, suggest one AWS service that the user can additionally learn. Ensure the response is at least three sentences long and in Korean.

User input: %s`

// Provider generates an annotation for a note's content. A single call, no
// retries; every backend error comes back as a typed failure.
type Provider interface {
	ID() string
	Annotate(ctx context.Context, userContent string) (string, error)
}

// Registry maps provider ids to their clients
type Registry struct {
	providers map[string]Provider
}

func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// Register adds a provider to the registry, replacing any previous entry
// with the same id
func (r *Registry) Register(p Provider) {
	r.providers[p.ID()] = p
}

// Get looks up a provider by id. Unknown ids are a configuration failure,
// reported before any network call is made.
func (r *Registry) Get(id string) (Provider, error) {
	p, ok := r.providers[id]
	if !ok {
		return nil, noteerr.New(noteerr.KindConfiguration, "no provider configured for %q", id)
	}
	return p, nil
}

// IDs returns the registered provider ids
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.providers))
	for id := range r.providers {
		ids = append(ids, id)
	}
	return ids
}

func buildPrompt(template, userContent string) string {
	return fmt.Sprintf(template, userContent)
}
