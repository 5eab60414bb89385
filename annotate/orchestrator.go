// Package annotate coordinates one annotation run: guard checks, provider
// selection, local-vs-remote dispatch, and reconciling the result into the
// note store.
package annotate

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"ainote-server/ai"
	"ainote-server/models"
	"ainote-server/noteerr"
)

// NoteStore is the slice of the store the orchestrator needs
type NoteStore interface {
	GetNote(ctx context.Context, id int64) (*models.Note, error)
	SetAnnotation(ctx context.Context, id int64, text, providerID string) error
}

// Dispatcher forwards annotation work to a remote endpoint that writes the
// result back itself
type Dispatcher interface {
	HasEndpoint(providerID string) bool
	Dispatch(ctx context.Context, providerID string, noteID int64, content string) error
}

// Run states, logged at each transition
type runState string

const (
	stateRequested   runState = "requested"
	stateDispatching runState = "dispatching"
	stateSucceeded   runState = "succeeded"
	stateFailed      runState = "failed"
)

// Orchestrator drives annotation requests. It is stateless between calls;
// the note row's annotation presence is the source of truth for the
// one-annotation-per-note policy.
type Orchestrator struct {
	store      NoteStore
	providers  *ai.Registry
	dispatcher Dispatcher
	logger     zerolog.Logger
}

func NewOrchestrator(store NoteStore, providers *ai.Registry, dispatcher Dispatcher, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		store:      store,
		providers:  providers,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Annotate runs one annotation request to completion. On the local path the
// provider's text is written through SetAnnotation here; on the remote path
// the remote worker has already written it by the time dispatch returns.
// Failures leave the note exactly as it was.
func (o *Orchestrator) Annotate(ctx context.Context, req models.AnnotationRequest) error {
	log := o.logger.With().
		Str("requestId", uuid.NewString()).
		Int64("noteId", req.NoteID).
		Str("provider", req.ProviderID).
		Logger()
	log.Info().Str("state", string(stateRequested)).Msg("annotation requested")

	if err := o.checkRequest(ctx, req); err != nil {
		log.Warn().Str("state", string(stateFailed)).Err(err).Msg("annotation rejected")
		return err
	}

	// Remote path when an endpoint is configured for the provider,
	// otherwise the in-process client.
	if o.dispatcher != nil && o.dispatcher.HasEndpoint(req.ProviderID) {
		log.Info().Str("state", string(stateDispatching)).Str("path", "remote").Msg("dispatching to remote endpoint")

		if err := o.dispatcher.Dispatch(ctx, req.ProviderID, req.NoteID, req.Content); err != nil {
			log.Error().Str("state", string(stateFailed)).Err(err).Msg("remote dispatch failed")
			return err
		}

		// The remote side already wrote the annotation before acking.
		log.Info().Str("state", string(stateSucceeded)).Msg("remote annotation completed")
		return nil
	}

	provider, err := o.providers.Get(req.ProviderID)
	if err != nil {
		log.Warn().Str("state", string(stateFailed)).Err(err).Msg("provider not configured")
		return err
	}

	log.Info().Str("state", string(stateDispatching)).Str("path", "local").Msg("calling provider")

	text, err := provider.Annotate(ctx, req.Content)
	if err != nil {
		log.Error().Str("state", string(stateFailed)).Err(err).Msg("provider call failed")
		return err
	}

	if err := o.store.SetAnnotation(ctx, req.NoteID, text, req.ProviderID); err != nil {
		// The note may have been deleted while the provider was running.
		log.Error().Str("state", string(stateFailed)).Err(err).Msg("annotation write failed")
		return err
	}

	log.Info().Str("state", string(stateSucceeded)).Msg("annotation stored")
	return nil
}

// checkRequest applies the entry guards: shape validation and the
// no-reannotation policy read from current store state
func (o *Orchestrator) checkRequest(ctx context.Context, req models.AnnotationRequest) error {
	if req.NoteID <= 0 {
		return noteerr.New(noteerr.KindInvalidInput, "note id is missing")
	}
	if strings.TrimSpace(req.Content) == "" {
		return noteerr.New(noteerr.KindInvalidInput, "note content is empty")
	}

	note, err := o.store.GetNote(ctx, req.NoteID)
	if err != nil {
		return err
	}
	if note.HasAnnotation() {
		return noteerr.New(noteerr.KindConflict, "note %d is already annotated by %s", note.ID, *note.AIType)
	}

	return nil
}
