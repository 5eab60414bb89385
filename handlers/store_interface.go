package handlers

import (
	"context"

	"ainote-server/models"
)

// NoteStore defines the store operations the API surface needs
type NoteStore interface {
	CreateNote(ctx context.Context, userContent string) (*models.Note, error)
	GetNote(ctx context.Context, id int64) (*models.Note, error)
	ListNotes(ctx context.Context) ([]models.Note, error)
	DeleteNote(ctx context.Context, id int64) error
	DeleteAllNotes(ctx context.Context) (int64, error)
	SetAnnotation(ctx context.Context, id int64, text, providerID string) error
	Ping() error
	Close() error
}

// Annotator runs one annotation request end to end
type Annotator interface {
	Annotate(ctx context.Context, req models.AnnotationRequest) error
}
