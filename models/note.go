package models

import (
	"time"
)

// Note represents a stored study note with its optional AI annotation
type Note struct {
	ID          int64     `json:"id"`
	UserContent string    `json:"userContent"`
	AINote      *string   `json:"annotationText,omitempty"`
	AIType      *string   `json:"annotationProvider,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// HasAnnotation reports whether an AI annotation has been attached.
// AINote and AIType are always set together.
func (n *Note) HasAnnotation() bool {
	return n.AINote != nil && n.AIType != nil
}
