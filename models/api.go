package models

// AnnotationRequest is the ephemeral payload of one annotation run.
// It is never persisted; the note row is the source of truth.
type AnnotationRequest struct {
	NoteID     int64  `json:"noteId"`
	Content    string `json:"content"`
	ProviderID string `json:"providerId"`
}

// CreateNoteRequest is the body of POST /notes
type CreateNoteRequest struct {
	Content string `json:"content"`
}

// CreateNoteResponse is the body returned on a successful create
type CreateNoteResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

// DeleteAllResponse reports how many notes a bulk delete removed
type DeleteAllResponse struct {
	Message      string `json:"message"`
	DeletedCount int64  `json:"deletedCount"`
}

// InvokeRequest is the payload the server sends to a remote annotation
// worker, and the body the worker accepts on POST /invoke.
type InvokeRequest struct {
	Content string `json:"content"`
	NoteID  int64  `json:"noteId"`
}

// InvokeResponse is the worker's synchronous ack. By the time it is sent
// the worker has already written the annotation to the shared store.
type InvokeResponse struct {
	Message        string `json:"message"`
	AnnotationText string `json:"annotationText,omitempty"`
}
