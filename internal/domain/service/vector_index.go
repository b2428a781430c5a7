package service

import (
	"context"

	"github.com/google/uuid"
)

// VectorIndex is the narrow contract to the external semantic index.
// Only a note's extracted text is ever indexed, keyed by note id. How the
// index computes embeddings is outside this core's scope.
type VectorIndex interface {
	// Index registers or replaces the embedding for a note's extracted text.
	Index(ctx context.Context, noteID uuid.UUID, text string) error

	// Remove deletes the embedding indexed under the note id. Removing an
	// id that was never indexed is a success; purge must be retryable.
	Remove(ctx context.Context, noteID uuid.UUID) error
}
