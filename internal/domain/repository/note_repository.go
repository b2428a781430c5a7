package repository

import (
	"context"
	"errors"

	"knowledgeos/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrNoteNotFound is returned when no note matches the id within the owner's
// scope. An existing note owned by somebody else is indistinguishable from a
// missing one at this layer.
var ErrNoteNotFound = errors.New("note not found")

// NoteRepository defines the standard operations for note persistence.
// Every lookup and mutation is owner-scoped: ownerID is a mandatory filter,
// never an optional hint. This is the single isolation guard for note data;
// no caller gets an unscoped accessor to drift away from it.
type NoteRepository interface {
	// Create persists a new note entity to the storage.
	Create(ctx context.Context, note *entity.Note) error

	// FindOwned retrieves a single note by id, restricted to the given owner.
	FindOwned(ctx context.Context, ownerID, noteID uuid.UUID) (*entity.Note, error)

	// ListByOwner returns all notes owned by ownerID, newest first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Note, error)

	// Update modifies an existing note. The note's OwnerID must match the
	// stored record; implementations must not allow ownership to change.
	Update(ctx context.Context, note *entity.Note) error

	// Delete removes the note from the live collection, restricted to the
	// given owner. Returns ErrNoteNotFound when nothing matched.
	Delete(ctx context.Context, ownerID, noteID uuid.UUID) error
}
