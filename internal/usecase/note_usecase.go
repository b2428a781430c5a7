package usecase

import (
	"context"

	"knowledgeos/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// FileUpload carries the raw binary of an uploaded original.
type FileUpload struct {
	Name     string
	MIMEType string
	Data     []byte
}

// IngestInput defines the data required to capture a new note.
type IngestInput struct {
	OwnerID uuid.UUID
	Mode    entity.NoteMode
	Title   string
	Content string // Raw text for text mode, target address for url mode.
	Tags    []string
	File    *FileUpload // Present only for file mode.
}

// --- Output DTOs ---

// Purge stage outcomes reported per collaborator.
const (
	PurgeOutcomePurged  = "purged"
	PurgeOutcomeSkipped = "skipped"
)

// PurgeReport records what each stage of a completed permanent delete did.
// It only exists for fully successful purges; a failed stage aborts the
// protocol with an error instead.
type PurgeReport struct {
	Vector   string `json:"vector_index"`
	Storage  string `json:"object_storage"`
	Metadata string `json:"metadata"`
}

// NoteUsecase defines the interface for the note lifecycle short of
// permanent deletion.
type NoteUsecase interface {
	// Ingest captures a note: stores the original, derives text and
	// summary, records metadata and indexes the extracted text.
	Ingest(ctx context.Context, input *IngestInput) (*entity.Note, error)

	// List returns every note owned by the user, newest first, across all
	// lifecycle states.
	List(ctx context.Context, ownerID uuid.UUID) ([]*entity.Note, error)

	// SoftDelete moves a note to the recycle bin. Repeating it on an
	// already soft-deleted note succeeds without change.
	SoftDelete(ctx context.Context, ownerID, noteID uuid.UUID) (*entity.Note, error)

	// Restore brings a soft-deleted note back to the active state.
	Restore(ctx context.Context, ownerID, noteID uuid.UUID) (*entity.Note, error)
}

// PurgeUsecase runs the multi-store permanent delete protocol. It is a
// separate contract because its failure semantics differ from every other
// operation: external stores are cleaned strictly before metadata, and any
// stage failure keeps the record intact.
type PurgeUsecase interface {
	// PermanentDelete erases a note from the vector index, object storage
	// and metadata store, in that order.
	PermanentDelete(ctx context.Context, ownerID, noteID uuid.UUID) (*PurgeReport, error)
}
