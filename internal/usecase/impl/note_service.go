package impl

import (
	"context"
	"fmt"
	"log/slog"

	deliverycontext "knowledgeos/internal/delivery/context"
	"knowledgeos/internal/domain/entity"
	domainerrors "knowledgeos/internal/domain/errors"
	"knowledgeos/internal/domain/repository"
	"knowledgeos/internal/domain/service"
	"knowledgeos/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// noteService implements the NoteUsecase interface.
type noteService struct {
	noteRepo       repository.NoteRepository
	objectStorage  service.ObjectStorage
	extractor      service.Extractor
	vectorIndex    service.VectorIndex
	eventPublisher service.EventPublisher
	logger         *slog.Logger
}

// NoteServiceParams holds dependencies for NoteService, injected by Fx.
type NoteServiceParams struct {
	fx.In

	NoteRepo       repository.NoteRepository
	ObjectStorage  service.ObjectStorage
	Extractor      service.Extractor
	VectorIndex    service.VectorIndex
	EventPublisher service.EventPublisher
	Logger         *slog.Logger
}

// NewNoteService is the constructor for noteService.
func NewNoteService(params NoteServiceParams) usecase.NoteUsecase {
	return &noteService{
		noteRepo:       params.NoteRepo,
		objectStorage:  params.ObjectStorage,
		extractor:      params.Extractor,
		vectorIndex:    params.VectorIndex,
		eventPublisher: params.EventPublisher,
		logger:         params.Logger,
	}
}

func (srv *noteService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Ingest captures a new note. The metadata record is the source of truth:
// vector indexing and event publishing are best-effort and never fail the
// capture once the record is written.
func (srv *noteService) Ingest(ctx context.Context, input *usecase.IngestInput) (*entity.Note, error) {
	srv.log(ctx).Info("Starting ingest",
		slog.Any("ownerID", input.OwnerID),
		slog.String("mode", input.Mode.String()),
	)

	if !input.Mode.IsValid() {
		return nil, domainerrors.ErrInvalidNoteMode.WrapMessage("unknown capture mode: " + input.Mode.String())
	}
	if input.Mode == entity.NoteModeFile && (input.File == nil || len(input.File.Data) == 0) {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("file mode requires a payload")
	}

	note := &entity.Note{
		ID:       uuid.New(),
		OwnerID:  input.OwnerID,
		Mode:     input.Mode,
		Title:    input.Title,
		Tags:     input.Tags,
		Entities: []string{},
		State:    entity.NoteStateActive,
	}

	if input.Mode == entity.NoteModeFile {
		key := fmt.Sprintf("notes/%s/%s", note.ID, input.File.Name)
		url, err := srv.objectStorage.Store(ctx, key, input.File.Data, input.File.MIMEType)
		if err != nil {
			srv.log(ctx).Error("Failed to store original upload", slog.Any("error", err))

			return nil, errors.Wrap(err, "failed to store original upload")
		}
		note.OriginalFile = entity.NoteFile{
			URL:      url,
			Name:     input.File.Name,
			MIMEType: input.File.MIMEType,
		}
	}
	if input.Mode == entity.NoteModeURL {
		note.OriginalFile = entity.NoteFile{URL: input.Content}
	}

	extracted, err := srv.extractor.Extract(ctx, service.ExtractionInput{
		Mode:     input.Mode,
		Content:  input.Content,
		FileName: fileName(input.File),
	})
	if err != nil {
		srv.log(ctx).Error("Extraction failed during ingest", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to extract note content")
	}
	note.ExtractedText = extracted.Text
	note.Summary = extracted.Summary
	if note.Title == "" {
		note.Title = extracted.Summary
	}

	if err := srv.noteRepo.Create(ctx, note); err != nil {
		srv.log(ctx).Error("Failed to persist note", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to persist note")
	}

	// Indexing failure leaves the note searchless but captured; a later
	// re-index can repair it without user involvement.
	if err := srv.vectorIndex.Index(ctx, note.ID, note.ExtractedText); err != nil {
		srv.log(ctx).Warn("Failed to index note, capture kept",
			slog.Any("noteID", note.ID),
			slog.Any("error", err),
		)
	}

	srv.publishEvent(ctx, note, service.NoteEventIngested)

	srv.log(ctx).Debug("Ingest completed", slog.Any("noteID", note.ID))

	return note, nil
}

// List returns the owner's complete collection, newest first.
func (srv *noteService) List(ctx context.Context, ownerID uuid.UUID) ([]*entity.Note, error) {
	notes, err := srv.noteRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		srv.log(ctx).Error("Failed to list notes", slog.Any("ownerID", ownerID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list notes")
	}

	return notes, nil
}

// SoftDelete moves a note into the recycle bin. The operation is idempotent:
// soft-deleting an already soft-deleted note reports success unchanged.
func (srv *noteService) SoftDelete(ctx context.Context, ownerID, noteID uuid.UUID) (*entity.Note, error) {
	return srv.transition(ctx, ownerID, noteID, entity.NoteStateSoftDeleted, service.NoteEventSoftDeleted)
}

// Restore brings a soft-deleted note back to the active collection. Restoring
// an already active note reports success unchanged.
func (srv *noteService) Restore(ctx context.Context, ownerID, noteID uuid.UUID) (*entity.Note, error) {
	return srv.transition(ctx, ownerID, noteID, entity.NoteStateActive, service.NoteEventRestored)
}

// transition flips a note's lifecycle state. Both directions share the same
// shape: owner-scoped load, no-op when already in the target state, update
// and a best-effort event.
func (srv *noteService) transition(ctx context.Context, ownerID, noteID uuid.UUID, target entity.NoteState, action string) (*entity.Note, error) {
	note, err := srv.noteRepo.FindOwned(ctx, ownerID, noteID)
	if err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			return nil, domainerrors.ErrNoteNotFound.WrapMessage("note not found")
		}

		return nil, errors.Wrap(err, "failed to load note")
	}

	if note.State == target {
		srv.log(ctx).Debug("Note already in target state",
			slog.Any("noteID", noteID),
			slog.String("state", target.String()),
		)

		return note, nil
	}

	note.State = target
	if err := srv.noteRepo.Update(ctx, note); err != nil {
		srv.log(ctx).Error("Failed to update note state", slog.Any("noteID", noteID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to update note state")
	}

	srv.publishEvent(ctx, note, action)

	return note, nil
}

// publishEvent emits a lifecycle event. Publishing is fire-and-forget; a
// failure is logged and never surfaces to the caller.
func (srv *noteService) publishEvent(ctx context.Context, note *entity.Note, action string) {
	event := &service.NoteEvent{
		RequestID: deliverycontext.GetRequestIDFromContext(ctx),
		NoteID:    note.ID.String(),
		OwnerID:   note.OwnerID.String(),
		Action:    action,
	}

	if err := srv.eventPublisher.PublishNoteEvent(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish note event",
			slog.Any("noteID", note.ID),
			slog.String("action", action),
			slog.Any("error", err),
		)
	}
}

func fileName(file *usecase.FileUpload) string {
	if file == nil {
		return ""
	}

	return file.Name
}
