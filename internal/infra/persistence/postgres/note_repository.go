package postgres

import (
	"context"

	"knowledgeos/internal/domain/entity"
	domainerrors "knowledgeos/internal/domain/errors"
	"knowledgeos/internal/domain/repository"
	"knowledgeos/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// noteRepository implements the repository.NoteRepository interface using GORM.
// Every query is scoped by owner id; there is no unscoped read path.
type noteRepository struct {
	db *gorm.DB
}

// NewNoteRepository is the constructor for noteRepository.
func NewNoteRepository(db *gorm.DB) repository.NoteRepository {
	return &noteRepository{db: db}
}

// Create persists a new note entity to the database.
func (repo *noteRepository) Create(ctx context.Context, note *entity.Note) error {
	noteM := fromNoteDomain(note)

	if err := repo.db.WithContext(ctx).Create(noteM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.NewDatabaseExecuteError(err, "note owner does not exist")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create note")
	}

	note.ID = noteM.ID
	note.CreatedAt = noteM.CreatedAt
	note.UpdatedAt = noteM.UpdatedAt

	return nil
}

// FindOwned retrieves a single note owned by the given user. A note that
// exists but belongs to another owner is indistinguishable from a missing one.
func (repo *noteRepository) FindOwned(ctx context.Context, ownerID, noteID uuid.UUID) (*entity.Note, error) {
	var noteM model.NoteModel
	err := repo.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, noteID).
		First(&noteM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNoteNotFound
		}

		return nil, errors.Wrap(err, "failed to find note")
	}

	return toNoteDomain(&noteM), nil
}

// ListByOwner retrieves every note belonging to the given user, regardless of
// lifecycle state, newest first.
func (repo *noteRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Note, error) {
	var noteMs []model.NoteModel
	err := repo.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&noteMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list notes")
	}

	notes := make([]*entity.Note, 0, len(noteMs))
	for i := range noteMs {
		notes = append(notes, toNoteDomain(&noteMs[i]))
	}

	return notes, nil
}

// Update modifies an existing note entity in the database.
func (repo *noteRepository) Update(ctx context.Context, note *entity.Note) error {
	noteM := fromNoteDomain(note)

	result := repo.db.WithContext(ctx).
		Model(&model.NoteModel{}).
		Where("owner_id = ? AND id = ?", note.OwnerID, note.ID).
		Updates(map[string]any{
			"title":          noteM.Title,
			"extracted_text": noteM.ExtractedText,
			"summary":        noteM.Summary,
			"tags":           noteM.Tags,
			"entities":       noteM.Entities,
			"state":          noteM.State,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update note")
	}
	if result.RowsAffected == 0 {
		return repository.ErrNoteNotFound
	}

	return nil
}

// Delete removes the note row permanently. This is the final stage of a purge
// and only runs after the external cleanup stages have completed.
func (repo *noteRepository) Delete(ctx context.Context, ownerID, noteID uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, noteID).
		Delete(&model.NoteModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete note")
	}
	if result.RowsAffected == 0 {
		return repository.ErrNoteNotFound
	}

	return nil
}

func toNoteDomain(noteM *model.NoteModel) *entity.Note {
	return &entity.Note{
		ID:      noteM.ID,
		OwnerID: noteM.OwnerID,
		Mode:    entity.NoteMode(noteM.Mode),
		Title:   noteM.Title,
		OriginalFile: entity.NoteFile{
			URL:      noteM.FileURL,
			Name:     noteM.FileName,
			MIMEType: noteM.FileMIMEType,
		},
		ExtractedText: noteM.ExtractedText,
		Summary:       noteM.Summary,
		Tags:          noteM.Tags,
		Entities:      noteM.Entities,
		State:         entity.NoteState(noteM.State),
		CreatedAt:     noteM.CreatedAt,
		UpdatedAt:     noteM.UpdatedAt,
	}
}

func fromNoteDomain(note *entity.Note) *model.NoteModel {
	return &model.NoteModel{
		ID:            note.ID,
		OwnerID:       note.OwnerID,
		Mode:          note.Mode.String(),
		Title:         note.Title,
		FileURL:       note.OriginalFile.URL,
		FileName:      note.OriginalFile.Name,
		FileMIMEType:  note.OriginalFile.MIMEType,
		ExtractedText: note.ExtractedText,
		Summary:       note.Summary,
		Tags:          note.Tags,
		Entities:      note.Entities,
		State:         note.State.String(),
		CreatedAt:     note.CreatedAt,
		UpdatedAt:     note.UpdatedAt,
	}
}
