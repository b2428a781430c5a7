package memory

import (
	"context"
	"sort"

	"knowledgeos/internal/domain/entity"
	"knowledgeos/internal/domain/repository"

	"github.com/google/uuid"
)

// noteRepository implements repository.NoteRepository against the shared Store.
// Owner scoping mirrors the SQL repository: a note owned by someone else is
// reported as not found.
type noteRepository struct {
	store *Store
}

// NewNoteRepository is the constructor for the in-memory note repository.
func NewNoteRepository(store *Store) repository.NoteRepository {
	return &noteRepository{store: store}
}

func (repo *noteRepository) Create(_ context.Context, note *entity.Note) error {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	if note.ID == uuid.Nil {
		note.ID = uuid.New()
	}
	ts := now()
	note.CreatedAt = ts
	note.UpdatedAt = ts

	repo.store.notes[note.ID] = copyNote(note)

	return nil
}

func (repo *noteRepository) FindOwned(_ context.Context, ownerID, noteID uuid.UUID) (*entity.Note, error) {
	repo.store.mu.RLock()
	defer repo.store.mu.RUnlock()

	note, ok := repo.store.notes[noteID]
	if !ok || note.OwnerID != ownerID {
		return nil, repository.ErrNoteNotFound
	}

	return copyNote(note), nil
}

func (repo *noteRepository) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*entity.Note, error) {
	repo.store.mu.RLock()
	defer repo.store.mu.RUnlock()

	notes := make([]*entity.Note, 0)
	for _, note := range repo.store.notes {
		if note.OwnerID == ownerID {
			notes = append(notes, copyNote(note))
		}
	}

	// Newest first, matching the SQL repository's ordering.
	sort.Slice(notes, func(i, j int) bool {
		return notes[i].CreatedAt.After(notes[j].CreatedAt)
	})

	return notes, nil
}

func (repo *noteRepository) Update(_ context.Context, note *entity.Note) error {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	stored, ok := repo.store.notes[note.ID]
	if !ok || stored.OwnerID != note.OwnerID {
		return repository.ErrNoteNotFound
	}

	note.CreatedAt = stored.CreatedAt
	note.UpdatedAt = now()
	repo.store.notes[note.ID] = copyNote(note)

	return nil
}

func (repo *noteRepository) Delete(_ context.Context, ownerID, noteID uuid.UUID) error {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	stored, ok := repo.store.notes[noteID]
	if !ok || stored.OwnerID != ownerID {
		return repository.ErrNoteNotFound
	}

	delete(repo.store.notes, noteID)

	return nil
}
