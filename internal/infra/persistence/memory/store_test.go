package memory

import (
	"context"
	"sync"
	"testing"

	"knowledgeos/internal/domain/entity"
	domainerrors "knowledgeos/internal/domain/errors"
	"knowledgeos/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateAndFind(t *testing.T) {
	store := NewStore()
	repo := NewUserRepository(store)
	ctx := context.Background()

	user := &entity.User{
		Name:     "Alice",
		Email:    "alice@example.com",
		Provider: entity.AuthProviderLocal,
	}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.False(t, user.CreatedAt.IsZero())

	byID, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", byID.Email)

	byEmail, err := repo.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
}

func TestUserRepository_CreateDuplicateEmail(t *testing.T) {
	store := NewStore()
	repo := NewUserRepository(store)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entity.User{Email: "alice@example.com"}))

	err := repo.Create(ctx, &entity.User{Email: "alice@example.com"})

	require.Error(t, err)
	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, domainerrors.ErrEmailAlreadyRegistered.ErrorCode(), appErr.ErrorCode())
}

func TestUserRepository_ConcurrentSignupSameEmail(t *testing.T) {
	store := NewStore()
	repo := NewUserRepository(store)
	ctx := context.Background()

	const racers = 8
	var wg sync.WaitGroup
	errs := make([]error, racers)

	for i := range racers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = repo.Create(ctx, &entity.User{Email: "contested@example.com"})
		}()
	}
	wg.Wait()

	var created int
	for _, err := range errs {
		if err == nil {
			created++
		}
	}
	assert.Equal(t, 1, created)
}

func TestUserRepository_FindMissing(t *testing.T) {
	repo := NewUserRepository(NewStore())
	ctx := context.Background()

	_, err := repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	_, err = repo.FindByEmail(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestUserRepository_ReadsAreDetached(t *testing.T) {
	store := NewStore()
	repo := NewUserRepository(store)
	ctx := context.Background()

	user := &entity.User{Email: "alice@example.com", Name: "Alice"}
	require.NoError(t, repo.Create(ctx, user))

	loaded, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	loaded.Name = "Mutated"

	again, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", again.Name)
}

func TestNoteRepository_OwnerScoping(t *testing.T) {
	store := NewStore()
	repo := NewNoteRepository(store)
	ctx := context.Background()
	owner := uuid.New()
	intruder := uuid.New()

	note := &entity.Note{
		OwnerID: owner,
		Mode:    entity.NoteModeText,
		State:   entity.NoteStateActive,
	}
	require.NoError(t, repo.Create(ctx, note))

	_, err := repo.FindOwned(ctx, owner, note.ID)
	require.NoError(t, err)

	// Another owner sees nothing, for reads and deletes alike.
	_, err = repo.FindOwned(ctx, intruder, note.ID)
	assert.ErrorIs(t, err, repository.ErrNoteNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, intruder, note.ID), repository.ErrNoteNotFound)

	require.NoError(t, repo.Delete(ctx, owner, note.ID))
	_, err = repo.FindOwned(ctx, owner, note.ID)
	assert.ErrorIs(t, err, repository.ErrNoteNotFound)
}

func TestNoteRepository_ListNewestFirst(t *testing.T) {
	store := NewStore()
	repo := NewNoteRepository(store)
	ctx := context.Background()
	owner := uuid.New()

	for range 3 {
		note := &entity.Note{OwnerID: owner, Mode: entity.NoteModeText, State: entity.NoteStateActive}
		require.NoError(t, repo.Create(ctx, note))
	}

	notes, err := repo.ListByOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, notes, 3)

	for i := range len(notes) - 1 {
		assert.False(t, notes[i].CreatedAt.Before(notes[i+1].CreatedAt))
	}
}
