package memory

import (
	"context"

	"knowledgeos/internal/domain/entity"
	domainerrors "knowledgeos/internal/domain/errors"
	"knowledgeos/internal/domain/repository"

	"github.com/google/uuid"
)

// userRepository implements repository.UserRepository against the shared Store.
type userRepository struct {
	store *Store
}

// NewUserRepository is the constructor for the in-memory user repository.
func NewUserRepository(store *Store) repository.UserRepository {
	return &userRepository{store: store}
}

func (repo *userRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	repo.store.mu.RLock()
	defer repo.store.mu.RUnlock()

	user, ok := repo.store.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return copyUser(user), nil
}

func (repo *userRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	repo.store.mu.RLock()
	defer repo.store.mu.RUnlock()

	id, ok := repo.store.usersByEmail[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return copyUser(repo.store.users[id]), nil
}

// Create inserts the user. The email check and the insert happen under one
// lock, so two concurrent signups for the same address cannot both succeed.
func (repo *userRepository) Create(_ context.Context, user *entity.User) error {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	if _, exists := repo.store.usersByEmail[user.Email]; exists {
		return domainerrors.ErrEmailAlreadyRegistered.WrapMessage("email already exists")
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	ts := now()
	user.CreatedAt = ts
	user.UpdatedAt = ts

	repo.store.users[user.ID] = copyUser(user)
	repo.store.usersByEmail[user.Email] = user.ID

	return nil
}

func (repo *userRepository) Update(_ context.Context, user *entity.User) error {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	stored, ok := repo.store.users[user.ID]
	if !ok {
		return repository.ErrUserNotFound
	}

	user.CreatedAt = stored.CreatedAt
	user.UpdatedAt = now()
	repo.store.users[user.ID] = copyUser(user)

	return nil
}
