package memory

import (
	"context"

	"knowledgeos/internal/domain/repository"
)

// transactionManager implements repository.TransactionManager for the
// in-memory store. There is no transaction log to roll back; each repository
// call is already atomic under the store lock, so Execute simply runs the
// function with a plain factory.
type transactionManager struct {
	store *Store
}

// NewTransactionManager is the constructor for the in-memory transaction manager.
func NewTransactionManager(store *Store) repository.TransactionManager {
	return &transactionManager{store: store}
}

func (tm *transactionManager) Execute(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
	factory := &repositoryFactory{store: tm.store}

	return fn(factory)
}

type repositoryFactory struct {
	store *Store
}

func (f *repositoryFactory) UserRepo() repository.UserRepository {
	return NewUserRepository(f.store)
}

func (f *repositoryFactory) NoteRepo() repository.NoteRepository {
	return NewNoteRepository(f.store)
}
