// Package memory provides an in-process persistence layer used when no
// PostgreSQL connection is configured. It backs local development and tests.
package memory

import (
	"sync"
	"time"

	"knowledgeos/internal/domain/entity"

	"github.com/google/uuid"
)

// Store holds every record behind a single lock. Each repository method is
// one critical section, which makes signup email checks and purge metadata
// deletes atomic without a transaction log.
type Store struct {
	mu           sync.RWMutex
	users        map[uuid.UUID]*entity.User
	usersByEmail map[string]uuid.UUID
	notes        map[uuid.UUID]*entity.Note
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		users:        make(map[uuid.UUID]*entity.User),
		usersByEmail: make(map[string]uuid.UUID),
		notes:        make(map[uuid.UUID]*entity.Note),
	}
}

func now() time.Time {
	return time.Now().UTC()
}

// copyUser returns a detached copy so callers cannot mutate stored state.
func copyUser(user *entity.User) *entity.User {
	cloned := *user

	return &cloned
}

func copyNote(note *entity.Note) *entity.Note {
	cloned := *note
	cloned.Tags = append([]string(nil), note.Tags...)
	cloned.Entities = append([]string(nil), note.Entities...)

	return &cloned
}
