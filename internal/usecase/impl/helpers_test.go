package impl

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"knowledgeos/config"
	"knowledgeos/internal/domain/service"
	"knowledgeos/internal/infra/auth"
	"knowledgeos/internal/infra/extraction"
	"knowledgeos/internal/infra/persistence/memory"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.SecretKey.Access = "test-secret-key-for-sessions"

	return cfg
}

// testEnv bundles the real collaborators every service test shares: the
// in-memory store, bcrypt, JWT and the local extractor.
type testEnv struct {
	store     *memory.Store
	hasher    service.PasswordHasher
	tokens    service.TokenService
	extractor service.Extractor
}

func newTestEnv() *testEnv {
	cfg := testConfig()
	tokens, err := auth.NewJWTService(cfg)
	if err != nil {
		panic(err)
	}

	return &testEnv{
		store:     memory.NewStore(),
		hasher:    auth.NewBcryptHasher(cfg),
		tokens:    tokens,
		extractor: extraction.NewLocalExtractor(testLogger()),
	}
}

// fakeOAuthService returns a fixed federated identity, or an error when
// verification should fail.
type fakeOAuthService struct {
	user *service.OAuthUser
	err  error
}

func (f *fakeOAuthService) VerifyIDToken(_ context.Context, _ string) (*service.OAuthUser, error) {
	if f.err != nil {
		return nil, f.err
	}

	return f.user, nil
}

// fakeVectorIndex records indexed text per note and can be told to fail.
type fakeVectorIndex struct {
	mu         sync.Mutex
	indexed    map[uuid.UUID]string
	failIndex  bool
	failRemove bool
}

func newFakeVectorIndex() *fakeVectorIndex {
	return &fakeVectorIndex{indexed: make(map[uuid.UUID]string)}
}

func (f *fakeVectorIndex) Index(_ context.Context, noteID uuid.UUID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failIndex {
		return errors.New("index unavailable")
	}
	f.indexed[noteID] = text

	return nil
}

func (f *fakeVectorIndex) Remove(_ context.Context, noteID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failRemove {
		return errors.New("index unavailable")
	}
	delete(f.indexed, noteID)

	return nil
}

func (f *fakeVectorIndex) has(noteID uuid.UUID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, ok := f.indexed[noteID]

	return ok
}

// fakeObjectStorage keeps payloads in a map keyed by the URL it hands out.
type fakeObjectStorage struct {
	mu         sync.Mutex
	objects    map[string][]byte
	failStore  bool
	failDelete bool
}

func newFakeObjectStorage() *fakeObjectStorage {
	return &fakeObjectStorage{objects: make(map[string][]byte)}
}

func (f *fakeObjectStorage) Store(_ context.Context, key string, data []byte, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failStore {
		return "", errors.New("storage unavailable")
	}
	url := "https://files.test/" + key
	f.objects[url] = data

	return url, nil
}

func (f *fakeObjectStorage) Delete(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failDelete {
		return errors.New("storage unavailable")
	}
	delete(f.objects, url)

	return nil
}

func (f *fakeObjectStorage) has(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, ok := f.objects[url]

	return ok
}

// fakePublisher records every published event.
type fakePublisher struct {
	mu     sync.Mutex
	events []*service.NoteEvent
}

func (f *fakePublisher) PublishNoteEvent(_ context.Context, event *service.NoteEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.events = append(f.events, event)

	return nil
}

func (f *fakePublisher) Close() error {
	return nil
}

func (f *fakePublisher) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	actions := make([]string, 0, len(f.events))
	for _, event := range f.events {
		actions = append(actions, event.Action)
	}

	return actions
}
