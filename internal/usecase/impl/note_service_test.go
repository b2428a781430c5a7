package impl

import (
	"context"
	"testing"

	"knowledgeos/internal/domain/entity"
	domainerrors "knowledgeos/internal/domain/errors"
	"knowledgeos/internal/domain/service"
	"knowledgeos/internal/infra/persistence/memory"
	"knowledgeos/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noteTestDeps struct {
	env       *testEnv
	vector    *fakeVectorIndex
	storage   *fakeObjectStorage
	publisher *fakePublisher
	svc       usecase.NoteUsecase
}

func newNoteDeps() *noteTestDeps {
	env := newTestEnv()
	vector := newFakeVectorIndex()
	storage := newFakeObjectStorage()
	publisher := &fakePublisher{}

	svc := NewNoteService(NoteServiceParams{
		NoteRepo:       memory.NewNoteRepository(env.store),
		ObjectStorage:  storage,
		Extractor:      env.extractor,
		VectorIndex:    vector,
		EventPublisher: publisher,
		Logger:         testLogger(),
	})

	return &noteTestDeps{env: env, vector: vector, storage: storage, publisher: publisher, svc: svc}
}

func TestNoteService_Ingest_TextNote(t *testing.T) {
	deps := newNoteDeps()
	ctx := context.Background()
	owner := uuid.New()

	note, err := deps.svc.Ingest(ctx, &usecase.IngestInput{
		OwnerID: owner,
		Mode:    entity.NoteModeText,
		Title:   "Meeting notes",
		Content: "Discussed the quarterly roadmap.",
		Tags:    []string{"work"},
	})

	require.NoError(t, err)
	assert.Equal(t, owner, note.OwnerID)
	assert.Equal(t, entity.NoteStateActive, note.State)
	assert.Equal(t, "Discussed the quarterly roadmap.", note.ExtractedText)
	assert.NotEmpty(t, note.Summary)
	assert.Empty(t, note.OriginalFile.URL)

	// The extracted text was indexed and the capture announced.
	assert.True(t, deps.vector.has(note.ID))
	assert.Equal(t, []string{service.NoteEventIngested}, deps.publisher.actions())
}

func TestNoteService_Ingest_FileNote(t *testing.T) {
	deps := newNoteDeps()
	owner := uuid.New()

	note, err := deps.svc.Ingest(context.Background(), &usecase.IngestInput{
		OwnerID: owner,
		Mode:    entity.NoteModeFile,
		Title:   "Contract",
		File: &usecase.FileUpload{
			Name:     "contract.pdf",
			MIMEType: "application/pdf",
			Data:     []byte("%PDF-1.4 fake"),
		},
	})

	require.NoError(t, err)
	assert.NotEmpty(t, note.OriginalFile.URL)
	assert.Equal(t, "contract.pdf", note.OriginalFile.Name)
	assert.True(t, deps.storage.has(note.OriginalFile.URL))
	assert.True(t, note.HasExternalPayload())
}

func TestNoteService_Ingest_FileModeWithoutPayload(t *testing.T) {
	deps := newNoteDeps()

	_, err := deps.svc.Ingest(context.Background(), &usecase.IngestInput{
		OwnerID: uuid.New(),
		Mode:    entity.NoteModeFile,
	})

	require.Error(t, err)
	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, domainerrors.ErrValidationFailed.ErrorCode(), appErr.ErrorCode())
}

func TestNoteService_Ingest_InvalidMode(t *testing.T) {
	deps := newNoteDeps()

	_, err := deps.svc.Ingest(context.Background(), &usecase.IngestInput{
		OwnerID: uuid.New(),
		Mode:    entity.NoteMode("hologram"),
	})

	require.Error(t, err)
	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, domainerrors.ErrInvalidNoteMode.ErrorCode(), appErr.ErrorCode())
}

func TestNoteService_Ingest_IndexFailureKeepsCapture(t *testing.T) {
	deps := newNoteDeps()
	deps.vector.failIndex = true
	ctx := context.Background()
	owner := uuid.New()

	note, err := deps.svc.Ingest(ctx, &usecase.IngestInput{
		OwnerID: owner,
		Mode:    entity.NoteModeText,
		Content: "still captured",
	})

	require.NoError(t, err)

	notes, err := deps.svc.List(ctx, owner)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, note.ID, notes[0].ID)
	assert.False(t, deps.vector.has(note.ID))
}

func TestNoteService_List_IsolatedPerOwner(t *testing.T) {
	deps := newNoteDeps()
	ctx := context.Background()
	ownerA := uuid.New()
	ownerB := uuid.New()

	for range 3 {
		_, err := deps.svc.Ingest(ctx, &usecase.IngestInput{
			OwnerID: ownerA, Mode: entity.NoteModeText, Content: "a note",
		})
		require.NoError(t, err)
	}
	_, err := deps.svc.Ingest(ctx, &usecase.IngestInput{
		OwnerID: ownerB, Mode: entity.NoteModeText, Content: "b note",
	})
	require.NoError(t, err)

	notesA, err := deps.svc.List(ctx, ownerA)
	require.NoError(t, err)
	assert.Len(t, notesA, 3)

	notesB, err := deps.svc.List(ctx, ownerB)
	require.NoError(t, err)
	assert.Len(t, notesB, 1)

	empty, err := deps.svc.List(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestNoteService_SoftDelete_AndRestore(t *testing.T) {
	deps := newNoteDeps()
	ctx := context.Background()
	owner := uuid.New()

	note, err := deps.svc.Ingest(ctx, &usecase.IngestInput{
		OwnerID: owner, Mode: entity.NoteModeText, Content: "fleeting thought",
	})
	require.NoError(t, err)

	deleted, err := deps.svc.SoftDelete(ctx, owner, note.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.NoteStateSoftDeleted, deleted.State)

	// Soft-deleted notes stay listed; the bin is a state, not another store.
	notes, err := deps.svc.List(ctx, owner)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, entity.NoteStateSoftDeleted, notes[0].State)

	restored, err := deps.svc.Restore(ctx, owner, note.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.NoteStateActive, restored.State)

	assert.Equal(t, []string{
		service.NoteEventIngested,
		service.NoteEventSoftDeleted,
		service.NoteEventRestored,
	}, deps.publisher.actions())
}

func TestNoteService_SoftDelete_Idempotent(t *testing.T) {
	deps := newNoteDeps()
	ctx := context.Background()
	owner := uuid.New()

	note, err := deps.svc.Ingest(ctx, &usecase.IngestInput{
		OwnerID: owner, Mode: entity.NoteModeText, Content: "thought",
	})
	require.NoError(t, err)

	_, err = deps.svc.SoftDelete(ctx, owner, note.ID)
	require.NoError(t, err)

	again, err := deps.svc.SoftDelete(ctx, owner, note.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.NoteStateSoftDeleted, again.State)

	// The repeated call did not publish a second transition event.
	assert.Equal(t, []string{
		service.NoteEventIngested,
		service.NoteEventSoftDeleted,
	}, deps.publisher.actions())
}

func TestNoteService_SoftDelete_OtherOwnersNote(t *testing.T) {
	deps := newNoteDeps()
	ctx := context.Background()
	owner := uuid.New()

	note, err := deps.svc.Ingest(ctx, &usecase.IngestInput{
		OwnerID: owner, Mode: entity.NoteModeText, Content: "private",
	})
	require.NoError(t, err)

	_, err = deps.svc.SoftDelete(ctx, uuid.New(), note.ID)

	require.Error(t, err)
	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, domainerrors.ErrNoteNotFound.ErrorCode(), appErr.ErrorCode())
}
