package impl

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"knowledgeos/config"
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

const defaultStageTimeout = 10 * time.Second

// keyedMutex serializes work per key. Entries are reference-counted and
// removed once the last holder releases, so the map does not grow with the
// number of notes ever purged.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[uuid.UUID]*keyedLock)}
}

func (km *keyedMutex) lock(key uuid.UUID) {
	km.mu.Lock()
	entry, ok := km.locks[key]
	if !ok {
		entry = &keyedLock{}
		km.locks[key] = entry
	}
	entry.refs++
	km.mu.Unlock()

	entry.mu.Lock()
}

func (km *keyedMutex) unlock(key uuid.UUID) {
	km.mu.Lock()
	entry := km.locks[key]
	entry.refs--
	if entry.refs == 0 {
		delete(km.locks, key)
	}
	km.mu.Unlock()

	entry.mu.Unlock()
}

// purgeService implements the PurgeUsecase interface. Permanent deletion
// spans three stores with no distributed transaction; the ordering guarantees
// that a failure can only ever strand data in stores that tolerate re-runs,
// never orphan an external payload behind a deleted record.
type purgeService struct {
	noteRepo      repository.NoteRepository
	vectorIndex   service.VectorIndex
	objectStorage service.ObjectStorage
	publisher     service.EventPublisher
	stageTimeout  time.Duration
	inFlight      *keyedMutex
	logger        *slog.Logger
}

// PurgeServiceParams holds dependencies for PurgeService, injected by Fx.
type PurgeServiceParams struct {
	fx.In

	NoteRepo       repository.NoteRepository
	VectorIndex    service.VectorIndex
	ObjectStorage  service.ObjectStorage
	EventPublisher service.EventPublisher
	Config         *config.Config
	Logger         *slog.Logger
}

// NewPurgeService is the constructor for purgeService.
func NewPurgeService(params PurgeServiceParams) usecase.PurgeUsecase {
	stageTimeout := defaultStageTimeout
	if params.Config != nil && params.Config.Purge != nil && params.Config.Purge.StageTimeout > 0 {
		stageTimeout = params.Config.Purge.StageTimeout
	}

	return &purgeService{
		noteRepo:      params.NoteRepo,
		vectorIndex:   params.VectorIndex,
		objectStorage: params.ObjectStorage,
		publisher:     params.EventPublisher,
		stageTimeout:  stageTimeout,
		inFlight:      newKeyedMutex(),
		logger:        params.Logger,
	}
}

func (srv *purgeService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// PermanentDelete erases a note from every store it touches, strictly in the
// order vector index, object storage, metadata. The metadata record is always
// deleted last: as long as it exists the purge can be retried, and every
// external stage tolerates re-runs. A note that does not exist or is not
// owned by the caller is rejected outright.
func (srv *purgeService) PermanentDelete(ctx context.Context, ownerID, noteID uuid.UUID) (*usecase.PurgeReport, error) {
	// Concurrent purges of the same note run one at a time; the loser of
	// the race then fails the ownership check below.
	srv.inFlight.lock(noteID)
	defer srv.inFlight.unlock(noteID)

	note, err := srv.noteRepo.FindOwned(ctx, ownerID, noteID)
	if err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			srv.log(ctx).Warn("Purge rejected, note absent or not owned",
				slog.Any("noteID", noteID),
				slog.Any("ownerID", ownerID),
			)

			return nil, domainerrors.ErrPurgeForbidden.WrapMessage("note absent or not owned")
		}

		return nil, errors.Wrap(err, "failed to load note for purge")
	}

	srv.log(ctx).Info("Starting permanent delete",
		slog.Any("noteID", noteID),
		slog.String("mode", note.Mode.String()),
	)

	report := &usecase.PurgeReport{}

	// Stage 1: the vector index. Removing an unindexed id succeeds, so a
	// retry after a later failure converges.
	if err := srv.runStage(ctx, func(stageCtx context.Context) error {
		return srv.vectorIndex.Remove(stageCtx, note.ID)
	}); err != nil {
		return nil, srv.stageFailed(ctx, note, domainerrors.PurgeStageVector, err)
	}
	report.Vector = usecase.PurgeOutcomePurged

	// Stage 2: object storage. Text notes and inline payloads have nothing
	// stored externally, so the stage is skipped, not failed.
	if note.HasExternalPayload() {
		if err := srv.runStage(ctx, func(stageCtx context.Context) error {
			return srv.objectStorage.Delete(stageCtx, note.OriginalFile.URL)
		}); err != nil {
			return nil, srv.stageFailed(ctx, note, domainerrors.PurgeStageStorage, err)
		}
		report.Storage = usecase.PurgeOutcomePurged
	} else {
		report.Storage = usecase.PurgeOutcomeSkipped
	}

	// Stage 3: the metadata record, the point of no return.
	if err := srv.noteRepo.Delete(ctx, ownerID, noteID); err != nil {
		return nil, srv.stageFailed(ctx, note, domainerrors.PurgeStageMetadata, err)
	}
	report.Metadata = usecase.PurgeOutcomePurged

	srv.publishPurged(ctx, note)

	srv.log(ctx).Info("Permanent delete completed", slog.Any("noteID", noteID))

	return report, nil
}

// runStage executes one external cleanup call under the stage timeout.
func (srv *purgeService) runStage(ctx context.Context, fn func(context.Context) error) error {
	stageCtx, cancel := context.WithTimeout(ctx, srv.stageTimeout)
	defer cancel()

	return fn(stageCtx)
}

// stageFailed records a failed stage. The metadata record is untouched, so
// nothing is lost and the purge can be retried as-is.
func (srv *purgeService) stageFailed(ctx context.Context, note *entity.Note, stage domainerrors.PurgeStage, err error) error {
	srv.log(ctx).Error("Purge stage failed, metadata retained",
		slog.Any("noteID", note.ID),
		slog.String("stage", string(stage)),
		slog.Any("error", err),
	)

	return domainerrors.NewPurgeStageError(stage, err)
}

func (srv *purgeService) publishPurged(ctx context.Context, note *entity.Note) {
	event := &service.NoteEvent{
		RequestID: deliverycontext.GetRequestIDFromContext(ctx),
		NoteID:    note.ID.String(),
		OwnerID:   note.OwnerID.String(),
		Action:    service.NoteEventPurged,
	}

	if err := srv.publisher.PublishNoteEvent(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish purge event",
			slog.Any("noteID", note.ID),
			slog.Any("error", err),
		)
	}
}
