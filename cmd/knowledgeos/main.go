package main

import (
	"context"
	"log/slog"
	"os"

	"knowledgeos/config"
	"knowledgeos/internal/delivery"
	"knowledgeos/internal/delivery/http"
	"knowledgeos/internal/delivery/http/middleware"
	"knowledgeos/internal/delivery/http/router/handler"
	"knowledgeos/internal/domain/repository"
	"knowledgeos/internal/infra/auth"
	"knowledgeos/internal/infra/auth/google"
	"knowledgeos/internal/infra/extraction"
	logs "knowledgeos/internal/infra/log"
	"knowledgeos/internal/infra/persistence/memory"
	"knowledgeos/internal/infra/persistence/postgres"
	"knowledgeos/internal/infra/pubsub"
	"knowledgeos/internal/infra/storage"
	"knowledgeos/internal/infra/vector"
	"knowledgeos/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Options(
		fx.Provide(
			config.New,
			logs.New,
			context.Background,
		),
		storage.Module,
		pubsub.Module,
	)
}

// persistenceOut bundles the persistence contracts chosen at startup.
type persistenceOut struct {
	fx.Out

	TxManager repository.TransactionManager
	UserRepo  repository.UserRepository
	NoteRepo  repository.NoteRepository
}

// persistenceParams holds what newPersistence needs to build either backend.
type persistenceParams struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// newPersistence selects the persistence backend: PostgreSQL when configured,
// otherwise the in-process store used for local development.
func newPersistence(params persistenceParams) (persistenceOut, error) {
	if params.Config.Postgres == nil {
		params.Logger.Info("PostgreSQL not configured, using in-memory persistence")

		store := memory.NewStore()

		return persistenceOut{
			TxManager: memory.NewTransactionManager(store),
			UserRepo:  memory.NewUserRepository(store),
			NoteRepo:  memory.NewNoteRepository(store),
		}, nil
	}

	db, err := postgres.New(postgres.Params{
		Lifecycle: params.Lifecycle,
		Config:    params.Config,
		Logger:    params.Logger,
	})
	if err != nil {
		return persistenceOut{}, err
	}

	return persistenceOut{
		TxManager: postgres.NewTransactionManager(db),
		UserRepo:  postgres.NewUserRepository(db),
		NoteRepo:  postgres.NewNoteRepository(db),
	}, nil
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			newPersistence,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
			google.NewAuthService,
			vector.NewVectorIndex,
			extraction.NewLocalExtractor,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewIdentityService,
			impl.NewNoteService,
			impl.NewPurgeService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
			middleware.NewErrorMiddleware,
			middleware.NewRequestIDMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAuthHandler,
			handler.NewMemoryHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
