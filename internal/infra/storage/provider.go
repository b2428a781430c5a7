// Package storage provides object storage implementations for original
// note uploads.
package storage

import (
	"context"
	"log/slog"

	"knowledgeos/config"
	"knowledgeos/internal/domain/constants"
	"knowledgeos/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// noopStorage is used when no object storage is configured. Uploads are
// rejected; deletes succeed so the purge protocol stays runnable on text-only
// deployments.
type noopStorage struct {
	logger *slog.Logger
}

func (s *noopStorage) Store(_ context.Context, key string, _ []byte, _ string) (string, error) {
	s.logger.Warn("[NoopStorage] Object storage disabled, rejecting upload",
		slog.String("key", key),
	)

	return "", errors.New("object storage is not configured")
}

func (s *noopStorage) Delete(_ context.Context, _ string) error {
	return nil
}

// StorageParams holds dependencies for ObjectStorage, injected by Fx
type StorageParams struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewObjectStorage creates an ObjectStorage based on configuration
func NewObjectStorage(params StorageParams) (service.ObjectStorage, error) {
	cfg := params.Config.Storage
	logger := params.Logger

	if cfg == nil || cfg.Provider == "" {
		logger.Info("Object storage not configured, using no-op storage")

		return &noopStorage{logger: logger}, nil
	}

	switch cfg.Provider {
	case constants.StorageProviderBucket:
		if cfg.BucketURL == "" {
			return nil, errors.New("bucket URL is required for bucket provider")
		}
		logger.Info("Using blob bucket object storage",
			slog.String("bucket_url", cfg.BucketURL),
		)

		store, err := NewBlobStorage(params.Ctx, cfg, logger)
		if err != nil {
			return nil, err
		}

		// Register lifecycle hook to close the bucket on shutdown
		params.Lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				logger.Info("Closing blob bucket")

				return store.Close()
			},
		})

		return store, nil

	case constants.StorageProviderS3:
		if cfg.S3 == nil || cfg.S3.Bucket == "" {
			return nil, errors.New("bucket name is required for s3 provider")
		}
		logger.Info("Using S3 object storage",
			slog.String("bucket", cfg.S3.Bucket),
			slog.String("region", cfg.S3.Region),
		)

		return NewS3Storage(params.Ctx, cfg, logger)

	default:
		return nil, errors.Errorf("unknown storage provider: %s", cfg.Provider)
	}
}

// Module provides the object storage FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewObjectStorage),
)
