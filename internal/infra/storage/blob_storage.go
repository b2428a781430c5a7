package storage

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"knowledgeos/config"

	"github.com/pkg/errors"
	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	// Register the bucket schemes resolvable through the portable URL opener.
	// Direct S3 access goes through the dedicated s3 provider instead.
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
)

// BlobStorage stores uploads in a gocloud blob bucket. The bucket scheme
// (file://, mem://) comes from configuration, so local development and tests
// share one code path.
type BlobStorage struct {
	bucket        *blob.Bucket
	publicBaseURL string
	logger        *slog.Logger
}

// NewBlobStorage opens the configured bucket.
func NewBlobStorage(ctx context.Context, cfg *config.StorageConfig, logger *slog.Logger) (*BlobStorage, error) {
	bucket, err := blob.OpenBucket(ctx, cfg.BucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open bucket %s", cfg.BucketURL)
	}

	return &BlobStorage{
		bucket:        bucket,
		publicBaseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
		logger:        logger,
	}, nil
}

// Store writes the payload and returns the public URL recorded on the note.
func (s *BlobStorage) Store(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	opts := &blob.WriterOptions{ContentType: contentType}
	if err := s.bucket.WriteAll(ctx, key, data, opts); err != nil {
		return "", errors.Wrapf(err, "failed to write object %s", key)
	}

	s.logger.Debug("Stored object in blob bucket",
		slog.String("key", key),
		slog.Int("size", len(data)),
	)

	return s.publicBaseURL + "/" + key, nil
}

// Delete removes the object referenced by the URL. A vanished object counts
// as success so a retried purge converges.
func (s *BlobStorage) Delete(ctx context.Context, rawURL string) error {
	key, err := s.keyFromURL(rawURL)
	if err != nil {
		return err
	}

	if err := s.bucket.Delete(ctx, key); err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			s.logger.Debug("Object already absent, treating delete as success",
				slog.String("key", key),
			)

			return nil
		}

		return errors.Wrapf(err, "failed to delete object %s", key)
	}

	return nil
}

// Close releases the bucket handle.
func (s *BlobStorage) Close() error {
	return s.bucket.Close()
}

// keyFromURL recovers the object key from a stored URL by stripping either
// the configured public base or, failing that, the URL's leading path slash.
func (s *BlobStorage) keyFromURL(rawURL string) (string, error) {
	if s.publicBaseURL != "" && strings.HasPrefix(rawURL, s.publicBaseURL+"/") {
		return strings.TrimPrefix(rawURL, s.publicBaseURL+"/"), nil
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", errors.Wrapf(err, "failed to parse object URL %s", rawURL)
	}
	key := strings.TrimPrefix(parsed.Path, "/")
	if key == "" {
		return "", errors.Errorf("object URL %s carries no key", rawURL)
	}

	return key, nil
}
