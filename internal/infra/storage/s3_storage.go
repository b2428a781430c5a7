package storage

import (
	"bytes"
	"context"
	"log/slog"
	"net/url"
	"strings"

	cfgpkg "knowledgeos/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
)

// S3Storage talks to S3 (or an S3-compatible endpoint such as MinIO) directly
// through the AWS SDK.
type S3Storage struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
	logger        *slog.Logger
}

// NewS3Storage builds an S3 client from configuration. Static credentials are
// optional; without them the default AWS credential chain applies.
func NewS3Storage(ctx context.Context, cfg *cfgpkg.StorageConfig, logger *slog.Logger) (*S3Storage, error) {
	s3cfg := cfg.S3

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(s3cfg.Region),
	}
	if s3cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s3cfg.AccessKeyID, s3cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load aws config")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if s3cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s3cfg.BaseEndpoint)
			// Compatible endpoints usually want path-style addressing.
			o.UsePathStyle = true
		}
	})

	return &S3Storage{
		client:        client,
		bucket:        s3cfg.Bucket,
		publicBaseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
		logger:        logger,
	}, nil
}

// Store uploads the payload and returns the public URL recorded on the note.
func (s *S3Storage) Store(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", errors.Wrapf(err, "failed to put object %s", key)
	}

	s.logger.Debug("Stored object in S3",
		slog.String("bucket", s.bucket),
		slog.String("key", key),
		slog.Int("size", len(data)),
	)

	return s.publicBaseURL + "/" + key, nil
}

// Delete removes the object referenced by the URL. S3 DeleteObject succeeds
// for absent keys, which is exactly the idempotency the purge wants.
func (s *S3Storage) Delete(ctx context.Context, rawURL string) error {
	key, err := s.keyFromURL(rawURL)
	if err != nil {
		return err
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return errors.Wrapf(err, "failed to delete object %s", key)
	}

	return nil
}

func (s *S3Storage) keyFromURL(rawURL string) (string, error) {
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
