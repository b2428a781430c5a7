// Package vector provides the HTTP client for the external semantic index.
package vector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"knowledgeos/config"
	"knowledgeos/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const defaultTimeout = 10 * time.Second

// noopIndex is used when no index endpoint is configured. Indexing is
// silently skipped and removal succeeds, so the purge protocol still runs.
type noopIndex struct {
	logger *slog.Logger
}

func (i *noopIndex) Index(_ context.Context, noteID uuid.UUID, _ string) error {
	i.logger.Debug("[NoopVectorIndex] Indexing disabled, skipping",
		slog.String("note_id", noteID.String()),
	)

	return nil
}

func (i *noopIndex) Remove(_ context.Context, _ uuid.UUID) error {
	return nil
}

// httpIndex talks to the index service over plain JSON HTTP.
type httpIndex struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

// NewVectorIndex creates a VectorIndex client from configuration. An empty
// endpoint yields a no-op index.
func NewVectorIndex(cfg *config.Config, logger *slog.Logger) service.VectorIndex {
	vcfg := cfg.VectorIndex
	if vcfg == nil || vcfg.Endpoint == "" {
		logger.Info("Vector index not configured, using no-op index")

		return &noopIndex{logger: logger}
	}

	timeout := vcfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	logger.Info("Using HTTP vector index",
		slog.String("endpoint", vcfg.Endpoint),
	)

	return &httpIndex{
		endpoint: vcfg.Endpoint,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

type indexRequest struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Index registers or replaces the embedding source text for a note.
func (i *httpIndex) Index(ctx context.Context, noteID uuid.UUID, text string) error {
	payload, err := json.Marshal(indexRequest{ID: noteID.String(), Text: text})
	if err != nil {
		return errors.Wrap(err, "failed to marshal index request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, i.endpoint+"/index", bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "failed to create index request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := i.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "failed to call vector index")
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return errors.Errorf("vector index returned status %d", resp.StatusCode)
	}

	return nil
}

// Remove deletes the embedding for a note id. A 404 from the index means the
// id was never indexed, which counts as success.
func (i *httpIndex) Remove(ctx context.Context, noteID uuid.UUID) error {
	url := fmt.Sprintf("%s/index/%s", i.endpoint, noteID.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create remove request")
	}

	resp, err := i.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "failed to call vector index")
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		i.logger.Debug("Embedding already absent, treating removal as success",
			slog.String("note_id", noteID.String()),
		)

		return nil
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return errors.Errorf("vector index returned status %d", resp.StatusCode)
	}

	return nil
}
