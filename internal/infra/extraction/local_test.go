package extraction

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"knowledgeos/internal/domain/entity"
	"knowledgeos/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExtractor() service.Extractor {
	return NewLocalExtractor(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestLocalExtractor_TextPassesThrough(t *testing.T) {
	extractor := newTestExtractor()

	result, err := extractor.Extract(context.Background(), service.ExtractionInput{
		Mode:    entity.NoteModeText,
		Content: "A short thought.",
	})

	require.NoError(t, err)
	assert.Equal(t, "A short thought.", result.Text)
	assert.Equal(t, "A short thought.", result.Summary)
}

func TestLocalExtractor_LongTextSummaryTruncated(t *testing.T) {
	extractor := newTestExtractor()
	long := strings.Repeat("lengthy content ", 50)

	result, err := extractor.Extract(context.Background(), service.ExtractionInput{
		Mode:    entity.NoteModeText,
		Content: long,
	})

	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(result.Summary, "..."))
	assert.Less(t, len(result.Summary), len(long))
}

func TestLocalExtractor_FilePlaceholder(t *testing.T) {
	extractor := newTestExtractor()

	result, err := extractor.Extract(context.Background(), service.ExtractionInput{
		Mode:     entity.NoteModeFile,
		FileName: "slides.pdf",
	})

	require.NoError(t, err)
	assert.Contains(t, result.Text, "slides.pdf")
	assert.Contains(t, result.Summary, "slides.pdf")
}

func TestLocalExtractor_URLPlaceholder(t *testing.T) {
	extractor := newTestExtractor()

	result, err := extractor.Extract(context.Background(), service.ExtractionInput{
		Mode:    entity.NoteModeURL,
		Content: "https://example.com/article",
	})

	require.NoError(t, err)
	assert.Contains(t, result.Text, "https://example.com/article")
}

func TestLocalExtractor_UnknownMode(t *testing.T) {
	extractor := newTestExtractor()

	_, err := extractor.Extract(context.Background(), service.ExtractionInput{
		Mode: entity.NoteMode("telepathy"),
	})

	assert.Error(t, err)
}
