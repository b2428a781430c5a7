// Package extraction provides the local stand-in for the external
// extraction/summarization collaborator.
package extraction

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"knowledgeos/internal/domain/entity"
	"knowledgeos/internal/domain/service"

	domainerrors "knowledgeos/internal/domain/errors"
)

const summaryPreviewLen = 120

// localExtractor derives text and summaries without calling out to any AI
// service. Text captures pass through verbatim; file and url captures get
// placeholder derivations until a real pipeline is attached.
type localExtractor struct {
	logger *slog.Logger
}

// NewLocalExtractor is the constructor for localExtractor.
func NewLocalExtractor(logger *slog.Logger) service.Extractor {
	return &localExtractor{logger: logger}
}

func (e *localExtractor) Extract(_ context.Context, input service.ExtractionInput) (*service.ExtractionResult, error) {
	switch input.Mode {
	case entity.NoteModeText:
		return &service.ExtractionResult{
			Text:    input.Content,
			Summary: previewSummary(input.Content),
		}, nil

	case entity.NoteModeFile:
		e.logger.Debug("Producing placeholder extraction for file capture",
			slog.String("file_name", input.FileName),
		)

		return &service.ExtractionResult{
			Text:    fmt.Sprintf("Extracted text from file: %s", input.FileName),
			Summary: fmt.Sprintf("AI summary of file: %s", input.FileName),
		}, nil

	case entity.NoteModeURL:
		e.logger.Debug("Producing placeholder extraction for url capture",
			slog.String("url", input.Content),
		)

		return &service.ExtractionResult{
			Text:    fmt.Sprintf("Extracted text from url: %s", input.Content),
			Summary: fmt.Sprintf("AI summary of url: %s", input.Content),
		}, nil

	default:
		return nil, domainerrors.ErrInvalidNoteMode.WrapMessage("unknown capture mode: " + input.Mode.String())
	}
}

// previewSummary trims the raw text to a short single-line preview.
func previewSummary(text string) string {
	collapsed := strings.Join(strings.Fields(text), " ")
	if len(collapsed) <= summaryPreviewLen {
		return collapsed
	}

	return collapsed[:summaryPreviewLen] + "..."
}
