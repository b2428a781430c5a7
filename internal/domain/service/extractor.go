package service

import (
	"context"

	"knowledgeos/internal/domain/entity"
)

// ExtractionInput carries the raw capture handed to the extraction collaborator.
type ExtractionInput struct {
	Mode     entity.NoteMode // How the knowledge was captured.
	Content  string          // Raw text for text mode, target address for url mode.
	FileName string          // Original file name for file mode.
}

// ExtractionResult is what the collaborator derived from the capture.
type ExtractionResult struct {
	Text    string // The extracted text; the only field the vector index sees.
	Summary string // A short AI-generated summary.
}

// Extractor is the narrow contract to the external extraction/summarization
// service. How text is parsed or summarized is outside this core's scope; the
// local implementation substitutes placeholders when the collaborator is
// unavailable.
type Extractor interface {
	Extract(ctx context.Context, input ExtractionInput) (*ExtractionResult, error)
}
