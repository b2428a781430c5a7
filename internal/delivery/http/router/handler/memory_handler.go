package handler

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"knowledgeos/internal/delivery/http/middleware"
	"knowledgeos/internal/delivery/http/response"
	"knowledgeos/internal/domain/entity"
	domainerrors "knowledgeos/internal/domain/errors"
	"knowledgeos/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// Lifecycle status strings reported to clients.
const (
	statusMovedToRecycleBin = "moved_to_recycle_bin"
	statusRestored          = "restored"
	statusErasedPermanently = "erased_permanently"
)

// MemoryHandler holds dependencies for note lifecycle handlers.
type MemoryHandler struct {
	noteUC  usecase.NoteUsecase
	purgeUC usecase.PurgeUsecase
	logger  *slog.Logger
}

// NewMemoryHandler is the constructor for MemoryHandler, injected by Fx.
func NewMemoryHandler(noteUC usecase.NoteUsecase, purgeUC usecase.PurgeUsecase, logger *slog.Logger) *MemoryHandler {
	return &MemoryHandler{
		noteUC:  noteUC,
		purgeUC: purgeUC,
		logger:  logger,
	}
}

type ingestRequest struct {
	Mode    string   `json:"mode" validate:"required"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

type notePayload struct {
	ID            string    `json:"id"`
	Mode          string    `json:"mode"`
	Title         string    `json:"title"`
	FileURL       string    `json:"file_url,omitempty"`
	FileName      string    `json:"file_name,omitempty"`
	ExtractedText string    `json:"extracted_text"`
	Summary       string    `json:"summary"`
	Tags          []string  `json:"tags"`
	Entities      []string  `json:"entities"`
	State         string    `json:"state"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toNotePayload(note *entity.Note) *notePayload {
	tags := note.Tags
	if tags == nil {
		tags = []string{}
	}
	entities := note.Entities
	if entities == nil {
		entities = []string{}
	}

	return &notePayload{
		ID:            note.ID.String(),
		Mode:          note.Mode.String(),
		Title:         note.Title,
		FileURL:       note.OriginalFile.URL,
		FileName:      note.OriginalFile.Name,
		ExtractedText: note.ExtractedText,
		Summary:       note.Summary,
		Tags:          tags,
		Entities:      entities,
		State:         note.State.String(),
		CreatedAt:     note.CreatedAt,
		UpdatedAt:     note.UpdatedAt,
	}
}

// ownerID extracts the authenticated user's id set by the auth middleware.
func ownerID(c echo.Context) (uuid.UUID, error) {
	id, ok := c.Get(middleware.ContextKeyUserID).(uuid.UUID)
	if !ok {
		return uuid.Nil, errors.New("user id missing from request context")
	}

	return id, nil
}

// Ingest captures a new note. File captures arrive as multipart forms, text
// and url captures as JSON bodies.
func (h *MemoryHandler) Ingest(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return errors.WithStack(err)
	}

	input, err := h.bindIngest(c, owner)
	if err != nil {
		return err
	}

	note, err := h.noteUC.Ingest(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toNotePayload(note), "Note captured successfully")
}

func (h *MemoryHandler) bindIngest(c echo.Context, owner uuid.UUID) (*usecase.IngestInput, error) {
	contentType := c.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(contentType, echo.MIMEMultipartForm) {
		return h.bindMultipartIngest(c, owner)
	}

	var req ingestRequest
	if err := c.Bind(&req); err != nil {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("invalid ingest input")
	}
	if err := c.Validate(&req); err != nil {
		return nil, errors.WithStack(err)
	}

	return &usecase.IngestInput{
		OwnerID: owner,
		Mode:    entity.NoteMode(req.Mode),
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
	}, nil
}

func (h *MemoryHandler) bindMultipartIngest(c echo.Context, owner uuid.UUID) (*usecase.IngestInput, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("multipart ingest requires a file field")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, errors.Wrap(err, "failed to open uploaded file")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read uploaded file")
	}

	return &usecase.IngestInput{
		OwnerID: owner,
		Mode:    entity.NoteModeFile,
		Title:   c.FormValue("title"),
		Tags:    splitTags(c.FormValue("tags")),
		File: &usecase.FileUpload{
			Name:     fileHeader.Filename,
			MIMEType: fileHeader.Header.Get(echo.HeaderContentType),
			Data:     data,
		},
	}, nil
}

// splitTags parses the comma-separated tags field of a multipart form.
func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}

	return tags
}

// List returns the owner's full collection, including recycled notes.
func (h *MemoryHandler) List(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return errors.WithStack(err)
	}

	notes, err := h.noteUC.List(c.Request().Context(), owner)
	if err != nil {
		return errors.WithStack(err)
	}

	payloads := make([]*notePayload, 0, len(notes))
	for _, note := range notes {
		payloads = append(payloads, toNotePayload(note))
	}

	return response.Success(c, http.StatusOK, payloads, "")
}

// SoftDelete moves a note into the recycle bin.
func (h *MemoryHandler) SoftDelete(c echo.Context) error {
	owner, noteID, err := h.pathIDs(c)
	if err != nil {
		return err
	}

	if _, err := h.noteUC.SoftDelete(c.Request().Context(), owner, noteID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{
		"status": statusMovedToRecycleBin,
	}, "Note moved to recycle bin")
}

// Restore brings a recycled note back to the active collection.
func (h *MemoryHandler) Restore(c echo.Context) error {
	owner, noteID, err := h.pathIDs(c)
	if err != nil {
		return err
	}

	if _, err := h.noteUC.Restore(c.Request().Context(), owner, noteID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{
		"status": statusRestored,
	}, "Note restored")
}

// PermanentDelete runs the full purge protocol and reports what each stage did.
func (h *MemoryHandler) PermanentDelete(c echo.Context) error {
	owner, noteID, err := h.pathIDs(c)
	if err != nil {
		return err
	}

	report, err := h.purgeUC.PermanentDelete(c.Request().Context(), owner, noteID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"status":         statusErasedPermanently,
		"cleanup_report": report,
	}, "Note erased permanently")
}

func (h *MemoryHandler) pathIDs(c echo.Context) (uuid.UUID, uuid.UUID, error) {
	owner, err := ownerID(c)
	if err != nil {
		return uuid.Nil, uuid.Nil, errors.WithStack(err)
	}

	noteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, domainerrors.ErrValidationFailed.WrapMessage("invalid note id")
	}

	return owner, noteID, nil
}
