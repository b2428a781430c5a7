package errors

import (
	"fmt"
	"net/http"
)

// PurgeStage names one unit of the permanent-delete protocol.
type PurgeStage string

const (
	// PurgeStageVector is the vector index purge, always attempted first.
	PurgeStageVector PurgeStage = "vector"
	// PurgeStageStorage is the object storage purge.
	PurgeStageStorage PurgeStage = "storage"
	// PurgeStageMetadata is the final removal from the live note collection.
	PurgeStageMetadata PurgeStage = "metadata"
)

// PurgeStageError wraps the failure of a single purge stage. It implements
// AppError so the delivery layer maps it to a "cleanup failed, data preserved"
// response; the wrapped cause is for logs, never for the caller.
type PurgeStageError struct {
	stage PurgeStage
	err   error
}

// NewPurgeStageError creates a purge stage failure for the given stage.
func NewPurgeStageError(stage PurgeStage, err error) *PurgeStageError {
	return &PurgeStageError{stage: stage, err: err}
}

// Stage returns which stage of the protocol failed.
func (e *PurgeStageError) Stage() PurgeStage {
	return e.stage
}

// Error implements the error interface
func (e *PurgeStageError) Error() string {
	return fmt.Sprintf("purge stage %s failed: %v", e.stage, e.err)
}

// Unwrap exposes the underlying stage failure for errors.Is/As.
func (e *PurgeStageError) Unwrap() error {
	return e.err
}

// HTTPCode returns the HTTP status code
func (e *PurgeStageError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *PurgeStageError) ErrorCode() string {
	return "CLEANUP_FAILED"
}

// Message returns the user-friendly error message
func (e *PurgeStageError) Message() string {
	return "清除失敗，資料已完整保留，請稍後再試"
}

// Details returns detailed error information
func (e *PurgeStageError) Details() string {
	return fmt.Sprintf("stage %s did not complete; no data was lost", e.stage)
}
