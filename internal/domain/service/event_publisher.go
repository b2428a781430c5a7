package service

import (
	"context"
)

// Note lifecycle actions published for downstream consumers (enrichment,
// analytics). Publishing is fire-and-forget; a failed publish never fails
// the request that produced it.
const (
	NoteEventIngested    = "ingested"
	NoteEventSoftDeleted = "soft_deleted"
	NoteEventRestored    = "restored"
	NoteEventPurged      = "purged"
)

// NoteEvent represents a note lifecycle transition.
type NoteEvent struct {
	RequestID string `json:"request_id,omitempty"` // For distributed tracing
	NoteID    string `json:"note_id"`
	OwnerID   string `json:"owner_id"`
	Action    string `json:"action"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishNoteEvent publishes a note lifecycle event for async processing
	PublishNoteEvent(ctx context.Context, event *NoteEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
