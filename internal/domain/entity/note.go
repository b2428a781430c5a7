// Package entity contains the core business objects of the project.
package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// NoteMode determines how a note was captured and how its extracted text and
// original file fields are populated.
type NoteMode string

const (
	// NoteModeText is raw text pasted by the user.
	NoteModeText NoteMode = "text"
	// NoteModeFile is an uploaded binary whose payload lives in object storage.
	NoteModeFile NoteMode = "file"
	// NoteModeURL is a captured web page.
	NoteModeURL NoteMode = "url"
)

// String returns the string representation of the NoteMode.
func (m NoteMode) String() string {
	return string(m)
}

// IsValid checks if the NoteMode is a valid value.
func (m NoteMode) IsValid() bool {
	switch m {
	case NoteModeText, NoteModeFile, NoteModeURL:
		return true
	default:
		return false
	}
}

// NoteState is the lifecycle state of a note inside the live collection.
// A permanently purged note is removed from the collection entirely; "purged"
// is never a stored value.
type NoteState string

const (
	// NoteStateActive is the normal, listable state.
	NoteStateActive NoteState = "active"
	// NoteStateSoftDeleted hides the note in the recycle bin; reversible via restore.
	NoteStateSoftDeleted NoteState = "soft_deleted"
)

// String returns the string representation of the NoteState.
func (s NoteState) String() string {
	return string(s)
}

// NoteFile describes the original upload backing a note.
// URL is empty for pure-text notes.
type NoteFile struct {
	URL      string // Where the original payload lives. Empty or inline for text notes.
	Name     string // The original file name as uploaded.
	MIMEType string // The MIME type reported at upload time.
}

// Note is a single captured piece of knowledge. Every note is owned
// exclusively by its creating user for its entire life; ownership never
// transfers, and OwnerID is the isolation key for every operation.
type Note struct {
	ID            uuid.UUID // The unique ID of the note.
	OwnerID       uuid.UUID // The owning user. Mandatory on every record.
	Mode          NoteMode  // How the note was captured.
	Title         string
	OriginalFile  NoteFile
	ExtractedText string    // The only field indexed into the vector index.
	Summary       string    // AI-generated summary from the extraction collaborator.
	Tags          []string  // Free-form labels; insertion order irrelevant.
	Entities      []string  // Populated by an external enrichment step; starts empty.
	State         NoteState // active or soft_deleted.
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasExternalPayload reports whether the note owns a binary stored outside
// the metadata record. Only file captures ever write to object storage; a
// url note's OriginalFile.URL is the captured address itself, not a stored
// object, and must never be handed to a storage delete.
func (n *Note) HasExternalPayload() bool {
	if n.Mode != NoteModeFile {
		return false
	}
	url := n.OriginalFile.URL
	if url == "" || strings.HasPrefix(url, "data:") {
		return false
	}

	return true
}
