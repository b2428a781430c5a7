package model

import (
	"time"

	"github.com/google/uuid"
)

// NoteModel mirrors the 'notes' table. A permanently purged note is a deleted
// row, never a state value: the live table only ever holds active and
// soft-deleted records.
type NoteModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	OwnerID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Mode          string    `gorm:"type:varchar(10);not null"`
	Title         string    `gorm:"type:varchar(255)"`
	FileURL       string    `gorm:"type:text"`
	FileName      string    `gorm:"type:varchar(255)"`
	FileMIMEType  string    `gorm:"type:varchar(100)"`
	ExtractedText string    `gorm:"type:text"`
	Summary       string    `gorm:"type:text"`
	Tags          []string  `gorm:"serializer:json;type:jsonb"`
	Entities      []string  `gorm:"serializer:json;type:jsonb"`
	State         string    `gorm:"type:varchar(20);not null;default:active"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName explicitly sets the table name for GORM.
func (NoteModel) TableName() string {
	return "notes"
}
