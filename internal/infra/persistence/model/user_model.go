// Package model contains the GORM persistence models mirroring the database tables.
package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table. PostgreSQL generates UUIDs via uuid_generate_v7().
type UserModel struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Email             string    `gorm:"type:varchar(255);unique;not null"`
	Name              string    `gorm:"type:varchar(100)"`
	PasswordHash      string    `gorm:"type:varchar(255)"`
	Provider          string    `gorm:"type:varchar(20);not null"`
	ProfilePictureURL string    `gorm:"type:text"`
	IsVerified        bool      `gorm:"not null;default:false"`
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Notes []NoteModel `gorm:"foreignKey:OwnerID"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}
