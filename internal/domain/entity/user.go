// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core identity entity. Exactly one User exists per unique email;
// a federated login with a matching email links the existing User instead of
// creating a duplicate.
type User struct {
	ID                uuid.UUID    // The Global Unique Identifier (GUID) for the user.
	Email             string       // The user's login identifier. Compared byte-for-byte as stored.
	Name              string       // The user's display name.
	PasswordHash      string       // The bcrypt hash of the password. Empty for pure-federated accounts.
	Provider          AuthProvider // How this account authenticates: local password or a federated IdP.
	ProfilePictureURL string       // Optional avatar URL supplied by the federated provider.
	IsVerified        bool         // Federated accounts are verified at creation; local accounts start unverified.
	CreatedAt         time.Time    // Timestamp of when this user account was created.
	UpdatedAt         time.Time    // Timestamp of the last modification to this user's data.
}

// HasPassword reports whether the account can be used for local password login.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}
