// Package entity contains the core business objects of the project.
package entity

// AuthProvider represents how an account proves its identity.
type AuthProvider string

const (
	// AuthProviderLocal indicates email/password credentials held by this service.
	AuthProviderLocal AuthProvider = "local"
	// AuthProviderFederated indicates an external identity provider (Google Sign-In).
	AuthProviderFederated AuthProvider = "federated"
)

// String returns the string representation of the AuthProvider.
func (p AuthProvider) String() string {
	return string(p)
}

// IsValid checks if the AuthProvider is a valid value.
func (p AuthProvider) IsValid() bool {
	switch p {
	case AuthProviderLocal, AuthProviderFederated:
		return true
	default:
		return false
	}
}
