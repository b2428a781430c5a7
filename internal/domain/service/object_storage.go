package service

import (
	"context"
)

// ObjectStorage is the narrow contract to the external binary store holding
// original uploads. Keys and URLs are opaque to the domain; the provider
// decides the physical layout.
type ObjectStorage interface {
	// Store writes a payload under the given key and returns the URL the
	// note's original_file will reference.
	Store(ctx context.Context, key string, data []byte, contentType string) (string, error)

	// Delete removes the payload referenced by the URL. Deleting an object
	// that is already gone is a success; purge must be retryable.
	Delete(ctx context.Context, url string) error
}
