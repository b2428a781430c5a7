// Package constants holds shared provider identifiers used across config
// and infrastructure wiring.
package constants

// Pub/Sub provider identifiers.
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)

// Object storage provider identifiers.
const (
	StorageProviderBucket = "bucket"
	StorageProviderS3     = "s3"
)
