// Package storage defines the interface for object storage operations.
// Swap implementations by changing the concrete type injected at startup;
// the MinIO implementation works with any S3-compatible provider.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNoPublicURL is returned when an object has no browser-accessible URL.
var ErrNoPublicURL = errors.New("public url unavailable")

// Storage is the interface for uploading, addressing and removing objects.
type Storage interface {
	// Upload streams data to the store under the given key.
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	// PublicURL constructs the browser-accessible URL for a given key.
	PublicURL(key string) (string, error)
	// Remove deletes the objects identified by keys.
	Remove(ctx context.Context, keys ...string) error
}

// ObjectKey groups every object of a serial code under one prefix: "{serial}/{filename}".
func ObjectKey(serialCode, filename string) string {
	return serialCode + "/" + filename
}
