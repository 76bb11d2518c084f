// Package storage abstracts the object store that holds paper documents.
// The contract mirrors a bucket-scoped blob API: download, upload with
// upsert, prefix listing and multi-remove. Absence is signalled with
// ErrObjectNotFound so callers can map it to empty-result semantics.
package storage

import (
	"context"
	"errors"
)

var ErrObjectNotFound = errors.New("object not found")

// ErrObjectExists is returned by Upload when upsert is false and the path is
// already occupied.
var ErrObjectExists = errors.New("object already exists")

type ObjectStorage interface {
	// Download returns the full object body.
	Download(ctx context.Context, path string) ([]byte, error)

	// Upload writes the object body. With upsert false an existing object is
	// not replaced and ErrObjectExists is returned.
	Upload(ctx context.Context, path string, data []byte, upsert bool) error

	// List returns the paths of all objects under the given prefix.
	List(ctx context.Context, prefix string) ([]string, error)

	// Remove deletes the given objects. Missing paths are not an error so
	// removal stays idempotent.
	Remove(ctx context.Context, paths ...string) error
}
