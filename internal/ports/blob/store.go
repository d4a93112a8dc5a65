package blob

import (
	"context"
	"io"
)

// PutResult describes a stored object.
type PutResult struct {
	Path string // storage key
	URL  string // public URL
}

// Store is the object-storage port behind file uploads.
type Store interface {
	Put(ctx context.Context, key, contentType string, r io.Reader) (PutResult, error)
}
