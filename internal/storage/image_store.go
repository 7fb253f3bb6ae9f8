package storage

import (
	"errors"
	"fmt"
	"io"
)

// ErrImageNotFound is returned by Get when the referenced blob is missing.
var ErrImageNotFound = errors.New("image not found")

// StorageError wraps an I/O failure from the blob backend.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("image storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ImageStore is the blob boundary for product images. Implementations
// generate a collision-free storage name; the caller-supplied filename only
// contributes metadata such as the extension.
type ImageStore interface {
	// Upload stores the bytes and returns the public URL of the new blob.
	Upload(r io.Reader, filename, contentType string) (string, error)
	// Delete removes the blob behind the URL. A missing blob is reported
	// as false, not as an error.
	Delete(url string) (bool, error)
	// Get opens the blob for reading. Returns ErrImageNotFound if missing.
	Get(url string) (io.ReadCloser, error)
}
