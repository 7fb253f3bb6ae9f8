package storage

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"
)

// LocalImageStore keeps image blobs on the local filesystem. Files are
// written under a single directory with uuid-based names and addressed by
// URLs of the form <baseURL>/<filename>.
type LocalImageStore struct {
	dir     string
	baseURL string
}

// NewLocalImageStore creates the storage directory if needed and returns a
// store rooted there.
func NewLocalImageStore(dir, baseURL string) (*LocalImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &StorageError{Op: "init", Err: err}
	}
	return &LocalImageStore{
		dir:     dir,
		baseURL: baseURL,
	}, nil
}

// Upload writes the bytes to a uuid-named file and returns its URL. The
// caller filename is never trusted for the stored path; only its extension
// survives.
func (s *LocalImageStore) Upload(r io.Reader, filename, contentType string) (string, error) {
	name := uuid.New().String() + filepath.Ext(filename)
	dst := filepath.Join(s.dir, name)

	f, err := os.Create(dst)
	if err != nil {
		return "", &StorageError{Op: "upload", Err: err}
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(dst) // don't leave a partial file behind
		return "", &StorageError{Op: "upload", Err: err}
	}
	if err := f.Close(); err != nil {
		return "", &StorageError{Op: "upload", Err: err}
	}

	return fmt.Sprintf("%s/%s", s.baseURL, name), nil
}

// Delete removes the blob behind the URL. Returns false without an error
// when the file is already gone.
func (s *LocalImageStore) Delete(url string) (bool, error) {
	if url == "" {
		return false, nil
	}

	target := filepath.Join(s.dir, path.Base(url))
	if err := os.Remove(target); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, &StorageError{Op: "delete", Err: err}
	}
	return true, nil
}

// Get opens the blob behind the URL for reading.
func (s *LocalImageStore) Get(url string) (io.ReadCloser, error) {
	if url == "" {
		return nil, ErrImageNotFound
	}

	target := filepath.Join(s.dir, path.Base(url))
	f, err := os.Open(target)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrImageNotFound
		}
		return nil, &StorageError{Op: "get", Err: err}
	}
	return f, nil
}
