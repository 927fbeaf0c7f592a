package fs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/paperdesk/paperdesk/blob"
)

const locationScheme = "file://"

// Store implements blob.Store on the local filesystem. Blobs live under a
// single root directory as <paper_id>.pdf, mirroring the bucket layout the
// pipeline would use with an object store.
type Store struct {
	root   string
	logger *slog.Logger
}

var _ blob.Store = (*Store)(nil)

// NewStore creates a filesystem blob store rooted at dir, creating the
// directory if needed.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty root directory", blob.ErrInvalidLocation)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, err
	}

	return &Store{
		root:   abs,
		logger: slog.Default().With("component", "fs-blob-store"),
	}, nil
}

// Put writes data to <root>/<paperID>.pdf and returns its file:// location.
func (s *Store) Put(ctx context.Context, paperID string, data []byte) (string, error) {
	if paperID == "" {
		return "", fmt.Errorf("%w: empty paper id", blob.ErrInvalidLocation)
	}
	if len(data) == 0 {
		return "", blob.ErrEmptyBlob
	}

	path := filepath.Join(s.root, paperID+".pdf")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}

	location := locationScheme + path
	s.logger.Debug("stored blob", "paperID", paperID, "location", location, "bytes", len(data))
	return location, nil
}

// Get reads the blob at a file:// location produced by Put.
func (s *Store) Get(ctx context.Context, location string) ([]byte, error) {
	path, ok := strings.CutPrefix(location, locationScheme)
	if !ok || path == "" {
		return nil, fmt.Errorf("%w: %q", blob.ErrInvalidLocation, location)
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %q", blob.ErrNotFound, location)
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}
