package pipeline

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/paperdesk/paperdesk/core"
	"github.com/paperdesk/paperdesk/feed"
	"github.com/paperdesk/paperdesk/storage"
	"github.com/paperdesk/paperdesk/storage/badger"
	"github.com/stretchr/testify/require"
)

// setupRepo creates an in-memory repository torn down with the test.
func setupRepo(t *testing.T) storage.PaperRepository {
	t.Helper()
	repo, cleanup, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(cleanup)
	return repo
}

// fakeSource serves a fixed candidate list.
type fakeSource struct {
	entries []feed.Entry
	err     error
}

func (f *fakeSource) Fetch(ctx context.Context) ([]feed.Entry, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.entries, nil
}

// fakeDownloader serves canned payloads by URL.
type fakeDownloader struct {
	mu       sync.Mutex
	payloads map[string][]byte
	errs     map[string]error
	calls    int
}

func (f *fakeDownloader) Download(ctx context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	if data, ok := f.payloads[url]; ok {
		return data, nil
	}
	return nil, fmt.Errorf("no payload for %s", url)
}

func (f *fakeDownloader) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// memBlobStore is an in-memory blob.Store.
type memBlobStore struct {
	mu     sync.Mutex
	blobs  map[string][]byte
	putErr error
	getErr map[string]error
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{blobs: map[string][]byte{}}
}

func (s *memBlobStore) Put(ctx context.Context, paperID string, data []byte) (string, error) {
	if s.putErr != nil {
		return "", s.putErr
	}
	location := "mem://" + paperID
	s.mu.Lock()
	s.blobs[location] = data
	s.mu.Unlock()
	return location, nil
}

func (s *memBlobStore) Get(ctx context.Context, location string) ([]byte, error) {
	if err, ok := s.getErr[location]; ok {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.blobs[location]
	if !ok {
		return nil, fmt.Errorf("no blob at %s", location)
	}
	return data, nil
}

// fakeExtractor derives text from the blob bytes, or fails per input.
type fakeExtractor struct {
	extractFunc func(data []byte) (string, error)
}

func (f *fakeExtractor) ExtractText(ctx context.Context, data []byte) (string, error) {
	if f.extractFunc != nil {
		return f.extractFunc(data)
	}
	return "text of " + string(data), nil
}

// seedPaper inserts a record in a given processing state.
func seedPaper(t *testing.T, repo storage.PaperRepository, id string, fields core.PaperUpdate) *core.PaperRecord {
	t.Helper()
	if fields.Title == nil {
		fields.Title = core.Ref("Paper " + id)
	}
	record, err := repo.UpsertPaper(context.Background(), id, fields)
	require.NoError(t, err)
	return record
}
