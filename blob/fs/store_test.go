package fs

import (
	"context"
	"strings"
	"testing"

	"github.com/paperdesk/paperdesk/blob"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutGetRoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	content := []byte("%PDF-1.5 fake pdf bytes")

	location, err := store.Put(ctx, "2501.00001", content)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(location, "file://"))
	assert.Contains(t, location, "2501.00001.pdf")

	got, err := store.Get(ctx, location)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestPutOverwrites(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	first, err := store.Put(ctx, "2501.00001", []byte("v1"))
	require.NoError(t, err)
	second, err := store.Put(ctx, "2501.00001", []byte("v2"))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	got, err := store.Get(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got)
}

func TestPutValidation(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()

	_, err = store.Put(ctx, "", []byte("data"))
	assert.ErrorIs(t, err, blob.ErrInvalidLocation)

	_, err = store.Put(ctx, "2501.00001", nil)
	assert.ErrorIs(t, err, blob.ErrEmptyBlob)
}

func TestGetErrors(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()

	_, err = store.Get(ctx, "not-a-location")
	assert.ErrorIs(t, err, blob.ErrInvalidLocation)

	_, err = store.Get(ctx, "file:///nowhere/missing.pdf")
	assert.ErrorIs(t, err, blob.ErrNotFound)
}
