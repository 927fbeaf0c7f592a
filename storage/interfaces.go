package storage

import (
	"context"

	"github.com/paperdesk/paperdesk/core"
)

// PaperRepository persists paper records and answers the field-presence
// queries the pipeline stages select their backlog with. Implementations
// must be thread-safe; all mutation is per-record field merge, so
// concurrent stage invocations on disjoint records never conflict.
// Concurrent writes to the same field are last-write-wins.
type PaperRepository interface {
	// Exists reports whether a record for the given paper id is present.
	// It is a single key lookup, never a scan; the fetch stage calls it
	// once per feed candidate.
	Exists(ctx context.Context, id string) (bool, error)

	// GetPaper retrieves a single record by paper id.
	// Returns ErrNotFound if the record doesn't exist.
	GetPaper(ctx context.Context, id string) (*core.PaperRecord, error)

	// UpsertPaper creates the record if absent and merges the provided
	// update fields into it. Absent update fields are left untouched.
	// New records are assigned a fetch-order sequence and FetchedAt
	// timestamp. Returns the record as stored.
	UpsertPaper(ctx context.Context, id string, update core.PaperUpdate) (*core.PaperRecord, error)

	// GetMissing returns up to limit records lacking the given field,
	// oldest fetch order first. This is the selection mechanism every
	// stage after fetch uses to find its backlog.
	GetMissing(ctx context.Context, field core.Field, limit int) ([]*core.PaperRecord, error)

	// GetMissingWith returns up to limit records lacking the missing
	// field while having the present field, oldest fetch order first.
	// The limit counts only such ready records, so records stuck before
	// the earlier stage (e.g. unextractable PDFs) never occupy the
	// selection window of a later one.
	GetMissingWith(ctx context.Context, missing, present core.Field, limit int) ([]*core.PaperRecord, error)

	// GetWith returns up to limit records that have the given field
	// populated, oldest fetch order first. Used by the relevance analyzer
	// to pull a bounded candidate pool.
	GetWith(ctx context.Context, field core.Field, limit int) ([]*core.PaperRecord, error)

	// GetRecentWith returns up to limit records that have the given field
	// populated, newest fetch order first. Force-reprocessing paths select
	// their targets with it. A zero field means "any record".
	GetRecentWith(ctx context.Context, field core.Field, limit int) ([]*core.PaperRecord, error)

	// CountPapers returns the total number of records.
	CountPapers(ctx context.Context) (int, error)

	// Close releases resources held by the repository.
	Close() error
}
