package badger

import (
	"bytes"
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/paperdesk/paperdesk/core"
	"github.com/paperdesk/paperdesk/storage"
)

// PaperRepository implements storage.PaperRepository for BadgerDB.
type PaperRepository struct {
	backend  *Backend
	orderSeq *badger.Sequence
}

var _ storage.PaperRepository = (*PaperRepository)(nil)

// NewPaperRepository creates a new PaperRepository.
func NewPaperRepository(backend *Backend) (*PaperRepository, error) {
	orderSeq, err := backend.GetSequence(paperOrderSeq)
	if err != nil {
		return nil, err
	}

	return &PaperRepository{
		backend:  backend,
		orderSeq: orderSeq,
	}, nil
}

// Close releases the fetch-order sequence.
func (r *PaperRepository) Close() error {
	return r.orderSeq.Release()
}

// Exists reports whether a record for the given paper id is present.
// Single key lookup; this is the fetch stage's dedup check.
func (r *PaperRepository) Exists(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, storage.ErrEmptyPaperID
	}

	var found bool
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		_, err := tx.Get(makePaperKey(id))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	}, false)
	return found, err
}

// GetPaper retrieves a single record by paper id.
func (r *PaperRepository) GetPaper(ctx context.Context, id string) (*core.PaperRecord, error) {
	if id == "" {
		return nil, storage.ErrEmptyPaperID
	}

	var result *core.PaperRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		record, err := r.readPaper(tx, makePaperKey(id))
		if err != nil {
			return err
		}
		if record == nil {
			return storage.ErrNotFound
		}
		result = record
		return nil
	}, false)
	return result, err
}

// UpsertPaper creates the record if absent and merges the provided update
// fields into it. The read-merge-write happens inside one transaction, so
// a record is never stored half-updated; the upsert is the unit of commit.
func (r *PaperRepository) UpsertPaper(ctx context.Context, id string, update core.PaperUpdate) (*core.PaperRecord, error) {
	if id == "" {
		return nil, storage.ErrEmptyPaperID
	}

	var result *core.PaperRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makePaperKey(id)
		record, err := r.readPaper(tx, key)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if record == nil {
			// New record: assign fetch-order sequence and index it
			nextSeq, err := r.orderSeq.Next()
			if err != nil {
				return err
			}
			// BadgerDB sequences can return 0 on first call, so we skip it
			if nextSeq == 0 {
				nextSeq, err = r.orderSeq.Next()
				if err != nil {
					return err
				}
			}

			record = &core.PaperRecord{
				ID:        id,
				Seq:       nextSeq,
				FetchedAt: now,
			}

			orderKey := makePaperOrderKey(nextSeq)
			if err := tx.Set(orderKey, []byte(id)); err != nil {
				return err
			}
		}

		update.Apply(record)
		record.UpdatedAt = now

		if err := tx.Set(key, storage.MarshalPaperRecord(record)); err != nil {
			return err
		}

		result = record
		return tx.Commit()
	}, true)

	return result, err
}

// GetMissing returns up to limit records lacking the given field, oldest
// fetch order first.
func (r *PaperRepository) GetMissing(ctx context.Context, field core.Field, limit int) ([]*core.PaperRecord, error) {
	if err := core.ValidateField(field); err != nil {
		return nil, err
	}
	return r.scanOrdered(limit, func(record *core.PaperRecord) bool {
		return !record.Has(field)
	})
}

// GetMissingWith returns up to limit records lacking the missing field
// while having the present field, oldest fetch order first. Only ready
// records count against the limit.
func (r *PaperRepository) GetMissingWith(ctx context.Context, missing, present core.Field, limit int) ([]*core.PaperRecord, error) {
	if err := core.ValidateField(missing); err != nil {
		return nil, err
	}
	if err := core.ValidateField(present); err != nil {
		return nil, err
	}
	return r.scanOrdered(limit, func(record *core.PaperRecord) bool {
		return !record.Has(missing) && record.Has(present)
	})
}

// GetWith returns up to limit records that have the given field populated,
// oldest fetch order first.
func (r *PaperRepository) GetWith(ctx context.Context, field core.Field, limit int) ([]*core.PaperRecord, error) {
	if err := core.ValidateField(field); err != nil {
		return nil, err
	}
	return r.scanOrdered(limit, func(record *core.PaperRecord) bool {
		return record.Has(field)
	})
}

// GetRecentWith returns up to limit records that have the given field
// populated, newest fetch order first. A zero field matches any record.
func (r *PaperRepository) GetRecentWith(ctx context.Context, field core.Field, limit int) ([]*core.PaperRecord, error) {
	if field != 0 {
		if err := core.ValidateField(field); err != nil {
			return nil, err
		}
	}
	if limit <= 0 {
		return nil, storage.ErrInvalidQuery
	}

	var results []*core.PaperRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true

		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := paperOrderKeyPrefix()
		for iter.Seek(paperOrderKeyUpperBound()); iter.Valid() && len(results) < limit; iter.Next() {
			key := iter.Item().Key()
			if !bytes.HasPrefix(key, prefix) {
				break
			}

			record, err := r.readIndexedPaper(tx, iter.Item())
			if err != nil {
				return err
			}
			if record != nil && (field == 0 || record.Has(field)) {
				results = append(results, record)
			}
		}
		return nil
	}, false)

	return results, err
}

// CountPapers returns the total number of records.
func (r *PaperRepository) CountPapers(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(paperRecordPrefix + ":")

		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// scanOrdered walks the fetch-order index oldest first, collecting up to
// limit records that satisfy keep.
func (r *PaperRepository) scanOrdered(limit int, keep func(*core.PaperRecord) bool) ([]*core.PaperRecord, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidQuery
	}

	var results []*core.PaperRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = paperOrderKeyPrefix()

		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid() && len(results) < limit; iter.Next() {
			record, err := r.readIndexedPaper(tx, iter.Item())
			if err != nil {
				return err
			}
			if record != nil && keep(record) {
				results = append(results, record)
			}
		}
		return nil
	}, false)

	return results, err
}

// readIndexedPaper resolves a fetch-order index entry to its full record.
func (r *PaperRepository) readIndexedPaper(tx *badger.Txn, item *badger.Item) (*core.PaperRecord, error) {
	var id string
	if err := item.Value(func(val []byte) error {
		id = string(val)
		return nil
	}); err != nil {
		return nil, err
	}
	return r.readPaper(tx, makePaperKey(id))
}

// readPaper reads and deserializes a record; returns nil if absent.
func (r *PaperRepository) readPaper(tx *badger.Txn, key []byte) (*core.PaperRecord, error) {
	item, err := tx.Get(key)
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var record *core.PaperRecord
	if err := item.Value(func(val []byte) error {
		var err error
		record, err = storage.UnmarshalPaperRecord(val)
		return err
	}); err != nil {
		return nil, err
	}
	return record, nil
}
