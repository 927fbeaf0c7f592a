package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// PaperRecordMUS serializes PaperRecord values for storage. Timestamps are
// stored as Unix microseconds; string fields keep their empty/non-empty
// state, which is what the field-presence selection relies on.
var PaperRecordMUS = paperRecordMUS{}

type paperRecordMUS struct{}

// Marshal writes the record into bs and returns the number of bytes used.
// bs must be at least Size(record) bytes long.
func (paperRecordMUS) Marshal(record PaperRecord, bs []byte) (n int) {
	n = ord.String.Marshal(record.ID, bs)
	n += ord.String.Marshal(record.Title, bs[n:])
	n += ord.String.Marshal(record.BlobLocation, bs[n:])
	n += ord.String.Marshal(record.Digest, bs[n:])
	n += ord.String.Marshal(record.ExtractedText, bs[n:])
	n += ord.String.Marshal(record.Summary, bs[n:])
	n += varint.Uint64.Marshal(record.Seq, bs[n:])
	n += varint.Int64.Marshal(record.FetchedAt.UnixMicro(), bs[n:])
	n += varint.Int64.Marshal(record.UpdatedAt.UnixMicro(), bs[n:])
	return n
}

// Unmarshal reads a record from bs, returning it with the number of bytes
// consumed.
func (paperRecordMUS) Unmarshal(bs []byte) (record PaperRecord, n int, err error) {
	var n1 int
	if record.ID, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if record.Title, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if record.BlobLocation, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if record.Digest, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if record.ExtractedText, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if record.Summary, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if record.Seq, n1, err = varint.Uint64.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	var fetchedAt, updatedAt int64
	if fetchedAt, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if updatedAt, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	record.FetchedAt = time.UnixMicro(fetchedAt).UTC()
	record.UpdatedAt = time.UnixMicro(updatedAt).UTC()
	return
}

// Size returns the number of bytes Marshal will use for the record.
func (paperRecordMUS) Size(record PaperRecord) (size int) {
	size = ord.String.Size(record.ID)
	size += ord.String.Size(record.Title)
	size += ord.String.Size(record.BlobLocation)
	size += ord.String.Size(record.Digest)
	size += ord.String.Size(record.ExtractedText)
	size += ord.String.Size(record.Summary)
	size += varint.Uint64.Size(record.Seq)
	size += varint.Int64.Size(record.FetchedAt.UnixMicro())
	size += varint.Int64.Size(record.UpdatedAt.UnixMicro())
	return size
}
