package core

import (
	"encoding/hex"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// Status is the derived lifecycle stage of a paper record. It is inferred
// from which optional fields are populated and is never stored.
type Status int

const (
	// StatusFetched means the record exists but no blob has been stored yet.
	StatusFetched Status = iota + 1
	// StatusStored means the raw PDF bytes are durably stored.
	StatusStored
	// StatusTextExtracted means plain text has been extracted from the blob.
	StatusTextExtracted
	// StatusSummarized means a summary has been generated.
	StatusSummarized
)

// String returns the status name as used in run reports and logs.
func (s Status) String() string {
	switch s {
	case StatusFetched:
		return "fetched"
	case StatusStored:
		return "stored"
	case StatusTextExtracted:
		return "text_extracted"
	case StatusSummarized:
		return "summarized"
	default:
		return "unknown"
	}
}

// Field identifies an optional, stage-owned field of a PaperRecord.
// Stages select their backlog by field absence, which is what makes each
// stage independently idempotent and resumable.
type Field int

const (
	// FieldBlobLocation is set by the fetch stage once the PDF is stored.
	FieldBlobLocation Field = iota + 1
	// FieldExtractedText is set by the extraction stage.
	FieldExtractedText
	// FieldSummary is set by the summarization stage.
	FieldSummary
)

// String returns the field name as used in storage queries and logs.
func (f Field) String() string {
	switch f {
	case FieldBlobLocation:
		return "blob_location"
	case FieldExtractedText:
		return "extracted_text"
	case FieldSummary:
		return "summary"
	default:
		return "unknown"
	}
}

// PaperRecord is the persisted state for one paper, keyed by the external
// identifier supplied by the feed. The optional fields are populated one
// stage at a time and never rolled back.
type PaperRecord struct {
	ID            string // external feed identifier, immutable
	Title         string
	BlobLocation  string // set once the PDF is durably stored
	Digest        string // hex BLAKE2b digest of the stored PDF bytes
	ExtractedText string
	Summary       string
	Seq           uint64    // fetch-order sequence, assigned by storage
	FetchedAt     time.Time // when the record was first created
	UpdatedAt     time.Time // when the record was last written
}

// Has reports whether the given optional field is populated.
func (r *PaperRecord) Has(f Field) bool {
	switch f {
	case FieldBlobLocation:
		return r.BlobLocation != ""
	case FieldExtractedText:
		return r.ExtractedText != ""
	case FieldSummary:
		return r.Summary != ""
	default:
		return false
	}
}

// Status derives the lifecycle stage from field presence.
func (r *PaperRecord) Status() Status {
	switch {
	case r.Has(FieldSummary):
		return StatusSummarized
	case r.Has(FieldExtractedText):
		return StatusTextExtracted
	case r.Has(FieldBlobLocation):
		return StatusStored
	default:
		return StatusFetched
	}
}

// AnalysisText returns the densest text available for on-demand analysis:
// the summary when present, otherwise the extracted text.
func (r *PaperRecord) AnalysisText() string {
	if r.Summary != "" {
		return r.Summary
	}
	return r.ExtractedText
}

// PaperUpdate carries the fields a stage wants to merge into a record.
// Only non-nil fields are written; everything else is left untouched, so a
// stage never needs to know about fields owned by other stages.
type PaperUpdate struct {
	Title         *string
	BlobLocation  *string
	Digest        *string
	ExtractedText *string
	Summary       *string
}

// Apply merges the populated update fields into the record.
func (u PaperUpdate) Apply(r *PaperRecord) {
	if u.Title != nil {
		r.Title = *u.Title
	}
	if u.BlobLocation != nil {
		r.BlobLocation = *u.BlobLocation
	}
	if u.Digest != nil {
		r.Digest = *u.Digest
	}
	if u.ExtractedText != nil {
		r.ExtractedText = *u.ExtractedText
	}
	if u.Summary != nil {
		r.Summary = *u.Summary
	}
}

// Ref returns a pointer to v, for building PaperUpdate values inline.
func Ref[T any](v T) *T {
	return &v
}

// DigestBytes computes the hex BLAKE2b-256 digest of raw blob content.
// The digest is recorded at fetch time so operators can verify stored PDFs.
func DigestBytes(data []byte) string {
	h, _ := blake2b.New(32, nil)
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
