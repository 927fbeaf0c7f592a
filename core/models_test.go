package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaperRecordStatus(t *testing.T) {
	t.Run("fetched", func(t *testing.T) {
		r := &PaperRecord{ID: "2501.00001", Title: "t"}
		assert.Equal(t, StatusFetched, r.Status())
	})

	t.Run("stored", func(t *testing.T) {
		r := &PaperRecord{ID: "2501.00001", Title: "t", BlobLocation: "file:///tmp/x.pdf"}
		assert.Equal(t, StatusStored, r.Status())
	})

	t.Run("text extracted", func(t *testing.T) {
		r := &PaperRecord{
			ID:            "2501.00001",
			Title:         "t",
			BlobLocation:  "file:///tmp/x.pdf",
			ExtractedText: "body",
		}
		assert.Equal(t, StatusTextExtracted, r.Status())
	})

	t.Run("summarized", func(t *testing.T) {
		r := &PaperRecord{
			ID:            "2501.00001",
			Title:         "t",
			BlobLocation:  "file:///tmp/x.pdf",
			ExtractedText: "body",
			Summary:       "short",
		}
		assert.Equal(t, StatusSummarized, r.Status())
	})
}

func TestPaperRecordHas(t *testing.T) {
	r := &PaperRecord{ID: "x", BlobLocation: "loc", ExtractedText: "text"}

	assert.True(t, r.Has(FieldBlobLocation))
	assert.True(t, r.Has(FieldExtractedText))
	assert.False(t, r.Has(FieldSummary))
	assert.False(t, r.Has(Field(99)))
}

func TestPaperUpdateApply(t *testing.T) {
	r := &PaperRecord{
		ID:           "2501.00001",
		Title:        "old title",
		BlobLocation: "file:///tmp/x.pdf",
	}

	// Only provided fields are touched.
	PaperUpdate{ExtractedText: Ref("extracted body")}.Apply(r)

	assert.Equal(t, "old title", r.Title)
	assert.Equal(t, "file:///tmp/x.pdf", r.BlobLocation)
	assert.Equal(t, "extracted body", r.ExtractedText)
	assert.Empty(t, r.Summary)

	PaperUpdate{Summary: Ref("a summary"), Title: Ref("new title")}.Apply(r)

	assert.Equal(t, "new title", r.Title)
	assert.Equal(t, "a summary", r.Summary)
	assert.Equal(t, "extracted body", r.ExtractedText)
}

func TestAnalysisText(t *testing.T) {
	r := &PaperRecord{ExtractedText: "full text"}
	assert.Equal(t, "full text", r.AnalysisText())

	r.Summary = "dense summary"
	assert.Equal(t, "dense summary", r.AnalysisText())
}

func TestDigestBytes(t *testing.T) {
	a := DigestBytes([]byte("%PDF-1.5 content"))
	b := DigestBytes([]byte("%PDF-1.5 content"))
	c := DigestBytes([]byte("%PDF-1.5 other"))

	require.NotEmpty(t, a)
	assert.Equal(t, a, b, "identical content must produce identical digests")
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64) // 32 bytes hex encoded
}

func TestPaperRecordMUSRoundTrip(t *testing.T) {
	record := PaperRecord{
		ID:            "2501.00042",
		Title:         "Attention Is Not Enough",
		BlobLocation:  "file:///var/blobs/2501.00042.pdf",
		Digest:        DigestBytes([]byte("pdf bytes")),
		ExtractedText: "abstract and body",
		Summary:       "",
		Seq:           7,
	}
	record.FetchedAt = record.FetchedAt.Add(0) // zero times are never stored in practice

	buf := make([]byte, PaperRecordMUS.Size(record))
	n := PaperRecordMUS.Marshal(record, buf)
	require.Equal(t, len(buf), n)

	got, read, err := PaperRecordMUS.Unmarshal(buf)
	require.NoError(t, err)
	assert.Equal(t, n, read)
	assert.Equal(t, record.ID, got.ID)
	assert.Equal(t, record.Title, got.Title)
	assert.Equal(t, record.BlobLocation, got.BlobLocation)
	assert.Equal(t, record.Digest, got.Digest)
	assert.Equal(t, record.ExtractedText, got.ExtractedText)
	assert.Empty(t, got.Summary)
	assert.Equal(t, uint64(7), got.Seq)
}
