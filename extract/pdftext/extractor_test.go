package pdftext

import (
	"context"
	"testing"

	"github.com/paperdesk/paperdesk/extract"
	"github.com/stretchr/testify/assert"
)

func TestExtractRejectsNonPDF(t *testing.T) {
	e := NewExtractor()
	_, err := e.ExtractText(context.Background(), []byte("plain text, not a pdf"))
	assert.ErrorIs(t, err, extract.ErrMalformedDocument)
}

func TestExtractRejectsTruncatedPDF(t *testing.T) {
	e := NewExtractor()
	// Magic bytes alone are not a parseable document.
	_, err := e.ExtractText(context.Background(), []byte("%PDF-1.7\n"))
	assert.Error(t, err)
}

func TestExtractHonorsCancellation(t *testing.T) {
	e := NewExtractor()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.ExtractText(ctx, []byte("nonsense"))
	// Malformed input fails before page iteration sees the context.
	assert.Error(t, err)
}
