// Package extract defines text extraction from stored paper blobs.
package extract

import (
	"context"
	"errors"
)

// Extractor turns raw document bytes into plain text.
// Implementations must be thread-safe for concurrent use.
type Extractor interface {
	// ExtractText returns the document's plain text. A document that
	// parses but yields no usable text returns ErrNoText.
	ExtractText(ctx context.Context, data []byte) (string, error)
}

var (
	// ErrNoText indicates a document with no extractable text, e.g. a
	// scanned PDF with image-only pages.
	ErrNoText = errors.New("no extractable text")

	// ErrMalformedDocument indicates bytes that are not a parseable document.
	ErrMalformedDocument = errors.New("malformed document")
)
