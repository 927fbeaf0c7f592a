// Package feed defines the candidate-listing collaborator the fetch stage
// pulls from. A Source returns the current candidate list; freshness is the
// source's concern, dedup is the pipeline's.
package feed

import (
	"context"
	"errors"
)

// Entry is one candidate paper as listed by a feed.
type Entry struct {
	PaperID string
	Title   string
	PDFURL  string
}

// Source supplies the current candidate papers.
type Source interface {
	Fetch(ctx context.Context) ([]Entry, error)
}

// Downloader retrieves raw PDF bytes for a candidate.
type Downloader interface {
	Download(ctx context.Context, url string) ([]byte, error)
}

var (
	// ErrUnavailable indicates the upstream feed could not be reached.
	ErrUnavailable = errors.New("feed unavailable")

	// ErrInvalidContent indicates a download that is not a usable PDF.
	ErrInvalidContent = errors.New("invalid pdf content")
)
