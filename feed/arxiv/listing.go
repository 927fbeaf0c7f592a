package arxiv

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/paperdesk/paperdesk/feed"
)

const defaultListingBaseURL = "https://arxiv.org"

// ListingSource implements feed.Source by scraping arXiv category listing
// pages (/list/<category>/recent). It serves as a fallback when the RSS
// channel is lagging, and lists the same candidate shape.
type ListingSource struct {
	client     *http.Client
	baseURL    string
	categories []string
	logger     *slog.Logger
}

var _ feed.Source = (*ListingSource)(nil)

// NewListingSource creates a listing scraper for the given categories
// (e.g. "cs.AI"). A nil client gets a 30s timeout default.
func NewListingSource(categories []string, client *http.Client) *ListingSource {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &ListingSource{
		client:     client,
		baseURL:    defaultListingBaseURL,
		categories: categories,
		logger:     slog.Default().With("component", "arxiv-listing"),
	}
}

// WithBaseURL overrides the arXiv host, used by tests.
func (s *ListingSource) WithBaseURL(baseURL string) *ListingSource {
	s.baseURL = strings.TrimSuffix(baseURL, "/")
	return s
}

// Fetch scrapes each category's recent listing and returns the entries in
// page order, deduplicated across categories.
func (s *ListingSource) Fetch(ctx context.Context) ([]feed.Entry, error) {
	if len(s.categories) == 0 {
		return nil, fmt.Errorf("%w: no categories configured", feed.ErrUnavailable)
	}

	var entries []feed.Entry
	seen := map[string]struct{}{}

	for _, category := range s.categories {
		pageURL := fmt.Sprintf("%s/list/%s/recent", s.baseURL, category)
		doc, err := s.fetchDocument(ctx, pageURL)
		if err != nil {
			return nil, fmt.Errorf("category %s: %w", category, err)
		}

		doc.Find("dl > dt").Each(func(i int, dt *goquery.Selection) {
			entry, ok := parseListingEntry(dt)
			if !ok {
				return
			}
			if _, dup := seen[entry.PaperID]; dup {
				return
			}
			seen[entry.PaperID] = struct{}{}
			entries = append(entries, entry)
		})
	}

	s.logger.Debug("scraped listings", "categories", len(s.categories), "entries", len(entries))
	return entries, nil
}

func (s *ListingSource) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", feed.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: listing returned %s", feed.ErrUnavailable, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: parse listing: %w", feed.ErrUnavailable, err)
	}
	return doc, nil
}

// parseListingEntry reads one dt/dd pair from a listing page. The dt holds
// the abstract link carrying the id; the sibling dd holds the title.
func parseListingEntry(dt *goquery.Selection) (feed.Entry, bool) {
	href, ok := dt.Find(`a[title="Abstract"]`).Attr("href")
	if !ok {
		return feed.Entry{}, false
	}
	idx := strings.LastIndex(href, "/abs/")
	if idx < 0 {
		return feed.Entry{}, false
	}
	id := strings.TrimSpace(href[idx+len("/abs/"):])
	if id == "" {
		return feed.Entry{}, false
	}

	title := dt.Next().Find("div.list-title").Text()
	title = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(title), "Title:"))
	if title == "" {
		return feed.Entry{}, false
	}

	return feed.Entry{
		PaperID: id,
		Title:   title,
		PDFURL:  pdfBaseURL + id,
	}, true
}
