package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/paperdesk/paperdesk/feed"
)

const (
	// DefaultFeedURL is the arXiv RSS channel for AI papers.
	DefaultFeedURL = "https://rss.arxiv.org/rss/cs.ai"

	pdfBaseURL = "https://export.arxiv.org/pdf/"
	userAgent  = "paperdesk/1.0 (+https://github.com/paperdesk/paperdesk)"
)

// RSSSource implements feed.Source over an arXiv RSS channel.
type RSSSource struct {
	client  *http.Client
	feedURL string
	logger  *slog.Logger
}

var _ feed.Source = (*RSSSource)(nil)

// NewRSSSource creates an RSS feed source. A nil client gets a 30s timeout
// default.
func NewRSSSource(feedURL string, client *http.Client) *RSSSource {
	if feedURL == "" {
		feedURL = DefaultFeedURL
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &RSSSource{
		client:  client,
		feedURL: feedURL,
		logger:  slog.Default().With("component", "arxiv-rss"),
	}
}

type rssDocument struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title string `xml:"title"`
	Link  string `xml:"link"`
	GUID  string `xml:"guid"`
}

// Fetch returns the channel's current items in feed order. Items without a
// recognizable arXiv id are skipped, not fatal.
func (s *RSSSource) Fetch(ctx context.Context) ([]feed.Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.feedURL, nil)
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
		return nil, fmt.Errorf("%w: feed returned %s", feed.ErrUnavailable, resp.Status)
	}

	var doc rssDocument
	if err := xml.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: parse rss: %w", feed.ErrUnavailable, err)
	}

	entries := make([]feed.Entry, 0, len(doc.Channel.Items))
	for _, item := range doc.Channel.Items {
		id := itemPaperID(item)
		if id == "" {
			s.logger.Warn("skipping feed item without arXiv id", "title", item.Title)
			continue
		}
		entries = append(entries, feed.Entry{
			PaperID: id,
			Title:   strings.TrimSpace(item.Title),
			PDFURL:  pdfBaseURL + id,
		})
	}

	s.logger.Debug("fetched feed", "url", s.feedURL, "entries", len(entries))
	return entries, nil
}

// itemPaperID extracts the arXiv id from an item's guid, e.g.
// "oai:arXiv.org:2501.00042v1" -> "2501.00042v1". Falls back to the /abs/
// link when the guid is absent.
func itemPaperID(item rssItem) string {
	if item.GUID != "" {
		parts := strings.Split(item.GUID, ":")
		return strings.TrimSpace(parts[len(parts)-1])
	}
	if idx := strings.LastIndex(item.Link, "/abs/"); idx >= 0 {
		return strings.TrimSpace(item.Link[idx+len("/abs/"):])
	}
	return ""
}
