// Copyright 2025 Paperdesk Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package arxiv

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/paperdesk/paperdesk/feed"
)

var pdfMagic = []byte("%PDF")

// PDFDownloader implements feed.Downloader with the pacing arXiv asks of
// automated clients: after every burst of downloads it pauses before the
// next one. Responses are validated as PDFs (content type and magic bytes)
// before being returned.
type PDFDownloader struct {
	client     *http.Client
	burstSize  int
	burstDelay time.Duration
	logger     *slog.Logger

	mu         sync.Mutex
	downloaded int
}

var _ feed.Downloader = (*PDFDownloader)(nil)

// DownloaderOption configures a PDFDownloader.
type DownloaderOption func(*PDFDownloader)

// WithBurst sets how many downloads happen between pauses and how long the
// pause lasts. size <= 0 disables pacing.
func WithBurst(size int, delay time.Duration) DownloaderOption {
	return func(d *PDFDownloader) {
		d.burstSize = size
		d.burstDelay = delay
	}
}

// NewPDFDownloader creates a downloader. A nil client gets a 30s timeout
// default; pacing defaults to bursts of 4 with a 1s pause.
func NewPDFDownloader(client *http.Client, opts ...DownloaderOption) *PDFDownloader {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	d := &PDFDownloader{
		client:     client,
		burstSize:  4,
		burstDelay: time.Second,
		logger:     slog.Default().With("component", "pdf-downloader"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Download retrieves and validates PDF bytes from the given URL.
func (d *PDFDownloader) Download(ctx context.Context, url string) ([]byte, error) {
	if err := d.pace(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/pdf")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download returned %s", resp.Status)
	}

	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	if contentType != "" && !strings.Contains(contentType, "pdf") {
		return nil, fmt.Errorf("%w: content type %q", feed.ErrInvalidContent, contentType)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if !bytes.HasPrefix(data, pdfMagic) {
		return nil, fmt.Errorf("%w: missing %%PDF header", feed.ErrInvalidContent)
	}

	d.logger.Debug("downloaded pdf", "url", url, "bytes", len(data))
	return data, nil
}

// pace sleeps between bursts; the sleep is context-aware so cancellation is
// honored mid-pause.
func (d *PDFDownloader) pace(ctx context.Context) error {
	if d.burstSize <= 0 {
		return nil
	}

	d.mu.Lock()
	d.downloaded++
	pause := d.downloaded > 1 && (d.downloaded-1)%d.burstSize == 0
	d.mu.Unlock()

	if !pause {
		return nil
	}

	timer := time.NewTimer(d.burstDelay)
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
