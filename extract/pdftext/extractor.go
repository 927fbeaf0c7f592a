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


// Package pdftext implements extract.Extractor for PDF documents.
package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/paperdesk/paperdesk/extract"
)

var pdfMagic = []byte("%PDF")

// Extractor extracts plain text from PDF bytes page by page. Pages that
// fail to decode are skipped; the document only fails when no page yields
// text at all.
type Extractor struct {
	logger *slog.Logger
}

var _ extract.Extractor = (*Extractor)(nil)

// NewExtractor creates a PDF text extractor.
func NewExtractor() *Extractor {
	return &Extractor{
		logger: slog.Default().With("component", "pdf-extractor"),
	}
}

// ExtractText implements extract.Extractor.
func (e *Extractor) ExtractText(ctx context.Context, data []byte) (string, error) {
	if !bytes.HasPrefix(data, pdfMagic) {
		return "", fmt.Errorf("%w: missing %%PDF header", extract.ErrMalformedDocument)
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %w", extract.ErrMalformedDocument, err)
	}

	var builder strings.Builder
	pages := reader.NumPage()
	skipped := 0

	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			skipped++
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			e.logger.Warn("skipping undecodable page", "page", i, "err", err)
			skipped++
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		builder.WriteString(text)
		builder.WriteString("\n")
	}

	result := strings.TrimSpace(builder.String())
	if result == "" {
		return "", fmt.Errorf("%w: %d pages, %d skipped", extract.ErrNoText, pages, skipped)
	}

	e.logger.Debug("extracted text", "pages", pages, "skipped", skipped, "chars", len(result))
	return result, nil
}
