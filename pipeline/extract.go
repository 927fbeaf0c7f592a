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


package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/paperdesk/paperdesk/blob"
	"github.com/paperdesk/paperdesk/core"
	"github.com/paperdesk/paperdesk/extract"
	"github.com/paperdesk/paperdesk/storage"
)

// DefaultSelectionLimit bounds how many backlog records a stage run picks
// up when the caller doesn't say.
const DefaultSelectionLimit = 100

// ExtractStage pulls stored PDFs for records that have a blob but no text
// yet, extracts their plain text, and merges it back. Extraction is CPU
// bound, so the stage optionally fans out over a worker pool.
type ExtractStage struct {
	repo           storage.PaperRepository
	blobs          blob.Store
	extractor      extract.Extractor
	workers        int
	maxRetries     int
	retryBaseDelay time.Duration
	logger         *slog.Logger
}

// ExtractOption configures an ExtractStage.
type ExtractOption func(*ExtractStage)

// WithExtractWorkers sets the worker pool size. n <= 1 runs sequentially.
func WithExtractWorkers(n int) ExtractOption {
	return func(s *ExtractStage) {
		s.workers = n
	}
}

// WithExtractRetry configures blob read retries.
func WithExtractRetry(maxAttempts int, baseDelay time.Duration) ExtractOption {
	return func(s *ExtractStage) {
		s.maxRetries = maxAttempts
		s.retryBaseDelay = baseDelay
	}
}

// NewExtractStage creates the extraction stage.
func NewExtractStage(repo storage.PaperRepository, blobs blob.Store, extractor extract.Extractor, opts ...ExtractOption) *ExtractStage {
	s := &ExtractStage{
		repo:           repo,
		blobs:          blobs,
		extractor:      extractor,
		workers:        1,
		maxRetries:     3,
		retryBaseDelay: 500 * time.Millisecond,
		logger:         slog.Default().With("component", "extract-stage"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run extracts text for up to limit backlog records (limit <= 0 uses
// DefaultSelectionLimit). force reprocesses the most recently fetched
// records that have a stored PDF, text present or not.
func (s *ExtractStage) Run(ctx context.Context, limit int, force bool) (*StageReport, error) {
	if limit <= 0 {
		limit = DefaultSelectionLimit
	}

	report := newStageReport("extract")

	var records []*core.PaperRecord
	var err error
	if force {
		records, err = s.repo.GetRecentWith(ctx, core.FieldBlobLocation, limit)
	} else {
		records, err = s.repo.GetMissing(ctx, core.FieldExtractedText, limit)
	}
	if err != nil {
		report.Err = err.Error()
		return report, err
	}

	if s.workers > 1 {
		err = s.runPooled(ctx, records, report)
	} else {
		err = s.runSequential(ctx, records, report)
	}

	s.logger.Info("extract stage done",
		"processed", report.Processed,
		"succeeded", len(report.Succeeded),
		"failed", len(report.Failed))
	return report, err
}

func (s *ExtractStage) runSequential(ctx context.Context, records []*core.PaperRecord, report *StageReport) error {
	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.extractOne(ctx, record, report)
	}
	return nil
}

func (s *ExtractStage) runPooled(ctx context.Context, records []*core.PaperRecord, report *StageReport) error {
	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return err
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for _, record := range records {
		record := record
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			s.extractOne(ctx, record, report)
		})
		if submitErr != nil {
			wg.Done()
			report.fail(record.ID, submitErr)
		}
	}
	wg.Wait()
	return ctx.Err()
}

// extractOne runs the full blob-to-text path for a single record. Records
// without a stored PDF are failures: they are not ready for this stage.
func (s *ExtractStage) extractOne(ctx context.Context, record *core.PaperRecord, report *StageReport) {
	if !record.Has(core.FieldBlobLocation) {
		report.fail(record.ID, errors.New("no stored pdf"))
		return
	}

	var data []byte
	err := RetryWithBackoff(ctx, func() error {
		var err error
		data, err = s.blobs.Get(ctx, record.BlobLocation)
		return err
	}, s.maxRetries, s.retryBaseDelay)
	if err != nil {
		report.fail(record.ID, fmt.Errorf("read blob: %w", err))
		return
	}

	text, err := s.extractor.ExtractText(ctx, data)
	if err != nil {
		s.logger.Warn("extraction failed", "paper", record.ID, "err", err)
		report.fail(record.ID, err)
		return
	}

	if _, err := s.repo.UpsertPaper(ctx, record.ID, core.PaperUpdate{
		ExtractedText: core.Ref(text),
	}); err != nil {
		report.fail(record.ID, fmt.Errorf("save text: %w", err))
		return
	}

	s.logger.Debug("extracted text", "paper", record.ID, "chars", len(text))
	report.success(record.ID)
}
