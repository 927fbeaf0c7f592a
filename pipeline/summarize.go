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
	"fmt"
	"log/slog"
	"time"

	"github.com/paperdesk/paperdesk/ai"
	"github.com/paperdesk/paperdesk/core"
	"github.com/paperdesk/paperdesk/storage"
)

// SummarizeStage generates summaries for records that have extracted text
// but no summary yet. Model calls are retried with backoff; a record that
// still fails stays in the backlog.
type SummarizeStage struct {
	repo           storage.PaperRepository
	summarizer     ai.Summarizer
	maxRetries     int
	retryBaseDelay time.Duration
	logger         *slog.Logger
}

// SummarizeOption configures a SummarizeStage.
type SummarizeOption func(*SummarizeStage)

// WithSummarizeRetry configures model call retries.
func WithSummarizeRetry(maxAttempts int, baseDelay time.Duration) SummarizeOption {
	return func(s *SummarizeStage) {
		s.maxRetries = maxAttempts
		s.retryBaseDelay = baseDelay
	}
}

// NewSummarizeStage creates the summarization stage.
func NewSummarizeStage(repo storage.PaperRepository, summarizer ai.Summarizer, opts ...SummarizeOption) *SummarizeStage {
	s := &SummarizeStage{
		repo:           repo,
		summarizer:     summarizer,
		maxRetries:     3,
		retryBaseDelay: 2 * time.Second,
		logger:         slog.Default().With("component", "summarize-stage"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run summarizes up to limit backlog records (limit <= 0 uses
// DefaultSelectionLimit). force regenerates summaries for the most
// recently fetched records that have text, overwriting existing ones.
func (s *SummarizeStage) Run(ctx context.Context, limit int, force bool) (*StageReport, error) {
	if limit <= 0 {
		limit = DefaultSelectionLimit
	}

	report := newStageReport("summarize")

	// The selection itself requires extracted text: records stuck at an
	// earlier stage must not occupy the oldest-first window, or a few
	// unextractable PDFs would starve every ready record behind them.
	var records []*core.PaperRecord
	var err error
	if force {
		records, err = s.repo.GetRecentWith(ctx, core.FieldExtractedText, limit)
	} else {
		records, err = s.repo.GetMissingWith(ctx, core.FieldSummary, core.FieldExtractedText, limit)
	}
	if err != nil {
		report.Err = err.Error()
		return report, err
	}

	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		s.summarizeOne(ctx, record, report)
	}

	s.logger.Info("summarize stage done",
		"processed", report.Processed,
		"succeeded", len(report.Succeeded),
		"failed", len(report.Failed))
	return report, nil
}

func (s *SummarizeStage) summarizeOne(ctx context.Context, record *core.PaperRecord, report *StageReport) {
	var summary string
	err := RetryWithBackoff(ctx, func() error {
		var err error
		summary, err = s.summarizer.Summarize(ctx, record.Title, record.ExtractedText)
		return err
	}, s.maxRetries, s.retryBaseDelay)
	if err != nil {
		s.logger.Warn("summarization failed", "paper", record.ID, "err", err)
		report.fail(record.ID, fmt.Errorf("summarize: %w", err))
		return
	}

	if _, err := s.repo.UpsertPaper(ctx, record.ID, core.PaperUpdate{
		Summary: core.Ref(summary),
	}); err != nil {
		report.fail(record.ID, fmt.Errorf("save summary: %w", err))
		return
	}

	s.logger.Debug("summarized paper", "paper", record.ID, "chars", len(summary))
	report.success(record.ID)
}
