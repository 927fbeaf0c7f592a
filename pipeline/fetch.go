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

	"github.com/paperdesk/paperdesk/blob"
	"github.com/paperdesk/paperdesk/core"
	"github.com/paperdesk/paperdesk/feed"
	"github.com/paperdesk/paperdesk/storage"
)

// FetchStage lists feed candidates, downloads the new ones, stores their
// PDFs, and creates the paper records. Papers already known are skipped
// without a download, so a rerun after a partial failure only touches the
// candidates that failed.
type FetchStage struct {
	repo       storage.PaperRepository
	source     feed.Source
	downloader feed.Downloader
	blobs      blob.Store
	logger     *slog.Logger
}

// NewFetchStage creates the fetch stage.
func NewFetchStage(repo storage.PaperRepository, source feed.Source, downloader feed.Downloader, blobs blob.Store) *FetchStage {
	return &FetchStage{
		repo:       repo,
		source:     source,
		downloader: downloader,
		blobs:      blobs,
		logger:     slog.Default().With("component", "fetch-stage"),
	}
}

// Run processes the feed's current candidates. limit <= 0 means all.
// Returns an error only when the feed itself is unreachable; per-candidate
// failures are collected in the report.
func (s *FetchStage) Run(ctx context.Context, limit int) (*StageReport, error) {
	report := newStageReport("fetch")

	entries, err := s.source.Fetch(ctx)
	if err != nil {
		report.Err = err.Error()
		return report, err
	}
	s.logger.Info("feed listed candidates", "count", len(entries))

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if limit > 0 && report.Processed >= limit {
			break
		}

		exists, err := s.repo.Exists(ctx, entry.PaperID)
		if err != nil {
			report.fail(entry.PaperID, err)
			continue
		}
		if exists {
			s.logger.Debug("already known, skipping", "paper", entry.PaperID)
			continue
		}

		if err := s.fetchOne(ctx, entry); err != nil {
			s.logger.Warn("failed to fetch paper", "paper", entry.PaperID, "err", err)
			report.fail(entry.PaperID, err)
			continue
		}
		report.success(entry.PaperID)
	}

	s.logger.Info("fetch stage done",
		"processed", report.Processed,
		"succeeded", len(report.Succeeded),
		"failed", len(report.Failed))
	return report, nil
}

// fetchOne downloads, stores, and records a single candidate. The record
// is only created after its PDF is safely in the blob store, so a record
// with a blob location always has the bytes behind it.
func (s *FetchStage) fetchOne(ctx context.Context, entry feed.Entry) error {
	data, err := s.downloader.Download(ctx, entry.PDFURL)
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}

	location, err := s.blobs.Put(ctx, entry.PaperID, data)
	if err != nil {
		return fmt.Errorf("store blob: %w", err)
	}

	_, err = s.repo.UpsertPaper(ctx, entry.PaperID, core.PaperUpdate{
		Title:        core.Ref(entry.Title),
		BlobLocation: core.Ref(location),
		Digest:       core.Ref(core.DigestBytes(data)),
	})
	if err != nil {
		return fmt.Errorf("record paper: %w", err)
	}

	s.logger.Debug("fetched paper", "paper", entry.PaperID, "bytes", len(data))
	return nil
}
