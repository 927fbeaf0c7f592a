package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/paperdesk/paperdesk/ai/mock"
	"github.com/paperdesk/paperdesk/core"
	"github.com/paperdesk/paperdesk/feed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelineEndToEnd(t *testing.T) {
	repo := setupRepo(t)
	blobs := newMemBlobStore()

	// A is already fully processed from an earlier run; B is new.
	seedPaper(t, repo, "2501.00001", core.PaperUpdate{
		Title:         core.Ref("A"),
		BlobLocation:  core.Ref("mem://2501.00001"),
		ExtractedText: core.Ref("text a"),
		Summary:       core.Ref("summary a"),
	})

	source := &fakeSource{entries: []feed.Entry{
		{PaperID: "2501.00001", Title: "A", PDFURL: "u/a"},
		{PaperID: "2501.00002", Title: "B", PDFURL: "u/b"},
	}}
	downloader := &fakeDownloader{payloads: map[string][]byte{"u/b": []byte("%PDF-b")}}
	summarizer := mock.NewMockSummarizer()

	p := New(
		NewFetchStage(repo, source, downloader, blobs),
		NewExtractStage(repo, blobs, &fakeExtractor{}),
		NewSummarizeStage(repo, summarizer, WithSummarizeRetry(1, time.Millisecond)),
	)

	report := p.Run(context.Background(), RunOptions{})
	require.NotNil(t, report)
	assert.False(t, report.Degraded())

	assert.Equal(t, []string{"2501.00002"}, report.Fetch.Succeeded)
	assert.Equal(t, []string{"2501.00002"}, report.Extract.Succeeded)
	assert.Equal(t, []string{"2501.00002"}, report.Summarize.Succeeded)
	assert.Equal(t, 1, downloader.callCount(), "known paper not re-downloaded")

	record, err := repo.GetPaper(context.Background(), "2501.00002")
	require.NoError(t, err)
	assert.Equal(t, core.StatusSummarized, record.Status())
	assert.Positive(t, report.Elapsed)
}

func TestPipelineFeedDownStillRunsLaterStages(t *testing.T) {
	repo := setupRepo(t)
	blobs := newMemBlobStore()
	seedStored(t, repo, blobs, "2501.00001", []byte("alpha"))

	source := &fakeSource{err: feed.ErrUnavailable}
	summarizer := mock.NewMockSummarizer()

	p := New(
		NewFetchStage(repo, source, &fakeDownloader{}, blobs),
		NewExtractStage(repo, blobs, &fakeExtractor{}),
		NewSummarizeStage(repo, summarizer, WithSummarizeRetry(1, time.Millisecond)),
	)

	report := p.Run(context.Background(), RunOptions{})
	assert.True(t, report.Degraded())
	assert.NotEmpty(t, report.Fetch.Err)

	// The backlog still advanced despite the feed outage.
	assert.Equal(t, []string{"2501.00001"}, report.Extract.Succeeded)
	assert.Equal(t, []string{"2501.00001"}, report.Summarize.Succeeded)
}

func TestPipelineNilStagesSkipped(t *testing.T) {
	repo := setupRepo(t)
	blobs := newMemBlobStore()
	seedStored(t, repo, blobs, "2501.00001", []byte("alpha"))

	p := New(nil, NewExtractStage(repo, blobs, &fakeExtractor{}), nil)
	report := p.Run(context.Background(), RunOptions{})

	assert.Nil(t, report.Fetch)
	assert.Nil(t, report.Summarize)
	require.NotNil(t, report.Extract)
	assert.Equal(t, []string{"2501.00001"}, report.Extract.Succeeded)
}

func TestPipelineStopsOnCancellation(t *testing.T) {
	repo := setupRepo(t)
	blobs := newMemBlobStore()

	ctx, cancel := context.WithCancel(context.Background())
	source := &fakeSource{entries: []feed.Entry{
		{PaperID: "2501.00001", Title: "A", PDFURL: "u/a"},
	}}
	downloader := &fakeDownloader{payloads: map[string][]byte{"u/a": []byte("%PDF-a")}}
	cancel()

	p := New(
		NewFetchStage(repo, source, downloader, blobs),
		NewExtractStage(repo, blobs, &fakeExtractor{}),
		nil,
	)
	report := p.Run(ctx, RunOptions{})

	assert.Nil(t, report.Extract, "later stages don't run after cancellation")
}

func TestRunReportFailedPapers(t *testing.T) {
	report := &RunReport{
		Fetch:   &StageReport{Failed: []Failure{{PaperID: "a", Reason: "x"}}},
		Extract: &StageReport{Failed: []Failure{{PaperID: "b", Reason: "y"}}},
	}
	failures := report.FailedPapers()
	require.Len(t, failures, 2)
	assert.True(t, report.Degraded())

	clean := &RunReport{Fetch: &StageReport{Succeeded: []string{"a"}}}
	assert.False(t, clean.Degraded())
	assert.Empty(t, clean.FailedPapers())
}
