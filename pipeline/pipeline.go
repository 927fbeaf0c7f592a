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
	"log/slog"
	"time"
)

// Pipeline runs the processing stages in order. Stages communicate only
// through stored record state, so a stage that fails or is skipped leaves
// its backlog for the next run instead of breaking the stages after it.
type Pipeline struct {
	fetch     *FetchStage
	extract   *ExtractStage
	summarize *SummarizeStage
	logger    *slog.Logger
}

// New assembles a pipeline from its stages. A nil stage is skipped.
func New(fetch *FetchStage, extract *ExtractStage, summarize *SummarizeStage) *Pipeline {
	return &Pipeline{
		fetch:     fetch,
		extract:   extract,
		summarize: summarize,
		logger:    slog.Default().With("component", "pipeline"),
	}
}

// RunOptions bounds one pipeline run.
type RunOptions struct {
	// FetchLimit caps new papers fetched; <= 0 means all candidates.
	FetchLimit int

	// ExtractLimit and SummarizeLimit cap backlog records per stage;
	// <= 0 uses DefaultSelectionLimit.
	ExtractLimit   int
	SummarizeLimit int

	// ForceExtract and ForceSummarize reprocess the most recent records
	// even when their output field is already present.
	ForceExtract   bool
	ForceSummarize bool
}

// Run executes fetch, extract, and summarize in order. Stage-level errors
// are recorded in the report, not escalated: the later stages still run
// against whatever backlog exists. Only context cancellation stops the
// run early.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) *RunReport {
	report := &RunReport{Started: time.Now().UTC()}
	defer func() {
		report.Elapsed = time.Since(report.Started)
	}()

	if p.fetch != nil {
		stage, err := p.fetch.Run(ctx, opts.FetchLimit)
		report.Fetch = stage
		if p.aborted(ctx, err, "fetch") {
			return report
		}
	}

	if p.extract != nil {
		stage, err := p.extract.Run(ctx, opts.ExtractLimit, opts.ForceExtract)
		report.Extract = stage
		if p.aborted(ctx, err, "extract") {
			return report
		}
	}

	if p.summarize != nil {
		stage, err := p.summarize.Run(ctx, opts.SummarizeLimit, opts.ForceSummarize)
		report.Summarize = stage
		if p.aborted(ctx, err, "summarize") {
			return report
		}
	}

	return report
}

// aborted logs a stage-level error and reports whether the run should
// stop. Only cancellation stops it; other stage errors are already in the
// report and the remaining stages can still make progress.
func (p *Pipeline) aborted(ctx context.Context, err error, stage string) bool {
	if err != nil {
		p.logger.Error("stage error", "stage", stage, "err", err)
	}
	return ctx.Err() != nil
}
