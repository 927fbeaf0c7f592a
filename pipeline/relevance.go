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
	"slices"
	"strings"

	"github.com/paperdesk/paperdesk/ai"
	"github.com/paperdesk/paperdesk/core"
	"github.com/paperdesk/paperdesk/storage"
)

const (
	// DefaultThreshold is the minimum relevance score a paper must reach
	// to appear in analysis results.
	DefaultThreshold = 6.0

	defaultPoolLimit = 500
)

// RankedPaper is one analysis result: a paper and its topic relevance.
type RankedPaper struct {
	Paper     *core.PaperRecord
	Relevance ai.Relevance
}

// Analysis is the outcome of scoring the stored corpus against a set of
// research topics.
type Analysis struct {
	// Topics are the research topics the corpus was scored against.
	Topics []string

	// Ranked lists the papers at or above the threshold, best first.
	// Ties are broken by fetch order, oldest first, so repeated runs over
	// an unchanged corpus return identical rankings.
	Ranked []RankedPaper

	// Failed lists papers whose scoring failed. They are excluded from
	// Ranked, never defaulted to a score.
	Failed []Failure

	// Evaluated is the number of papers scored, including failures.
	Evaluated int
}

// Analyzer scores stored papers against a research topic on demand. It
// reads summaries (falling back to extracted text) and never writes:
// analysis results are per-request, not paper state.
type Analyzer struct {
	repo      storage.PaperRepository
	scorer    ai.RelevanceScorer
	threshold float64
	poolLimit int
	logger    *slog.Logger
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithThreshold sets the minimum score for inclusion in results.
func WithThreshold(threshold float64) AnalyzerOption {
	return func(a *Analyzer) {
		a.threshold = threshold
	}
}

// WithPoolLimit caps how many stored papers one analysis considers.
func WithPoolLimit(n int) AnalyzerOption {
	return func(a *Analyzer) {
		a.poolLimit = n
	}
}

// NewAnalyzer creates a relevance analyzer.
func NewAnalyzer(repo storage.PaperRepository, scorer ai.RelevanceScorer, opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		repo:      repo,
		scorer:    scorer,
		threshold: DefaultThreshold,
		poolLimit: defaultPoolLimit,
		logger:    slog.Default().With("component", "relevance-analyzer"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze scores every analyzable stored paper against the topics and
// returns those at or above the threshold, best first. Multiple topics
// are scored as one combined interest. limit > 0 caps the number of
// ranked results, applied after sorting.
func (a *Analyzer) Analyze(ctx context.Context, topics []string, limit int) (*Analysis, error) {
	cleaned := make([]string, 0, len(topics))
	for _, topic := range topics {
		if trimmed := strings.TrimSpace(topic); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	if len(cleaned) == 0 {
		return nil, ErrEmptyTopic
	}
	topic := strings.Join(cleaned, ", ")

	pool, err := a.candidatePool(ctx)
	if err != nil {
		return nil, err
	}
	a.logger.Info("analyzing corpus", "topics", cleaned, "candidates", len(pool))

	analysis := &Analysis{Topics: cleaned}
	for _, record := range pool {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		analysis.Evaluated++
		relevance, err := a.scorer.Score(ctx, topic, record.Title, record.AnalysisText())
		if err != nil {
			a.logger.Warn("scoring failed", "paper", record.ID, "err", err)
			analysis.Failed = append(analysis.Failed, Failure{PaperID: record.ID, Reason: err.Error()})
			continue
		}
		if relevance.Score >= a.threshold {
			analysis.Ranked = append(analysis.Ranked, RankedPaper{Paper: record, Relevance: relevance})
		}
	}

	slices.SortFunc(analysis.Ranked, func(x, y RankedPaper) int {
		if x.Relevance.Score != y.Relevance.Score {
			if x.Relevance.Score > y.Relevance.Score {
				return -1
			}
			return 1
		}
		if x.Paper.Seq < y.Paper.Seq {
			return -1
		}
		if x.Paper.Seq > y.Paper.Seq {
			return 1
		}
		return 0
	})

	if limit > 0 && len(analysis.Ranked) > limit {
		analysis.Ranked = analysis.Ranked[:limit]
	}

	a.logger.Info("analysis done", "topics", cleaned,
		"evaluated", analysis.Evaluated,
		"ranked", len(analysis.Ranked),
		"failed", len(analysis.Failed))
	return analysis, nil
}

// candidatePool returns the analyzable records: those with a summary,
// plus those with only extracted text, in fetch order. Records with
// neither have nothing to score.
func (a *Analyzer) candidatePool(ctx context.Context) ([]*core.PaperRecord, error) {
	summarized, err := a.repo.GetWith(ctx, core.FieldSummary, a.poolLimit)
	if err != nil {
		return nil, err
	}
	withText, err := a.repo.GetWith(ctx, core.FieldExtractedText, a.poolLimit)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(summarized))
	pool := make([]*core.PaperRecord, 0, len(summarized)+len(withText))
	for _, record := range summarized {
		seen[record.ID] = struct{}{}
		pool = append(pool, record)
	}
	for _, record := range withText {
		if _, dup := seen[record.ID]; dup {
			continue
		}
		pool = append(pool, record)
	}

	slices.SortFunc(pool, func(x, y *core.PaperRecord) int {
		if x.Seq < y.Seq {
			return -1
		}
		if x.Seq > y.Seq {
			return 1
		}
		return 0
	})
	return pool, nil
}
