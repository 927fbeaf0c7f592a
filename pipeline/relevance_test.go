package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/paperdesk/paperdesk/ai"
	"github.com/paperdesk/paperdesk/ai/mock"
	"github.com/paperdesk/paperdesk/core"
	"github.com/paperdesk/paperdesk/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scoreByTitle returns a ScoreFunc that maps paper titles to fixed scores.
func scoreByTitle(scores map[string]float64) func(ctx context.Context, topic, title, text string) (ai.Relevance, error) {
	return func(ctx context.Context, topic, title, text string) (ai.Relevance, error) {
		score, ok := scores[title]
		if !ok {
			return ai.Relevance{}, errors.New("unexpected title " + title)
		}
		return ai.Relevance{Score: score, Rationale: "fixed"}, nil
	}
}

func seedSummarized(t *testing.T, repo storage.PaperRepository, id, title string) {
	t.Helper()
	_, err := repo.UpsertPaper(context.Background(), id, core.PaperUpdate{
		Title:         core.Ref(title),
		BlobLocation:  core.Ref("mem://" + id),
		ExtractedText: core.Ref("text of " + title),
		Summary:       core.Ref("summary of " + title),
	})
	require.NoError(t, err)
}

func TestAnalyzeRanksAboveThreshold(t *testing.T) {
	repo := setupRepo(t)
	seedSummarized(t, repo, "2501.00001", "A")
	seedSummarized(t, repo, "2501.00002", "B")
	seedSummarized(t, repo, "2501.00003", "C")

	scorer := mock.NewMockScorer()
	scorer.ScoreFunc = scoreByTitle(map[string]float64{"A": 7.5, "B": 9.0, "C": 4.0})

	analyzer := NewAnalyzer(repo, scorer)
	analysis, err := analyzer.Analyze(context.Background(), []string{"some topic"}, 0)
	require.NoError(t, err)

	assert.Equal(t, 3, analysis.Evaluated)
	require.Len(t, analysis.Ranked, 2)
	assert.Equal(t, 9.0, analysis.Ranked[0].Relevance.Score)
	assert.Equal(t, "B", analysis.Ranked[0].Paper.Title)
	assert.Equal(t, 7.5, analysis.Ranked[1].Relevance.Score)
	assert.Equal(t, "A", analysis.Ranked[1].Paper.Title)
}

func TestAnalyzeThresholdIsInclusive(t *testing.T) {
	repo := setupRepo(t)
	seedSummarized(t, repo, "2501.00001", "Edge")

	scorer := mock.NewMockScorer()
	scorer.ScoreFunc = scoreByTitle(map[string]float64{"Edge": 6.0})

	analyzer := NewAnalyzer(repo, scorer)
	analysis, err := analyzer.Analyze(context.Background(), []string{"topic"}, 0)
	require.NoError(t, err)
	require.Len(t, analysis.Ranked, 1)
}

func TestAnalyzeLimitAppliedAfterSorting(t *testing.T) {
	repo := setupRepo(t)
	seedSummarized(t, repo, "2501.00001", "A")
	seedSummarized(t, repo, "2501.00002", "B")

	scorer := mock.NewMockScorer()
	scorer.ScoreFunc = scoreByTitle(map[string]float64{"A": 7.5, "B": 9.0})

	analyzer := NewAnalyzer(repo, scorer)
	analysis, err := analyzer.Analyze(context.Background(), []string{"topic"}, 1)
	require.NoError(t, err)

	require.Len(t, analysis.Ranked, 1)
	assert.Equal(t, "B", analysis.Ranked[0].Paper.Title, "limit keeps the best, not the first scored")
}

func TestAnalyzeTiesBreakByFetchOrder(t *testing.T) {
	repo := setupRepo(t)
	seedSummarized(t, repo, "2501.00001", "Older")
	seedSummarized(t, repo, "2501.00002", "Newer")

	scorer := mock.NewMockScorer()
	scorer.ScoreFunc = scoreByTitle(map[string]float64{"Older": 8.0, "Newer": 8.0})

	analyzer := NewAnalyzer(repo, scorer)
	analysis, err := analyzer.Analyze(context.Background(), []string{"topic"}, 0)
	require.NoError(t, err)

	require.Len(t, analysis.Ranked, 2)
	assert.Equal(t, "Older", analysis.Ranked[0].Paper.Title)
	assert.Equal(t, "Newer", analysis.Ranked[1].Paper.Title)
}

func TestAnalyzeFallsBackToExtractedText(t *testing.T) {
	repo := setupRepo(t)
	// Text but no summary yet: still analyzable.
	seedPaper(t, repo, "2501.00001", core.PaperUpdate{
		Title:         core.Ref("TextOnly"),
		BlobLocation:  core.Ref("mem://2501.00001"),
		ExtractedText: core.Ref("raw text body"),
	})

	var scoredText string
	scorer := mock.NewMockScorer()
	scorer.ScoreFunc = func(ctx context.Context, topic, title, text string) (ai.Relevance, error) {
		scoredText = text
		return ai.Relevance{Score: 8.0}, nil
	}

	analyzer := NewAnalyzer(repo, scorer)
	analysis, err := analyzer.Analyze(context.Background(), []string{"topic"}, 0)
	require.NoError(t, err)

	require.Len(t, analysis.Ranked, 1)
	assert.Equal(t, "raw text body", scoredText)
}

func TestAnalyzePrefersSummaryOverText(t *testing.T) {
	repo := setupRepo(t)
	seedSummarized(t, repo, "2501.00001", "Both")

	var scoredText string
	scorer := mock.NewMockScorer()
	scorer.ScoreFunc = func(ctx context.Context, topic, title, text string) (ai.Relevance, error) {
		scoredText = text
		return ai.Relevance{Score: 8.0}, nil
	}

	analyzer := NewAnalyzer(repo, scorer)
	_, err := analyzer.Analyze(context.Background(), []string{"topic"}, 0)
	require.NoError(t, err)
	assert.Equal(t, "summary of Both", scoredText)
}

func TestAnalyzeExcludesFailedScores(t *testing.T) {
	repo := setupRepo(t)
	seedSummarized(t, repo, "2501.00001", "Good")
	seedSummarized(t, repo, "2501.00002", "Broken")

	scorer := mock.NewMockScorer()
	scorer.ScoreFunc = func(ctx context.Context, topic, title, text string) (ai.Relevance, error) {
		if title == "Broken" {
			return ai.Relevance{}, errors.New("model refused")
		}
		return ai.Relevance{Score: 8.0}, nil
	}

	analyzer := NewAnalyzer(repo, scorer)
	analysis, err := analyzer.Analyze(context.Background(), []string{"topic"}, 0)
	require.NoError(t, err)

	assert.Equal(t, 2, analysis.Evaluated)
	require.Len(t, analysis.Ranked, 1)
	assert.Equal(t, "Good", analysis.Ranked[0].Paper.Title)
	require.Len(t, analysis.Failed, 1)
	assert.Equal(t, "2501.00002", analysis.Failed[0].PaperID)
}

func TestAnalyzeDoesNotMutateRecords(t *testing.T) {
	repo := setupRepo(t)
	seedSummarized(t, repo, "2501.00001", "A")
	before, err := repo.GetPaper(context.Background(), "2501.00001")
	require.NoError(t, err)

	scorer := mock.NewMockScorer()
	scorer.ScoreFunc = scoreByTitle(map[string]float64{"A": 9.0})

	analyzer := NewAnalyzer(repo, scorer)
	_, err = analyzer.Analyze(context.Background(), []string{"topic"}, 0)
	require.NoError(t, err)

	after, err := repo.GetPaper(context.Background(), "2501.00001")
	require.NoError(t, err)
	assert.Equal(t, before.UpdatedAt, after.UpdatedAt, "analysis is read-only")
	assert.Equal(t, before.Summary, after.Summary)
}

func TestAnalyzeDeterministicAcrossRuns(t *testing.T) {
	repo := setupRepo(t)
	seedSummarized(t, repo, "2501.00001", "A")
	seedSummarized(t, repo, "2501.00002", "B")
	seedSummarized(t, repo, "2501.00003", "C")

	scorer := mock.NewMockScorer()
	scorer.ScoreFunc = scoreByTitle(map[string]float64{"A": 6.5, "B": 9.0, "C": 7.0})

	analyzer := NewAnalyzer(repo, scorer)
	first, err := analyzer.Analyze(context.Background(), []string{"topic"}, 0)
	require.NoError(t, err)
	second, err := analyzer.Analyze(context.Background(), []string{"topic"}, 0)
	require.NoError(t, err)

	require.Equal(t, len(first.Ranked), len(second.Ranked))
	for i := range first.Ranked {
		assert.Equal(t, first.Ranked[i].Paper.ID, second.Ranked[i].Paper.ID)
	}
}

func TestAnalyzeRejectsEmptyTopic(t *testing.T) {
	repo := setupRepo(t)
	analyzer := NewAnalyzer(repo, mock.NewMockScorer())
	_, err := analyzer.Analyze(context.Background(), []string{"   ", ""}, 0)
	assert.ErrorIs(t, err, ErrEmptyTopic)

	_, err = analyzer.Analyze(context.Background(), nil, 0)
	assert.ErrorIs(t, err, ErrEmptyTopic)
}

func TestAnalyzeJoinsTopicsForScoring(t *testing.T) {
	repo := setupRepo(t)
	seedSummarized(t, repo, "2501.00001", "A")

	var scoredTopic string
	scorer := mock.NewMockScorer()
	scorer.ScoreFunc = func(ctx context.Context, topic, title, text string) (ai.Relevance, error) {
		scoredTopic = topic
		return ai.Relevance{Score: 8.0}, nil
	}

	analyzer := NewAnalyzer(repo, scorer)
	analysis, err := analyzer.Analyze(context.Background(), []string{"  graph neural networks ", "program synthesis"}, 0)
	require.NoError(t, err)

	assert.Equal(t, "graph neural networks, program synthesis", scoredTopic)
	assert.Equal(t, []string{"graph neural networks", "program synthesis"}, analysis.Topics)
}

func TestAnalyzeCustomThreshold(t *testing.T) {
	repo := setupRepo(t)
	seedSummarized(t, repo, "2501.00001", "A")

	scorer := mock.NewMockScorer()
	scorer.ScoreFunc = scoreByTitle(map[string]float64{"A": 5.0})

	strict := NewAnalyzer(repo, scorer, WithThreshold(6.0))
	analysis, err := strict.Analyze(context.Background(), []string{"topic"}, 0)
	require.NoError(t, err)
	assert.Empty(t, analysis.Ranked)

	lax := NewAnalyzer(repo, scorer, WithThreshold(4.0))
	analysis, err = lax.Analyze(context.Background(), []string{"topic"}, 0)
	require.NoError(t, err)
	assert.Len(t, analysis.Ranked, 1)
}
