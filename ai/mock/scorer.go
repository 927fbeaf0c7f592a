package mock

import (
	"context"
	"strings"

	"github.com/paperdesk/paperdesk/ai"
)

// MockScorer is a test double for ai.RelevanceScorer.
// It allows custom behavior injection via function fields.
type MockScorer struct {
	// ScoreFunc is called by Score if set.
	// If nil, a simple keyword-overlap heuristic is used.
	ScoreFunc func(ctx context.Context, topic, title, text string) (ai.Relevance, error)

	callCount int
}

// NewMockScorer creates a mock relevance scorer with default behavior.
// Note: Returns concrete type to allow test assertions on call counts.
func NewMockScorer() *MockScorer {
	return &MockScorer{}
}

// Score rates by naive keyword overlap between topic and text.
func (m *MockScorer) Score(ctx context.Context, topic, title, text string) (ai.Relevance, error) {
	m.callCount++

	if m.ScoreFunc != nil {
		return m.ScoreFunc(ctx, topic, title, text)
	}

	haystack := strings.ToLower(title + " " + text)
	keywords := strings.Fields(strings.ToLower(topic))
	if len(keywords) == 0 {
		return ai.Relevance{}, nil
	}

	matched := 0
	for _, kw := range keywords {
		if strings.Contains(haystack, kw) {
			matched++
		}
	}

	return ai.Relevance{
		Score:     10 * float64(matched) / float64(len(keywords)),
		Rationale: "mock keyword overlap",
	}, nil
}

// CallCount returns the number of times Score was called.
func (m *MockScorer) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockScorer) Reset() {
	m.callCount = 0
	m.ScoreFunc = nil
}
