package mock

import (
	"context"
	"fmt"
)

// MockSummarizer is a test double for ai.Summarizer.
// It allows custom behavior injection via function fields.
type MockSummarizer struct {
	// SummarizeFunc is called by Summarize if set.
	// If nil, a deterministic canned summary is returned.
	SummarizeFunc func(ctx context.Context, title, text string) (string, error)

	callCount int
}

// NewMockSummarizer creates a mock summarizer with default behavior.
// Note: Returns concrete type to allow test assertions on call counts.
func NewMockSummarizer() *MockSummarizer {
	return &MockSummarizer{}
}

// Summarize returns a short deterministic summary derived from the title.
func (m *MockSummarizer) Summarize(ctx context.Context, title, text string) (string, error) {
	m.callCount++

	if m.SummarizeFunc != nil {
		return m.SummarizeFunc(ctx, title, text)
	}

	return fmt.Sprintf("OBJECTIVE: mock summary of %q (%d chars of text)", title, len(text)), nil
}

// CallCount returns the number of times Summarize was called.
func (m *MockSummarizer) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockSummarizer) Reset() {
	m.callCount = 0
	m.SummarizeFunc = nil
}
