package mock

import "github.com/paperdesk/paperdesk/ai"

// MockProvider is a test double for ai.Provider that bundles the mock
// summarizer and scorer.
type MockProvider struct {
	summarizer *MockSummarizer
	scorer     *MockScorer
}

// NewMockProvider creates a provider with fresh mocks.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		summarizer: NewMockSummarizer(),
		scorer:     NewMockScorer(),
	}
}

// Summarizer returns the mock summarizer as an ai.Summarizer.
func (p *MockProvider) Summarizer() ai.Summarizer {
	return p.summarizer
}

// RelevanceScorer returns the mock scorer as an ai.RelevanceScorer.
func (p *MockProvider) RelevanceScorer() ai.RelevanceScorer {
	return p.scorer
}

// MockSummarizer returns the concrete mock for test assertions.
func (p *MockProvider) MockSummarizer() *MockSummarizer {
	return p.summarizer
}

// MockScorer returns the concrete mock for test assertions.
func (p *MockProvider) MockScorer() *MockScorer {
	return p.scorer
}

// Close is a no-op.
func (p *MockProvider) Close() error {
	return nil
}
