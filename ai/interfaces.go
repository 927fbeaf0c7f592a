package ai

import "context"

// Summarizer produces a structured summary of a paper.
// Implementations must be thread-safe for concurrent use.
type Summarizer interface {
	// Summarize returns a structured prose summary of the paper text.
	// The text is expected to already fit the model's input budget.
	// Returns an error if generation fails or yields empty output.
	Summarize(ctx context.Context, title, text string) (string, error)
}

// RelevanceScorer rates how relevant a paper is to a research topic.
// Implementations must be thread-safe for concurrent use.
type RelevanceScorer interface {
	// Score rates the paper against the topic description on a 0-10
	// scale and explains the rating. Scoring never persists anything.
	Score(ctx context.Context, topic, title, text string) (Relevance, error)
}

// Provider aggregates the model services for convenient initialization
// and lifecycle management.
type Provider interface {
	// Summarizer returns the summarization service.
	Summarizer() Summarizer

	// RelevanceScorer returns the relevance scoring service.
	RelevanceScorer() RelevanceScorer

	// Close releases resources held by the provider and its services.
	Close() error
}
