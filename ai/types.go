package ai

// Relevance is a scored judgment of a paper against a research topic.
type Relevance struct {
	// Score is the model's rating from 0 (unrelated) to 10 (central).
	Score float64

	// Rationale is the model's short explanation for the score.
	Rationale string
}
