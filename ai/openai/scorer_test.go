package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRelevance(t *testing.T) {
	reply := "RELEVANCE_SCORE: 7.5\nEXPLANATION: Directly addresses the topic."
	rel, ok := parseRelevance(reply)
	require.True(t, ok)
	assert.Equal(t, 7.5, rel.Score)
	assert.Equal(t, "Directly addresses the topic.", rel.Rationale)
}

func TestParseRelevanceIntegerScore(t *testing.T) {
	rel, ok := parseRelevance("RELEVANCE_SCORE: 9\nEXPLANATION: central")
	require.True(t, ok)
	assert.Equal(t, 9.0, rel.Score)
}

func TestParseRelevanceClampsHighScore(t *testing.T) {
	rel, ok := parseRelevance("RELEVANCE_SCORE: 15\nEXPLANATION: overeager model")
	require.True(t, ok)
	assert.Equal(t, 10.0, rel.Score)
}

func TestParseRelevanceToleratesSurroundingProse(t *testing.T) {
	reply := "Sure! Here is my assessment.\n\nRELEVANCE_SCORE: 3.0\nEXPLANATION: Tangential at best.\nHope that helps."
	rel, ok := parseRelevance(reply)
	require.True(t, ok)
	assert.Equal(t, 3.0, rel.Score)
	assert.Equal(t, "Tangential at best.", rel.Rationale)
}

func TestParseRelevanceMissingScore(t *testing.T) {
	_, ok := parseRelevance("I think this paper is quite relevant.")
	assert.False(t, ok)
}

func TestKeywordFallback(t *testing.T) {
	rel := keywordFallback(
		"reinforcement learning robotics",
		"Robotics via Reinforcement Learning",
		"we study reinforcement learning for robotics control")
	assert.Equal(t, 10.0, rel.Score)
	assert.Contains(t, rel.Rationale, "keyword fallback")

	rel = keywordFallback("quantum chemistry", "Robotics Paper", "nothing related here")
	assert.Equal(t, 0.0, rel.Score)
}

func TestKeywordFallbackPartialOverlap(t *testing.T) {
	rel := keywordFallback(
		"transformer interpretability",
		"On Transformers",
		"transformer models examined")
	assert.Equal(t, 5.0, rel.Score)
}
