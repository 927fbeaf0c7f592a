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


package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/paperdesk/paperdesk/ai"
	"github.com/tmc/langchaingo/llms"
)

var (
	scorePattern       = regexp.MustCompile(`RELEVANCE_SCORE:\s*(\d+(?:\.\d+)?)`)
	explanationPattern = regexp.MustCompile(`EXPLANATION:\s*(.+)`)
)

// RelevanceScorer implements ai.RelevanceScorer using OpenAI-compatible
// chat APIs. When the model's reply does not carry a parseable score, it
// falls back to keyword overlap between the topic and the paper text.
type RelevanceScorer struct {
	client    llms.Model
	maxInput  int
	maxTokens int
	logger    *slog.Logger
}

// newRelevanceScorer is an internal constructor that returns the concrete
// type. Used by Provider to manage the instance.
func newRelevanceScorer(config *ai.Config) (*RelevanceScorer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := newClient(config)
	if err != nil {
		return nil, err
	}

	return &RelevanceScorer{
		client:    client,
		maxInput:  config.MaxInputChars,
		maxTokens: config.ScoreMaxTokens,
		logger:    slog.Default().With("component", "openai-scorer"),
	}, nil
}

// NewRelevanceScorer creates a relevance scorer using the provided
// configuration.
//
// Returns ai.RelevanceScorer interface to enforce abstraction.
func NewRelevanceScorer(config *ai.Config) (ai.RelevanceScorer, error) {
	return newRelevanceScorer(config)
}

// Score rates the paper against the topic on a 0-10 scale.
func (s *RelevanceScorer) Score(ctx context.Context, topic, title, text string) (ai.Relevance, error) {
	if strings.TrimSpace(topic) == "" {
		return ai.Relevance{}, errors.New("score: empty topic")
	}
	if strings.TrimSpace(text) == "" {
		return ai.Relevance{}, errors.New("score: empty paper text")
	}

	prepared := prepareText(text, s.maxInput)
	userPrompt := fmt.Sprintf("Research topic: %s\n\nPaper title: %s\n\nPaper text:\n%s",
		topic, title, prepared)

	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(relevanceSystemPrompt)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(userPrompt)},
		},
	}

	response, err := s.client.GenerateContent(ctx, content,
		llms.WithTemperature(0.1),
		llms.WithMaxTokens(s.maxTokens),
	)
	if err != nil {
		s.logger.Error("failed to score paper", "title", title, "err", err)
		return ai.Relevance{}, err
	}
	if len(response.Choices) < 1 {
		return ai.Relevance{}, errors.New("score: no choices returned from model")
	}

	reply := response.Choices[0].Content
	relevance, ok := parseRelevance(reply)
	if !ok {
		s.logger.Warn("unparseable relevance reply, using keyword fallback",
			"title", title, "reply_chars", len(reply))
		return keywordFallback(topic, title, prepared), nil
	}
	return relevance, nil
}

// parseRelevance extracts the RELEVANCE_SCORE and EXPLANATION lines from a
// model reply. Scores outside 0-10 are clamped.
func parseRelevance(reply string) (ai.Relevance, bool) {
	match := scorePattern.FindStringSubmatch(reply)
	if match == nil {
		return ai.Relevance{}, false
	}
	score, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return ai.Relevance{}, false
	}
	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}

	rationale := ""
	if m := explanationPattern.FindStringSubmatch(reply); m != nil {
		rationale = strings.TrimSpace(m[1])
	}

	return ai.Relevance{Score: score, Rationale: rationale}, true
}

// keywordFallback rates by topic keyword overlap when the model reply is
// unusable. Coarse on purpose: it keeps the degraded path ordered rather
// than accurate.
func keywordFallback(topic, title, text string) ai.Relevance {
	haystack := strings.ToLower(title + " " + text)

	keywords := strings.Fields(strings.ToLower(topic))
	if len(keywords) == 0 {
		return ai.Relevance{Rationale: "no topic keywords to match"}
	}

	matched := 0
	for _, kw := range keywords {
		kw = strings.Trim(kw, ".,;:()")
		if len(kw) < 3 {
			continue
		}
		if strings.Contains(haystack, kw) {
			matched++
		}
	}

	score := 10 * float64(matched) / float64(len(keywords))
	if score > 10 {
		score = 10
	}
	return ai.Relevance{
		Score:     score,
		Rationale: fmt.Sprintf("keyword fallback: %d of %d topic terms found", matched, len(keywords)),
	}
}
