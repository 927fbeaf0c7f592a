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
	"net/http"
	"strings"

	"github.com/paperdesk/paperdesk/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Summarizer implements ai.Summarizer using OpenAI-compatible chat APIs.
type Summarizer struct {
	client    llms.Model
	maxInput  int
	maxTokens int
	logger    *slog.Logger
}

// newSummarizer is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newSummarizer(config *ai.Config) (*Summarizer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := newClient(config)
	if err != nil {
		return nil, err
	}

	return &Summarizer{
		client:    client,
		maxInput:  config.MaxInputChars,
		maxTokens: config.SummaryMaxTokens,
		logger:    slog.Default().With("component", "openai-summarizer"),
	}, nil
}

// NewSummarizer creates a summarizer using the provided configuration.
//
// Returns ai.Summarizer interface to enforce abstraction.
func NewSummarizer(config *ai.Config) (ai.Summarizer, error) {
	return newSummarizer(config)
}

// Summarize generates a structured summary of the paper text. Input longer
// than the configured budget is reduced section-aware before the call.
func (s *Summarizer) Summarize(ctx context.Context, title, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", errors.New("summarize: empty paper text")
	}

	prepared := prepareText(text, s.maxInput)
	userPrompt := fmt.Sprintf("Paper title: %s\n\nPaper text:\n%s", title, prepared)

	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(summarySystemPrompt)},
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
		s.logger.Error("failed to generate summary", "title", title, "err", err)
		return "", err
	}
	if len(response.Choices) < 1 {
		return "", errors.New("summarize: no choices returned from model")
	}

	summary := strings.TrimSpace(response.Choices[0].Content)
	if summary == "" {
		return "", errors.New("summarize: model returned empty summary")
	}

	s.logger.Debug("generated summary", "title", title,
		"input_chars", len(prepared), "summary_chars", len(summary))
	return summary, nil
}

// newClient builds the langchaingo OpenAI client shared by both services.
func newClient(config *ai.Config) (llms.Model, error) {
	httpClient := &http.Client{Timeout: config.Timeout}
	return openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken(config.Token),
		openai.WithModel(config.Model),
		openai.WithHTTPClient(httpClient),
	)
}
