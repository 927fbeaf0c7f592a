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
	"log/slog"

	"github.com/paperdesk/paperdesk/ai"
)

// Provider implements ai.Provider using OpenAI-compatible services.
// It manages the summarizer and relevance scorer instances.
type Provider struct {
	config     *ai.Config
	summarizer *Summarizer
	scorer     *RelevanceScorer
	logger     *slog.Logger
}

// NewProvider creates a provider with OpenAI-compatible services. The
// config is validated and normalized before use.
//
// Returns ai.Provider interface (not *Provider) to enforce abstraction.
func NewProvider(config *ai.Config) (ai.Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	summarizer, err := newSummarizer(config)
	if err != nil {
		return nil, err
	}

	scorer, err := newRelevanceScorer(config)
	if err != nil {
		return nil, err
	}

	return &Provider{
		config:     config,
		summarizer: summarizer,
		scorer:     scorer,
		logger:     slog.Default().With("component", "openai-provider"),
	}, nil
}

// Summarizer returns the summarization service.
func (p *Provider) Summarizer() ai.Summarizer {
	return p.summarizer
}

// RelevanceScorer returns the relevance scoring service.
func (p *Provider) RelevanceScorer() ai.RelevanceScorer {
	return p.scorer
}

// Close releases resources held by the provider. Currently a no-op as the
// underlying clients don't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing OpenAI provider")
	return nil
}
