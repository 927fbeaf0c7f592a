// Package ai defines the language model abstractions used by the paper
// pipeline: summarization and topic relevance scoring.
//
// The package contains only interfaces, configuration, and shared types.
// Concrete implementations live in subpackages:
//
//   - ai/openai: production implementation over OpenAI-compatible chat
//     APIs (Ollama, LocalAI, vLLM, OpenAI itself)
//   - ai/mock: test doubles with injectable behavior
//
// Consumers depend on the interfaces, never on a concrete subpackage,
// which keeps the pipeline testable without a running model server.
package ai
