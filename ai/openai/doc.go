// Package openai implements the ai interfaces over OpenAI-compatible chat
// APIs. It is tested against local Ollama but works with any service that
// speaks the /v1/chat/completions protocol.
package openai
