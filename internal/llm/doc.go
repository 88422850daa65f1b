// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

/*
Package llm provides text completion clients behind the Completer interface.

Implementations:
  - OpenAIClient: OpenAI-compatible chat completions (/chat/completions). The
    same client serves Ollama through its /v1 compatibility endpoint.
  - GeminiClient: Google Gemini through google.golang.org/genai.

New selects an implementation from configuration. Callers treat every
completion as untrusted text: ExtractJSON strips reasoning blocks such as
<think>...</think> and returns the span between the first '{' and the last '}'.

Each client wraps its calls in a circuit breaker named "llm" and applies the
configured per-call timeout.
*/
package llm
