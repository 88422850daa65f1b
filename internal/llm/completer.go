// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package llm

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/tomtom215/tablescout/internal/upstream"
)

// Provider names accepted by New.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
	ProviderGemini = "gemini"
)

const (
	defaultOllamaURL   = "http://localhost:11434/v1"
	defaultOpenAIURL   = "https://api.openai.com/v1"
	defaultGeminiModel = "gemini-2.0-flash"
	breakerName        = "llm"
)

var (
	// ErrNoJSON is returned by ExtractJSON when no object is present.
	ErrNoJSON = errors.New("no JSON object in completion")

	// ErrEmptyCompletion is returned when the provider answered with no text.
	ErrEmptyCompletion = errors.New("empty completion")

	thinkBlock = regexp.MustCompile(`(?is)<think>.*?</think>`)
)

// Completer produces a completion for a system instruction and a prompt.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Pinger is implemented by completers that can check reachability cheaply.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Config selects and configures a completer.
type Config struct {
	Provider    string
	BaseURL     string
	Model       string
	APIKey      string
	Timeout     time.Duration
	Temperature float64
	Breaker     upstream.BreakerSettings
}

// New returns the completer for cfg.Provider.
func New(ctx context.Context, cfg Config) (Completer, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	switch strings.ToLower(cfg.Provider) {
	case ProviderOpenAI:
		if cfg.BaseURL == "" {
			cfg.BaseURL = defaultOpenAIURL
		}
		return NewOpenAIClient(cfg), nil
	case ProviderOllama:
		cfg.BaseURL = ollamaURL(cfg.BaseURL)
		return NewOpenAIClient(cfg), nil
	case ProviderGemini:
		return NewGeminiClient(ctx, cfg)
	case "":
		return nil, errors.New("llm: no provider configured")
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.Provider)
	}
}

// ollamaURL points a bare Ollama address at its OpenAI-compatible /v1 API.
func ollamaURL(base string) string {
	base = strings.TrimSuffix(strings.TrimSpace(base), "/")
	if base == "" {
		return defaultOllamaURL
	}
	if !strings.HasSuffix(base, "/v1") {
		base += "/v1"
	}
	return base
}

// StripThinking removes <think>...</think> blocks some models emit before
// their answer.
func StripThinking(text string) string {
	return strings.TrimSpace(thinkBlock.ReplaceAllString(text, ""))
}

// ExtractJSON returns the text between the first '{' and the last '}' after
// stripping reasoning blocks.
func ExtractJSON(text string) (string, error) {
	cleaned := StripThinking(text)
	start := strings.IndexByte(cleaned, '{')
	end := strings.LastIndexByte(cleaned, '}')
	if start < 0 || end <= start {
		return "", ErrNoJSON
	}
	return cleaned[start : end+1], nil
}
