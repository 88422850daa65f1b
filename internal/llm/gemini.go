// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/tomtom215/tablescout/internal/metrics"
	"github.com/tomtom215/tablescout/internal/upstream"
)

// GeminiClient calls Google Gemini through the genai SDK.
type GeminiClient struct {
	client      *genai.Client
	model       string
	temperature float32
	timeout     time.Duration
	breaker     *upstream.Breaker
}

var (
	_ Completer = (*GeminiClient)(nil)
	_ Pinger    = (*GeminiClient)(nil)
)

// NewGeminiClient creates a Gemini API client. An API key is required.
func NewGeminiClient(ctx context.Context, cfg Config) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("llm: gemini requires an API key")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("llm: create gemini client: %w", err)
	}
	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiClient{
		client:      client,
		model:       model,
		temperature: float32(cfg.Temperature),
		timeout:     cfg.Timeout,
		breaker:     upstream.NewBreaker(breakerName, cfg.Breaker),
	}, nil
}

// Complete generates content with system as the system instruction.
func (g *GeminiClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](g.temperature),
	}
	if system != "" {
		config.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}

	start := time.Now()
	resp, err := upstream.Execute(g.breaker, func() (*genai.GenerateContentResponse, error) {
		return g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	})
	metrics.RecordUpstream(ProviderGemini, "complete", time.Since(start), err)
	if err != nil {
		return "", fmt.Errorf("llm complete: %w", err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("llm complete: %w", ErrEmptyCompletion)
	}
	return text, nil
}

// Ping fetches the configured model's metadata.
func (g *GeminiClient) Ping(ctx context.Context) error {
	if _, err := g.client.Models.Get(ctx, g.model, nil); err != nil {
		return fmt.Errorf("llm ping: %w", err)
	}
	return nil
}
