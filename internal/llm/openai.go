// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/tomtom215/tablescout/internal/upstream"
)

// OpenAIClient calls an OpenAI-compatible chat completions endpoint.
type OpenAIClient struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	httpClient  *http.Client
	breaker     *upstream.Breaker
}

var (
	_ Completer = (*OpenAIClient)(nil)
	_ Pinger    = (*OpenAIClient)(nil)
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// NewOpenAIClient creates a chat completions client.
func NewOpenAIClient(cfg Config) *OpenAIClient {
	return &OpenAIClient{
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		httpClient:  upstream.NewHTTPClient(cfg.Timeout),
		breaker:     upstream.NewBreaker(breakerName, cfg.Breaker),
	}
}

// Complete sends one system and one user message.
func (c *OpenAIClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	messages := make([]chatMessage, 0, 2)
	if system != "" {
		messages = append(messages, chatMessage{Role: "system", Content: system})
	}
	messages = append(messages, chatMessage{Role: "user", Content: prompt})

	resp, err := upstream.Execute(c.breaker, func() (*chatResponse, error) {
		var out chatResponse
		err := upstream.DoJSON(ctx, c.httpClient, upstream.Request{
			Provider:  breakerName,
			Operation: "complete",
			Method:    http.MethodPost,
			URL:       c.baseURL + "/chat/completions",
			Header:    c.headers(),
			Body: chatRequest{
				Model:       c.model,
				Messages:    messages,
				Temperature: c.temperature,
			},
		}, &out)
		return &out, err
	})
	if err != nil {
		return "", fmt.Errorf("llm complete: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("llm complete: %w", ErrEmptyCompletion)
	}
	return resp.Choices[0].Message.Content, nil
}

// Ping lists models, which every compatible server supports.
func (c *OpenAIClient) Ping(ctx context.Context) error {
	return upstream.DoJSON(ctx, c.httpClient, upstream.Request{
		Provider:  breakerName,
		Operation: "ping",
		URL:       c.baseURL + "/models",
		Header:    c.headers(),
	}, nil)
}

func (c *OpenAIClient) headers() http.Header {
	h := http.Header{}
	if c.apiKey != "" {
		h.Set("Authorization", "Bearer "+c.apiKey)
	}
	return h
}
