// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"plain", `{"city":"Seattle"}`, `{"city":"Seattle"}`, false},
		{"prose around", "Sure! Here you go:\n{\"a\":1}\nHope that helps.", `{"a":1}`, false},
		{"nested", `x {"a":{"b":2}} y`, `{"a":{"b":2}}`, false},
		{"think block", "<think>maybe {\"wrong\":true}</think>\n{\"right\":true}", `{"right":true}`, false},
		{"multiline think", "<THINK>\nline {\n</THINK>{\"ok\":1}", `{"ok":1}`, false},
		{"code fence", "```json\n{\"a\":1}\n```", `{"a":1}`, false},
		{"no braces", "I cannot help with that", "", true},
		{"reversed", "} {", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrNoJSON) {
					t.Fatalf("err = %v, want ErrNoJSON", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ExtractJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOllamaURL(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", "http://localhost:11434/v1"},
		{"http://ollama:11434", "http://ollama:11434/v1"},
		{"http://ollama:11434/", "http://ollama:11434/v1"},
		{"http://ollama:11434/v1", "http://ollama:11434/v1"},
	}
	for _, tt := range tests {
		if got := ollamaURL(tt.in); got != tt.want {
			t.Errorf("ollamaURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	if _, err := New(ctx, Config{}); err == nil {
		t.Error("empty provider should fail")
	}
	if _, err := New(ctx, Config{Provider: "bard"}); err == nil {
		t.Error("unknown provider should fail")
	}
	if _, err := New(ctx, Config{Provider: "gemini"}); err == nil {
		t.Error("gemini without key should fail")
	}

	c, err := New(ctx, Config{Provider: "Ollama", Model: "qwen2.5"})
	if err != nil {
		t.Fatalf("New(ollama) error = %v", err)
	}
	oc, ok := c.(*OpenAIClient)
	if !ok || oc.baseURL != defaultOllamaURL {
		t.Errorf("ollama client = %#v", c)
	}
}

func TestOpenAIClient_Complete(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" || r.Method != http.MethodPost {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"city\":\"Austin\"}"}}]}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient(Config{BaseURL: srv.URL + "/v1/", APIKey: "sk-test", Model: "gpt-4o-mini", Timeout: time.Second, Temperature: 0.1})
	out, err := c.Complete(context.Background(), "be terse", "bbq in austin")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if out != `{"city":"Austin"}` {
		t.Errorf("Complete() = %q", out)
	}
	if got.Model != "gpt-4o-mini" || len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Content != "bbq in austin" {
		t.Errorf("request = %+v", got)
	}
}

func TestOpenAIClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"empty choices", http.StatusOK, `{"choices":[]}`, ErrEmptyCompletion},
		{"blank content", http.StatusOK, `{"choices":[{"message":{"content":"  "}}]}`, ErrEmptyCompletion},
		{"server error", http.StatusInternalServerError, `boom`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewOpenAIClient(Config{BaseURL: srv.URL, Timeout: time.Second})
			_, err := c.Complete(context.Background(), "", "hi")
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestOpenAIClient_Ping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient(Config{BaseURL: srv.URL, Timeout: time.Second})
	if err := c.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}
