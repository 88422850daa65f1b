// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package upstream

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/tablescout/internal/logging"
	"github.com/tomtom215/tablescout/internal/metrics"
)

// maxErrorBodySize bounds the response body quoted in error messages.
const maxErrorBodySize = 300

// StatusError is a non-2xx response from an external provider.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: status %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// Retryable reports whether the status is worth one more attempt (429 or 5xx).
func (e *StatusError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// IsRetryable reports whether err is a transient provider failure: a network
// error, a timeout of the call itself, 429 or 5xx. Caller cancellation and an
// open breaker are not retryable.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, ErrCircuitOpen) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Retryable()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// readBodyForError reads at most maxErrorBodySize bytes for error reporting.
func readBodyForError(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize+1))
	if err != nil {
		return "(failed to read response body)"
	}
	if len(body) > maxErrorBodySize {
		return strings.TrimSpace(string(body[:maxErrorBodySize])) + "..."
	}
	return strings.TrimSpace(string(body))
}

// Request describes one JSON call.
type Request struct {
	Provider  string // metrics label, e.g. "geoapify"
	Operation string // metrics label, e.g. "places"
	Method    string
	URL       string
	Header    http.Header
	Body      interface{} // JSON-encoded when non-nil
}

// DoJSON executes req and decodes a 2xx JSON response into out (when non-nil).
// Non-2xx responses become *StatusError carrying a bounded body snippet.
func DoJSON(ctx context.Context, client *http.Client, req Request, out interface{}) error {
	start := time.Now()
	err := doJSON(ctx, client, req, out)
	metrics.RecordUpstream(req.Provider, req.Operation, time.Since(start), err)
	return err
}

func doJSON(ctx context.Context, client *http.Client, req Request, out interface{}) error {
	body := io.Reader(http.NoBody)
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", req.Provider, err)
		}
		body = bytes.NewReader(payload)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", req.Provider, err)
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%s: request failed: %w", req.Provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{
			Provider:   req.Provider,
			StatusCode: resp.StatusCode,
			Body:       readBodyForError(resp.Body),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", req.Provider, err)
	}
	return nil
}

// RetryOnce runs fn and, if it fails with a retryable error, waits backoff and
// runs it exactly once more. The wait is cancellable.
func RetryOnce(ctx context.Context, provider, operation string, backoff time.Duration, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := fn()
	if err == nil || !IsRetryable(err) {
		return err
	}

	metrics.RecordUpstreamRetry(provider, operation)
	logging.Ctx(ctx).Warn().Err(err).Str("provider", provider).Str("operation", operation).
		Dur("backoff", backoff).Msg("Retrying upstream call")

	timer := time.NewTimer(backoff)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
		return ctx.Err()
	}
	return fn()
}

// NewHTTPClient returns a client with the given per-call timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}
