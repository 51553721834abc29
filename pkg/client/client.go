/*
 * Copyright 2025 Author(s) of OpenPhone MCP
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package client implements the HTTP gateway to the OpenPhone REST API. It is
// the only component permitted to perform outbound network calls. Every call
// is a single attempt: there are no retries, no backoff and no connection
// pooling beyond what net/http provides by default.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mcpany/openphone/pkg/logging"
	"github.com/mcpany/openphone/pkg/redact"
)

// remoteService names the upstream in HTTP failure messages.
const remoteService = "OpenPhone API"

// ErrorKind discriminates gateway failure modes so callers can distinguish a
// timeout from an upstream rejection without parsing message text.
type ErrorKind int

const (
	// KindTimeout means the request exceeded the configured deadline and was
	// aborted.
	KindTimeout ErrorKind = iota
	// KindHTTP means the upstream answered with a non-2xx status.
	KindHTTP
	// KindTransport covers everything else: DNS, connection refused, reading
	// or decoding the response body.
	KindTransport
)

// Error is a gateway failure. Message is always pre-redacted at formation, so
// it is safe to place in a tool result or a log line as-is.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Doer abstracts the underlying HTTP client so tests can substitute a
// transport without a listening socket.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client issues requests against the OpenPhone API. It is safe for concurrent
// use; all fields are fixed at construction.
type Client struct {
	baseURL  string
	apiKey   string
	timeout  time.Duration
	http     Doer
	redactor *redact.Redactor
	log      *slog.Logger
}

// New creates a gateway client. baseURL is joined with per-call paths, apiKey
// is sent raw as the Authorization header value, and timeout is the per-call
// abort deadline. A nil doer falls back to a plain http.Client.
func New(baseURL, apiKey string, timeout time.Duration, doer Doer) *Client {
	if doer == nil {
		doer = &http.Client{}
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		timeout:  timeout,
		http:     doer,
		redactor: redact.New(apiKey),
		log:      logging.GetLogger().With("component", "gateway"),
	}
}

// Redactor returns the redactor bound to this client's API key, for use by the
// dispatch boundary when it adds context of its own to a failure.
func (c *Client) Redactor() *redact.Redactor {
	return c.redactor
}

// Execute performs one HTTP request and returns the decoded JSON body.
//
// Query values may be scalars or slices; a slice is encoded as one repeated
// query key per element, in order, and a nil value is omitted entirely rather
// than sent empty. A non-nil body is serialized as JSON. A 204 response yields
// a synthetic {"success": true} marker instead of a decode attempt.
//
// All failures are reported as *Error with a redacted message.
func (c *Client) Execute(ctx context.Context, method, path string, query map[string]any, body any) (any, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		q := url.Values{}
		for key, value := range query {
			if value == nil {
				continue
			}
			switch v := value.(type) {
			case []string:
				for _, item := range v {
					q.Add(key, item)
				}
			case []any:
				for _, item := range v {
					q.Add(key, fmt.Sprintf("%v", item))
				}
			default:
				q.Set(key, fmt.Sprintf("%v", v))
			}
		}
		if encoded := q.Encode(); encoded != "" {
			target += "?" + encoded
		}
	}

	var reqBody io.Reader
	if body != nil {
		jsonBytes, err := json.Marshal(body)
		if err != nil {
			return nil, c.transportError(fmt.Errorf("failed to marshal request body: %w", err))
		}
		reqBody = bytes.NewReader(jsonBytes)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return nil, c.transportError(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	c.log.Debug("sending request", "method", method, "path", path)

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &Error{
				Kind:    KindTimeout,
				Message: fmt.Sprintf("request to %s timed out after %dms", remoteService, c.timeout.Milliseconds()),
			}
		}
		return nil, c.transportError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.transportError(fmt.Errorf("failed to read response body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := extractErrorDetail(respBody)
		return nil, &Error{
			Kind:       KindHTTP,
			StatusCode: resp.StatusCode,
			Message: fmt.Sprintf("%s %d %s: %s",
				remoteService, resp.StatusCode, http.StatusText(resp.StatusCode), c.redactor.String(detail)),
		}
	}

	if resp.StatusCode == http.StatusNoContent {
		return map[string]any{"success": true}, nil
	}

	var result any
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, c.transportError(fmt.Errorf("failed to decode response body: %w", err))
	}
	return result, nil
}

// transportError wraps a non-HTTP failure with redaction applied.
func (c *Client) transportError(err error) *Error {
	return &Error{Kind: KindTransport, Message: c.redactor.Error(err)}
}

// extractErrorDetail pulls a human-readable message out of an error response
// body. Preference order: top-level "message", then "error.message", then a
// string "error", then the raw body, then a fixed fallback for empty bodies.
func extractErrorDetail(body []byte) string {
	if len(body) == 0 {
		return "No response body"
	}
	var parsed map[string]any
	if err := json.Unmarshal(body, &parsed); err == nil {
		if msg, ok := parsed["message"].(string); ok && msg != "" {
			return msg
		}
		if errObj, ok := parsed["error"].(map[string]any); ok {
			if msg, ok := errObj["message"].(string); ok && msg != "" {
				return msg
			}
		}
		if msg, ok := parsed["error"].(string); ok && msg != "" {
			return msg
		}
	}
	return string(body)
}
