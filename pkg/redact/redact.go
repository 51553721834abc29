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

// Package redact removes the configured API key and Authorization-style
// credentials from text before it leaves the process. Every error message and
// every value destined for a tool result or a log line must pass through a
// Redactor first; no failure path may emit the raw key.
package redact

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Placeholder is the fixed token substituted for redacted material.
const Placeholder = "[REDACTED]"

// authPattern matches an "authorization" key (any case, optionally quoted,
// followed by a colon or equals sign) and the value after it, up to a quote,
// comma, whitespace or closing brace. It catches authorization-like tokens
// inside serialized structures even when they do not equal the configured key.
var authPattern = regexp.MustCompile(`(?i)(["']?authorization["']?\s*[:=]?\s*["']?)([^"',}\s]+)`)

// Redactor scrubs sensitive substrings from arbitrary text and values.
type Redactor struct {
	apiKey string
}

// New creates a Redactor for the given API key. An empty key disables literal
// replacement but the authorization-pattern guard stays active.
func New(apiKey string) *Redactor {
	return &Redactor{apiKey: apiKey}
}

// String returns s with every occurrence of the configured API key and every
// authorization-like token replaced by the placeholder.
func (r *Redactor) String(s string) string {
	if r.apiKey != "" {
		s = strings.ReplaceAll(s, r.apiKey, Placeholder)
	}
	return authPattern.ReplaceAllString(s, "${1}"+Placeholder)
}

// Value redacts an arbitrary value. Strings are redacted directly; structured
// values are serialized to compact JSON first, falling back to fmt formatting
// when serialization fails. A nil value yields the empty string.
func (r *Redactor) Value(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return r.String(s)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return r.String(fmt.Sprintf("%v", v))
	}
	return r.String(string(b))
}

// Error redacts an error's message. A nil error yields the empty string.
func (r *Redactor) Error(err error) string {
	if err == nil {
		return ""
	}
	return r.String(err.Error())
}
