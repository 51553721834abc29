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

// Package config loads the process-wide settings for the OpenPhone MCP server.
// Settings are read exactly once at startup and are immutable afterwards; the
// resulting value is passed into the gateway and redactor by parameter rather
// than consulted as ambient global state.
package config

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

const (
	// DefaultBaseURL is the OpenPhone public API endpoint.
	DefaultBaseURL = "https://api.openphone.com"

	// DefaultTimeout is the per-request deadline applied when
	// OPENPHONE_TIMEOUT_MS is not set.
	DefaultTimeout = 30 * time.Second

	// MinTimeout is the lowest accepted per-request deadline. Anything below
	// this is a configuration error, not a clamp.
	MinTimeout = 1 * time.Second
)

// Settings holds the validated process configuration.
type Settings struct {
	apiKey             string
	baseURL            string
	timeout            time.Duration
	confirmDestructive bool
	listenAddress      string
	logFile            string
	debug              bool
}

// Load reads settings from the given viper instance, which is expected to have
// the OPENPHONE_* environment variables and any command-line flags bound. It
// returns an error describing the first violated constraint; the caller is
// expected to treat any error as fatal.
func Load(v *viper.Viper) (*Settings, error) {
	s := &Settings{
		apiKey:             v.GetString("api-key"),
		baseURL:            v.GetString("base-url"),
		confirmDestructive: v.GetBool("confirm-destructive"),
		listenAddress:      v.GetString("mcp-listen-address"),
		logFile:            v.GetString("logfile"),
		debug:              v.GetBool("debug"),
	}

	if s.apiKey == "" {
		return nil, fmt.Errorf("OPENPHONE_API_KEY is required")
	}

	if s.baseURL == "" {
		s.baseURL = DefaultBaseURL
	}
	u, err := url.Parse(s.baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base URL %q is not an absolute URL", s.baseURL)
	}

	// The timeout is read as a string so a malformed value is rejected
	// instead of collapsing to zero and silently picking up the default.
	s.timeout = DefaultTimeout
	if raw := v.GetString("timeout-ms"); raw != "" {
		timeoutMs, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("timeout %q is not an integer number of milliseconds", raw)
		}
		if timeoutMs < MinTimeout.Milliseconds() {
			return nil, fmt.Errorf("timeout must be at least %d ms, got %d", MinTimeout.Milliseconds(), timeoutMs)
		}
		s.timeout = time.Duration(timeoutMs) * time.Millisecond
	}

	return s, nil
}

// APIKey returns the raw OpenPhone API key. It is sent as the Authorization
// header value on every outbound call and must never appear in logs or tool
// results; see the redact package.
func (s *Settings) APIKey() string {
	return s.apiKey
}

// BaseURL returns the OpenPhone API base URL.
func (s *Settings) BaseURL() string {
	return s.baseURL
}

// Timeout returns the per-request deadline.
func (s *Settings) Timeout() time.Duration {
	return s.timeout
}

// ConfirmDestructive reports whether destructive tools require an explicit
// confirm parameter before any network call is made.
func (s *Settings) ConfirmDestructive() bool {
	return s.confirmDestructive
}

// MCPListenAddress returns the listen address for streamable HTTP mode. Empty
// means HTTP mode is disabled.
func (s *Settings) MCPListenAddress() string {
	return s.listenAddress
}

// LogFile returns the log file path, or empty for the default destination.
func (s *Settings) LogFile() string {
	return s.logFile
}

// IsDebug reports whether debug logging is enabled.
func (s *Settings) IsDebug() bool {
	return s.debug
}
