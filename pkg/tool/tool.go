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

// Package tool holds the tool registry and the dispatch boundary. A tool is a
// named, schema-validated operation; dispatching one runs validation, invokes
// the handler and shapes the outcome into an MCP call-tool result. Failures
// reachable during a call are returned as error results, never as protocol
// faults, so the calling session stays alive.
package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	xsync "github.com/puzpuzpuz/xsync/v4"

	"github.com/mcpany/openphone/pkg/logging"
	"github.com/mcpany/openphone/pkg/redact"
	"github.com/mcpany/openphone/pkg/schema"
)

// ErrToolNotFound is returned by Dispatch when no tool with the requested
// name is registered. Only canonical names resolve; there is no aliasing.
var ErrToolNotFound = errors.New("tool not found")

// Envelope declares how a tool unwraps the upstream response body. Making the
// expected shape an explicit property of the definition avoids silent
// mis-unwrapping when the remote API changes an envelope.
type Envelope int

const (
	// EnvelopeData unwraps a {"data": ...} wrapper, used by get and mutation
	// endpoints. Bodies without a "data" key pass through unchanged.
	EnvelopeData Envelope = iota
	// EnvelopeVerbatim returns the body as received. List endpoints use this
	// so the caller keeps the nextPageToken field intact for resubmission.
	EnvelopeVerbatim
)

// HandlerFunc executes a tool against validated parameters. Handlers are thin
// wrappers over one gateway call; they hold no state between invocations.
type HandlerFunc func(ctx context.Context, params map[string]any) (any, error)

// Definition describes one registered tool. Definitions are constructed at
// startup and immutable afterwards.
type Definition struct {
	Name        string
	Description string
	// Destructive marks tools that delete remote state. The marking is
	// advisory in the tool listing; when the confirm-destructive setting is
	// enabled the handler additionally enforces a confirm parameter.
	Destructive bool
	Schema      schema.Schema
	Envelope    Envelope
	Handler     HandlerFunc
}

// Manager is a concurrency-safe registry of tool definitions.
type Manager struct {
	tools    *xsync.Map[string, *Definition]
	redactor *redact.Redactor
}

// NewManager creates an empty registry. The redactor is applied to any error
// text formed at the dispatch boundary before it is placed in a result.
func NewManager(redactor *redact.Redactor) *Manager {
	return &Manager{
		tools:    xsync.NewMap[string, *Definition](),
		redactor: redactor,
	}
}

// Register adds a definition to the registry. Names are globally unique;
// registering a duplicate is a programming error and is rejected.
func (m *Manager) Register(def *Definition) error {
	if def == nil || def.Name == "" {
		return fmt.Errorf("tool definition must have a name")
	}
	if def.Handler == nil {
		return fmt.Errorf("tool %q has no handler", def.Name)
	}
	if _, loaded := m.tools.LoadOrStore(def.Name, def); loaded {
		return fmt.Errorf("tool %q is already registered", def.Name)
	}
	return nil
}

// Get retrieves a definition by its canonical name.
func (m *Manager) Get(name string) (*Definition, bool) {
	return m.tools.Load(name)
}

// List returns all registered definitions, sorted by name.
func (m *Manager) List() []*Definition {
	var defs []*Definition
	m.tools.Range(func(_ string, def *Definition) bool {
		defs = append(defs, def)
		return true
	})
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

// Dispatch validates raw arguments for the named tool, runs its handler and
// shapes the outcome. Validation failures, handler precondition failures and
// gateway failures all come back as results with IsError set; only an unknown
// tool name is reported as a hard error.
func (m *Manager) Dispatch(ctx context.Context, name string, raw map[string]any) (*mcp.CallToolResult, error) {
	def, ok := m.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrToolNotFound, name)
	}

	log := logging.GetLogger().With("tool", name, "correlationID", uuid.New().String())
	log.Debug("dispatching tool call")

	params, err := schema.Validate(def.Schema, raw)
	if err != nil {
		log.Debug("validation failed", "error", err)
		return errorResult(m.redactor.Error(err)), nil
	}

	result, err := def.Handler(ctx, params)
	if err != nil {
		log.Debug("tool call failed", "error", m.redactor.Error(err))
		return errorResult(m.redactor.Error(err)), nil
	}

	if def.Envelope == EnvelopeData {
		if obj, ok := result.(map[string]any); ok {
			if data, ok := obj["data"]; ok {
				result = data
			}
		}
	}

	text, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Error("failed to encode tool result", "error", err)
		return errorResult(m.redactor.String(fmt.Sprintf("failed to encode tool result: %v", err))), nil
	}

	log.Debug("tool call succeeded")
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(text)}},
	}, nil
}

// errorResult wraps an already-redacted message into an error result.
func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: message}},
	}
}
