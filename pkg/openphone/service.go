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

// Package openphone declares the tool catalogue for the OpenPhone REST API.
// Each tool is a thin mapping from validated parameters onto one gateway
// call: a fixed method and path, a deterministic query or body, and a
// declared response envelope.
package openphone

import (
	"context"
	"net/url"

	"github.com/mcpany/openphone/pkg/schema"
	"github.com/mcpany/openphone/pkg/tool"
)

// Gateway is the outbound HTTP surface the tool handlers call. It is
// implemented by *client.Client; tests substitute a spy.
type Gateway interface {
	Execute(ctx context.Context, method, path string, query map[string]any, body any) (any, error)
}

// Service binds the tool catalogue to a gateway.
type Service struct {
	gw Gateway
	// confirmDestructive turns the advisory destructive marking on
	// delete_contact into an enforced confirm-parameter gate.
	confirmDestructive bool
}

// NewService creates the OpenPhone tool service.
func NewService(gw Gateway, confirmDestructive bool) *Service {
	return &Service{gw: gw, confirmDestructive: confirmDestructive}
}

// RegisterAll adds every OpenPhone tool to the registry. It is called once at
// startup; a registration failure is a programming error and aborts startup.
func (s *Service) RegisterAll(m *tool.Manager) error {
	groups := [][]*tool.Definition{
		s.messageTools(),
		s.conversationTools(),
		s.contactTools(),
		s.callTools(),
		s.directoryTools(),
	}
	for _, defs := range groups {
		for _, def := range defs {
			if err := m.Register(def); err != nil {
				return err
			}
		}
	}
	return nil
}

// pageSize declares a bounded maxResults parameter with the shared default.
func pageSize(max float64) *schema.Constraint {
	return &schema.Constraint{
		Type:        schema.TypeInteger,
		Description: "Maximum number of results to return per page",
		Min:         schema.Float(1),
		Max:         schema.Float(max),
		Default:     20,
	}
}

// pageToken declares the opaque forward-pagination token. The token is owned
// by the remote API and forwarded byte-identical; it is never inspected.
func pageToken() *schema.Constraint {
	return &schema.Constraint{
		Type:        schema.TypeString,
		Description: "Opaque page token from a previous response, passed back unchanged",
	}
}

// queryFrom copies the named parameters that were supplied into a query map.
// Absent parameters stay absent, so optional remote filters are omitted
// rather than sent empty.
func queryFrom(params map[string]any, keys ...string) map[string]any {
	q := make(map[string]any, len(keys))
	for _, key := range keys {
		if v, ok := params[key]; ok {
			q[key] = v
		}
	}
	return q
}

// pathID returns the named string parameter escaped for use as a URL path
// segment.
func pathID(params map[string]any, key string) string {
	s, _ := params[key].(string)
	return url.PathEscape(s)
}
