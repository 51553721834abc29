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

package openphone

import (
	"context"
	"net/http"

	"github.com/mcpany/openphone/pkg/schema"
	"github.com/mcpany/openphone/pkg/tool"
)

// directoryTools covers the workspace-level resources: phone numbers, users
// and webhooks.
func (s *Service) directoryTools() []*tool.Definition {
	return []*tool.Definition{
		{
			Name:        "list_phone_numbers",
			Description: "List the workspace's OpenPhone numbers, optionally restricted to one user.",
			Envelope:    tool.EnvelopeVerbatim,
			Schema: schema.Schema{
				"userId": {
					Type:        schema.TypeString,
					Description: "Only phone numbers assigned to this user",
				},
			},
			Handler: func(ctx context.Context, params map[string]any) (any, error) {
				query := queryFrom(params, "userId")
				return s.gw.Execute(ctx, http.MethodGet, "/v1/phone-numbers", query, nil)
			},
		},
		{
			Name:        "get_phone_number",
			Description: "Fetch a single OpenPhone number by ID.",
			Envelope:    tool.EnvelopeData,
			Schema: schema.Schema{
				"phoneNumberId": {
					Type:        schema.TypeString,
					Description: "Phone number ID",
					Required:    true,
					MinLen:      1,
				},
			},
			Handler: func(ctx context.Context, params map[string]any) (any, error) {
				return s.gw.Execute(ctx, http.MethodGet, "/v1/phone-numbers/"+pathID(params, "phoneNumberId"), nil, nil)
			},
		},
		{
			Name:        "list_users",
			Description: "List the users in the workspace.",
			Envelope:    tool.EnvelopeVerbatim,
			Schema: schema.Schema{
				"maxResults": pageSize(100),
				"pageToken":  pageToken(),
			},
			Handler: func(ctx context.Context, params map[string]any) (any, error) {
				query := queryFrom(params, "maxResults", "pageToken")
				return s.gw.Execute(ctx, http.MethodGet, "/v1/users", query, nil)
			},
		},
		{
			Name:        "get_user",
			Description: "Fetch a single user by ID.",
			Envelope:    tool.EnvelopeData,
			Schema: schema.Schema{
				"userId": {
					Type:        schema.TypeString,
					Description: "User ID",
					Required:    true,
					MinLen:      1,
				},
			},
			Handler: func(ctx context.Context, params map[string]any) (any, error) {
				return s.gw.Execute(ctx, http.MethodGet, "/v1/users/"+pathID(params, "userId"), nil, nil)
			},
		},
		{
			Name:        "list_webhooks",
			Description: "List the webhooks configured for the workspace.",
			Envelope:    tool.EnvelopeVerbatim,
			Schema:      schema.Schema{},
			Handler: func(ctx context.Context, _ map[string]any) (any, error) {
				return s.gw.Execute(ctx, http.MethodGet, "/v1/webhooks", nil, nil)
			},
		},
	}
}
