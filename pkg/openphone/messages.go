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

func (s *Service) messageTools() []*tool.Definition {
	return []*tool.Definition{
		{
			Name:        "send_message",
			Description: "Send a text message from an OpenPhone number to one or more recipients.",
			Envelope:    tool.EnvelopeData,
			Schema: schema.Schema{
				"content": {
					Type:        schema.TypeString,
					Description: "Message text",
					Required:    true,
					MinLen:      1,
					MaxLen:      1600,
				},
				"from": {
					Type:        schema.TypeString,
					Description: "Sending OpenPhone number (E.164) or phone number ID",
					Required:    true,
				},
				"to": {
					Type:        schema.TypeArray,
					Description: "Recipient phone numbers in E.164 format",
					Required:    true,
					MinItems:    1,
					MaxItems:    10,
					Items:       &schema.Constraint{Type: schema.TypeString},
				},
			},
			Handler: func(ctx context.Context, params map[string]any) (any, error) {
				body := map[string]any{
					"content": params["content"],
					"from":    params["from"],
					"to":      params["to"],
				}
				return s.gw.Execute(ctx, http.MethodPost, "/v1/messages", nil, body)
			},
		},
		{
			Name:        "list_messages",
			Description: "List messages for an OpenPhone number, filtered by conversation participants and an optional date range.",
			Envelope:    tool.EnvelopeVerbatim,
			Schema: schema.Schema{
				"phoneNumberId": {
					Type:        schema.TypeString,
					Description: "OpenPhone number ID to list messages for",
					Required:    true,
				},
				"participants": {
					Type:        schema.TypeArray,
					Description: "Participant phone numbers in E.164 format",
					Required:    true,
					MinItems:    1,
					MaxItems:    10,
					Items:       &schema.Constraint{Type: schema.TypeString},
				},
				"createdAfter": {
					Type:        schema.TypeString,
					Description: "Only messages created after this ISO 8601 timestamp",
				},
				"createdBefore": {
					Type:        schema.TypeString,
					Description: "Only messages created before this ISO 8601 timestamp",
				},
				"maxResults": pageSize(100),
				"pageToken":  pageToken(),
			},
			Handler: func(ctx context.Context, params map[string]any) (any, error) {
				query := queryFrom(params,
					"phoneNumberId", "participants", "createdAfter", "createdBefore", "maxResults", "pageToken")
				return s.gw.Execute(ctx, http.MethodGet, "/v1/messages", query, nil)
			},
		},
		{
			Name:        "get_message",
			Description: "Fetch a single message by ID.",
			Envelope:    tool.EnvelopeData,
			Schema: schema.Schema{
				"messageId": {
					Type:        schema.TypeString,
					Description: "Message ID",
					Required:    true,
					MinLen:      1,
				},
			},
			Handler: func(ctx context.Context, params map[string]any) (any, error) {
				return s.gw.Execute(ctx, http.MethodGet, "/v1/messages/"+pathID(params, "messageId"), nil, nil)
			},
		},
	}
}

func (s *Service) conversationTools() []*tool.Definition {
	return []*tool.Definition{
		{
			Name:        "list_conversations",
			Description: "List conversations, optionally filtered by phone number, user, date range and inbox status.",
			Envelope:    tool.EnvelopeVerbatim,
			Schema: schema.Schema{
				"phoneNumbers": {
					Type:        schema.TypeArray,
					Description: "Restrict to conversations involving these phone numbers",
					MaxItems:    10,
					Items:       &schema.Constraint{Type: schema.TypeString},
				},
				"userId": {
					Type:        schema.TypeString,
					Description: "Restrict to conversations owned by this user",
				},
				"createdAfter": {
					Type:        schema.TypeString,
					Description: "Only conversations created after this ISO 8601 timestamp",
				},
				"createdBefore": {
					Type:        schema.TypeString,
					Description: "Only conversations created before this ISO 8601 timestamp",
				},
				"updatedAfter": {
					Type:        schema.TypeString,
					Description: "Only conversations with activity after this ISO 8601 timestamp",
				},
				"updatedBefore": {
					Type:        schema.TypeString,
					Description: "Only conversations with activity before this ISO 8601 timestamp",
				},
				"inboxStatus": {
					Type:        schema.TypeString,
					Description: "Inbox status filter; the API only supports \"done\"",
					Enum:        []string{"done"},
				},
				"maxResults": pageSize(100),
				"pageToken":  pageToken(),
			},
			Handler: func(ctx context.Context, params map[string]any) (any, error) {
				query := queryFrom(params,
					"phoneNumbers", "userId", "createdAfter", "createdBefore",
					"updatedAfter", "updatedBefore", "inboxStatus", "maxResults", "pageToken")
				return s.gw.Execute(ctx, http.MethodGet, "/v1/conversations", query, nil)
			},
		},
	}
}
