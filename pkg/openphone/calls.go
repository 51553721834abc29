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

// callID declares the required call identifier parameter shared by the
// per-call lookup tools.
func callID() schema.Schema {
	return schema.Schema{
		"callId": {
			Type:        schema.TypeString,
			Description: "Call ID",
			Required:    true,
			MinLen:      1,
		},
	}
}

func (s *Service) callTools() []*tool.Definition {
	return []*tool.Definition{
		{
			Name:        "list_calls",
			Description: "List calls for an OpenPhone number, filtered by participants and an optional date range.",
			Envelope:    tool.EnvelopeVerbatim,
			Schema: schema.Schema{
				"phoneNumberId": {
					Type:        schema.TypeString,
					Description: "OpenPhone number ID to list calls for",
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
					Description: "Only calls created after this ISO 8601 timestamp",
				},
				"createdBefore": {
					Type:        schema.TypeString,
					Description: "Only calls created before this ISO 8601 timestamp",
				},
				"maxResults": pageSize(100),
				"pageToken":  pageToken(),
			},
			Handler: func(ctx context.Context, params map[string]any) (any, error) {
				query := queryFrom(params,
					"phoneNumberId", "participants", "createdAfter", "createdBefore", "maxResults", "pageToken")
				return s.gw.Execute(ctx, http.MethodGet, "/v1/calls", query, nil)
			},
		},
		{
			Name:        "get_call",
			Description: "Fetch a single call by ID.",
			Envelope:    tool.EnvelopeData,
			Schema:      callID(),
			Handler: func(ctx context.Context, params map[string]any) (any, error) {
				return s.gw.Execute(ctx, http.MethodGet, "/v1/calls/"+pathID(params, "callId"), nil, nil)
			},
		},
		{
			Name:        "list_call_recordings",
			Description: "List the recordings for a call.",
			Envelope:    tool.EnvelopeVerbatim,
			Schema:      callID(),
			Handler: func(ctx context.Context, params map[string]any) (any, error) {
				return s.gw.Execute(ctx, http.MethodGet, "/v1/call-recordings/"+pathID(params, "callId"), nil, nil)
			},
		},
		{
			Name:        "get_call_summary",
			Description: "Fetch the AI-generated summary for a call.",
			Envelope:    tool.EnvelopeData,
			Schema:      callID(),
			Handler: func(ctx context.Context, params map[string]any) (any, error) {
				return s.gw.Execute(ctx, http.MethodGet, "/v1/call-summaries/"+pathID(params, "callId"), nil, nil)
			},
		},
		{
			Name:        "get_call_transcription",
			Description: "Fetch the transcription for a call.",
			Envelope:    tool.EnvelopeData,
			Schema:      callID(),
			Handler: func(ctx context.Context, params map[string]any) (any, error) {
				return s.gw.Execute(ctx, http.MethodGet, "/v1/call-transcripts/"+pathID(params, "callId"), nil, nil)
			},
		},
		{
			Name:        "get_call_voicemail",
			Description: "Fetch the voicemail left on a call, if any.",
			Envelope:    tool.EnvelopeData,
			Schema:      callID(),
			Handler: func(ctx context.Context, params map[string]any) (any, error) {
				return s.gw.Execute(ctx, http.MethodGet, "/v1/calls/"+pathID(params, "callId")+"/voicemail", nil, nil)
			},
		},
	}
}
