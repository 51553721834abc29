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
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcpany/openphone/pkg/client"
	"github.com/mcpany/openphone/pkg/redact"
	"github.com/mcpany/openphone/pkg/tool"
)

const testKey = "op_tools_key_42"

// spyGateway records gateway calls without touching the network.
type spyGateway struct {
	calls  int
	method string
	path   string
	query  map[string]any
	body   any
	result any
	err    error
}

func (s *spyGateway) Execute(_ context.Context, method, path string, query map[string]any, body any) (any, error) {
	s.calls++
	s.method = method
	s.path = path
	s.query = query
	s.body = body
	if s.err != nil {
		return nil, s.err
	}
	if s.result == nil {
		return map[string]any{}, nil
	}
	return s.result, nil
}

func newManager(t *testing.T, gw Gateway, confirmDestructive bool) *tool.Manager {
	t.Helper()
	m := tool.NewManager(redact.New(testKey))
	require.NoError(t, NewService(gw, confirmDestructive).RegisterAll(m))
	return m
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestRegisterAll_Catalogue(t *testing.T) {
	m := newManager(t, &spyGateway{}, false)
	defs := m.List()

	names := make([]string, 0, len(defs))
	for _, def := range defs {
		names = append(names, def.Name)
	}
	assert.ElementsMatch(t, []string{
		"send_message", "list_messages", "get_message",
		"list_conversations",
		"create_contact", "list_contacts", "get_contact", "update_contact",
		"delete_contact", "list_contact_custom_fields",
		"list_calls", "get_call", "list_call_recordings",
		"get_call_summary", "get_call_transcription", "get_call_voicemail",
		"list_phone_numbers", "get_phone_number",
		"list_users", "get_user", "list_webhooks",
	}, names)

	del, ok := m.Get("delete_contact")
	require.True(t, ok)
	assert.True(t, del.Destructive)
	assert.Contains(t, del.Description, "destructive")
}

func TestSendMessage_BodyShape(t *testing.T) {
	spy := &spyGateway{result: map[string]any{"data": map[string]any{"id": "MSG1"}}}
	m := newManager(t, spy, false)

	res, err := m.Dispatch(context.Background(), "send_message", map[string]any{
		"content": "hello there",
		"from":    "+15550001111",
		"to":      []any{"+15550002222"},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)

	assert.Equal(t, http.MethodPost, spy.method)
	assert.Equal(t, "/v1/messages", spy.path)
	body, ok := spy.body.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "hello there", body["content"])
	assert.Equal(t, "+15550001111", body["from"])
}

func TestSendMessage_ContentLengthEnforced(t *testing.T) {
	spy := &spyGateway{}
	m := newManager(t, spy, false)

	long := make([]byte, 1601)
	for i := range long {
		long[i] = 'a'
	}
	res, err := m.Dispatch(context.Background(), "send_message", map[string]any{
		"content": string(long),
		"from":    "+15550001111",
		"to":      []any{"+15550002222"},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, 0, spy.calls)
}

func TestListMessages_DefaultPageSize(t *testing.T) {
	spy := &spyGateway{}
	m := newManager(t, spy, false)

	res, err := m.Dispatch(context.Background(), "list_messages", map[string]any{
		"phoneNumberId": "PN1",
		"participants":  []any{"+15550002222"},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, 20, spy.query["maxResults"], "page size defaults to 20 when omitted")
	_, hasToken := spy.query["pageToken"]
	assert.False(t, hasToken, "absent filters are not forwarded")
}

func TestUpdateContact_RequiresAtLeastOneField(t *testing.T) {
	spy := &spyGateway{}
	m := newManager(t, spy, false)

	res, err := m.Dispatch(context.Background(), "update_contact", map[string]any{
		"contactId": "CNT1",
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "at least one field")
	assert.Equal(t, 0, spy.calls, "no outbound call before the precondition passes")
}

func TestUpdateContact_SendsOnlySuppliedFields(t *testing.T) {
	spy := &spyGateway{result: map[string]any{"data": map[string]any{"id": "CNT1"}}}
	m := newManager(t, spy, false)

	res, err := m.Dispatch(context.Background(), "update_contact", map[string]any{
		"contactId": "CNT1",
		"firstName": "Ada",
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)

	assert.Equal(t, http.MethodPatch, spy.method)
	assert.Equal(t, "/v1/contacts/CNT1", spy.path)
	body, ok := spy.body.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"firstName": "Ada"}, body)
}

func TestCreateContact_EntryLabelDefaults(t *testing.T) {
	spy := &spyGateway{result: map[string]any{"data": map[string]any{"id": "CNT2"}}}
	m := newManager(t, spy, false)

	res, err := m.Dispatch(context.Background(), "create_contact", map[string]any{
		"firstName": "Grace",
		"phoneNumbers": []any{
			map[string]any{"value": "+15550003333"},
		},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)

	body, ok := spy.body.(map[string]any)
	require.True(t, ok)
	entries, ok := body["phoneNumbers"].([]any)
	require.True(t, ok)
	require.Len(t, entries, 1)
	entry, ok := entries[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "primary", entry["name"])
}

func TestDeleteContact_ConfirmGate(t *testing.T) {
	t.Run("gate disabled dispatches immediately", func(t *testing.T) {
		spy := &spyGateway{result: map[string]any{"success": true}}
		m := newManager(t, spy, false)

		res, err := m.Dispatch(context.Background(), "delete_contact", map[string]any{
			"contactId": "CNT1",
		})
		require.NoError(t, err)
		assert.False(t, res.IsError)
		assert.Equal(t, 1, spy.calls)
		assert.Equal(t, http.MethodDelete, spy.method)
	})

	t.Run("gate enabled requires confirm", func(t *testing.T) {
		spy := &spyGateway{}
		m := newManager(t, spy, true)

		res, err := m.Dispatch(context.Background(), "delete_contact", map[string]any{
			"contactId": "CNT1",
		})
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "confirm")
		assert.Equal(t, 0, spy.calls)
	})

	t.Run("gate enabled with confirm proceeds", func(t *testing.T) {
		spy := &spyGateway{result: map[string]any{"success": true}}
		m := newManager(t, spy, true)

		res, err := m.Dispatch(context.Background(), "delete_contact", map[string]any{
			"contactId": "CNT1",
			"confirm":   true,
		})
		require.NoError(t, err)
		assert.False(t, res.IsError)
		assert.Equal(t, 1, spy.calls)
	})
}

func TestPathIDsAreEscaped(t *testing.T) {
	spy := &spyGateway{result: map[string]any{"data": map[string]any{}}}
	m := newManager(t, spy, false)

	_, err := m.Dispatch(context.Background(), "get_contact", map[string]any{
		"contactId": "weird/id?x",
	})
	require.NoError(t, err)
	assert.Equal(t, "/v1/contacts/weird%2Fid%3Fx", spy.path)
}

// The tests below run the full stack: registry -> real gateway -> httptest
// server standing in for the OpenPhone API.

func newEndToEnd(t *testing.T, handler http.HandlerFunc) *tool.Manager {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	gw := client.New(server.URL, testKey, 5*time.Second, nil)
	m := tool.NewManager(gw.Redactor())
	require.NoError(t, NewService(gw, false).RegisterAll(m))
	return m
}

func TestGetContact_NotFound(t *testing.T) {
	m := newEndToEnd(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Contact not found"}`)
	})

	res, err := m.Dispatch(context.Background(), "get_contact", map[string]any{
		"contactId": "missing-id",
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	text := resultText(t, res)
	assert.Contains(t, text, "404")
	assert.Contains(t, text, "Contact not found")
}

func TestGetCall_UnwrapsDataEnvelope(t *testing.T) {
	m := newEndToEnd(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"data":{"id":"AC1","direction":"outgoing"}}`)
	})

	res, err := m.Dispatch(context.Background(), "get_call", map[string]any{"callId": "AC1"})
	require.NoError(t, err)
	assert.False(t, res.IsError)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &decoded))
	assert.Equal(t, map[string]any{"id": "AC1", "direction": "outgoing"}, decoded)
}

func TestDeleteContact_NoContentIsSuccess(t *testing.T) {
	m := newEndToEnd(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	res, err := m.Dispatch(context.Background(), "delete_contact", map[string]any{
		"contactId": "CNT1",
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &decoded))
	assert.Equal(t, true, decoded["success"])
}

func TestListMessages_ParticipantsRepeatedInOrder(t *testing.T) {
	var gotQuery []string
	m := newEndToEnd(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()["participants"]
		fmt.Fprint(w, `{"data":[]}`)
	})

	_, err := m.Dispatch(context.Background(), "list_messages", map[string]any{
		"phoneNumberId": "PN1",
		"participants":  []any{"+15550001111", "+15550002222", "+15550003333"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"+15550001111", "+15550002222", "+15550003333"}, gotQuery)
}

func TestPageToken_RoundTripsVerbatim(t *testing.T) {
	const token = "b64:abc==/XYZ?&"
	var gotToken string
	m := newEndToEnd(t, func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.URL.Query().Get("pageToken")
		fmt.Fprintf(w, `{"data":[],"nextPageToken":%q}`, token)
	})

	first, err := m.Dispatch(context.Background(), "list_contacts", map[string]any{})
	require.NoError(t, err)
	assert.False(t, first.IsError)

	var page map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, first)), &page))
	next, ok := page["nextPageToken"].(string)
	require.True(t, ok, "list responses are returned verbatim, token included")

	_, err = m.Dispatch(context.Background(), "list_contacts", map[string]any{
		"pageToken": next,
	})
	require.NoError(t, err)
	assert.Equal(t, token, gotToken, "the token is forwarded byte-identical")
}
