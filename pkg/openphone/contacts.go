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
	"fmt"
	"net/http"

	"github.com/mcpany/openphone/pkg/schema"
	"github.com/mcpany/openphone/pkg/tool"
)

// contactUpdatableFields are the optional fields accepted by create_contact
// and update_contact. update_contact requires at least one of them.
var contactUpdatableFields = []string{
	"firstName", "lastName", "company", "role", "phoneNumbers", "emails",
}

// contactEntries declares a list of labelled phone or email entries. The
// label defaults to "primary" when omitted.
func contactEntries(description string) *schema.Constraint {
	return &schema.Constraint{
		Type:        schema.TypeArray,
		Description: description,
		Items: &schema.Constraint{
			Type: schema.TypeObject,
			Fields: map[string]*schema.Constraint{
				"name": {
					Type:        schema.TypeString,
					Description: "Label for this entry",
					Default:     "primary",
				},
				"value": {
					Type:        schema.TypeString,
					Description: "The phone number or email address",
					Required:    true,
					MinLen:      1,
				},
			},
		},
	}
}

func contactFieldSchema() schema.Schema {
	return schema.Schema{
		"firstName": {
			Type:        schema.TypeString,
			Description: "Contact first name",
			MaxLen:      255,
		},
		"lastName": {
			Type:        schema.TypeString,
			Description: "Contact last name",
			MaxLen:      255,
		},
		"company": {
			Type:        schema.TypeString,
			Description: "Company name",
			MaxLen:      255,
		},
		"role": {
			Type:        schema.TypeString,
			Description: "Role or job title",
			MaxLen:      255,
		},
		"phoneNumbers": contactEntries("Phone number entries for the contact"),
		"emails":       contactEntries("Email entries for the contact"),
	}
}

func (s *Service) contactTools() []*tool.Definition {
	createSchema := contactFieldSchema()
	createSchema["firstName"] = &schema.Constraint{
		Type:        schema.TypeString,
		Description: "Contact first name",
		Required:    true,
		MinLen:      1,
		MaxLen:      255,
	}

	updateSchema := contactFieldSchema()
	updateSchema["contactId"] = &schema.Constraint{
		Type:        schema.TypeString,
		Description: "Contact ID",
		Required:    true,
		MinLen:      1,
	}

	deleteSchema := schema.Schema{
		"contactId": {
			Type:        schema.TypeString,
			Description: "Contact ID",
			Required:    true,
			MinLen:      1,
		},
	}
	if s.confirmDestructive {
		deleteSchema["confirm"] = &schema.Constraint{
			Type:        schema.TypeBoolean,
			Description: "Must be true to acknowledge the deletion",
		}
	}

	return []*tool.Definition{
		{
			Name:        "create_contact",
			Description: "Create a contact.",
			Envelope:    tool.EnvelopeData,
			Schema:      createSchema,
			Handler: func(ctx context.Context, params map[string]any) (any, error) {
				body := make(map[string]any, len(contactUpdatableFields))
				for _, field := range contactUpdatableFields {
					if v, ok := params[field]; ok {
						body[field] = v
					}
				}
				return s.gw.Execute(ctx, http.MethodPost, "/v1/contacts", nil, body)
			},
		},
		{
			Name:        "list_contacts",
			Description: "List contacts.",
			Envelope:    tool.EnvelopeVerbatim,
			Schema: schema.Schema{
				"maxResults": pageSize(50),
				"pageToken":  pageToken(),
			},
			Handler: func(ctx context.Context, params map[string]any) (any, error) {
				query := queryFrom(params, "maxResults", "pageToken")
				return s.gw.Execute(ctx, http.MethodGet, "/v1/contacts", query, nil)
			},
		},
		{
			Name:        "get_contact",
			Description: "Fetch a single contact by ID.",
			Envelope:    tool.EnvelopeData,
			Schema: schema.Schema{
				"contactId": {
					Type:        schema.TypeString,
					Description: "Contact ID",
					Required:    true,
					MinLen:      1,
				},
			},
			Handler: func(ctx context.Context, params map[string]any) (any, error) {
				return s.gw.Execute(ctx, http.MethodGet, "/v1/contacts/"+pathID(params, "contactId"), nil, nil)
			},
		},
		{
			Name:        "update_contact",
			Description: "Update a contact. At least one updatable field must be supplied.",
			Envelope:    tool.EnvelopeData,
			Schema:      updateSchema,
			Handler: func(ctx context.Context, params map[string]any) (any, error) {
				body := make(map[string]any)
				for _, field := range contactUpdatableFields {
					if v, ok := params[field]; ok {
						body[field] = v
					}
				}
				if len(body) == 0 {
					return nil, fmt.Errorf("at least one field to update is required (one of %v)", contactUpdatableFields)
				}
				return s.gw.Execute(ctx, http.MethodPatch, "/v1/contacts/"+pathID(params, "contactId"), nil, body)
			},
		},
		{
			Name:        "delete_contact",
			Description: "Permanently delete a contact. This action is destructive and cannot be undone.",
			Destructive: true,
			Envelope:    tool.EnvelopeVerbatim,
			Schema:      deleteSchema,
			Handler: func(ctx context.Context, params map[string]any) (any, error) {
				if s.confirmDestructive {
					if confirmed, _ := params["confirm"].(bool); !confirmed {
						return nil, fmt.Errorf("deleting a contact requires confirm: true")
					}
				}
				return s.gw.Execute(ctx, http.MethodDelete, "/v1/contacts/"+pathID(params, "contactId"), nil, nil)
			},
		},
		{
			Name:        "list_contact_custom_fields",
			Description: "List the custom field definitions configured for contacts.",
			Envelope:    tool.EnvelopeVerbatim,
			Schema:      schema.Schema{},
			Handler: func(ctx context.Context, _ map[string]any) (any, error) {
				return s.gw.Execute(ctx, http.MethodGet, "/v1/contact-custom-fields", nil, nil)
			},
		},
	}
}
