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

// Package schema declares tool parameters as data-only constraint descriptors
// and validates raw arguments against them with a single generic routine.
// The same descriptors are rendered into the JSON Schema object advertised to
// MCP clients, so the declared and enforced shapes cannot drift apart.
package schema

import (
	"fmt"
	"math"
	"slices"
)

// Type enumerates the supported parameter kinds.
type Type string

const (
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeInteger Type = "integer"
	TypeBoolean Type = "boolean"
	TypeArray   Type = "array"
	TypeObject  Type = "object"
)

// Constraint describes one parameter: its kind, whether it is required, an
// optional default applied when absent, and the bounds enforced for its kind.
// Zero-valued bounds are unenforced.
type Constraint struct {
	Type        Type
	Description string
	Required    bool
	Default     any

	// Strings.
	MinLen int
	MaxLen int
	Enum   []string

	// Numbers and integers.
	Min *float64
	Max *float64

	// Arrays.
	MinItems int
	MaxItems int
	Items    *Constraint

	// Objects.
	Fields map[string]*Constraint
}

// Schema maps parameter names to their constraints.
type Schema map[string]*Constraint

// ValidationError reports the parameter that failed and the violated
// constraint. It never reaches the remote API; the tool call stops here.
type ValidationError struct {
	Param  string
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid parameter %q: %s", e.Param, e.Reason)
}

// Float is a convenience for declaring numeric bounds inline.
func Float(f float64) *float64 {
	return &f
}

// Validate checks raw arguments against the schema. Undeclared parameters are
// rejected, defaults are applied for absent optional parameters, and each
// present value is checked for kind and bounds. On success it returns a new
// map containing only declared parameters.
func Validate(s Schema, raw map[string]any) (map[string]any, error) {
	for name := range raw {
		if _, ok := s[name]; !ok {
			return nil, &ValidationError{Param: name, Reason: "parameter is not declared for this tool"}
		}
	}

	validated := make(map[string]any, len(s))
	for name, c := range s {
		value, present := raw[name]
		if !present || value == nil {
			if c.Required {
				return nil, &ValidationError{Param: name, Reason: "parameter is required"}
			}
			if c.Default != nil {
				validated[name] = c.Default
			}
			continue
		}
		checked, err := checkValue(name, c, value)
		if err != nil {
			return nil, err
		}
		validated[name] = checked
	}
	return validated, nil
}

// checkValue validates a single present value against its constraint and
// returns the value to forward (nested defaults applied for objects).
func checkValue(name string, c *Constraint, value any) (any, error) {
	switch c.Type {
	case TypeString:
		str, ok := value.(string)
		if !ok {
			return nil, &ValidationError{Param: name, Reason: "must be a string"}
		}
		if c.MinLen > 0 && len(str) < c.MinLen {
			return nil, &ValidationError{Param: name, Reason: fmt.Sprintf("must be at least %d characters", c.MinLen)}
		}
		if c.MaxLen > 0 && len(str) > c.MaxLen {
			return nil, &ValidationError{Param: name, Reason: fmt.Sprintf("must be at most %d characters", c.MaxLen)}
		}
		if len(c.Enum) > 0 && !slices.Contains(c.Enum, str) {
			return nil, &ValidationError{Param: name, Reason: fmt.Sprintf("must be one of %v", c.Enum)}
		}
		return str, nil

	case TypeNumber, TypeInteger:
		num, ok := toFloat(value)
		if !ok {
			return nil, &ValidationError{Param: name, Reason: "must be a number"}
		}
		if c.Type == TypeInteger && num != math.Trunc(num) {
			return nil, &ValidationError{Param: name, Reason: "must be an integer"}
		}
		if c.Min != nil && num < *c.Min {
			return nil, &ValidationError{Param: name, Reason: fmt.Sprintf("must be at least %v", *c.Min)}
		}
		if c.Max != nil && num > *c.Max {
			return nil, &ValidationError{Param: name, Reason: fmt.Sprintf("must be at most %v", *c.Max)}
		}
		if c.Type == TypeInteger {
			return int(num), nil
		}
		return num, nil

	case TypeBoolean:
		b, ok := value.(bool)
		if !ok {
			return nil, &ValidationError{Param: name, Reason: "must be a boolean"}
		}
		return b, nil

	case TypeArray:
		items, ok := value.([]any)
		if !ok {
			return nil, &ValidationError{Param: name, Reason: "must be an array"}
		}
		if c.MinItems > 0 && len(items) < c.MinItems {
			return nil, &ValidationError{Param: name, Reason: fmt.Sprintf("must contain at least %d items", c.MinItems)}
		}
		if c.MaxItems > 0 && len(items) > c.MaxItems {
			return nil, &ValidationError{Param: name, Reason: fmt.Sprintf("must contain at most %d items", c.MaxItems)}
		}
		if c.Items == nil {
			return items, nil
		}
		checked := make([]any, 0, len(items))
		for i, item := range items {
			cv, err := checkValue(fmt.Sprintf("%s[%d]", name, i), c.Items, item)
			if err != nil {
				return nil, err
			}
			checked = append(checked, cv)
		}
		return checked, nil

	case TypeObject:
		obj, ok := value.(map[string]any)
		if !ok {
			return nil, &ValidationError{Param: name, Reason: "must be an object"}
		}
		if c.Fields == nil {
			return obj, nil
		}
		for key := range obj {
			if _, ok := c.Fields[key]; !ok {
				return nil, &ValidationError{Param: name + "." + key, Reason: "field is not declared"}
			}
		}
		checked := make(map[string]any, len(c.Fields))
		for key, fc := range c.Fields {
			fv, present := obj[key]
			if !present || fv == nil {
				if fc.Required {
					return nil, &ValidationError{Param: name + "." + key, Reason: "field is required"}
				}
				if fc.Default != nil {
					checked[key] = fc.Default
				}
				continue
			}
			cv, err := checkValue(name+"."+key, fc, fv)
			if err != nil {
				return nil, err
			}
			checked[key] = cv
		}
		return checked, nil

	default:
		return nil, &ValidationError{Param: name, Reason: fmt.Sprintf("unsupported constraint type %q", c.Type)}
	}
}

// toFloat normalizes the numeric representations JSON decoding and Go callers
// produce.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// JSONSchema renders the schema as the JSON Schema object literal advertised
// in the MCP tool listing.
func JSONSchema(s Schema) map[string]any {
	properties := make(map[string]any, len(s))
	var required []string
	for name, c := range s {
		properties[name] = constraintSchema(c)
		if c.Required {
			required = append(required, name)
		}
	}
	slices.Sort(required)

	out := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		out["required"] = required
	}
	return out
}

func constraintSchema(c *Constraint) map[string]any {
	out := map[string]any{"type": string(c.Type)}
	if c.Description != "" {
		out["description"] = c.Description
	}
	if c.Default != nil {
		out["default"] = c.Default
	}
	if len(c.Enum) > 0 {
		out["enum"] = c.Enum
	}
	if c.MinLen > 0 {
		out["minLength"] = c.MinLen
	}
	if c.MaxLen > 0 {
		out["maxLength"] = c.MaxLen
	}
	if c.Min != nil {
		out["minimum"] = *c.Min
	}
	if c.Max != nil {
		out["maximum"] = *c.Max
	}
	if c.MinItems > 0 {
		out["minItems"] = c.MinItems
	}
	if c.MaxItems > 0 {
		out["maxItems"] = c.MaxItems
	}
	if c.Items != nil {
		out["items"] = constraintSchema(c.Items)
	}
	if len(c.Fields) > 0 {
		props := make(map[string]any, len(c.Fields))
		var req []string
		for key, fc := range c.Fields {
			props[key] = constraintSchema(fc)
			if fc.Required {
				req = append(req, key)
			}
		}
		slices.Sort(req)
		out["properties"] = props
		if len(req) > 0 {
			out["required"] = req
		}
	}
	return out
}
