// Package schema validates input helper configurations locally before they
// are previewed, so obviously malformed configs are caught without a round
// trip to Home Assistant.
package schema

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/roandegraaf/ha-mcp/internal/haclient"
)

var helperSchemas = map[string]string{
	"input_boolean": `{
		"type": "object",
		"properties": {
			"name": {"type": "string", "minLength": 1},
			"icon": {"type": "string"},
			"initial": {"type": "boolean"}
		},
		"required": ["name"],
		"additionalProperties": false
	}`,
	"input_number": `{
		"type": "object",
		"properties": {
			"name": {"type": "string", "minLength": 1},
			"min": {"type": "number"},
			"max": {"type": "number"},
			"step": {"type": "number", "exclusiveMinimum": 0},
			"initial": {"type": "number"},
			"mode": {"enum": ["box", "slider"]},
			"unit_of_measurement": {"type": "string"},
			"icon": {"type": "string"}
		},
		"required": ["name", "min", "max"],
		"additionalProperties": false
	}`,
	"input_text": `{
		"type": "object",
		"properties": {
			"name": {"type": "string", "minLength": 1},
			"min": {"type": "integer", "minimum": 0},
			"max": {"type": "integer", "minimum": 1},
			"initial": {"type": "string"},
			"pattern": {"type": "string"},
			"mode": {"enum": ["text", "password"]},
			"icon": {"type": "string"}
		},
		"required": ["name"],
		"additionalProperties": false
	}`,
	"input_select": `{
		"type": "object",
		"properties": {
			"name": {"type": "string", "minLength": 1},
			"options": {"type": "array", "items": {"type": "string"}, "minItems": 1},
			"initial": {"type": "string"},
			"icon": {"type": "string"}
		},
		"required": ["name", "options"],
		"additionalProperties": false
	}`,
	"input_datetime": `{
		"type": "object",
		"properties": {
			"name": {"type": "string", "minLength": 1},
			"has_date": {"type": "boolean"},
			"has_time": {"type": "boolean"},
			"initial": {"type": "string"},
			"icon": {"type": "string"}
		},
		"required": ["name"],
		"additionalProperties": false
	}`,
	"input_button": `{
		"type": "object",
		"properties": {
			"name": {"type": "string", "minLength": 1},
			"icon": {"type": "string"}
		},
		"required": ["name"],
		"additionalProperties": false
	}`,
}

var (
	compileOnce sync.Once
	compiled    map[string]*jsonschema.Schema
	compileErr  error
)

func compile() {
	compiled = make(map[string]*jsonschema.Schema, len(helperSchemas))
	for name, src := range helperSchemas {
		c := jsonschema.NewCompiler()
		url := name + ".schema.json"
		if err := c.AddResource(url, strings.NewReader(src)); err != nil {
			compileErr = fmt.Errorf("add schema %s: %w", name, err)
			return
		}
		s, err := c.Compile(url)
		if err != nil {
			compileErr = fmt.Errorf("compile schema %s: %w", name, err)
			return
		}
		compiled[name] = s
	}
}

// ValidateHelper checks cfg against the schema for helperType. Unknown
// helper types and schema violations come back as validation errors, never
// as a Go error; the caller decides whether to block.
func ValidateHelper(helperType string, cfg map[string]any) (*haclient.ValidationResult, error) {
	compileOnce.Do(compile)
	if compileErr != nil {
		return nil, compileErr
	}
	s, ok := compiled[helperType]
	if !ok {
		return &haclient.ValidationResult{
			Valid:  false,
			Errors: []string{fmt.Sprintf("unknown helper type %q", helperType)},
		}, nil
	}

	// Round-trip through JSON so numbers and nested values take the shapes
	// the validator expects.
	raw, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode helper config: %w", err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode helper config: %w", err)
	}

	if err := s.Validate(v); err != nil {
		res := &haclient.ValidationResult{Valid: false}
		if ve, ok := err.(*jsonschema.ValidationError); ok {
			res.Errors = flatten(ve)
		} else {
			res.Errors = []string{err.Error()}
		}
		return res, nil
	}
	return &haclient.ValidationResult{Valid: true}, nil
}

// flatten walks the cause tree and keeps the leaf messages, which carry the
// actual violations.
func flatten(ve *jsonschema.ValidationError) []string {
	if len(ve.Causes) == 0 {
		loc := ve.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		return []string{fmt.Sprintf("%s: %s", loc, ve.Message)}
	}
	var out []string
	for _, c := range ve.Causes {
		out = append(out, flatten(c)...)
	}
	return out
}
