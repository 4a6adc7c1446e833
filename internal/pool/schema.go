package pool

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const schemaURL = "schema://drivequiz-pool.json"

// poolSchema accepts either a bare question array or a versioned envelope.
var poolSchema = map[string]any{
	"$defs": map[string]any{
		"nullableString": map[string]any{
			"type": []any{"string", "null"},
		},
		"option": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"text":    map[string]any{"type": "string"},
				"image":   map[string]any{"type": "string"},
				"correct": map[string]any{"type": []any{"boolean", "integer"}},
			},
			"required": []any{"correct"},
			"anyOf": []any{
				map[string]any{"required": []any{"text"}},
				map[string]any{"required": []any{"image"}},
			},
		},
		"question": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"q":                     map[string]any{"type": "string", "minLength": 1},
				"correct_answers_count": map[string]any{"type": "integer", "minimum": 0},
				"img":                   map[string]any{"$ref": "#/$defs/nullableString"},
				"video":                 map[string]any{"$ref": "#/$defs/nullableString"},
				"answers": map[string]any{
					"type":                 "object",
					"minProperties":        1,
					"additionalProperties": map[string]any{"type": []any{"boolean", "integer"}},
				},
				"options": map[string]any{
					"type":     "array",
					"minItems": 1,
					"items":    map[string]any{"$ref": "#/$defs/option"},
				},
			},
			"required": []any{"q"},
			"anyOf": []any{
				map[string]any{"required": []any{"answers"}},
				map[string]any{"required": []any{"options"}},
			},
		},
		"questions": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items":    map[string]any{"$ref": "#/$defs/question"},
		},
	},
	"oneOf": []any{
		map[string]any{"$ref": "#/$defs/questions"},
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"version":   map[string]any{"type": "string"},
				"questions": map[string]any{"$ref": "#/$defs/questions"},
			},
			"required": []any{"questions"},
		},
	},
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// compiledSchema compiles the pool schema once.
func compiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The compiler wants a parsed JSON value, so round-trip the Go literal.
		defBytes, err := json.Marshal(poolSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema definition: %w", err)
			return
		}
		var defParsed any
		if err := json.Unmarshal(defBytes, &defParsed); err != nil {
			compileErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, defParsed); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

// validateDocument checks a generic JSON document against the pool schema.
func validateDocument(doc any) error {
	sch, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile pool schema: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPool, err)
	}
	return nil
}
