package descriptor

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// schemaCache caches compiled JSON schemas by kind.
var schemaCache sync.Map // map[Kind]*jsonschema.Schema

func numberMatrix() map[string]any {
	return map[string]any{
		"type":     "array",
		"minItems": 1,
		"items": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "number"},
		},
	}
}

func numberArray() map[string]any {
	return map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "number"},
	}
}

func intArray() map[string]any {
	return map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "integer"},
	}
}

func triplet() map[string]any {
	return map[string]any{
		"type":     "array",
		"minItems": 3,
		"maxItems": 3,
		"items":    map[string]any{"type": "string"},
	}
}

func envelope(requireClasses bool, params, modelData map[string]any) map[string]any {
	required := []any{"features", "model_data"}
	if requireClasses {
		required = append(required, "classes")
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"kind":   map[string]any{"type": "string"},
			"params": params,
			"features": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"angles":    map[string]any{"type": "array", "items": triplet()},
					"points":    map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"degrees":   map[string]any{"type": "boolean"},
					"normalize": map[string]any{"type": "boolean"},
				},
			},
			"classes": map[string]any{
				"type":     "array",
				"minItems": 2,
				"items":    map[string]any{"type": "string"},
			},
			"model_data": modelData,
		},
		"required": required,
	}
}

// schemaDefinitions returns the JSON Schema for each descriptor kind.
func schemaDefinitions() map[Kind]map[string]any {
	anyObject := map[string]any{"type": "object"}
	return map[Kind]map[string]any{
		KindKNN: envelope(true,
			map[string]any{
				"type": "object",
				"properties": map[string]any{
					"metric":      map[string]any{"type": "string", "enum": []any{"minkowski"}},
					"n_neighbors": map[string]any{"type": "integer", "minimum": 1},
					"p":           map[string]any{"type": "number", "exclusiveMinimum": 0},
					"weights":     map[string]any{"type": "string"},
				},
				"required": []any{"n_neighbors"},
			},
			map[string]any{
				"type": "object",
				"properties": map[string]any{
					"X": numberMatrix(),
					"y": intArray(),
				},
				"required": []any{"X", "y"},
			},
		),
		KindRandomForest: envelope(true, anyObject,
			map[string]any{
				"type": "object",
				"properties": map[string]any{
					"forest": map[string]any{
						"type":     "array",
						"minItems": 1,
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"children_left":  intArray(),
								"children_right": intArray(),
								"feature":        intArray(),
								"threshold":      numberArray(),
								"value":          numberMatrix(),
							},
							"required": []any{"children_left", "children_right", "feature", "threshold", "value"},
						},
					},
					"n_features": map[string]any{"type": "integer", "minimum": 1},
				},
				"required": []any{"forest"},
			},
		),
		KindLogisticRegression: envelope(true, anyObject,
			map[string]any{
				"type": "object",
				"properties": map[string]any{
					"coef":      numberMatrix(),
					"intercept": numberArray(),
				},
				"required": []any{"coef", "intercept"},
			},
		),
		KindSVM: envelope(true,
			map[string]any{
				"type": "object",
				"properties": map[string]any{
					"decision_function_shape": map[string]any{"type": "string"},
				},
			},
			map[string]any{
				"type": "object",
				"properties": map[string]any{
					"kernel":          map[string]any{"type": "string"},
					"support_vectors": numberMatrix(),
					"dual_coef":       numberMatrix(),
					"intercept":       numberArray(),
					"gamma":           map[string]any{"type": "number"},
					"coef0":           map[string]any{"type": "number"},
					"degree":          map[string]any{"type": "number"},
					"n_support":       intArray(),
				},
				"required": []any{"kernel", "support_vectors", "dual_coef", "intercept", "n_support"},
			},
		),
		KindEmpirical: envelope(false, anyObject,
			map[string]any{
				"type": "object",
				"properties": map[string]any{
					"checks": map[string]any{
						"type":     "array",
						"minItems": 1,
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"name":    map[string]any{"type": "string", "minLength": 1},
								"left":    triplet(),
								"right":   triplet(),
								"min":     map[string]any{"type": "number"},
								"max":     map[string]any{"type": "number"},
								"message": map[string]any{"type": "string"},
							},
							"required": []any{"name", "left", "right", "min", "max"},
						},
					},
				},
				"required": []any{"checks"},
			},
		),
	}
}

// validate checks raw JSON against the schema for kind.
func validate(kind Kind, raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return &Error{Kind: kind, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	compiled, err := compiledSchema(kind)
	if err != nil {
		return &Error{Kind: kind, Err: err}
	}

	if err := compiled.Validate(parsed); err != nil {
		return &Error{Kind: kind, Err: fmt.Errorf("schema validation failed: %w", err)}
	}
	return nil
}

// compiledSchema returns a cached compiled schema or compiles and caches it.
func compiledSchema(kind Kind) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(kind); ok {
		return cached.(*jsonschema.Schema), nil
	}

	def, ok := schemaDefinitions()[kind]
	if !ok {
		return nil, fmt.Errorf("unsupported descriptor kind %q", kind)
	}

	// The compiler expects a parsed JSON value, so round-trip the Go map.
	defBytes, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	schemaURL := fmt.Sprintf("schema://descriptor/%s.json", kind)
	if err := c.AddResource(schemaURL, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(kind, compiled)
	return compiled, nil
}
