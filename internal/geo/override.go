package geo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// override is the shape of the optional knowledge-base override file. Entries
// replace the embedded row with the same name, or add a new commune.
type override struct {
	Communes []Commune `json:"communes"`
}

// buildOverrideSchema returns the JSON-Schema for override files as a generic
// map, validated before any entry is applied.
func buildOverrideSchema() map[string]any {
	communeProps := map[string]any{
		"commune":     map[string]any{"type": "string", "minLength": 1},
		"code_insee":  map[string]any{"type": "string", "pattern": `^\d{5}$`},
		"code_postal": map[string]any{"type": "string", "pattern": `^(\d{5})?$`},
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"communes": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"properties":           communeProps,
					"required":             []string{"commune", "code_insee"},
				},
			},
		},
		"required": []string{"communes"},
	}
}

// ApplyOverrideFile merges a validated override file into the knowledge base.
func (k *Knowledge) ApplyOverrideFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read override: %w", err)
	}
	if err := validateOverride(data); err != nil {
		return fmt.Errorf("override %s: %w", path, err)
	}
	var ov override
	if err := json.Unmarshal(data, &ov); err != nil {
		return fmt.Errorf("decode override: %w", err)
	}
	for _, c := range ov.Communes {
		k.add(c)
	}
	return nil
}

func validateOverride(data []byte) error {
	b, err := json.Marshal(buildOverrideSchema())
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("override.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("override.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal override: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("override does not match schema: %w", err)
	}
	return nil
}
