package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xeipuuv/gojsonschema"

	"github.com/graphsmith/graphsmith/pkg/models"
)

// Manifest is the startup description of the symbol space: the types,
// callables and variables the catalog exposes to resolution and coercion.
type Manifest struct {
	Types     []*models.TypeDescriptor     `json:"types"`
	Callables []*models.CallableDescriptor `json:"callables"`
	Variables []*models.VariableDescriptor `json:"variables"`
}

// manifestSchema validates the overall document shape before the stricter
// per-entry struct validation runs.
const manifestSchema = `{
	"type": "object",
	"properties": {
		"types": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"name":   {"type": "string", "minLength": 1},
					"path":   {"type": "string"},
					"parent": {"type": "string"}
				},
				"required": ["name"]
			}
		},
		"callables": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"name":       {"type": "string", "minLength": 1},
					"owner":      {"type": "string", "minLength": 1},
					"parameters": {"type": "array"},
					"returns":    {"type": "array"}
				},
				"required": ["name", "owner"]
			}
		},
		"variables": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"name":  {"type": "string", "minLength": 1},
					"owner": {"type": "string", "minLength": 1},
					"type":  {"type": "object"}
				},
				"required": ["name", "owner"]
			}
		}
	}
}`

var validate = validator.New(validator.WithRequiredStructEnabled())

// ParseManifest validates and decodes a manifest document.
func ParseManifest(data []byte) (*Manifest, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(manifestSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to validate manifest: %w", err)
	}

	if !result.Valid() {
		issues := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			issues = append(issues, desc.String())
		}

		return nil, fmt.Errorf("invalid manifest: %s", strings.Join(issues, "; "))
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}

	for _, t := range manifest.Types {
		if err := validate.Struct(t); err != nil {
			return nil, fmt.Errorf("invalid type entry %q: %w", t.Name, err)
		}
	}

	for _, fn := range manifest.Callables {
		if err := validate.Struct(fn); err != nil {
			return nil, fmt.Errorf("invalid callable entry %q: %w", fn.Name, err)
		}
	}

	for _, v := range manifest.Variables {
		if err := validate.Struct(v); err != nil {
			return nil, fmt.Errorf("invalid variable entry %q: %w", v.Name, err)
		}
	}

	return &manifest, nil
}

// LoadManifest reads a manifest file and registers its contents.
func (c *Catalog) LoadManifest(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	manifest, err := ParseManifest(data)
	if err != nil {
		return err
	}

	c.Apply(manifest)
	c.logger.Info("Loaded symbol manifest",
		"path", path,
		"types", len(manifest.Types),
		"callables", len(manifest.Callables),
		"variables", len(manifest.Variables))

	return nil
}

// Apply registers every entry of the manifest.
func (c *Catalog) Apply(manifest *Manifest) {
	for _, t := range manifest.Types {
		c.RegisterType(t)
	}

	for _, fn := range manifest.Callables {
		c.RegisterCallable(fn)
	}

	for _, v := range manifest.Variables {
		c.RegisterVariable(v)
	}
}
