package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Load reads a catalog from a YAML or JSON file. The format is chosen by
// extension; anything other than .json is read as YAML.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	if strings.ToLower(filepath.Ext(path)) == ".json" {
		var raw map[string]any
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
		return Decode(raw)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return c, nil
}

// Parse decodes and validates a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse catalog yaml: %w", err)
	}
	return Decode(raw)
}

// Decode builds and validates a catalog from a generic map, as produced by a
// YAML or JSON decoder or by frontmatter.
func Decode(raw map[string]any) (*Catalog, error) {
	var c Catalog
	if err := DecodeInto(raw, &c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// DecodeInto decodes a generic map into out using the mapstructure tags.
// Unknown keys are rejected.
func DecodeInto(raw map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	return nil
}

// Marshal renders the catalog as YAML.
func (c *Catalog) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// FileLoader loads a catalog from a single YAML or JSON file.
type FileLoader struct {
	Path string
}

// Load implements the catalog loader port; ctx is unused.
func (l FileLoader) Load(_ context.Context) (*Catalog, error) {
	return Load(l.Path)
}
