package definition

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefinitionFile pairs a parsed game definition with its on-disk source and
// any non-fatal warnings raised during validation.
type DefinitionFile struct {
	Definition GameDefinition
	Warnings   []Warning
	Path       string
}

// Load reads one definition source file and returns every game definition it
// declares. Files ending in .go are interpreted (see LoadGoDefinitionFile);
// anything else is treated as YAML and yields exactly one definition.
func Load(path string) ([]DefinitionFile, error) {
	if filepath.Ext(strings.ToLower(path)) == ".go" {
		return LoadGoDefinitionFile(path)
	}
	file, err := LoadDefinitionFile(path)
	if err != nil {
		return nil, err
	}
	return []DefinitionFile{file}, nil
}

// ParseDefinitionYAML decodes and validates a single game definition payload.
func ParseDefinitionYAML(data []byte) (GameDefinition, []Warning, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return GameDefinition{}, nil, fmt.Errorf("definition: payload is empty")
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return GameDefinition{}, nil, fmt.Errorf("definition: decode: %w", err)
	}
	var raw map[string]any
	if err := doc.Decode(&raw); err != nil {
		return GameDefinition{}, nil, &SchemaError{Rule: "document must be a mapping"}
	}
	warnings, err := Validate(raw)
	if err != nil {
		return GameDefinition{}, nil, err
	}
	return FromRaw(raw, categoryOrder(&doc)), warnings, nil
}

// LoadDefinitionFile reads a YAML file from disk and returns the parsed game
// definition.
func LoadDefinitionFile(path string) (DefinitionFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return DefinitionFile{}, fmt.Errorf("definition: stat %s: %w", path, err)
	}
	if info.IsDir() {
		return DefinitionFile{}, fmt.Errorf("definition: %s is a directory", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return DefinitionFile{}, fmt.Errorf("definition: read %s: %w", path, err)
	}
	def, warnings, err := ParseDefinitionYAML(data)
	if err != nil {
		return DefinitionFile{}, fmt.Errorf("definition: %s: %w", path, err)
	}
	return DefinitionFile{Definition: def, Warnings: warnings, Path: filepath.Clean(path)}, nil
}

// categoryOrder extracts the document order of filler_item_categories keys.
// Decoding into a Go map loses mapping order; the derivation engine needs it
// so category iteration matches the source document.
func categoryOrder(doc *yaml.Node) []string {
	root := doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != "filler_item_categories" {
			continue
		}
		categories := root.Content[i+1]
		if categories.Kind != yaml.MappingNode {
			return nil
		}
		var order []string
		for j := 0; j+1 < len(categories.Content); j += 2 {
			order = append(order, categories.Content[j].Value)
		}
		return order
	}
	return nil
}
