package definition

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const goDefinitionSource = `package main

func GameDefinitions() ([]map[string]any, error) {
	return []map[string]any{
		{
			"name":              "Go Quest",
			"progression_items": []any{"Key"},
			"chapters": []any{
				map[string]any{
					"name": "Opening",
					"challenges": []any{
						map[string]any{"name": "Win", "goal": true},
					},
				},
			},
		},
	}, nil
}`

func TestLoadGoDefinitionFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.go")
	if err := os.WriteFile(path, []byte(goDefinitionSource), 0644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	files, err := LoadGoDefinitionFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("expected 1 definition, got %d", len(files))
	}
	if files[0].Definition.Name != "Go Quest" {
		t.Fatalf("unexpected definition: %+v", files[0].Definition)
	}
	if !strings.HasPrefix(files[0].Path, path) {
		t.Fatalf("expected path derived from %s, got %s", path, files[0].Path)
	}
}

func TestLoadGoDefinitionFileMissingFunc(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.go")
	if err := os.WriteFile(path, []byte("package main\n"), 0644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	if _, err := LoadGoDefinitionFile(path); err == nil {
		t.Fatalf("expected error for missing GameDefinitions function")
	}
}

func TestLoadGoDefinitionFileInvalidDefinition(t *testing.T) {
	source := `package main

func GameDefinitions() ([]map[string]any, error) {
	return []map[string]any{{"name": "No Chapters"}}, nil
}`
	path := filepath.Join(t.TempDir(), "invalid.go")
	if err := os.WriteFile(path, []byte(source), 0644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	if _, err := LoadGoDefinitionFile(path); err == nil {
		t.Fatalf("expected schema error for incomplete definition")
	}
}

func TestLoadRoutesGoFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.go")
	if err := os.WriteFile(path, []byte(goDefinitionSource), 0644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	files, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(files) != 1 || files[0].Definition.Name != "Go Quest" {
		t.Fatalf("unexpected result: %+v", files)
	}
}
