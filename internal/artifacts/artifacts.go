// Package artifacts derives the Manual plugin description files from a
// validated game definition: the items, locations and regions JSON documents
// plus the hooks script. Derivation is pure and deterministic; the same
// definition always yields byte-identical artifacts.
package artifacts

import (
	"encoding/json"
	"fmt"

	"github.com/kingrea/manualforge/internal/definition"
)

// Kind identifies one of the fixed derived artifact flavors.
type Kind string

const (
	KindItems     Kind = "items"
	KindLocations Kind = "locations"
	KindRegions   Kind = "regions"
	KindHooks     Kind = "hooks"
)

// Artifact is one derived file destined for the plugin archive. Path is
// relative to the archive root, using forward slashes.
type Artifact struct {
	Kind Kind
	Path string
	Data []byte
}

// archivePaths maps each artifact kind to its location inside the archive.
// JSON descriptions live under data/; the hooks script sits at the root.
var archivePaths = map[Kind]string{
	KindItems:     "data/items.json",
	KindLocations: "data/locations.json",
	KindRegions:   "data/regions.json",
	KindHooks:     "hooks.py",
}

// Generate derives all four artifacts from def, in a fixed order. The
// definition must have passed validation; a structurally broken model here
// is a programming error and fails loudly.
func Generate(def definition.GameDefinition) ([]Artifact, error) {
	if err := checkContract(def); err != nil {
		return nil, err
	}
	items, err := encode(KindItems, itemsDocument(def))
	if err != nil {
		return nil, err
	}
	locations, err := encode(KindLocations, locationsDocument(def))
	if err != nil {
		return nil, err
	}
	regions, err := encode(KindRegions, regionsDocument(def))
	if err != nil {
		return nil, err
	}
	hooks, err := hooksArtifact(def)
	if err != nil {
		return nil, err
	}
	return []Artifact{items, locations, regions, hooks}, nil
}

// checkContract guards against a definition that skipped validation. It is
// not a re-validation; it only catches invariants derivation relies on.
func checkContract(def definition.GameDefinition) error {
	if def.Name == "" {
		return fmt.Errorf("artifacts: invalid definition: name is empty")
	}
	if len(def.Chapters) == 0 {
		return fmt.Errorf("artifacts: invalid definition: no chapters")
	}
	if len(def.ProgressionItems) == 0 {
		return fmt.Errorf("artifacts: invalid definition: no progression items")
	}
	for _, chapter := range def.Chapters {
		if len(chapter.Challenges) == 0 {
			return fmt.Errorf("artifacts: invalid definition: chapter %q has no challenges", chapter.Name)
		}
	}
	return nil
}

func encode(kind Kind, doc any) (Artifact, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return Artifact{}, fmt.Errorf("artifacts: encode %s: %w", kind, err)
	}
	return Artifact{Kind: kind, Path: archivePaths[kind], Data: append(data, '\n')}, nil
}
