package definition

import (
	"fmt"
	"sort"
	"strings"
)

// SchemaError reports the first structural rule a raw document breaks.
// Path locates the offending node ("chapter 2, challenge 3"); Rule states
// the broken rule in user-facing terms. Validation is fail-fast: one
// SchemaError per run, in a fixed rule order, so error output is
// reproducible for identical documents.
type SchemaError struct {
	Path string
	Rule string
}

func (e *SchemaError) Error() string {
	if e.Path == "" {
		return "definition: " + e.Rule
	}
	return fmt.Sprintf("definition: %s: %s", e.Path, e.Rule)
}

// Warning is a non-fatal diagnostic; the run continues.
type Warning string

var requiredKeys = []string{"name", "progression_items", "chapters"}

var challengeFlags = map[string]bool{
	"goal":     true,
	"excluded": true,
	"priority": true,
}

// Validate checks a raw decoded document against the definition schema.
// It never mutates the document. Rules are applied in a fixed order:
// required top-level keys (all missing keys reported together), name,
// progression_items, the chapter walk, the goal warning, then
// filler_item_categories. The first violation aborts with a *SchemaError.
func Validate(raw map[string]any) ([]Warning, error) {
	if raw == nil {
		return nil, &SchemaError{Rule: "document must be a mapping"}
	}

	var missing []string
	for _, key := range requiredKeys {
		if _, ok := raw[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Rule: "missing required keys: " + strings.Join(missing, ", ")}
	}

	if err := validateName(raw); err != nil {
		return nil, err
	}
	if err := validateProgressionItems(raw); err != nil {
		return nil, err
	}
	goals, err := validateChapters(raw)
	if err != nil {
		return nil, err
	}

	var warnings []Warning
	if goals == 0 {
		warnings = append(warnings, "no challenge is marked as goal; at least one is needed to complete the game")
	}

	if err := validateFillerCategories(raw); err != nil {
		return nil, err
	}
	return warnings, nil
}

func validateName(raw map[string]any) error {
	name, ok := raw["name"].(string)
	if !ok || strings.TrimSpace(name) == "" {
		return &SchemaError{Path: "name", Rule: "must be a non-empty string"}
	}
	return nil
}

func validateProgressionItems(raw map[string]any) error {
	items, ok := raw["progression_items"].([]any)
	if !ok {
		return &SchemaError{Path: "progression_items", Rule: "must be a list"}
	}
	if len(items) == 0 {
		return &SchemaError{Path: "progression_items", Rule: "cannot be empty"}
	}
	for i, item := range items {
		name, ok := item.(string)
		if !ok || strings.TrimSpace(name) == "" {
			return &SchemaError{
				Path: fmt.Sprintf("progression_items[%d]", i),
				Rule: "must be a non-empty string",
			}
		}
	}
	return nil
}

// validateChapters walks every chapter and challenge in order and returns
// the number of goal-flagged challenges found.
func validateChapters(raw map[string]any) (int, error) {
	chapters, ok := raw["chapters"].([]any)
	if !ok {
		return 0, &SchemaError{Path: "chapters", Rule: "must be a list"}
	}
	if len(chapters) == 0 {
		return 0, &SchemaError{Path: "chapters", Rule: "cannot be empty"}
	}

	goals := 0
	for i, entry := range chapters {
		path := fmt.Sprintf("chapter %d", i+1)
		chapter, ok := entry.(map[string]any)
		if !ok {
			return 0, &SchemaError{Path: path, Rule: "must be a mapping"}
		}
		if _, ok := chapter["name"]; !ok {
			return 0, &SchemaError{Path: path, Rule: "missing required key: name"}
		}
		if name, ok := chapter["name"].(string); !ok || strings.TrimSpace(name) == "" {
			return 0, &SchemaError{Path: path, Rule: "name must be a non-empty string"}
		}
		if _, ok := chapter["challenges"]; !ok {
			return 0, &SchemaError{Path: path, Rule: "missing required key: challenges"}
		}
		challenges, ok := chapter["challenges"].([]any)
		if !ok {
			return 0, &SchemaError{Path: path, Rule: "challenges must be a list"}
		}
		if len(challenges) == 0 {
			return 0, &SchemaError{Path: path, Rule: "must have at least one challenge"}
		}
		for j, challengeEntry := range challenges {
			challengePath := fmt.Sprintf("%s, challenge %d", path, j+1)
			n, err := validateChallenge(challengePath, challengeEntry)
			if err != nil {
				return 0, err
			}
			goals += n
		}
	}
	return goals, nil
}

func validateChallenge(path string, entry any) (int, error) {
	challenge, ok := entry.(map[string]any)
	if !ok {
		return 0, &SchemaError{Path: path, Rule: "must be a mapping"}
	}
	if _, ok := challenge["name"]; !ok {
		return 0, &SchemaError{Path: path, Rule: "missing required key: name"}
	}
	if name, ok := challenge["name"].(string); !ok || strings.TrimSpace(name) == "" {
		return 0, &SchemaError{Path: path, Rule: "name must be a non-empty string"}
	}
	for _, key := range sortedKeys(challenge) {
		if key == "name" {
			continue
		}
		if !challengeFlags[key] {
			return 0, &SchemaError{
				Path: path,
				Rule: fmt.Sprintf("invalid flag %q; valid flags: goal, excluded, priority", key),
			}
		}
		if _, ok := challenge[key].(bool); !ok {
			return 0, &SchemaError{Path: path, Rule: fmt.Sprintf("flag %q must be a boolean", key)}
		}
	}
	if goal, _ := challenge["goal"].(bool); goal {
		return 1, nil
	}
	return 0, nil
}

func validateFillerCategories(raw map[string]any) error {
	value, ok := raw["filler_item_categories"]
	if !ok {
		return nil
	}
	categories, ok := value.(map[string]any)
	if !ok {
		return &SchemaError{Path: "filler_item_categories", Rule: "must be a mapping"}
	}
	for _, name := range sortedKeys(categories) {
		if err := validateFillerCategory(name, categories[name]); err != nil {
			return err
		}
	}
	return nil
}

func validateFillerCategory(name string, value any) error {
	path := fmt.Sprintf("filler category %q", name)
	category, ok := value.(map[string]any)
	if !ok {
		return &SchemaError{Path: path, Rule: "must be a mapping"}
	}
	if weight, present := category["weight"]; present {
		if !isPositiveNumber(weight) {
			return &SchemaError{Path: path, Rule: "weight must be a positive number"}
		}
	}
	if include, present := category["include_confirmation_locations"]; present {
		if _, ok := include.(bool); !ok {
			return &SchemaError{Path: path, Rule: "include_confirmation_locations must be a boolean"}
		}
	}
	itemsValue, present := category["items"]
	if !present {
		return &SchemaError{Path: path, Rule: "missing required key: items"}
	}
	items, ok := itemsValue.([]any)
	if !ok {
		return &SchemaError{Path: path, Rule: "items must be a list"}
	}
	if len(items) == 0 {
		return &SchemaError{Path: path, Rule: "must have at least one item"}
	}
	for i, entry := range items {
		itemPath := fmt.Sprintf("%s, item %d", path, i+1)
		switch item := entry.(type) {
		case string:
			if strings.TrimSpace(item) == "" {
				return &SchemaError{Path: itemPath, Rule: "cannot be blank"}
			}
		case map[string]any:
			if _, ok := item["name"]; !ok {
				return &SchemaError{Path: itemPath, Rule: "missing required key: name"}
			}
			if itemName, ok := item["name"].(string); !ok || strings.TrimSpace(itemName) == "" {
				return &SchemaError{Path: itemPath, Rule: "name must be a non-empty string"}
			}
			if weight, present := item["weight"]; present {
				if !isPositiveNumber(weight) {
					return &SchemaError{Path: itemPath, Rule: "weight must be a positive number"}
				}
			}
		default:
			return &SchemaError{Path: itemPath, Rule: "must be a string or a mapping"}
		}
	}
	return nil
}

// isPositiveNumber accepts int or float values greater than zero. Booleans
// are rejected even though YAML decodes them as a distinct type already.
func isPositiveNumber(value any) bool {
	switch v := value.(type) {
	case int:
		return v > 0
	case int64:
		return v > 0
	case float64:
		return v > 0
	default:
		return false
	}
}

// sortedKeys fixes the iteration order over decoded Go maps so repeated
// validation of the same document reports the same first violation.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
