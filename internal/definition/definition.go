package definition

import "strings"

// Challenge is a single completable objective inside a chapter. The three
// flags are mutually independent; downstream tagging picks at most one.
type Challenge struct {
	Name     string
	Goal     bool
	Excluded bool
	Priority bool
}

// Chapter groups an ordered run of challenges. Chapter order is significant:
// it drives progression gating and the numeric location identifiers.
type Chapter struct {
	Name       string
	Challenges []Challenge
}

// GoalChallenges returns the chapter's challenges flagged as goals.
func (c Chapter) GoalChallenges() []Challenge {
	var goals []Challenge
	for _, ch := range c.Challenges {
		if ch.Goal {
			goals = append(goals, ch)
		}
	}
	return goals
}

// FillerItem is a non-progression item used to pad the item pool.
type FillerItem struct {
	Name   string
	Weight float64
}

// FillerItemCategory is a weighted group of filler items. When
// IncludeConfirmationLocations is set, every item in the category also gets
// a synthetic "Received <item>" location.
type FillerItemCategory struct {
	Name                         string
	Weight                       float64
	IncludeConfirmationLocations bool
	Items                        []FillerItem
}

// GameDefinition is the validated, immutable document model for one game.
// It is built from a raw decoded document via FromRaw only after Validate
// has accepted that document, and is consumed read-only thereafter.
type GameDefinition struct {
	Name             string
	Description      string
	ProgressionItems []string
	Chapters         []Chapter
	FillerCategories []FillerItemCategory
}

// TotalChallenges counts challenges across all chapters.
func (def GameDefinition) TotalChallenges() int {
	total := 0
	for _, chapter := range def.Chapters {
		total += len(chapter.Challenges)
	}
	return total
}

// GoalChallenges returns every challenge flagged as a goal, in document order.
func (def GameDefinition) GoalChallenges() []Challenge {
	var goals []Challenge
	for _, chapter := range def.Chapters {
		goals = append(goals, chapter.GoalChallenges()...)
	}
	return goals
}

// AllFillerItems returns every filler item across categories, in category
// order then item order.
func (def GameDefinition) AllFillerItems() []FillerItem {
	var items []FillerItem
	for _, category := range def.FillerCategories {
		items = append(items, category.Items...)
	}
	return items
}

// FromRaw converts a validated raw document into the typed model.
// categoryOrder fixes the iteration order of filler_item_categories, which
// the decoded Go map does not preserve; names absent from the document are
// skipped. FromRaw must only be called after Validate has accepted raw.
func FromRaw(raw map[string]any, categoryOrder []string) GameDefinition {
	def := GameDefinition{
		Name: strings.TrimSpace(stringAt(raw, "name")),
	}
	if desc, ok := raw["description"].(string); ok {
		def.Description = strings.TrimSpace(desc)
	}
	for _, item := range listAt(raw, "progression_items") {
		if name, ok := item.(string); ok {
			def.ProgressionItems = append(def.ProgressionItems, strings.TrimSpace(name))
		}
	}
	for _, entry := range listAt(raw, "chapters") {
		chapterRaw, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		def.Chapters = append(def.Chapters, chapterFromRaw(chapterRaw))
	}
	categories, ok := raw["filler_item_categories"].(map[string]any)
	if !ok {
		return def
	}
	for _, name := range categoryOrder {
		categoryRaw, ok := categories[name].(map[string]any)
		if !ok {
			continue
		}
		def.FillerCategories = append(def.FillerCategories, categoryFromRaw(name, categoryRaw))
	}
	return def
}

func chapterFromRaw(raw map[string]any) Chapter {
	chapter := Chapter{Name: strings.TrimSpace(stringAt(raw, "name"))}
	for _, entry := range listAt(raw, "challenges") {
		challengeRaw, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		chapter.Challenges = append(chapter.Challenges, Challenge{
			Name:     strings.TrimSpace(stringAt(challengeRaw, "name")),
			Goal:     boolAt(challengeRaw, "goal"),
			Excluded: boolAt(challengeRaw, "excluded"),
			Priority: boolAt(challengeRaw, "priority"),
		})
	}
	return chapter
}

func categoryFromRaw(name string, raw map[string]any) FillerItemCategory {
	category := FillerItemCategory{
		Name:                         name,
		Weight:                       1.0,
		IncludeConfirmationLocations: boolAt(raw, "include_confirmation_locations"),
	}
	if weight, ok := numberAt(raw, "weight"); ok {
		category.Weight = weight
	}
	for _, entry := range listAt(raw, "items") {
		switch item := entry.(type) {
		case string:
			category.Items = append(category.Items, FillerItem{Name: strings.TrimSpace(item), Weight: 1.0})
		case map[string]any:
			filler := FillerItem{Name: strings.TrimSpace(stringAt(item, "name")), Weight: 1.0}
			if weight, ok := numberAt(item, "weight"); ok {
				filler.Weight = weight
			}
			category.Items = append(category.Items, filler)
		}
	}
	return category
}

func stringAt(raw map[string]any, key string) string {
	s, _ := raw[key].(string)
	return s
}

func listAt(raw map[string]any, key string) []any {
	list, _ := raw[key].([]any)
	return list
}

func boolAt(raw map[string]any, key string) bool {
	b, _ := raw[key].(bool)
	return b
}

// numberAt reads an int or float value; YAML decodes whole numbers as int.
func numberAt(raw map[string]any, key string) (float64, bool) {
	switch v := raw[key].(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}
