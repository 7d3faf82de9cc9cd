package definition

import (
	"reflect"
	"testing"
)

func TestFromRawBuildsTypedModel(t *testing.T) {
	raw := validDoc()
	raw["description"] = " A tiny example "
	def := FromRaw(raw, nil)

	if def.Name != "Example Quest" {
		t.Fatalf("unexpected name: %q", def.Name)
	}
	if def.Description != "A tiny example" {
		t.Fatalf("expected trimmed description, got %q", def.Description)
	}
	if !reflect.DeepEqual(def.ProgressionItems, []string{"Key", "Gem"}) {
		t.Fatalf("unexpected progression items: %v", def.ProgressionItems)
	}
	if len(def.Chapters) != 2 {
		t.Fatalf("expected 2 chapters, got %d", len(def.Chapters))
	}
	boss := def.Chapters[0].Challenges[1]
	if boss.Name != "Boss" || !boss.Goal || boss.Excluded || boss.Priority {
		t.Fatalf("unexpected challenge: %+v", boss)
	}
}

func TestFromRawAggregates(t *testing.T) {
	def := FromRaw(validDoc(), nil)
	if def.TotalChallenges() != 3 {
		t.Fatalf("expected 3 challenges, got %d", def.TotalChallenges())
	}
	goals := def.GoalChallenges()
	if len(goals) != 1 || goals[0].Name != "Boss" {
		t.Fatalf("unexpected goals: %v", goals)
	}
}

func TestFromRawFillerCategoriesFollowOrder(t *testing.T) {
	raw := validDoc()
	raw["filler_item_categories"] = map[string]any{
		"trinkets": map[string]any{"items": []any{"Coin"}},
		"potions": map[string]any{
			"weight":                         2,
			"include_confirmation_locations": true,
			"items": []any{
				"Small Potion",
				map[string]any{"name": "Large Potion", "weight": 0.5},
			},
		},
	}
	def := FromRaw(raw, []string{"potions", "trinkets"})

	if len(def.FillerCategories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(def.FillerCategories))
	}
	potions := def.FillerCategories[0]
	if potions.Name != "potions" || potions.Weight != 2 || !potions.IncludeConfirmationLocations {
		t.Fatalf("unexpected category: %+v", potions)
	}
	if len(potions.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(potions.Items))
	}
	if potions.Items[0].Weight != 1.0 {
		t.Fatalf("bare string items default to weight 1.0, got %v", potions.Items[0].Weight)
	}
	if potions.Items[1].Name != "Large Potion" || potions.Items[1].Weight != 0.5 {
		t.Fatalf("unexpected item: %+v", potions.Items[1])
	}
	trinkets := def.FillerCategories[1]
	if trinkets.Weight != 1.0 || trinkets.IncludeConfirmationLocations {
		t.Fatalf("expected category defaults, got %+v", trinkets)
	}
	all := def.AllFillerItems()
	if len(all) != 3 || all[2].Name != "Coin" {
		t.Fatalf("unexpected filler items: %v", all)
	}
}

func TestFromRawSkipsUnknownCategoryNames(t *testing.T) {
	raw := validDoc()
	raw["filler_item_categories"] = map[string]any{
		"potions": map[string]any{"items": []any{"Potion"}},
	}
	def := FromRaw(raw, []string{"ghosts", "potions"})
	if len(def.FillerCategories) != 1 || def.FillerCategories[0].Name != "potions" {
		t.Fatalf("unexpected categories: %v", def.FillerCategories)
	}
}
