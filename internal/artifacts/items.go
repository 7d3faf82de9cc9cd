package artifacts

import "github.com/kingrea/manualforge/internal/definition"

// Item is one entry of the items.json description.
type Item struct {
	Name     string   `json:"name"`
	ID       int      `json:"id"`
	Category []string `json:"category"`
	Count    int      `json:"count"`
	Weight   float64  `json:"weight,omitempty"`
}

type itemsFile struct {
	Items []Item `json:"items"`
}

// itemsDocument emits one entry per progression item, one per filler item,
// and a synthetic default filler when no categories are defined. Item IDs
// are assigned sequentially in exactly that order.
func itemsDocument(def definition.GameDefinition) itemsFile {
	var items []Item
	next := 0

	// One copy of each progression item per chapter: one to unlock each
	// chapter plus a spare for victory.
	for _, name := range def.ProgressionItems {
		items = append(items, Item{
			Name:     name,
			ID:       itemID(next),
			Category: []string{"progression"},
			Count:    len(def.Chapters),
		})
		next++
	}

	total := def.TotalChallenges()
	for _, category := range def.FillerCategories {
		for _, filler := range category.Items {
			count := int(float64(total) * category.Weight / 10)
			if count < 1 {
				count = 1
			}
			items = append(items, Item{
				Name:     filler.Name,
				ID:       itemID(next),
				Category: []string{category.Name},
				Count:    count,
				Weight:   filler.Weight,
			})
			next++
		}
	}

	if len(def.FillerCategories) == 0 {
		count := total - len(def.ProgressionItems)
		if count < 1 {
			count = 1
		}
		items = append(items, Item{
			Name:     "Filler",
			ID:       itemID(next),
			Category: []string{"filler"},
			Count:    count,
		})
	}

	return itemsFile{Items: items}
}
