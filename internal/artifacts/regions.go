package artifacts

import (
	"fmt"

	"github.com/kingrea/manualforge/internal/definition"
)

// Region is one node of the regions.json accessibility graph.
type Region struct {
	Name      string   `json:"name"`
	Locations []string `json:"locations"`
	Exits     []string `json:"exits"`
	Requires  []string `json:"requires,omitempty"`
}

type regionsFile struct {
	Regions []Region `json:"regions"`
}

// regionsDocument builds the Menu root, one region per chapter chained in
// order, and the confirmation region when any confirmation locations exist.
func regionsDocument(def definition.GameDefinition) regionsFile {
	menu := Region{
		Name:      "Menu",
		Locations: []string{},
		Exits:     []string{Sanitize(def.Chapters[0].Name)},
	}

	var chapterRegions []Region
	for c, chapter := range def.Chapters {
		locations := make([]string, 0, len(chapter.Challenges))
		for _, challenge := range chapter.Challenges {
			locations = append(locations, fmt.Sprintf("%s: %s", chapter.Name, challenge.Name))
		}
		exits := []string{}
		if c < len(def.Chapters)-1 {
			exits = append(exits, Sanitize(def.Chapters[c+1].Name))
		}
		region := Region{
			Name:      Sanitize(chapter.Name),
			Locations: locations,
			Exits:     exits,
		}
		// Chapters past the first gate on progression items: one copy of
		// every progression item per chapter already cleared.
		if c > 0 {
			for _, item := range def.ProgressionItems {
				for n := 0; n < c; n++ {
					region.Requires = append(region.Requires, item)
				}
			}
		}
		chapterRegions = append(chapterRegions, region)
	}

	confirmations := confirmationLocationNames(def)
	if len(confirmations) > 0 {
		menu.Exits = append(menu.Exits, confirmationRegion)
	}

	regions := append([]Region{menu}, chapterRegions...)
	if len(confirmations) > 0 {
		regions = append(regions, Region{
			Name:      confirmationRegion,
			Locations: confirmations,
			Exits:     []string{},
		})
	}
	return regionsFile{Regions: regions}
}

func confirmationLocationNames(def definition.GameDefinition) []string {
	var names []string
	for _, category := range def.FillerCategories {
		if !category.IncludeConfirmationLocations {
			continue
		}
		for _, item := range category.Items {
			names = append(names, "Received "+item.Name)
		}
	}
	return names
}
