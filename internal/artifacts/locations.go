package artifacts

import (
	"fmt"

	"github.com/kingrea/manualforge/internal/definition"
)

const confirmationRegion = "Confirmation_Locations"

// Location is one entry of the locations.json description.
type Location struct {
	Name     string   `json:"name"`
	ID       int      `json:"id"`
	Region   string   `json:"region"`
	Category []string `json:"category,omitempty"`
}

type locationsFile struct {
	Locations []Location `json:"locations"`
}

// locationsDocument emits one location per challenge followed by one
// confirmation location per item of every category that requests them.
func locationsDocument(def definition.GameDefinition) locationsFile {
	var locations []Location

	for c, chapter := range def.Chapters {
		region := Sanitize(chapter.Name)
		for i, challenge := range chapter.Challenges {
			locations = append(locations, Location{
				Name:     fmt.Sprintf("%s: %s", chapter.Name, challenge.Name),
				ID:       locationID(c, i),
				Region:   region,
				Category: challengeTag(challenge),
			})
		}
	}

	k := 0
	for _, category := range def.FillerCategories {
		if !category.IncludeConfirmationLocations {
			continue
		}
		for _, item := range category.Items {
			locations = append(locations, Location{
				Name:     "Received " + item.Name,
				ID:       confirmationLocationID(k),
				Region:   confirmationRegion,
				Category: []string{"confirmation"},
			})
			k++
		}
	}

	return locationsFile{Locations: locations}
}

// challengeTag returns at most one category tag, checking the flags in
// fixed priority order: goal, then excluded, then priority.
func challengeTag(challenge definition.Challenge) []string {
	switch {
	case challenge.Goal:
		return []string{"goal"}
	case challenge.Excluded:
		return []string{"excluded"}
	case challenge.Priority:
		return []string{"priority"}
	default:
		return nil
	}
}
