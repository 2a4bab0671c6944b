// Package trends picks the matchup for a run: a themed category and two
// rivals, biased toward whatever is currently loud on Reddit and deduplicated
// against recent runs through Redis.
package trends

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/marbleduel/backend/internal/game"
)

// Item is one potential rival inside a category.
type Item struct {
	Name  string   `yaml:"name"`
	Color [3]uint8 `yaml:"color"`
	Query string   `yaml:"query"`
}

// Category is a themed pool of rivals with an optional subreddit used for
// trend ranking.
type Category struct {
	Subreddit string `yaml:"subreddit"`
	Items     []Item `yaml:"items"`
}

// Themes is the full matchup database.
type Themes struct {
	Categories map[string]Category `yaml:"categories"`
}

// LoadThemes reads the YAML database. Categories with fewer than two items
// are dropped; they cannot produce a duel.
func LoadThemes(path string) (*Themes, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("trends: read %s: %w", path, err)
	}

	var t Themes
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("trends: parse %s: %w", path, err)
	}

	for name, cat := range t.Categories {
		if len(cat.Items) < 2 {
			log.Printf("[trends] Dropping category %s: needs at least 2 items", name)
			delete(t.Categories, name)
		}
	}
	if len(t.Categories) == 0 {
		return nil, fmt.Errorf("trends: %s contains no usable categories", path)
	}

	log.Printf("[trends] Loaded %d categories from %s", len(t.Categories), path)
	return &t, nil
}

// DefaultThemes is the built-in fallback database used when no themes file
// is configured.
func DefaultThemes() *Themes {
	return &Themes{Categories: map[string]Category{
		"GAMING": {
			Subreddit: "gaming",
			Items: []Item{
				{Name: "PLAYSTATION", Color: [3]uint8{0, 55, 145}, Query: "playstation logo"},
				{Name: "XBOX", Color: [3]uint8{16, 124, 16}, Query: "xbox logo"},
				{Name: "NINTENDO", Color: [3]uint8{230, 0, 18}, Query: "nintendo logo"},
				{Name: "STEAM", Color: [3]uint8{27, 40, 56}, Query: "steam logo"},
			},
		},
		"FAST_FOOD": {
			Subreddit: "fastfood",
			Items: []Item{
				{Name: "MCDONALDS", Color: [3]uint8{255, 199, 44}, Query: "mcdonalds logo"},
				{Name: "BURGER KING", Color: [3]uint8{236, 100, 35}, Query: "burger king logo"},
				{Name: "KFC", Color: [3]uint8{163, 8, 16}, Query: "kfc logo"},
			},
		},
		"TECH": {
			Subreddit: "technology",
			Items: []Item{
				{Name: "APPLE", Color: [3]uint8{160, 160, 165}, Query: "apple logo"},
				{Name: "ANDROID", Color: [3]uint8{61, 220, 132}, Query: "android logo"},
				{Name: "WINDOWS", Color: [3]uint8{0, 120, 215}, Query: "windows logo"},
			},
		},
	}}
}

// rival converts a theme item into a simulation rival.
func (i Item) rival() game.Rival {
	return game.Rival{
		Name:  i.Name,
		Color: game.RGB(i.Color),
		Query: i.Query,
	}
}
