package pipeline

import (
	"math/rand"
	"testing"

	"github.com/marbleduel/backend/internal/config"
	"github.com/marbleduel/backend/internal/game"
	"github.com/marbleduel/backend/internal/models"
	"github.com/marbleduel/backend/internal/trends"
)

func testThemes(names ...string) *trends.Themes {
	cats := make(map[string]trends.Category, len(names))
	for _, n := range names {
		cats[n] = trends.Category{
			Subreddit: "all",
			Items: []trends.Item{
				{Name: n + "_A", Color: [3]uint8{200, 40, 40}},
				{Name: n + "_B", Color: [3]uint8{40, 40, 200}},
			},
		}
	}
	return &trends.Themes{Categories: cats}
}

func TestTextureURLTemplate(t *testing.T) {
	r := &Runner{cfg: &config.Config{TextureURLTemplate: "https://img.example/search?q=%s"}}

	got := r.textureURL(game.Rival{Name: "KFC", Query: "kfc logo"})
	want := "https://img.example/search?q=kfc+logo"
	if got != want {
		t.Errorf("textureURL = %q, want %q", got, want)
	}

	if got := r.textureURL(game.Rival{Name: "KFC"}); got != "" {
		t.Errorf("textureURL without query = %q, want empty", got)
	}

	r.cfg.TextureURLTemplate = ""
	if got := r.textureURL(game.Rival{Name: "KFC", Query: "kfc logo"}); got != "" {
		t.Errorf("textureURL without template = %q, want empty", got)
	}
}

func TestPickMatchupPinnedCategory(t *testing.T) {
	sel := trends.NewSelector(testThemes("TECH"), nil, nil, rand.New(rand.NewSource(7)))
	r := &Runner{cfg: &config.Config{}, selector: sel}

	job := &models.VideoJob{RunID: "run-1"}
	job.Category.String, job.Category.Valid = "tech", true

	m, err := r.pickMatchup(t.Context(), job)
	if err != nil {
		t.Fatalf("pickMatchup: %v", err)
	}
	if m.Category != "TECH" {
		t.Errorf("category = %q, want TECH (case-insensitive pin)", m.Category)
	}
}

func TestPickMatchupFallsBackWhenCategoryMissing(t *testing.T) {
	sel := trends.NewSelector(testThemes("GAMING"), nil, nil, rand.New(rand.NewSource(7)))
	r := &Runner{cfg: &config.Config{}, selector: sel}

	job := &models.VideoJob{RunID: "run-2"}
	job.Category.String, job.Category.Valid = "NOPE", true

	m, err := r.pickMatchup(t.Context(), job)
	if err != nil {
		t.Fatalf("pickMatchup: %v", err)
	}
	if m.Category != "GAMING" {
		t.Errorf("category = %q, want the only available category", m.Category)
	}
}
