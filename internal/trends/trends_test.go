package trends

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/marbleduel/backend/internal/game"
)

func writeThemes(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "themes.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadThemesDropsThinCategories(t *testing.T) {
	path := writeThemes(t, `
categories:
  GOOD:
    subreddit: gaming
    items:
      - {name: A, color: [255, 0, 0], query: a logo}
      - {name: B, color: [0, 0, 255], query: b logo}
  THIN:
    items:
      - {name: LONELY, color: [0, 255, 0], query: lonely}
`)
	themes, err := LoadThemes(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := themes.Categories["THIN"]; ok {
		t.Error("single-item category should be dropped")
	}
	if _, ok := themes.Categories["GOOD"]; !ok {
		t.Error("two-item category should survive")
	}
}

func TestLoadThemesRejectsEmptyDatabase(t *testing.T) {
	path := writeThemes(t, `
categories:
  THIN:
    items:
      - {name: LONELY, color: [0, 255, 0], query: lonely}
`)
	if _, err := LoadThemes(path); err == nil {
		t.Error("a database with no usable categories should error")
	}
}

func TestDefaultThemesAreUsable(t *testing.T) {
	themes := DefaultThemes()
	if len(themes.Categories) == 0 {
		t.Fatal("default themes are empty")
	}
	for name, cat := range themes.Categories {
		if len(cat.Items) < 2 {
			t.Errorf("category %s cannot form a duel", name)
		}
	}
}

type fakeReddit struct {
	posts map[string][]hotPost
	err   error
}

func (f *fakeReddit) Hot(_ context.Context, subreddit string) ([]hotPost, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.posts[subreddit], nil
}

func TestPickPrefersHotCategory(t *testing.T) {
	themes := &Themes{Categories: map[string]Category{
		"QUIET": {
			Subreddit: "quiet",
			Items: []Item{
				{Name: "Q1", Color: [3]uint8{1, 1, 1}},
				{Name: "Q2", Color: [3]uint8{2, 2, 2}},
			},
		},
		"LOUD": {
			Subreddit: "loud",
			Items: []Item{
				{Name: "ALPHA", Color: [3]uint8{3, 3, 3}},
				{Name: "BETA", Color: [3]uint8{4, 4, 4}},
			},
		},
	}}
	reddit := &fakeReddit{posts: map[string][]hotPost{
		"loud":  {{Title: "ALPHA destroys everything", Score: 5000}},
		"quiet": {{Title: "nothing about our rivals", Score: 9999}},
	}}

	s := NewSelector(themes, nil, reddit, rand.New(rand.NewSource(1)))
	m, err := s.Pick(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if m.Category != "LOUD" {
		t.Errorf("picked %s, want the category with rival mentions", m.Category)
	}
	if m.Rivals[0].Name == m.Rivals[1].Name {
		t.Error("picked the same rival twice")
	}
}

func TestPickSurvivesRedditOutage(t *testing.T) {
	s := NewSelector(DefaultThemes(), nil, &fakeReddit{err: fmt.Errorf("down")}, rand.New(rand.NewSource(2)))
	if _, err := s.Pick(context.Background()); err != nil {
		t.Fatalf("reddit outage should not block selection: %v", err)
	}
}

func TestMentionScoreCountsEachPostOnce(t *testing.T) {
	items := []Item{{Name: "ALPHA"}, {Name: "BETA"}}
	posts := []hotPost{
		{Title: "alpha vs beta grand final", Score: 100},
		{Title: "unrelated", Score: 50},
	}
	if got := mentionScore(posts, items); got != 100 {
		t.Errorf("score = %d, want 100 (one matching post, counted once)", got)
	}
}

func TestMatchupMemberIsOrderIndependent(t *testing.T) {
	themes := DefaultThemes()
	cat := themes.Categories["GAMING"]
	a, b := cat.Items[0].rival(), cat.Items[1].rival()

	ab := matchupMember("GAMING", [2]game.Rival{a, b})
	ba := matchupMember("GAMING", [2]game.Rival{b, a})
	if ab != ba {
		t.Errorf("matchup member depends on order: %q vs %q", ab, ba)
	}
}

func TestMatchupKeysAreIndependentPerDuel(t *testing.T) {
	themes := DefaultThemes()
	cat := themes.Categories["GAMING"]
	a, b, c := cat.Items[0].rival(), cat.Items[1].rival(), cat.Items[2].rival()

	ab := matchupKey("GAMING", [2]game.Rival{a, b})
	ac := matchupKey("GAMING", [2]game.Rival{a, c})
	if ab == ac {
		t.Errorf("distinct duels share a dedup key: %q", ab)
	}
	// One key per duel means one TTL per duel; a shared key would let
	// constant traffic keep every past matchup alive forever.
	if ba := matchupKey("GAMING", [2]game.Rival{b, a}); ba != ab {
		t.Errorf("key depends on rival order: %q vs %q", ba, ab)
	}
}
