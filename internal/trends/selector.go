package trends

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	goreddit "github.com/vartanbeno/go-reddit/v2/reddit"

	"github.com/marbleduel/backend/internal/game"
)

const (
	usedMatchupPrefix = "trends:used:"
	matchupTTL        = 72 * time.Hour
)

// hotPost is the slice of a Reddit post the ranker cares about.
type hotPost struct {
	Title string
	Score int
}

// hotFetcher is satisfied by the real Reddit adapter and by test fakes.
type hotFetcher interface {
	Hot(ctx context.Context, subreddit string) ([]hotPost, error)
}

// RedditFetcher wraps the read-only Reddit client.
type RedditFetcher struct {
	client *goreddit.Client
}

// NewRedditFetcher builds the default trend source. Read-only access needs
// no credentials.
func NewRedditFetcher() (*RedditFetcher, error) {
	client, err := goreddit.NewReadonlyClient()
	if err != nil {
		return nil, fmt.Errorf("trends: reddit client: %w", err)
	}
	return &RedditFetcher{client: client}, nil
}

func (r *RedditFetcher) Hot(ctx context.Context, subreddit string) ([]hotPost, error) {
	posts, _, err := r.client.Subreddit.HotPosts(ctx, subreddit, &goreddit.ListOptions{Limit: 25})
	if err != nil {
		return nil, err
	}
	out := make([]hotPost, 0, len(posts))
	for _, p := range posts {
		out = append(out, hotPost{Title: p.Title, Score: p.Score})
	}
	return out, nil
}

// Selector picks a category and a rival pair for the next run.
type Selector struct {
	themes *Themes
	rdb    *redis.Client
	reddit hotFetcher
	rng    *rand.Rand
}

// NewSelector wires the selector. rdb and reddit may be nil; dedup and
// trend ranking degrade gracefully without them.
func NewSelector(themes *Themes, rdb *redis.Client, reddit hotFetcher, rng *rand.Rand) *Selector {
	if themes == nil {
		themes = DefaultThemes()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Selector{themes: themes, rdb: rdb, reddit: reddit, rng: rng}
}

// Matchup is a selected duel.
type Matchup struct {
	Category string
	Rivals   [2]game.Rival
}

// Pick selects the next matchup: the hottest category by Reddit mention
// score, then a rival pair not used recently.
func (s *Selector) Pick(ctx context.Context) (Matchup, error) {
	order := s.rankCategories(ctx)

	for _, category := range order {
		cat := s.themes.Categories[category]
		pair, ok := s.pickPair(ctx, category, cat.Items)
		if !ok {
			log.Printf("[trends] Category %s exhausted, trying next", category)
			continue
		}
		s.markUsed(ctx, category, pair)
		log.Printf("[trends] Matchup: %s vs %s (%s)", pair[0].Name, pair[1].Name, category)
		return Matchup{Category: category, Rivals: pair}, nil
	}

	return Matchup{}, fmt.Errorf("trends: every category is exhausted within the dedup window")
}

// rankCategories orders category names, hottest first. Without a Reddit
// source the order is a plain shuffle.
func (s *Selector) rankCategories(ctx context.Context) []string {
	names := make([]string, 0, len(s.themes.Categories))
	for name := range s.themes.Categories {
		names = append(names, name)
	}
	s.rng.Shuffle(len(names), func(i, j int) { names[i], names[j] = names[j], names[i] })

	if s.reddit == nil {
		return names
	}

	scores := make(map[string]int, len(names))
	for _, name := range names {
		cat := s.themes.Categories[name]
		if cat.Subreddit == "" {
			continue
		}
		posts, err := s.reddit.Hot(ctx, cat.Subreddit)
		if err != nil {
			log.Printf("[trends] Reddit fetch for r/%s failed: %v", cat.Subreddit, err)
			continue
		}
		scores[name] = mentionScore(posts, cat.Items)
	}

	// Stable by shuffled base order, then hotter categories first.
	sorted := make([]string, len(names))
	copy(sorted, names)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && scores[sorted[j]] > scores[sorted[j-1]]; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	return sorted
}

// mentionScore sums the scores of hot posts that name any rival.
func mentionScore(posts []hotPost, items []Item) int {
	total := 0
	for _, p := range posts {
		title := strings.ToLower(p.Title)
		for _, it := range items {
			if strings.Contains(title, strings.ToLower(it.Name)) {
				total += p.Score
				break
			}
		}
	}
	return total
}

// pickPair tries random pairs from the category until one clears the dedup
// window.
func (s *Selector) pickPair(ctx context.Context, category string, items []Item) ([2]game.Rival, bool) {
	idx := s.rng.Perm(len(items))
	for a := 0; a < len(idx); a++ {
		for b := a + 1; b < len(idx); b++ {
			pair := [2]game.Rival{items[idx[a]].rival(), items[idx[b]].rival()}
			if !s.recentlyUsed(ctx, category, pair) {
				return pair, true
			}
		}
	}
	return [2]game.Rival{}, false
}

// matchupKey is the dedup key for one duel. Each matchup gets its own key
// so its TTL runs down regardless of how busy the queue is.
func matchupKey(category string, pair [2]game.Rival) string {
	return usedMatchupPrefix + matchupMember(category, pair)
}

func matchupMember(category string, pair [2]game.Rival) string {
	a, b := pair[0].Name, pair[1].Name
	if b < a {
		a, b = b, a
	}
	return category + "|" + a + "|" + b
}

func (s *Selector) recentlyUsed(ctx context.Context, category string, pair [2]game.Rival) bool {
	if s.rdb == nil {
		return false
	}
	n, err := s.rdb.Exists(ctx, matchupKey(category, pair)).Result()
	if err != nil {
		log.Printf("[trends] Dedup check failed: %v", err)
		return false
	}
	return n > 0
}

// markUsed records one matchup under its own key so every duel ages out of
// the dedup window independently.
func (s *Selector) markUsed(ctx context.Context, category string, pair [2]game.Rival) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Set(ctx, matchupKey(category, pair), "1", matchupTTL).Err(); err != nil {
		log.Printf("[trends] Dedup record failed: %v", err)
	}
}
