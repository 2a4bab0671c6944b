package story

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCleanJSONStripsFencesAndProse(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`{"title":"x"}`, `{"title":"x"}`},
		{"```json\n{\"title\":\"x\"}\n```", `{"title":"x"}`},
		{"Sure! Here is your script:\n{\"title\":\"x\"}\nHope it helps.", `{"title":"x"}`},
		{"```\n{\"a\":{\"b\":1}}\n```", `{"a":{"b":1}}`},
	}
	for _, tc := range cases {
		if got := cleanJSON(tc.in); got != tc.want {
			t.Errorf("cleanJSON(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidateRejectsWrongBeatCount(t *testing.T) {
	s := &Script{Title: "t", Beats: []Beat{{Narration: "a"}, {Narration: "b"}}}
	if err := validate(s, 3); err == nil {
		t.Error("two beats should fail validation for three rounds")
	}
	if err := validate(s, 2); err != nil {
		t.Errorf("two beats for two rounds should pass: %v", err)
	}
}

func TestValidateRejectsEmptyNarration(t *testing.T) {
	s := &Script{Title: "t", Beats: []Beat{{Narration: "  "}}}
	if err := validate(s, 1); err == nil {
		t.Error("blank narration should fail validation")
	}
}

func TestGenerateParsesServerResponse(t *testing.T) {
	script := Script{
		Title: "STEEL vs FIRE - Marble Duel",
		Hook:  "Only one survives.",
		Beats: []Beat{
			{Narration: "Round one begins.", Mood: "tense"},
			{Narration: "The rings tighten.", Mood: "hype"},
			{Narration: "Final round.", Mood: "shock"},
		},
		Outro:    "Who do you back?",
		Concepts: []string{"metal", "duel"},
	}
	content, _ := json.Marshal(script)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("missing bearer auth, got %q", auth)
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "```json\n" + string(content) + "\n```"}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "test-model")
	got, err := c.Generate(context.Background(), "STEEL", "FIRE", "metal", 3)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != script.Title {
		t.Errorf("title = %q, want %q", got.Title, script.Title)
	}
	if len(got.Beats) != 3 {
		t.Errorf("beats = %d, want 3", len(got.Beats))
	}
}

func TestGenerateSurfacesBackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "model overloaded"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", "test-model")
	c.retryDelay = 0
	_, err := c.Generate(context.Background(), "A", "B", "x", 2)
	if err == nil || !strings.Contains(err.Error(), "model overloaded") {
		t.Errorf("expected backend error to surface, got %v", err)
	}
}

func TestFallbackMatchesRoundCount(t *testing.T) {
	s := Fallback("STEEL", "FIRE", "metal", 5)
	if err := validate(s, 5); err != nil {
		t.Fatalf("fallback script failed validation: %v", err)
	}
	lines := s.Lines()
	if len(lines) != 7 {
		t.Errorf("hook + 5 beats + outro should be 7 lines, got %d", len(lines))
	}
}
