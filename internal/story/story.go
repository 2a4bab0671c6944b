// Package story generates the narration script for a duel. The model is
// reached over an OpenAI-compatible chat endpoint so the same client works
// against Groq, Ollama, or anything else speaking that wire format.
package story

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// Script is the full narration plan for one short: an opening hook, one
// beat per round, and an outro asking viewers to pick a side.
type Script struct {
	Title    string   `json:"title"`
	Hook     string   `json:"hook"`
	Beats    []Beat   `json:"beats"`
	Outro    string   `json:"outro"`
	Concepts []string `json:"concepts"`
}

// Beat is the spoken line for one round.
type Beat struct {
	Narration string `json:"narration"`
	Mood      string `json:"mood"`
}

// Lines flattens the script in speaking order.
func (s *Script) Lines() []string {
	lines := make([]string, 0, len(s.Beats)+2)
	if s.Hook != "" {
		lines = append(lines, s.Hook)
	}
	for _, b := range s.Beats {
		lines = append(lines, b.Narration)
	}
	if s.Outro != "" {
		lines = append(lines, s.Outro)
	}
	return lines
}

const systemPrompt = `You are a scriptwriter for viral marble-race shorts. Two rivals battle across several physics rounds; you narrate the duel.

You MUST respond with ONLY valid JSON - no preamble, no markdown, no explanation.

The JSON object must have:
- "title": a punchy video title under 60 characters
- "hook": one spoken sentence that makes the viewer stay (max 12 words)
- "beats": an array with EXACTLY one entry per round, each {"narration": "1-2 short spoken sentences", "mood": one of "tense"|"hype"|"shock"|"triumph"}
- "outro": one sentence asking viewers which rival they back
- "concepts": 3-5 short tags describing the matchup

Rules:
- Never reveal the final winner before the last beat.
- Keep every narration line under 20 words; it is spoken over fast gameplay.
- Reference the rivals by the exact names given.`

// Client talks to a chat-completions endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	retryDelay time.Duration
}

// NewClient points at an OpenAI-compatible server. apiKey may be empty for
// local backends.
func NewClient(baseURL, apiKey, model string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 90 * time.Second},
		retryDelay: 2 * time.Second,
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate asks the model for a script and validates the shape. Transient
// failures and malformed JSON are retried.
func (c *Client) Generate(ctx context.Context, rivalA, rivalB, theme string, rounds int) (*Script, error) {
	log.Printf("[story] Generating script: %s vs %s (%s, %d rounds)", rivalA, rivalB, theme, rounds)

	userPrompt := buildUserPrompt(rivalA, rivalB, theme, rounds)

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		script, err := c.once(ctx, userPrompt)
		if err == nil {
			if err = validate(script, rounds); err == nil {
				log.Printf("[story] Script ready: %q, %d beats", script.Title, len(script.Beats))
				return script, nil
			}
			err = fmt.Errorf("story: invalid script: %w", err)
		}
		lastErr = err
		log.Printf("[story] Attempt %d failed: %v", attempt, lastErr)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * c.retryDelay):
		}
	}
	return nil, lastErr
}

func (c *Client) once(ctx context.Context, userPrompt string) (*Script, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: 0.8,
		MaxTokens:   1024,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("story: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("story: request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var cr chatResponse
	if err := json.Unmarshal(raw, &cr); err != nil {
		return nil, fmt.Errorf("story: parse response: %w", err)
	}
	if cr.Error != nil {
		return nil, fmt.Errorf("story: backend error: %s", cr.Error.Message)
	}
	if len(cr.Choices) == 0 {
		return nil, fmt.Errorf("story: backend returned no choices")
	}

	content := cleanJSON(cr.Choices[0].Message.Content)
	var script Script
	if err := json.Unmarshal([]byte(content), &script); err != nil {
		return nil, fmt.Errorf("story: parse script JSON: %w", err)
	}
	return &script, nil
}

func buildUserPrompt(rivalA, rivalB, theme string, rounds int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Write the script for a %d-round marble duel.\n\n", rounds)
	fmt.Fprintf(&sb, "RIVAL A: %s\nRIVAL B: %s\nTHEME: %s\n\n", rivalA, rivalB, theme)
	fmt.Fprintf(&sb, "The beats array must have exactly %d entries.\n", rounds)
	sb.WriteString("Respond ONLY with valid JSON. No markdown. No explanation.")
	return sb.String()
}

// cleanJSON strips markdown fences and any prose around the outermost JSON
// object. Local models love to decorate their output.
func cleanJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		s = s[start : end+1]
	}
	return strings.TrimSpace(s)
}

func validate(s *Script, rounds int) error {
	if s.Title == "" {
		return fmt.Errorf("missing title")
	}
	if len(s.Beats) != rounds {
		return fmt.Errorf("got %d beats, want %d", len(s.Beats), rounds)
	}
	for i, b := range s.Beats {
		if strings.TrimSpace(b.Narration) == "" {
			return fmt.Errorf("beat %d has empty narration", i)
		}
	}
	return nil
}

// Fallback builds a serviceable script without a model, so a model outage
// never kills a render run.
func Fallback(rivalA, rivalB, theme string, rounds int) *Script {
	beats := make([]Beat, rounds)
	for i := range beats {
		switch {
		case i == rounds-1:
			beats[i] = Beat{Narration: "Final round. Everything on the line.", Mood: "shock"}
		case i == 0:
			beats[i] = Beat{Narration: fmt.Sprintf("%s and %s enter the arena.", rivalA, rivalB), Mood: "tense"}
		default:
			beats[i] = Beat{Narration: fmt.Sprintf("Round %d. The rings close in.", i+1), Mood: "hype"}
		}
	}
	return &Script{
		Title:    fmt.Sprintf("%s vs %s - Marble Duel", rivalA, rivalB),
		Hook:     fmt.Sprintf("Only one of %s and %s survives.", rivalA, rivalB),
		Beats:    beats,
		Outro:    "Who were you backing? Tell us below.",
		Concepts: []string{theme, "marble race", "duel"},
	}
}
