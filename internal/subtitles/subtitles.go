// Package subtitles emits SRT files from timed narration lines. The SRT is
// burned into the final video by ffmpeg, so phrasing is kept short enough
// to read over fast gameplay.
package subtitles

import (
	"fmt"
	"os"
	"strings"

	"github.com/marbleduel/backend/internal/narration"
)

// Cue is one subtitle entry.
type Cue struct {
	Index int
	Start float64 // seconds
	End   float64
	Text  string
}

// maxWordsPerCue splits long narration lines so no cue floods the screen.
const maxWordsPerCue = 7

// FromLines converts measured narration segments into cues. Each line's
// time span is divided proportionally among its word chunks.
func FromLines(lines []narration.Line) []Cue {
	var cues []Cue
	clock := 0.0
	idx := 1

	for _, l := range lines {
		chunks := splitWords(l.Text, maxWordsPerCue)
		if len(chunks) == 0 {
			clock += l.Duration
			continue
		}

		per := l.Duration / float64(len(chunks))
		for _, chunk := range chunks {
			cues = append(cues, Cue{
				Index: idx,
				Start: clock,
				End:   clock + per,
				Text:  chunk,
			})
			idx++
			clock += per
		}
	}
	return cues
}

func splitWords(text string, limit int) []string {
	words := strings.Fields(text)
	var chunks []string
	for len(words) > 0 {
		n := limit
		if n > len(words) {
			n = len(words)
		}
		chunks = append(chunks, strings.Join(words[:n], " "))
		words = words[n:]
	}
	return chunks
}

// Render serializes the cues as an SRT document.
func Render(cues []Cue) string {
	var sb strings.Builder
	for _, c := range cues {
		fmt.Fprintf(&sb, "%d\n%s --> %s\n%s\n\n",
			c.Index, timestamp(c.Start), timestamp(c.End), c.Text)
	}
	return sb.String()
}

// Write renders the cues to an .srt file.
func Write(cues []Cue, path string) error {
	if err := os.WriteFile(path, []byte(Render(cues)), 0o644); err != nil {
		return fmt.Errorf("subtitles: write %s: %w", path, err)
	}
	return nil
}

// timestamp formats seconds as the SRT "HH:MM:SS,mmm" form.
func timestamp(sec float64) string {
	if sec < 0 {
		sec = 0
	}
	ms := int(sec*1000 + 0.5)
	h := ms / 3600000
	ms -= h * 3600000
	m := ms / 60000
	ms -= m * 60000
	s := ms / 1000
	ms -= s * 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}
