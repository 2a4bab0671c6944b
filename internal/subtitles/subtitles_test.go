package subtitles

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/marbleduel/backend/internal/narration"
)

func TestTimestampFormat(t *testing.T) {
	cases := []struct {
		sec  float64
		want string
	}{
		{0, "00:00:00,000"},
		{1.5, "00:00:01,500"},
		{61.25, "00:01:01,250"},
		{3661.001, "01:01:01,001"},
		{-2, "00:00:00,000"},
	}
	for _, tc := range cases {
		if got := timestamp(tc.sec); got != tc.want {
			t.Errorf("timestamp(%f) = %q, want %q", tc.sec, got, tc.want)
		}
	}
}

func TestFromLinesSplitsLongNarration(t *testing.T) {
	lines := []narration.Line{
		{Text: "one two three four five six seven eight nine ten", Duration: 4.0},
	}
	cues := FromLines(lines)
	if len(cues) != 2 {
		t.Fatalf("ten words should split into 2 cues, got %d", len(cues))
	}
	if cues[0].Text != "one two three four five six seven" {
		t.Errorf("first cue = %q", cues[0].Text)
	}
	if cues[0].End != 2.0 || cues[1].Start != 2.0 {
		t.Errorf("time not divided evenly: %+v", cues)
	}
	if cues[1].End != 4.0 {
		t.Errorf("last cue should end at the line's end, got %f", cues[1].End)
	}
}

func TestFromLinesKeepsGlobalClock(t *testing.T) {
	lines := []narration.Line{
		{Text: "short hook", Duration: 1.0},
		{Text: "second line here", Duration: 2.0},
	}
	cues := FromLines(lines)
	if len(cues) != 2 {
		t.Fatalf("got %d cues", len(cues))
	}
	if cues[1].Start != 1.0 || cues[1].End != 3.0 {
		t.Errorf("second cue spans %f-%f, want 1-3", cues[1].Start, cues[1].End)
	}
	if cues[0].Index != 1 || cues[1].Index != 2 {
		t.Error("cue indices must start at 1 and increment")
	}
}

func TestRenderProducesValidSRT(t *testing.T) {
	cues := []Cue{
		{Index: 1, Start: 0, End: 1.5, Text: "hello"},
		{Index: 2, Start: 1.5, End: 3, Text: "world"},
	}
	srt := Render(cues)

	if !strings.Contains(srt, "1\n00:00:00,000 --> 00:00:01,500\nhello\n\n") {
		t.Errorf("first block malformed:\n%s", srt)
	}
	if !strings.HasSuffix(srt, "world\n\n") {
		t.Error("blocks must be separated by a blank line")
	}
}

func TestWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.srt")
	cues := FromLines([]narration.Line{{Text: "test line", Duration: 1}})
	if err := Write(cues, path); err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != Render(cues) {
		t.Error("file contents differ from rendered SRT")
	}
}
