package narration

import (
	"strings"
	"testing"
)

func TestTTSArgsForEdgeTTS(t *testing.T) {
	args := ttsArgs("edge-tts", "en-US-GuyNeural", "hello world", "/tmp/out.mp3")
	joined := strings.Join(args, " ")
	for _, want := range []string{
		"edge-tts",
		"--voice en-US-GuyNeural",
		"--text hello world",
		"--write-media /tmp/out.mp3",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("edge-tts args missing %q: %s", want, joined)
		}
	}
}

func TestTTSArgsForGenericCommand(t *testing.T) {
	args := ttsArgs("/opt/tts/speak", "ignored", "hi", "/tmp/x.mp3")
	if args[0] != "/opt/tts/speak" {
		t.Errorf("argv[0] = %q", args[0])
	}
	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "--text hi") || !strings.Contains(joined, "--output /tmp/x.mp3") {
		t.Errorf("generic args wrong: %s", joined)
	}
	if strings.Contains(joined, "--voice") {
		t.Error("generic commands should not receive edge-tts flags")
	}
}

func TestTotalDuration(t *testing.T) {
	lines := []Line{{Duration: 1.5}, {Duration: 2.25}, {Duration: 0.5}}
	if got := TotalDuration(lines); got != 4.25 {
		t.Errorf("total = %f, want 4.25", got)
	}
}

func TestGeneratorDefaults(t *testing.T) {
	g := NewGenerator("", "")
	if g.ttsCmd != "edge-tts" || g.voice != "en-US-GuyNeural" {
		t.Errorf("defaults = %q / %q", g.ttsCmd, g.voice)
	}
}
