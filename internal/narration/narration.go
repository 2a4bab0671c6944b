// Package narration turns script lines into speech via the edge-tts CLI and
// joins the pieces with ffmpeg.
package narration

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/marbleduel/backend/internal/video"
)

// Generator drives the external TTS command. ttsCmd is usually "edge-tts";
// anything else is invoked generically with --text/--output flags.
type Generator struct {
	ttsCmd string
	voice  string
}

func NewGenerator(ttsCmd, voice string) *Generator {
	if ttsCmd == "" {
		ttsCmd = "edge-tts"
	}
	if voice == "" {
		voice = "en-US-GuyNeural"
	}
	return &Generator{ttsCmd: ttsCmd, voice: voice}
}

// Line is one synthesized narration segment with its measured duration.
type Line struct {
	Index    int
	Text     string
	File     string
	Duration float64
}

// ttsArgs builds the argv for one synthesis call.
func ttsArgs(ttsCmd, voice, text, outFile string) []string {
	if ttsCmd == "edge-tts" {
		return []string{"edge-tts", "--voice", voice, "--text", text, "--write-media", outFile}
	}
	return []string{ttsCmd, "--text", text, "--output", outFile}
}

// Generate synthesizes every line into outputDir and measures each segment
// with ffprobe. Failed lines abort the run; silent segments sound broken.
func (g *Generator) Generate(ctx context.Context, lines []string, outputDir string) ([]Line, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("narration: create %s: %w", outputDir, err)
	}

	out := make([]Line, 0, len(lines))
	for i, text := range lines {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		file := filepath.Join(outputDir, fmt.Sprintf("line_%02d.mp3", i))
		if err := g.synthesize(ctx, text, file); err != nil {
			return nil, fmt.Errorf("narration: line %d: %w", i, err)
		}

		dur, err := video.Duration(file)
		if err != nil {
			// Estimate from speaking pace when ffprobe cannot read it.
			dur = float64(len(strings.Fields(text))) / 130.0 * 60.0
			log.Printf("[narration] Could not measure line %d, estimating %.2fs", i, dur)
		}

		out = append(out, Line{Index: i, Text: text, File: file, Duration: dur})
		log.Printf("[narration] Line %d: %.2fs -> %s", i, dur, file)
	}
	return out, nil
}

func (g *Generator) synthesize(ctx context.Context, text, outFile string) error {
	argv := ttsArgs(g.ttsCmd, g.voice, text, outFile)

	var err error
	for attempt := 1; attempt <= 3; attempt++ {
		cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
		cmd.Stderr = os.Stderr
		if err = cmd.Run(); err == nil {
			return nil
		}
		log.Printf("[narration] TTS attempt %d failed: %v", attempt, err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * 2 * time.Second):
		}
	}
	return err
}

// Concat joins the segments into one audio file using ffmpeg's concat demuxer.
func Concat(ctx context.Context, lines []Line, outFile string) error {
	if len(lines) == 0 {
		return fmt.Errorf("narration: nothing to concatenate")
	}

	listFile := filepath.Join(filepath.Dir(outFile), "narration_concat.txt")
	var sb strings.Builder
	for _, l := range lines {
		fmt.Fprintf(&sb, "file '%s'\n", l.File)
	}
	if err := os.WriteFile(listFile, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("narration: write concat list: %w", err)
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", "-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listFile,
		"-c:a", "libmp3lame",
		"-b:a", "128k",
		outFile,
	)
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("narration: concat: %w", err)
	}
	return nil
}

// TotalDuration sums the measured segment durations.
func TotalDuration(lines []Line) float64 {
	var total float64
	for _, l := range lines {
		total += l.Duration
	}
	return total
}
