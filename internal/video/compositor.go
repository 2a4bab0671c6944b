package video

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
)

// SplitMode selects how the story and race panes share the frame.
type SplitMode string

const (
	SplitVertical   SplitMode = "vertical"   // story on top, race below
	SplitHorizontal SplitMode = "horizontal" // story left, race right
)

// splitFilter builds the filter_complex graph that scales both inputs to
// half the frame and stacks them.
func splitFilter(mode SplitMode, width, height int) string {
	if mode == SplitHorizontal {
		half := width / 2
		return fmt.Sprintf(
			"[0:v]scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2,setsar=1[top];"+
				"[1:v]scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2,setsar=1[bottom];"+
				"[top][bottom]hstack=inputs=2[v]",
			half, height, half, height,
			half, height, half, height)
	}
	half := height / 2
	return fmt.Sprintf(
		"[0:v]scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2,setsar=1[top];"+
			"[1:v]scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2,setsar=1[bottom];"+
			"[top][bottom]vstack=inputs=2[v]",
		width, half, width, half,
		width, half, width, half)
}

// ComposeSplitScreen merges the story pane and the race pane into one frame
// and lays the narration audio under it. The result is trimmed to the
// shortest input so the ending never freezes.
func ComposeSplitScreen(ctx context.Context, mode SplitMode, storyPath, racePath, audioPath, outPath string, width, height int) error {
	log.Printf("[video] Composing split-screen (%s) -> %s", mode, outPath)

	args := []string{
		"-y",
		"-i", storyPath,
		"-i", racePath,
	}
	if audioPath != "" {
		args = append(args, "-i", audioPath)
	}
	args = append(args,
		"-filter_complex", splitFilter(mode, width, height),
		"-map", "[v]",
	)
	if audioPath != "" {
		args = append(args, "-map", "2:a", "-c:a", "aac", "-b:a", "128k")
	}
	args = append(args,
		"-c:v", "libx264",
		"-preset", "fast",
		"-crf", "22",
		"-pix_fmt", "yuv420p",
		"-shortest",
		outPath,
	)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("video: split-screen compose: %w", err)
	}
	return nil
}
