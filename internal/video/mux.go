package video

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
)

func muxArgs(videoPath, audioPath, outPath string) []string {
	return []string{
		"-y",
		"-i", videoPath,
		"-i", audioPath,
		"-c:v", "copy",
		"-c:a", "aac",
		"-b:a", "128k",
		"-shortest",
		outPath,
	}
}

// MuxAudio lays the soundtrack under the encoded video without re-encoding
// the frames.
func MuxAudio(ctx context.Context, videoPath, audioPath, outPath string) error {
	log.Printf("[video] Muxing audio %s into %s", audioPath, outPath)
	cmd := exec.CommandContext(ctx, "ffmpeg", muxArgs(videoPath, audioPath, outPath)...)
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("video: mux audio: %w", err)
	}
	return nil
}

// subtitleFilter escapes the path for ffmpeg's filter syntax.
func subtitleFilter(srtPath string) string {
	return fmt.Sprintf("subtitles='%s':force_style='FontSize=14,Alignment=2,MarginV=40'", srtPath)
}

// BurnSubtitles re-encodes the video with the SRT rendered into the frames.
func BurnSubtitles(ctx context.Context, videoPath, srtPath, outPath string) error {
	log.Printf("[video] Burning subtitles %s", srtPath)
	cmd := exec.CommandContext(ctx, "ffmpeg", "-y",
		"-i", videoPath,
		"-vf", subtitleFilter(srtPath),
		"-c:v", "libx264",
		"-preset", "fast",
		"-crf", "22",
		"-c:a", "copy",
		outPath,
	)
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("video: burn subtitles: %w", err)
	}
	return nil
}

// Trim cuts the media to the target duration, re-encoding only the container.
func Trim(ctx context.Context, inPath string, seconds float64, outPath string) error {
	cmd := exec.CommandContext(ctx, "ffmpeg", "-y",
		"-i", inPath,
		"-t", fmt.Sprintf("%.3f", seconds),
		"-c", "copy",
		outPath,
	)
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("video: trim %s: %w", inPath, err)
	}
	return nil
}
