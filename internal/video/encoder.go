// Package video shells out to ffmpeg for everything that touches an MP4:
// encoding rendered frames, muxing the soundtrack, burning subtitles, and
// composing the final split-screen short.
package video

import (
	"context"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"os/exec"
)

// Verify checks that ffmpeg and ffprobe are on PATH. Called once at startup
// so a missing binary fails fast instead of mid-render.
func Verify() error {
	for _, bin := range []string{"ffmpeg", "ffprobe"} {
		if _, err := exec.LookPath(bin); err != nil {
			return fmt.Errorf("video: %s not found in PATH: %w", bin, err)
		}
	}
	return nil
}

// Encoder streams raw RGBA frames into a single ffmpeg process that encodes
// them as H.264. No per-frame files ever hit the disk.
type Encoder struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser

	width  int
	height int
	frames int
}

func encoderArgs(width, height, fps int, outPath string) []string {
	return []string{
		"-y",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", fmt.Sprintf("%dx%d", width, height),
		"-r", fmt.Sprintf("%d", fps),
		"-i", "pipe:0",
		"-c:v", "libx264",
		"-preset", "fast",
		"-crf", "22",
		"-pix_fmt", "yuv420p",
		"-an",
		outPath,
	}
}

// StartEncoder launches ffmpeg reading raw frames from stdin.
func StartEncoder(ctx context.Context, width, height, fps int, outPath string) (*Encoder, error) {
	cmd := exec.CommandContext(ctx, "ffmpeg", encoderArgs(width, height, fps, outPath)...)
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("video: encoder stdin: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("video: start ffmpeg: %w", err)
	}

	log.Printf("[video] Encoding %dx%d@%dfps -> %s", width, height, fps, outPath)
	return &Encoder{cmd: cmd, stdin: stdin, width: width, height: height}, nil
}

// WriteFrame pushes one frame. The image must match the encoder's size and
// have a stride of exactly 4*width, which image.NewRGBA guarantees.
func (e *Encoder) WriteFrame(img *image.RGBA) error {
	b := img.Bounds()
	if b.Dx() != e.width || b.Dy() != e.height {
		return fmt.Errorf("video: frame %dx%d does not match encoder %dx%d",
			b.Dx(), b.Dy(), e.width, e.height)
	}
	if _, err := e.stdin.Write(img.Pix); err != nil {
		return fmt.Errorf("video: write frame %d: %w", e.frames, err)
	}
	e.frames++
	return nil
}

// Frames is the number of frames written so far.
func (e *Encoder) Frames() int {
	return e.frames
}

// Close ends the stream and waits for ffmpeg to finish the file.
func (e *Encoder) Close() error {
	if err := e.stdin.Close(); err != nil {
		return fmt.Errorf("video: close encoder stdin: %w", err)
	}
	if err := e.cmd.Wait(); err != nil {
		return fmt.Errorf("video: ffmpeg exited: %w", err)
	}
	log.Printf("[video] Encoded %d frames", e.frames)
	return nil
}
