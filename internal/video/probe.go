package video

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Duration returns the media duration in seconds via ffprobe.
func Duration(path string) (float64, error) {
	out, err := exec.Command("ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	).Output()
	if err != nil {
		return 0, fmt.Errorf("video: ffprobe %s: %w", path, err)
	}

	dur, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("video: parse duration of %s: %w", path, err)
	}
	return dur, nil
}
