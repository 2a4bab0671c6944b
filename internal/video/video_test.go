package video

import (
	"strings"
	"testing"
)

func TestEncoderArgsDescribeRawInput(t *testing.T) {
	args := strings.Join(encoderArgs(720, 1280, 60, "/tmp/out.mp4"), " ")

	for _, want := range []string{
		"-f rawvideo",
		"-pix_fmt rgba",
		"-s 720x1280",
		"-r 60",
		"-i pipe:0",
		"-c:v libx264",
		"-pix_fmt yuv420p",
		"/tmp/out.mp4",
	} {
		if !strings.Contains(args, want) {
			t.Errorf("encoder args missing %q: %s", want, args)
		}
	}
}

func TestMuxArgsCopyVideoStream(t *testing.T) {
	args := strings.Join(muxArgs("v.mp4", "a.wav", "out.mp4"), " ")
	if !strings.Contains(args, "-c:v copy") {
		t.Error("mux should never re-encode video")
	}
	if !strings.Contains(args, "-c:a aac") {
		t.Error("mux should transcode WAV to AAC")
	}
	if !strings.Contains(args, "-shortest") {
		t.Error("mux must clip to the shorter stream")
	}
}

func TestSplitFilterVerticalStacks(t *testing.T) {
	f := splitFilter(SplitVertical, 720, 1280)
	if !strings.Contains(f, "vstack=inputs=2") {
		t.Error("vertical mode must vstack")
	}
	if !strings.Contains(f, "scale=720:640") {
		t.Errorf("panes should scale to full width, half height: %s", f)
	}
}

func TestSplitFilterHorizontalStacks(t *testing.T) {
	f := splitFilter(SplitHorizontal, 720, 1280)
	if !strings.Contains(f, "hstack=inputs=2") {
		t.Error("horizontal mode must hstack")
	}
	if !strings.Contains(f, "scale=360:1280") {
		t.Errorf("panes should scale to half width, full height: %s", f)
	}
}

func TestSubtitleFilterCarriesStyle(t *testing.T) {
	f := subtitleFilter("/tmp/subs.srt")
	if !strings.Contains(f, "subtitles='/tmp/subs.srt'") {
		t.Errorf("filter does not reference the srt: %s", f)
	}
	if !strings.Contains(f, "force_style") {
		t.Error("filter should pin the subtitle style")
	}
}
