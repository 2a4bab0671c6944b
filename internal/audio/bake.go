// Package audio bakes a run's cue log into the soundtrack WAV. Every tone
// is synthesized; no audio assets ship with the binary.
package audio

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/marbleduel/backend/internal/effects"
)

const beatBPM = 128

// Bake mixes the procedural beat with every logged cue and writes a mono
// 16-bit WAV at path. totalDuration fixes the track length to the video's.
func Bake(cues []effects.AudioCue, totalDuration float64, path string) error {
	if totalDuration <= 0 {
		return fmt.Errorf("audio: non-positive track duration %.2f", totalDuration)
	}

	sr := effects.SampleRate
	n := int(float64(sr) * totalDuration)

	// The beat's hi-hat noise gets a fixed seed so re-rendering a run
	// produces a byte-identical soundtrack.
	track := BackgroundBeat(totalDuration, beatBPM, sr, rand.New(rand.NewSource(1)))

	for _, cue := range cues {
		start := int(cue.Time * float64(sr))
		if start >= n || start < 0 {
			continue
		}
		length := min(int(cue.Dur*float64(sr)), n-start)

		// Sine tone with a fade over the last 30% so cues never click.
		fadeFrom := int(float64(length) * 0.7)
		for i := 0; i < length; i++ {
			t := float64(i) / float64(sr)
			sample := math.Sin(2*math.Pi*cue.Freq*t) * cue.Volume
			if i >= fadeFrom && length > fadeFrom {
				sample *= float64(length-i) / float64(length-fadeFrom)
			}
			track[start+i] += sample
		}
	}

	normalize(track)
	return WriteWAV(path, track, sr)
}

// normalize rescales only when the mix clips.
func normalize(track []float64) {
	peak := 0.0
	for _, s := range track {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	if peak > 1 {
		for i := range track {
			track[i] /= peak
		}
	}
}
