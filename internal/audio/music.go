package audio

import (
	"math"
	"math/rand"
)

// BackgroundBeat generates the procedural backing track: a kick on every
// beat, a noise hi-hat on alternating beats, and a modulated sub-bass pulse.
// Samples are mono float64 in [-1, 1] before mixing.
func BackgroundBeat(durationSec float64, bpm int, sampleRate int, rng *rand.Rand) []float64 {
	n := int(float64(sampleRate) * durationSec)
	music := make([]float64, n)
	if n == 0 || bpm <= 0 {
		return music
	}

	beatInterval := 60.0 / float64(bpm)
	beatSamples := int(beatInterval * float64(sampleRate))
	numBeats := int(durationSec / beatInterval)

	for beat := 0; beat < numBeats; beat++ {
		start := beat * beatSamples
		if start >= n {
			break
		}

		// Kick: 60 Hz sine with a fast downward pitch bend and sharp decay.
		kickLen := min(int(0.15*float64(sampleRate)), n-start)
		phase := 0.0
		for i := 0; i < kickLen; i++ {
			t := float64(i) / float64(sampleRate)
			freq := 60 * math.Exp(-t*8)
			phase += 2 * math.Pi * freq / float64(sampleRate)
			music[start+i] += math.Sin(phase) * math.Exp(-t*12) * 0.25
		}

		// Hi-hat on alternating beats: decaying white noise.
		if beat%2 == 1 {
			hatLen := min(int(0.08*float64(sampleRate)), n-start)
			for i := 0; i < hatLen; i++ {
				t := float64(i) / float64(sampleRate)
				music[start+i] += rng.NormFloat64() * 0.08 * math.Exp(-t*30)
			}
		}
	}

	// Sub-bass pulsing at twice the beat rate.
	pulseRate := float64(bpm) / 60.0 * 2
	for i := 0; i < n; i++ {
		t := float64(i) / float64(sampleRate)
		mod := math.Sin(2*math.Pi*pulseRate*t)*0.5 + 0.5
		music[i] += math.Sin(2*math.Pi*40*t) * 0.1 * mod * mod
	}

	return music
}
