package effects

// Audio synthesis parameters. Tones walk a pentatonic scale over a low A so
// random bounce order still sounds musical.
const (
	BaseFrequency = 220.0
	SampleRate    = 22050
)

var pentatonicScale = []float64{1.0, 1.125, 1.25, 1.5, 1.667}

// AudioCue is one tone scheduled into the baked soundtrack. Cues are logged
// during simulation and synthesized after the last frame is written.
type AudioCue struct {
	Time   float64 `json:"time"`
	Kind   string  `json:"kind"`
	Freq   float64 `json:"freq"`
	Dur    float64 `json:"dur"`
	Volume float64 `json:"volume"`
}

// CueLog records every sound the run wants played. Nothing is audible while
// rendering; the log is baked into a single WAV afterwards.
type CueLog struct {
	Cues []AudioCue

	scaleIdx int
}

// NewCueLog opens with a short rising swoosh so the video never starts on
// dead silence.
func NewCueLog() *CueLog {
	l := &CueLog{Cues: make([]AudioCue, 0, 256)}
	for i := 0; i < 3; i++ {
		l.Cues = append(l.Cues, AudioCue{
			Time:   float64(i) * 0.06,
			Kind:   "intro",
			Freq:   BaseFrequency * pentatonicScale[i] * 1.5,
			Dur:    0.15,
			Volume: 0.12,
		})
	}
	return l
}

// Bounce logs a short blip. Each call advances one step along the scale and
// faster impacts pitch up.
func (l *CueLog) Bounce(speedRatio, at float64) {
	note := pentatonicScale[l.scaleIdx%len(pentatonicScale)]
	l.scaleIdx++
	l.Cues = append(l.Cues, AudioCue{
		Time:   at,
		Kind:   "bounce",
		Freq:   BaseFrequency * note * (0.85 + speedRatio*0.3),
		Dur:    0.08,
		Volume: 0.18,
	})
}

// Break logs a low crack, pitched by ring index so deeper rings sound heavier.
func (l *CueLog) Break(pitch int, at float64) {
	if pitch < 0 {
		pitch = 0
	}
	note := pentatonicScale[pitch%len(pentatonicScale)]
	l.Cues = append(l.Cues, AudioCue{
		Time:   at,
		Kind:   "break",
		Freq:   BaseFrequency * note * 0.5,
		Dur:    0.15,
		Volume: 0.22,
	})
}

// Clash logs the marble-on-marble thud.
func (l *CueLog) Clash(at float64) {
	l.Cues = append(l.Cues, AudioCue{
		Time:   at,
		Kind:   "clash",
		Freq:   BaseFrequency * 0.75,
		Dur:    0.1,
		Volume: 0.2,
	})
}

// Win logs the round-end arpeggio, three ascending notes an octave up.
func (l *CueLog) Win(at float64) {
	for i, noteIdx := range []int{0, 2, 4} {
		l.Cues = append(l.Cues, AudioCue{
			Time:   at + float64(i)*0.05,
			Kind:   "win",
			Freq:   BaseFrequency * pentatonicScale[noteIdx] * 2,
			Dur:    0.20,
			Volume: 0.15,
		})
	}
}
