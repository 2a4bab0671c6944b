package effects

// Flash is the white brightness spike between rounds. Trigger starts it;
// Update decays it toward zero each frame.
type Flash struct {
	intensity float64
}

func NewFlash() *Flash {
	return &Flash{}
}

// Trigger starts a flash at the given strength, clamped to [0,1].
func (f *Flash) Trigger(strength float64) {
	if strength > 1 {
		strength = 1
	}
	if strength < 0 {
		strength = 0
	}
	f.intensity = strength
}

// Update decays the flash. Below a visible threshold it snaps to zero.
func (f *Flash) Update() {
	f.intensity *= 0.82
	if f.intensity < 0.01 {
		f.intensity = 0
	}
}

// Intensity is the current white blend weight in [0,1].
func (f *Flash) Intensity() float64 {
	return f.intensity
}
