package effects

import (
	"math"

	"github.com/marbleduel/backend/internal/game"
)

// Background animates the dark arena backdrop: a slow brightness pulse over
// the base color plus a drifting grid. It holds animation state only; the
// renderer turns it into pixels.
type Background struct {
	Width    int
	Height   int
	GridSize int
	Base     game.RGB

	time float64
}

func NewBackground(width, height int, base game.RGB) *Background {
	return &Background{
		Width:    width,
		Height:   height,
		GridSize: 50,
		Base:     base,
	}
}

// Update advances the animation clock one frame.
func (b *Background) Update() {
	b.time += 0.015
	if b.time > 1000 {
		b.time = 0
	}
}

// Pulse is the current brightness multiplier, swinging around 0.85.
func (b *Background) Pulse() float64 {
	return math.Sin(b.time*0.5)*0.15 + 0.85
}

// GridOffset is the current drift of the grid lines in pixels.
func (b *Background) GridOffset() (int, int) {
	return int(b.time*15) % b.GridSize, int(b.time*10) % b.GridSize
}
