// Package render turns show state into RGBA frames. Frames go straight to
// the encoder's stdin as raw pixels; nothing is written to disk per frame.
package render

import (
	"fmt"
	"image"

	"github.com/marbleduel/backend/internal/game"
)

var (
	white     = game.RGB{255, 255, 255}
	scoreGold = game.RGB{251, 191, 36}
)

// Renderer paints one vertical video frame per call. It reads simulation
// and effect state and never mutates either.
type Renderer struct {
	tuning   game.Tuning
	textures map[string]*image.RGBA
}

func NewRenderer(t game.Tuning) *Renderer {
	return &Renderer{tuning: t, textures: make(map[string]*image.RGBA)}
}

// SetTexture registers a circular skin for a rival's marble. Marbles
// without a texture fall back to a plain colored disc.
func (r *Renderer) SetTexture(rival string, img *image.RGBA) {
	if img != nil {
		r.textures[rival] = img
	}
}

// NewFrame allocates a frame of the configured size.
func (r *Renderer) NewFrame() *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, r.tuning.Width, r.tuning.Height))
}

// Draw composes the full frame for the show's current state.
func (r *Renderer) Draw(img *image.RGBA, s *Show) {
	d := s.Director
	r.drawBackground(img, s)

	ox, oy := d.Shake.Offset()
	fx, fy := float64(ox), float64(oy)

	if s.Phase() == PhaseEndcard || s.Phase() == PhaseDone {
		r.drawParticles(img, s, fx, fy)
		r.drawEndcard(img, s)
		blendWhite(img, d.Flash.Intensity())
		return
	}

	if round := s.Round(); round != nil {
		eng := round.Engine()
		r.drawRings(img, eng, fx, fy)
		r.drawTrails(img, eng, fx, fy)
		r.drawParticles(img, s, fx, fy)
		r.drawMarbles(img, eng, fx, fy)
	}

	r.drawScoreboard(img, s)
	if s.Phase() == PhaseWinnerPause {
		r.drawWinnerBanner(img, s)
	}

	blendWhite(img, d.Flash.Intensity())
}

func (r *Renderer) drawBackground(img *image.RGBA, s *Show) {
	bg := s.Director.Background
	base := scale(bg.Base, bg.Pulse())
	fill(img, base)

	grid := scale(base, 1.0)
	for i := 0; i < 3; i++ {
		if int(grid[i])+8 <= 255 {
			grid[i] += 8
		}
	}

	offX, offY := bg.GridOffset()
	for x := -bg.GridSize; x < bg.Width+bg.GridSize; x += bg.GridSize {
		drawVLine(img, x-offX, grid)
	}
	for y := -bg.GridSize; y < bg.Height+bg.GridSize; y += bg.GridSize {
		drawHLine(img, y-offY, grid)
	}
}

func (r *Renderer) drawRings(img *image.RGBA, eng *game.Engine, ox, oy float64) {
	center := eng.Center()
	for _, ring := range eng.Rings {
		if !ring.Alive {
			continue
		}
		drawAnnulus(img,
			center.X+ox, center.Y+oy,
			ring.Radius-ring.Thickness, ring.Radius,
			ring.FadedColor(), ring.InGap)
	}
}

func (r *Renderer) drawTrails(img *image.RGBA, eng *game.Engine, ox, oy float64) {
	for _, m := range eng.Marbles {
		if m.Eliminated {
			continue
		}
		n := len(m.Trail)
		for i, p := range m.Trail {
			a := float64(i+1) / float64(n)
			fillCircle(img, p.X+ox, p.Y+oy, m.Radius*0.45*a, scale(m.Color, a*0.6))
		}
	}
}

func (r *Renderer) drawMarbles(img *image.RGBA, eng *game.Engine, ox, oy float64) {
	for _, m := range eng.Marbles {
		if m.Eliminated {
			continue
		}
		x, y := m.Position.X+ox, m.Position.Y+oy
		// Dark rim, then either the skin texture or a plain body with a
		// small highlight toward the upper left.
		fillCircle(img, x, y, m.Radius+2, scale(m.Color, 0.3))
		if tex := r.textures[m.Rival]; tex != nil {
			blit(img, tex, x, y)
		} else {
			fillCircle(img, x, y, m.Radius, m.Color)
			fillCircle(img, x-m.Radius*0.3, y-m.Radius*0.3, m.Radius*0.3, scale(m.Color, 1.6))
		}
		if m.Boosted() {
			circleOutline(img, x, y, m.Radius+4, 2, white)
		}
	}
}

func (r *Renderer) drawParticles(img *image.RGBA, s *Show, ox, oy float64) {
	ps := s.Director.Particles

	for _, p := range ps.Glow {
		a := p.Life / p.MaxLife
		fillCircle(img, p.Pos.X+ox, p.Pos.Y+oy, p.Size*a, scale(p.Color, a*1.3))
	}
	for _, p := range ps.Sparks {
		a := p.Life / p.MaxLife
		fillCircle(img, p.Pos.X+ox, p.Pos.Y+oy, p.Size*a, scale(p.Color, a))
	}
	for _, p := range ps.Confetti {
		a := p.Life / p.MaxLife
		if a < 0.05 {
			continue
		}
		fillCircle(img, p.Pos.X+ox, p.Pos.Y+oy, p.Size*a, scale(p.Color, a))
	}
}

func (r *Renderer) drawScoreboard(img *image.RGBA, s *Show) {
	m := s.Match
	a, b := m.Rivals[0], m.Rivals[1]
	line := fmt.Sprintf("%s %d - %d %s", a.Name, m.Scores[a.Name], m.Scores[b.Name], b.Name)
	drawTextCentered(img, line, r.tuning.Width/2, 30, 3, white)

	roundNo := m.RoundsPlayed()
	if s.Phase() == PhasePlaying {
		roundNo++
	}
	if roundNo > r.tuning.Rounds {
		roundNo = r.tuning.Rounds
	}
	drawTextCentered(img, fmt.Sprintf("ROUND %d/%d", roundNo, r.tuning.Rounds),
		r.tuning.Width/2, 85, 2, scoreGold)
}

func (r *Renderer) drawWinnerBanner(img *image.RGBA, s *Show) {
	out := s.LastOutcome()
	banner := "DRAW"
	c := white
	if out.Winner != "" {
		banner = out.Winner + " WINS!"
		c = rivalColor(s.Match, out.Winner)
	}
	drawTextCentered(img, banner, r.tuning.Width/2, r.tuning.Height/2-120, 5, c)
}

func (r *Renderer) drawEndcard(img *image.RGBA, s *Show) {
	m := s.Match
	cx := r.tuning.Width / 2
	y := r.tuning.Height / 3

	if m.Champion != "" {
		drawTextCentered(img, "CHAMPION", cx, y, 5, scoreGold)
		drawTextCentered(img, m.Champion, cx, y+110, 6, rivalColor(m, m.Champion))
	} else {
		drawTextCentered(img, "IT'S A DRAW", cx, y, 5, white)
	}

	a, b := m.Rivals[0], m.Rivals[1]
	score := fmt.Sprintf("%s %d - %d %s", a.Name, m.Scores[a.Name], m.Scores[b.Name], b.Name)
	drawTextCentered(img, score, cx, y+250, 3, white)
}

func rivalColor(m *game.Match, name string) game.RGB {
	for _, rv := range m.Rivals {
		if rv.Name == name {
			return rv.Color
		}
	}
	return white
}
