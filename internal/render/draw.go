package render

import (
	"image"
	"image/color"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/marbleduel/backend/internal/game"
)

func rgba(c game.RGB, a uint8) color.RGBA {
	return color.RGBA{c[0], c[1], c[2], a}
}

// scale multiplies each channel by f, saturating at 255.
func scale(c game.RGB, f float64) game.RGB {
	clamp := func(v float64) uint8 {
		if v > 255 {
			return 255
		}
		if v < 0 {
			return 0
		}
		return uint8(v)
	}
	return game.RGB{
		clamp(float64(c[0]) * f),
		clamp(float64(c[1]) * f),
		clamp(float64(c[2]) * f),
	}
}

func fill(img *image.RGBA, c game.RGB) {
	px := rgba(c, 255)
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.SetRGBA(x, y, px)
		}
	}
}

func fillCircle(img *image.RGBA, cx, cy, r float64, c game.RGB) {
	if r < 0.5 {
		return
	}
	px := rgba(c, 255)
	b := img.Bounds()
	minX := clampInt(int(cx-r), b.Min.X, b.Max.X)
	maxX := clampInt(int(cx+r)+1, b.Min.X, b.Max.X)
	minY := clampInt(int(cy-r), b.Min.Y, b.Max.Y)
	maxY := clampInt(int(cy+r)+1, b.Min.Y, b.Max.Y)
	r2 := r * r
	for y := minY; y < maxY; y++ {
		dy := float64(y) + 0.5 - cy
		for x := minX; x < maxX; x++ {
			dx := float64(x) + 0.5 - cx
			if dx*dx+dy*dy <= r2 {
				img.SetRGBA(x, y, px)
			}
		}
	}
}

func circleOutline(img *image.RGBA, cx, cy, r, thickness float64, c game.RGB) {
	drawAnnulus(img, cx, cy, r-thickness, r, c, nil)
}

// drawAnnulus paints the band between inner and outer radius. When skip is
// non-nil, pixels whose polar angle satisfies it are left unpainted; that is
// how ring gaps are cut.
func drawAnnulus(img *image.RGBA, cx, cy, inner, outer float64, c game.RGB, skip func(angleDeg float64) bool) {
	if outer <= 0 || outer <= inner {
		return
	}
	px := rgba(c, 255)
	b := img.Bounds()
	minX := clampInt(int(cx-outer), b.Min.X, b.Max.X)
	maxX := clampInt(int(cx+outer)+1, b.Min.X, b.Max.X)
	minY := clampInt(int(cy-outer), b.Min.Y, b.Max.Y)
	maxY := clampInt(int(cy+outer)+1, b.Min.Y, b.Max.Y)
	in2 := inner * inner
	out2 := outer * outer
	for y := minY; y < maxY; y++ {
		dy := float64(y) + 0.5 - cy
		for x := minX; x < maxX; x++ {
			dx := float64(x) + 0.5 - cx
			d2 := dx*dx + dy*dy
			if d2 < in2 || d2 > out2 {
				continue
			}
			if skip != nil {
				angle := math.Atan2(dy, dx) * 180 / math.Pi
				if angle < 0 {
					angle += 360
				}
				if skip(angle) {
					continue
				}
			}
			img.SetRGBA(x, y, px)
		}
	}
}

// blit alpha-composites src centered at (cx, cy).
func blit(dst *image.RGBA, src *image.RGBA, cx, cy float64) {
	b := src.Bounds()
	off := image.Pt(int(cx)-b.Dx()/2, int(cy)-b.Dy()/2)
	xdraw.Draw(dst, b.Sub(b.Min).Add(off), src, b.Min, xdraw.Over)
}

func drawVLine(img *image.RGBA, x int, c game.RGB) {
	b := img.Bounds()
	if x < b.Min.X || x >= b.Max.X {
		return
	}
	px := rgba(c, 255)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		img.SetRGBA(x, y, px)
	}
}

func drawHLine(img *image.RGBA, y int, c game.RGB) {
	b := img.Bounds()
	if y < b.Min.Y || y >= b.Max.Y {
		return
	}
	px := rgba(c, 255)
	for x := b.Min.X; x < b.Max.X; x++ {
		img.SetRGBA(x, y, px)
	}
}

// blendWhite pushes the whole frame toward white by weight w in [0,1].
func blendWhite(img *image.RGBA, w float64) {
	if w <= 0 {
		return
	}
	if w > 1 {
		w = 1
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := img.PixOffset(x, y)
			for k := 0; k < 3; k++ {
				v := float64(img.Pix[i+k])
				img.Pix[i+k] = uint8(v + (255-v)*w)
			}
		}
	}
}

// textWidth is the pixel width of s in the base bitmap font.
func textWidth(s string) int {
	return len(s) * basicfont.Face7x13.Advance
}

// drawText renders s at the given scale factor using the bitmap face, then
// nearest-neighbor upscales so the chunky pixel look survives.
func drawText(img *image.RGBA, s string, x, y, scaleFactor int, c game.RGB) {
	if s == "" || scaleFactor < 1 {
		return
	}
	face := basicfont.Face7x13
	w := textWidth(s)
	h := face.Height + 2

	layer := image.NewRGBA(image.Rect(0, 0, w, h))
	d := font.Drawer{
		Dst:  layer,
		Src:  image.NewUniform(rgba(c, 255)),
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	d.DrawString(s)

	dst := image.Rect(x, y, x+w*scaleFactor, y+h*scaleFactor)
	xdraw.NearestNeighbor.Scale(img, dst, layer, layer.Bounds(), xdraw.Over, nil)
}

// drawTextCentered centers s horizontally around cx.
func drawTextCentered(img *image.RGBA, s string, cx, y, scaleFactor int, c game.RGB) {
	drawText(img, s, cx-textWidth(s)*scaleFactor/2, y, scaleFactor, c)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
