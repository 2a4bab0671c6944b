// Package textures fetches and caches the circular marble skins. Remote
// images are scaled to the marble diameter, cropped to a circle, and cached
// on disk so re-renders never refetch.
package textures

import (
	"context"
	"crypto/md5"
	"fmt"
	"image"
	"image/png"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	xdraw "golang.org/x/image/draw"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/marbleduel/backend/internal/game"
)

// Manager loads textures through a disk cache.
type Manager struct {
	cacheDir   string
	httpClient *http.Client
}

func NewManager(cacheDir string) *Manager {
	return &Manager{
		cacheDir:   cacheDir,
		httpClient: &http.Client{Timeout: 20 * time.Second},
	}
}

// cacheKey mixes name and diameter so resizing the arena invalidates skins.
func cacheKey(name string, diameter int) string {
	return fmt.Sprintf("%x.png", md5.Sum([]byte(fmt.Sprintf("%s_%d", name, diameter))))
}

// Load returns the circular texture for a rival. Cache first, then the
// rival's image URL, then a flat disc in the rival's color. A failed fetch
// never fails the render.
func (m *Manager) Load(ctx context.Context, rival game.Rival, imageURL string, diameter int) *image.RGBA {
	if err := os.MkdirAll(m.cacheDir, 0o755); err != nil {
		log.Printf("[textures] Cache dir unavailable: %v", err)
		return FallbackDisc(rival.Color, diameter)
	}

	path := filepath.Join(m.cacheDir, cacheKey(rival.Name, diameter))
	if tex, err := loadPNG(path); err == nil {
		return tex
	}

	if imageURL != "" {
		if img, err := m.fetch(ctx, imageURL); err == nil {
			tex := Circularize(img, diameter)
			if err := savePNG(path, tex); err != nil {
				log.Printf("[textures] Cache write failed for %s: %v", rival.Name, err)
			}
			return tex
		} else {
			log.Printf("[textures] Fetch failed for %s: %v", rival.Name, err)
		}
	}

	return FallbackDisc(rival.Color, diameter)
}

func (m *Manager) fetch(ctx context.Context, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("textures: get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("textures: get %s: status %d", url, resp.StatusCode)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("textures: decode %s: %w", url, err)
	}
	return img, nil
}

// Circularize scales the source to cover a diameter-sized square and makes
// every pixel outside the inscribed circle transparent.
func Circularize(src image.Image, diameter int) *image.RGBA {
	scaled := image.NewRGBA(image.Rect(0, 0, diameter, diameter))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), src, coverRect(src.Bounds(), diameter), xdraw.Src, nil)

	r := float64(diameter) / 2
	r2 := r * r
	for y := 0; y < diameter; y++ {
		dy := float64(y) + 0.5 - r
		for x := 0; x < diameter; x++ {
			dx := float64(x) + 0.5 - r
			if dx*dx+dy*dy > r2 {
				i := scaled.PixOffset(x, y)
				scaled.Pix[i] = 0
				scaled.Pix[i+1] = 0
				scaled.Pix[i+2] = 0
				scaled.Pix[i+3] = 0
			}
		}
	}
	return scaled
}

// coverRect picks the centered square region of src so the scale fills the
// target without distortion.
func coverRect(b image.Rectangle, diameter int) image.Rectangle {
	w, h := b.Dx(), b.Dy()
	side := w
	if h < side {
		side = h
	}
	x0 := b.Min.X + (w-side)/2
	y0 := b.Min.Y + (h-side)/2
	return image.Rect(x0, y0, x0+side, y0+side)
}

// FallbackDisc is a flat circle in the rival's color, used when no image
// can be fetched.
func FallbackDisc(c game.RGB, diameter int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, diameter, diameter))
	r := float64(diameter) / 2
	r2 := r * r
	for y := 0; y < diameter; y++ {
		dy := float64(y) + 0.5 - r
		for x := 0; x < diameter; x++ {
			dx := float64(x) + 0.5 - r
			if dx*dx+dy*dy <= r2 {
				i := img.PixOffset(x, y)
				img.Pix[i] = c[0]
				img.Pix[i+1] = c[1]
				img.Pix[i+2] = c[2]
				img.Pix[i+3] = 255
			}
		}
	}
	return img
}

func loadPNG(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, err
	}
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba, nil
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	xdraw.Draw(rgba, b, img, b.Min, xdraw.Src)
	return rgba, nil
}

func savePNG(path string, img *image.RGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
