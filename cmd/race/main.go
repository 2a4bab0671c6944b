// Command race runs one match from the command line: headless by default,
// or rendered to an mp4 with -out. No database or Redis required, which
// makes it the quickest way to check tuning, determinism, and the render
// path end to end.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/marbleduel/backend/internal/audio"
	"github.com/marbleduel/backend/internal/effects"
	"github.com/marbleduel/backend/internal/game"
	"github.com/marbleduel/backend/internal/render"
	"github.com/marbleduel/backend/internal/video"
)

func main() {
	var (
		seed   = flag.Int64("seed", 0, "simulation seed (0 = current time)")
		rounds = flag.Int("rounds", 0, "rounds per match (0 = default)")
		nameA  = flag.String("a", "RED", "first rival name")
		nameB  = flag.String("b", "BLUE", "second rival name")
		out    = flag.String("out", "", "render the match to this mp4 (empty = headless)")
	)
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	t := game.DefaultTuning()
	if *rounds > 0 {
		t.Rounds = *rounds
	}

	rivals := [2]game.Rival{
		{Name: *nameA, Color: game.RGB{255, 50, 50}},
		{Name: *nameB, Color: game.RGB{50, 120, 255}},
	}

	m, err := game.NewMatch(t, rivals, *seed)
	if err != nil {
		log.Fatalf("match setup: %v", err)
	}

	if *out == "" {
		m.Run()
	} else {
		if err := renderMatch(m, t, *out); err != nil {
			log.Fatalf("render: %v", err)
		}
	}

	fmt.Printf("seed %d: %s vs %s\n", *seed, rivals[0].Name, rivals[1].Name)
	for _, o := range m.Outcomes {
		result := "draw"
		if o.Winner != "" {
			result = o.Winner
		}
		fmt.Printf("  round %d: %-12s %5d steps  %6.2fs  %4d events\n",
			o.Round+1, result, o.Steps, o.Duration, len(o.Events))
	}
	fmt.Printf("score: %s %d - %d %s\n",
		rivals[0].Name, m.Scores[rivals[0].Name], m.Scores[rivals[1].Name], rivals[1].Name)
	if m.Champion == "" {
		fmt.Println("result: match draw")
	} else {
		fmt.Printf("champion: %s\n", m.Champion)
	}
	if *out != "" {
		fmt.Printf("video: %s\n", *out)
	}
}

// renderMatch drives the show through the renderer and encoder, then bakes
// the effect soundtrack and muxes it on.
func renderMatch(m *game.Match, t game.Tuning, outPath string) error {
	if err := video.Verify(); err != nil {
		return err
	}

	ctx := context.Background()
	director := effects.NewDirector(t, rand.New(rand.NewSource(m.Seed+1)), game.RGB{15, 10, 40})
	show := render.NewShow(m, director)
	renderer := render.NewRenderer(t)

	tmpDir, err := os.MkdirTemp("", "race-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmpDir)

	silent := filepath.Join(tmpDir, "race.mp4")
	enc, err := video.StartEncoder(ctx, t.Width, t.Height, t.FPS, silent)
	if err != nil {
		return err
	}

	frame := renderer.NewFrame()
	for !show.Done() {
		show.Update()
		renderer.Draw(frame, show)
		if err := enc.WriteFrame(frame); err != nil {
			enc.Close()
			return err
		}
	}
	if err := enc.Close(); err != nil {
		return err
	}

	fxPath := filepath.Join(tmpDir, "effects.wav")
	duration := float64(show.FrameCount()) / float64(t.FPS)
	if err := audio.Bake(director.Cues.Cues, duration, fxPath); err != nil {
		return err
	}
	return video.MuxAudio(ctx, silent, fxPath, outPath)
}
