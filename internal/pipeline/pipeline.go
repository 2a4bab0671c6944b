// Package pipeline turns a claimed job into a finished short: pick a
// matchup, write a script, synthesize narration, simulate and render the
// match, bake audio, and assemble the final video with ffmpeg.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/marbleduel/backend/internal/audio"
	"github.com/marbleduel/backend/internal/config"
	"github.com/marbleduel/backend/internal/effects"
	"github.com/marbleduel/backend/internal/game"
	"github.com/marbleduel/backend/internal/jobs"
	"github.com/marbleduel/backend/internal/models"
	"github.com/marbleduel/backend/internal/narration"
	"github.com/marbleduel/backend/internal/render"
	"github.com/marbleduel/backend/internal/story"
	"github.com/marbleduel/backend/internal/subtitles"
	"github.com/marbleduel/backend/internal/textures"
	"github.com/marbleduel/backend/internal/trends"
	"github.com/marbleduel/backend/internal/video"
	"github.com/marbleduel/backend/internal/ws"
)

// arenaBase is the deep indigo the whole presentation is built on.
var arenaBase = game.RGB{15, 10, 40}

// Runner executes the full render pipeline for one job at a time.
type Runner struct {
	db       *sqlx.DB
	cfg      *config.Config
	selector *trends.Selector
	storyGen *story.Client
	narrator *narration.Generator
	textures *textures.Manager
}

func NewRunner(db *sqlx.DB, cfg *config.Config, selector *trends.Selector) *Runner {
	return &Runner{
		db:       db,
		cfg:      cfg,
		selector: selector,
		storyGen: story.NewClient(cfg.StoryBaseURL, cfg.StoryAPIKey, cfg.StoryModel),
		narrator: narration.NewGenerator(cfg.TTSCommand, cfg.TTSVoice),
		textures: textures.NewManager(cfg.TextureCache),
	}
}

func (r *Runner) stage(ctx context.Context, job *models.VideoJob, stage string) {
	log.Printf("[PIPELINE] %s: stage %s", job.RunID, stage)
	jobs.SetStage(r.db, job.ID, stage)
	ws.PublishProgress(ctx, ws.ProgressEvent{Type: "stage", RunID: job.RunID, Stage: stage})
}

// Run walks the job through every stage. On failure the job is marked
// failed with the cause and the error is returned.
func (r *Runner) Run(ctx context.Context, job *models.VideoJob) error {
	out, err := r.run(ctx, job)
	if err != nil {
		log.Printf("[PIPELINE] %s: failed: %v", job.RunID, err)
		jobs.Fail(r.db, job.ID, err)
		ws.PublishProgress(ctx, ws.ProgressEvent{Type: "failed", RunID: job.RunID, Message: err.Error()})
		return err
	}

	if err := jobs.Complete(r.db, job.ID, out); err != nil {
		return err
	}
	ws.PublishProgress(ctx, ws.ProgressEvent{Type: "completed", RunID: job.RunID, Stage: "done", Message: out})
	log.Printf("[PIPELINE] %s: completed -> %s", job.RunID, out)
	return nil
}

func (r *Runner) run(ctx context.Context, job *models.VideoJob) (string, error) {
	workDir := filepath.Join(r.cfg.WorkDir, job.RunID)
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return "", fmt.Errorf("pipeline: create work dir: %w", err)
	}

	tuning := r.cfg.GameTuning()

	// Matchup selection. A job enqueued with an explicit category sticks to
	// it by re-picking until the selector lands there, up to a few tries.
	r.stage(ctx, job, "trends")
	matchup, err := r.pickMatchup(ctx, job)
	if err != nil {
		return "", err
	}
	rivalA, rivalB := matchup.Rivals[0], matchup.Rivals[1]

	// Script. The language model is best effort; a template script keeps
	// the pipeline moving when it is down.
	r.stage(ctx, job, "story")
	script, err := r.storyGen.Generate(ctx, rivalA.Name, rivalB.Name, matchup.Category, tuning.Rounds)
	if err != nil {
		log.Printf("[PIPELINE] %s: story model unavailable, using fallback script: %v", job.RunID, err)
		script = story.Fallback(rivalA.Name, rivalB.Name, matchup.Category, tuning.Rounds)
	}

	// Narration and subtitles are optional: TTS failures degrade to a
	// silent-commentary video rather than killing the run.
	r.stage(ctx, job, "narration")
	var narrationPath string
	var subPath string
	lines, err := r.narrator.Generate(ctx, script.Lines(), workDir)
	if err != nil {
		log.Printf("[PIPELINE] %s: narration failed, continuing without: %v", job.RunID, err)
	} else {
		narrationPath = filepath.Join(workDir, "narration.mp3")
		if err := narration.Concat(ctx, lines, narrationPath); err != nil {
			log.Printf("[PIPELINE] %s: narration concat failed: %v", job.RunID, err)
			narrationPath = ""
		}

		r.stage(ctx, job, "subtitles")
		cues := subtitles.FromLines(lines)
		subPath = filepath.Join(workDir, "subtitles.srt")
		if err := subtitles.Write(cues, subPath); err != nil {
			log.Printf("[PIPELINE] %s: subtitle write failed: %v", job.RunID, err)
			subPath = ""
		}
	}

	// Marble skins.
	r.stage(ctx, job, "textures")
	diameter := int(tuning.MarbleRadius() * 2)
	renderer := render.NewRenderer(tuning)
	renderer.SetTexture(rivalA.Name, r.textures.Load(ctx, rivalA, r.textureURL(rivalA), diameter))
	renderer.SetTexture(rivalB.Name, r.textures.Load(ctx, rivalB, r.textureURL(rivalB), diameter))

	// Simulate and render in one pass, streaming raw frames to ffmpeg.
	r.stage(ctx, job, "render")
	match, err := game.NewMatch(tuning, matchup.Rivals, job.Seed)
	if err != nil {
		return "", fmt.Errorf("pipeline: match setup: %w", err)
	}
	director := effects.NewDirector(tuning, rand.New(rand.NewSource(job.Seed+1)), arenaBase)
	show := render.NewShow(match, director)

	racePath := filepath.Join(workDir, "race.mp4")
	enc, err := video.StartEncoder(ctx, tuning.Width, tuning.Height, tuning.FPS, racePath)
	if err != nil {
		return "", err
	}

	frame := renderer.NewFrame()
	for !show.Done() {
		show.Update()
		renderer.Draw(frame, show)
		if err := enc.WriteFrame(frame); err != nil {
			enc.Close()
			return "", err
		}
		if err := ctx.Err(); err != nil {
			enc.Close()
			return "", err
		}
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	log.Printf("[PIPELINE] %s: rendered %d frames, champion=%q", job.RunID, enc.Frames(), match.Champion)

	// Persist the simulation result before the slower assembly steps.
	if _, err := jobs.SaveMatch(r.db, job.ID, matchup.Category, match); err != nil {
		return "", err
	}

	// Procedural sound effects baked against the show clock, then muxed
	// onto the race footage.
	r.stage(ctx, job, "audio")
	showDuration := float64(show.FrameCount()) / float64(tuning.FPS)
	fxPath := filepath.Join(workDir, "effects.wav")
	if err := audio.Bake(director.Cues.Cues, showDuration, fxPath); err != nil {
		return "", err
	}
	withFX := filepath.Join(workDir, "race_fx.mp4")
	if err := video.MuxAudio(ctx, racePath, fxPath, withFX); err != nil {
		return "", err
	}

	final := withFX

	// Split-screen composition with the story pane, narration on top.
	if r.cfg.StoryClipPath != "" {
		r.stage(ctx, job, "compose")
		composed := filepath.Join(workDir, "composed.mp4")
		err := video.ComposeSplitScreen(ctx, video.SplitMode(r.cfg.SplitMode),
			r.cfg.StoryClipPath, final, narrationPath, composed,
			tuning.Width, tuning.Height)
		if err != nil {
			return "", err
		}
		final = composed
	} else if narrationPath != "" {
		// No story pane: lay the narration straight onto the race cut.
		narrated := filepath.Join(workDir, "race_narrated.mp4")
		if err := video.MuxAudio(ctx, final, narrationPath, narrated); err != nil {
			return "", err
		}
		final = narrated
	}

	if r.cfg.SubtitlesBurn && subPath != "" {
		r.stage(ctx, job, "captions")
		subbed := filepath.Join(workDir, "final.mp4")
		if err := video.BurnSubtitles(ctx, final, subPath, subbed); err != nil {
			return "", err
		}
		final = subbed
	}

	return final, nil
}

// pickMatchup asks the trends selector for a duel, retrying a few times
// when the job pins a category.
func (r *Runner) pickMatchup(ctx context.Context, job *models.VideoJob) (trends.Matchup, error) {
	want := ""
	if job.Category.Valid {
		want = job.Category.String
	}

	var last trends.Matchup
	for attempt := 0; attempt < 5; attempt++ {
		m, err := r.selector.Pick(ctx)
		if err != nil {
			return trends.Matchup{}, err
		}
		last = m
		if want == "" || strings.EqualFold(m.Category, want) {
			return m, nil
		}
	}
	log.Printf("[PIPELINE] %s: category %q not drawn, using %q", job.RunID, want, last.Category)
	return last, nil
}

// textureURL expands the configured template with the rival's search query.
func (r *Runner) textureURL(rival game.Rival) string {
	if r.cfg.TextureURLTemplate == "" || rival.Query == "" {
		return ""
	}
	return fmt.Sprintf(r.cfg.TextureURLTemplate, url.QueryEscape(rival.Query))
}
