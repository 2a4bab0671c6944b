// Package jobs is the persistence layer for the render queue and match
// results. Workers claim jobs with FOR UPDATE SKIP LOCKED so any number of
// them can poll the same table without stepping on each other.
package jobs

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/marbleduel/backend/internal/game"
	"github.com/marbleduel/backend/internal/models"
)

// Enqueue inserts a pending render job and returns it.
func Enqueue(db *sqlx.DB, seed int64, category string) (*models.VideoJob, error) {
	runID := uuid.NewString()

	var cat sql.NullString
	if category != "" {
		cat = sql.NullString{String: category, Valid: true}
	}

	var job models.VideoJob
	err := db.Get(&job, `
		INSERT INTO video_jobs (run_id, status, stage, category, seed, created_at)
		VALUES ($1, 'pending', 'queued', $2, $3, NOW())
		RETURNING id, run_id, status, stage, category, seed, output_path, error, attempts, created_at, started_at, completed_at
	`, runID, cat, seed)
	if err != nil {
		return nil, fmt.Errorf("jobs: enqueue: %w", err)
	}

	log.Printf("[JOBS] Enqueued run %s (seed=%d)", job.RunID, job.Seed)
	return &job, nil
}

// Claim atomically takes the oldest pending job, marks it processing, and
// returns it. Returns nil with no error when the queue is empty.
func Claim(ctx context.Context, db *sqlx.DB) (*models.VideoJob, error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("jobs: begin claim: %w", err)
	}
	defer tx.Rollback()

	var job models.VideoJob
	err = tx.Get(&job, `
		SELECT id, run_id, status, stage, category, seed, output_path, error, attempts, created_at, started_at, completed_at
		FROM video_jobs
		WHERE status = 'pending'
		ORDER BY created_at
		FOR UPDATE SKIP LOCKED
		LIMIT 1
	`)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("jobs: select pending: %w", err)
	}

	_, err = tx.Exec(`
		UPDATE video_jobs
		SET status = 'processing', stage = 'starting', started_at = NOW(), attempts = attempts + 1
		WHERE id = $1
	`, job.ID)
	if err != nil {
		return nil, fmt.Errorf("jobs: mark processing: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("jobs: commit claim: %w", err)
	}

	job.Status = models.JobProcessing
	log.Printf("[JOBS] Claimed run %s (attempt %d)", job.RunID, job.Attempts+1)
	return &job, nil
}

// SetStage records pipeline progress for the job. Purely informational;
// failures are logged and swallowed.
func SetStage(db *sqlx.DB, jobID int, stage string) {
	if _, err := db.Exec(`UPDATE video_jobs SET stage = $1 WHERE id = $2`, stage, jobID); err != nil {
		log.Printf("[JOBS] Failed to record stage %q for job %d: %v", stage, jobID, err)
	}
}

// Complete marks the job done with its final artifact path.
func Complete(db *sqlx.DB, jobID int, outputPath string) error {
	_, err := db.Exec(`
		UPDATE video_jobs
		SET status = 'completed', stage = 'done', output_path = $1, completed_at = NOW()
		WHERE id = $2
	`, outputPath, jobID)
	if err != nil {
		return fmt.Errorf("jobs: complete %d: %w", jobID, err)
	}
	return nil
}

// Fail marks the job failed with the error text.
func Fail(db *sqlx.DB, jobID int, cause error) error {
	_, err := db.Exec(`
		UPDATE video_jobs
		SET status = 'failed', error = $1, completed_at = NOW()
		WHERE id = $2
	`, cause.Error(), jobID)
	if err != nil {
		return fmt.Errorf("jobs: fail %d: %w", jobID, err)
	}
	return nil
}

// Get fetches one job by run id.
func Get(db *sqlx.DB, runID string) (*models.VideoJob, error) {
	var job models.VideoJob
	err := db.Get(&job, `
		SELECT id, run_id, status, stage, category, seed, output_path, error, attempts, created_at, started_at, completed_at
		FROM video_jobs WHERE run_id = $1
	`, runID)
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// Recent lists the newest jobs.
func Recent(db *sqlx.DB, limit int) ([]models.VideoJob, error) {
	var out []models.VideoJob
	err := db.Select(&out, `
		SELECT id, run_id, status, stage, category, seed, output_path, error, attempts, created_at, started_at, completed_at
		FROM video_jobs ORDER BY created_at DESC LIMIT $1
	`, limit)
	return out, err
}

// RecentMatches lists the newest persisted matches.
func RecentMatches(db *sqlx.DB, limit int) ([]models.MatchRecord, error) {
	var out []models.MatchRecord
	err := db.Select(&out, `
		SELECT id, job_id, category, rival_a, rival_b, seed, score_a, score_b, champion, rounds_run, created_at, completed_at
		FROM matches ORDER BY created_at DESC LIMIT $1
	`, limit)
	return out, err
}

// MatchRounds returns the per-round records for one match, oldest first.
func MatchRounds(db *sqlx.DB, matchID int) ([]models.MatchRoundRecord, error) {
	var out []models.MatchRoundRecord
	err := db.Select(&out, `
		SELECT id, match_id, round_idx, winner, draw, steps, duration_sec, event_log, created_at
		FROM match_rounds WHERE match_id = $1 ORDER BY round_idx
	`, matchID)
	return out, err
}

// SaveMatch persists a finished match and its rounds, returning the match id.
func SaveMatch(db *sqlx.DB, jobID int, category string, m *game.Match) (int, error) {
	var champion sql.NullString
	if m.Champion != "" {
		champion = sql.NullString{String: m.Champion, Valid: true}
	}

	a, b := m.Rivals[0].Name, m.Rivals[1].Name

	var matchID int
	err := db.QueryRow(`
		INSERT INTO matches (job_id, category, rival_a, rival_b, seed, score_a, score_b, champion, rounds_run, created_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING id
	`, jobID, category, a, b, m.Seed, m.Scores[a], m.Scores[b], champion, m.RoundsPlayed()).Scan(&matchID)
	if err != nil {
		return 0, fmt.Errorf("jobs: save match: %w", err)
	}

	for _, o := range m.Outcomes {
		if err := saveRound(db, matchID, o); err != nil {
			return 0, err
		}
	}

	log.Printf("[JOBS] Saved match %d: %s vs %s, champion=%q", matchID, a, b, m.Champion)
	return matchID, nil
}

func saveRound(db *sqlx.DB, matchID int, o game.Outcome) error {
	events, err := json.Marshal(o.Events)
	if err != nil {
		return fmt.Errorf("jobs: marshal round %d events: %w", o.Round, err)
	}

	var winner sql.NullString
	if o.Winner != "" {
		winner = sql.NullString{String: o.Winner, Valid: true}
	}

	_, err = db.Exec(`
		INSERT INTO match_rounds (match_id, round_idx, winner, draw, steps, duration_sec, event_log, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`, matchID, o.Round, winner, o.Draw, o.Steps, o.Duration, events)
	if err != nil {
		return fmt.Errorf("jobs: save round %d: %w", o.Round, err)
	}
	return nil
}
