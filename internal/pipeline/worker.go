package pipeline

import (
	"context"
	"log"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/marbleduel/backend/internal/config"
	"github.com/marbleduel/backend/internal/jobs"
	"github.com/marbleduel/backend/internal/trends"
)

// StartWorkers launches the render workers. Each polls the job queue on
// its own ticker; the SKIP LOCKED claim keeps them from colliding.
func StartWorkers(ctx context.Context, db *sqlx.DB, cfg *config.Config, selector *trends.Selector) {
	interval := time.Duration(cfg.JobPollSecs) * time.Second
	log.Printf("[WORKER] Starting %d render worker(s) (poll every %v)", cfg.WorkerCount, interval)

	for i := 0; i < cfg.WorkerCount; i++ {
		go runWorker(ctx, i, db, cfg, selector, interval)
	}
}

func runWorker(ctx context.Context, id int, db *sqlx.DB, cfg *config.Config, selector *trends.Selector, interval time.Duration) {
	runner := NewRunner(db, cfg, selector)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("[WORKER] Worker %d stopped", id)
			return
		case <-ticker.C:
			drainQueue(ctx, id, db, runner)
		}
	}
}

// drainQueue claims and runs jobs until the queue is empty, so a burst of
// enqueues does not wait one poll interval per job.
func drainQueue(ctx context.Context, id int, db *sqlx.DB, runner *Runner) {
	for {
		job, err := jobs.Claim(ctx, db)
		if err != nil {
			log.Printf("[WORKER] Worker %d claim failed: %v", id, err)
			return
		}
		if job == nil {
			return
		}

		log.Printf("[WORKER] Worker %d picked up run %s", id, job.RunID)
		if err := runner.Run(ctx, job); err != nil && ctx.Err() != nil {
			return
		}
	}
}
