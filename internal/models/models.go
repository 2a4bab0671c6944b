package models

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

// VideoJob is one queued render run. Workers claim jobs atomically and walk
// them through pending -> processing -> completed/failed.
type VideoJob struct {
	ID          int            `db:"id" json:"id"`
	RunID       string         `db:"run_id" json:"run_id"`
	Status      string         `db:"status" json:"status"`
	Stage       string         `db:"stage" json:"stage"`
	Category    sql.NullString `db:"category" json:"category,omitempty"`
	Seed        int64          `db:"seed" json:"seed"`
	OutputPath  sql.NullString `db:"output_path" json:"output_path,omitempty"`
	Error       sql.NullString `db:"error" json:"error,omitempty"`
	Attempts    int            `db:"attempts" json:"attempts"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	StartedAt   sql.NullTime   `db:"started_at" json:"started_at,omitempty"`
	CompletedAt sql.NullTime   `db:"completed_at" json:"completed_at,omitempty"`
}

// Job statuses.
const (
	JobPending    = "pending"
	JobProcessing = "processing"
	JobCompleted  = "completed"
	JobFailed     = "failed"
)

// MatchRecord is the persisted result of one simulated match.
type MatchRecord struct {
	ID          int            `db:"id" json:"id"`
	JobID       sql.NullInt64  `db:"job_id" json:"job_id,omitempty"`
	Category    string         `db:"category" json:"category"`
	RivalA      string         `db:"rival_a" json:"rival_a"`
	RivalB      string         `db:"rival_b" json:"rival_b"`
	Seed        int64          `db:"seed" json:"seed"`
	ScoreA      int            `db:"score_a" json:"score_a"`
	ScoreB      int            `db:"score_b" json:"score_b"`
	Champion    sql.NullString `db:"champion" json:"champion,omitempty"`
	RoundsRun   int            `db:"rounds_run" json:"rounds_run"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	CompletedAt sql.NullTime   `db:"completed_at" json:"completed_at,omitempty"`
}

// MatchRoundRecord stores one round's outcome and its full event log as JSON.
type MatchRoundRecord struct {
	ID        int            `db:"id" json:"id"`
	MatchID   int            `db:"match_id" json:"match_id"`
	RoundIdx  int            `db:"round_idx" json:"round_idx"`
	Winner    sql.NullString `db:"winner" json:"winner,omitempty"`
	Draw      bool           `db:"draw" json:"draw"`
	Steps     int            `db:"steps" json:"steps"`
	Duration  float64        `db:"duration_sec" json:"duration_sec"`
	EventLog  []byte         `db:"event_log" json:"event_log"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

// RuntimeConfig is a tunable stored in the database so operators can adjust
// pipeline behavior without redeploying.
type RuntimeConfig struct {
	Key         string    `db:"key" json:"key"`
	Value       string    `db:"value" json:"value"`
	ValueType   string    `db:"value_type" json:"value_type"`
	Description string    `db:"description" json:"description"`
	UpdatedBy   string    `db:"updated_by" json:"updated_by"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// AdminAccount is an operator allowed to drive the job API. Operators log
// in with a username and an access token stored as a bcrypt hash.
type AdminAccount struct {
	Username    string         `db:"username" json:"username"`
	DisplayName string         `db:"display_name" json:"display_name"`
	TokenHash   string         `db:"token_hash" json:"-"`
	Roles       pq.StringArray `db:"roles" json:"roles"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// AdminAudit is one line of the admin action log.
type AdminAudit struct {
	ID        int       `db:"id" json:"id"`
	AdminUser string    `db:"admin_user" json:"admin_user"`
	IP        string    `db:"ip" json:"ip"`
	Route     string    `db:"route" json:"route"`
	Action    string    `db:"action" json:"action"`
	Details   []byte    `db:"details" json:"details"`
	Success   bool      `db:"success" json:"success"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
