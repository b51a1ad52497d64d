package sqlite

import "time"

// Job statuses. A record is created as StatusProcessing at ingress and is
// moved to exactly one terminal status by the pipeline.
const (
	StatusProcessing = "processing"
	StatusComplete   = "complete"
	StatusFailed     = "failed"
)

// MeetingRecord represents one processed (or in-flight) meeting upload
type MeetingRecord struct {
	JobID       string    `json:"job_id"`
	Filename    string    `json:"filename"`
	Status      string    `json:"status"`
	Transcript  string    `json:"transcript"`
	Summary     string    `json:"summary"`
	ActionItems []string  `json:"action_items"`
	Decisions   []string  `json:"decisions"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
