package history

import "time"

// Status is the outcome of a run.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Run is one journaled operation.
type Run struct {
	ID         string
	Operation  string
	Input      string
	Status     Status
	ErrorKind  string
	Error      string
	Artifact   string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Duration is the wall time the run took.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
