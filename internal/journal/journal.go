package journal

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Status summarizes how a run ended.
type Status string

const (
	StatusOK      Status = "ok"
	StatusPartial Status = "partial"
	StatusFailed  Status = "failed"
)

// Item is one recorded step of a run.
type Item struct {
	Collection string
	Action     string
	RemoteID   string
	Detail     string
	Error      string
}

// Failed reports whether the step recorded an error.
func (i Item) Failed() bool {
	return i.Error != ""
}

// Run is one invocation of a mutating command.
type Run struct {
	ID         uuid.UUID
	Command    string
	BackendURL string
	StartedAt  time.Time
	FinishedAt time.Time
	Status     Status
	Error      string
	Items      []Item
}

// NewRun starts a run with a fresh identifier.
func NewRun(command, backendURL string, startedAt time.Time) Run {
	return Run{
		ID:         uuid.New(),
		Command:    command,
		BackendURL: backendURL,
		StartedAt:  startedAt,
	}
}

// Finish stamps the end time and derives the status from err and the items:
// a run-level error fails the run, item failures make it partial.
func (r *Run) Finish(at time.Time, items []Item, err error) {
	r.FinishedAt = at
	r.Items = items
	r.Status = StatusOK
	for _, it := range items {
		if it.Failed() {
			r.Status = StatusPartial
			break
		}
	}
	if err != nil {
		r.Status = StatusFailed
		r.Error = err.Error()
	}
}

// Failures counts failed items.
func (r Run) Failures() int {
	n := 0
	for _, it := range r.Items {
		if it.Failed() {
			n++
		}
	}
	return n
}

// Journal stores runs.
type Journal interface {
	Record(ctx context.Context, run Run) error
	// Recent returns up to limit runs, newest first.
	Recent(ctx context.Context, limit int) ([]Run, error)
	Close() error
}

// Nop is a Journal that keeps nothing.
type Nop struct{}

func (Nop) Record(context.Context, Run) error { return nil }

func (Nop) Recent(context.Context, int) ([]Run, error) { return nil, nil }

func (Nop) Close() error { return nil }
