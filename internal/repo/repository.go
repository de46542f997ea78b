package repo

import (
	"errors"
	"time"

	"github.com/hamed0406/heartbeat/internal/domain"
)

// ErrUnknownCheck is returned when a check name is not in the store. Checks
// are never added or removed after startup, so callers treat it as a bug.
var ErrUnknownCheck = errors.New("unknown check")

// CheckStore is the shared registry of checks and their runtime state.
// Every method is atomic with respect to the others on the same check.
type CheckStore interface {
	// Snapshot returns copies of all checks, sorted by name.
	Snapshot() []domain.Check
	Lookup(name string) (domain.Check, error)
	// MarkRun sets last_run. It never moves last_run backwards.
	MarkRun(name string, at time.Time) error
	// Record stores the outcome of the execution dispatched at dispatchedAt.
	// It reports the status it replaced and whether st was applied; outcomes
	// of executions dispatched before the current one are discarded.
	Record(name string, dispatchedAt time.Time, st domain.Status) (prev *domain.Status, applied bool, err error)
}
