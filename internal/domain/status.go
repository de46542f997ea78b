package domain

import (
	"fmt"
	"time"
)

// Status is the outcome of one completed execution. Treat it as immutable;
// a newer outcome replaces it wholesale.
type Status struct {
	Up        bool
	Elapsed   time.Duration
	Reason    string // empty when Up
	CheckedAt time.Time
}

func Success(elapsed time.Duration) Status {
	return Status{Up: true, Elapsed: elapsed}
}

func Fail(elapsed time.Duration, reason string) Status {
	return Status{Up: false, Elapsed: elapsed, Reason: reason}
}

func (s Status) String() string {
	if s.Up {
		return fmt.Sprintf("up (%s)", s.Elapsed.Round(time.Microsecond))
	}
	return fmt.Sprintf("down (%s): %s", s.Elapsed.Round(time.Microsecond), s.Reason)
}
