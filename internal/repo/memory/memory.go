package memory

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/hamed0406/heartbeat/internal/domain"
	"github.com/hamed0406/heartbeat/internal/repo"
)

type entry struct {
	check domain.Check
	// dispatch time of the execution that produced check.LastStatus
	statusFrom time.Time
}

// Registry is the in-process check store. A single mutex guards the map;
// critical sections only copy values and never block on I/O.
type Registry struct {
	mu     sync.RWMutex
	checks map[string]*entry
}

var _ repo.CheckStore = (*Registry)(nil)

// New builds a registry from the declared checks. Names must be unique.
func New(checks []domain.Check) (*Registry, error) {
	r := &Registry{checks: make(map[string]*entry, len(checks))}
	for _, c := range checks {
		if c.Name == "" {
			return nil, fmt.Errorf("check without a name")
		}
		if _, dup := r.checks[c.Name]; dup {
			return nil, fmt.Errorf("duplicate check %q", c.Name)
		}
		r.checks[c.Name] = &entry{check: c}
	}
	return r, nil
}

func (r *Registry) Snapshot() []domain.Check {
	r.mu.RLock()
	out := make([]domain.Check, 0, len(r.checks))
	for _, e := range r.checks {
		out = append(out, e.check)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *Registry) Lookup(name string) (domain.Check, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.checks[name]
	if !ok {
		return domain.Check{}, fmt.Errorf("lookup %q: %w", name, repo.ErrUnknownCheck)
	}
	return e.check, nil
}

func (r *Registry) MarkRun(name string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.checks[name]
	if !ok {
		return fmt.Errorf("mark run %q: %w", name, repo.ErrUnknownCheck)
	}
	if at.After(e.check.LastRun) {
		e.check.LastRun = at
	}
	return nil
}

func (r *Registry) Record(name string, dispatchedAt time.Time, st domain.Status) (*domain.Status, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.checks[name]
	if !ok {
		return nil, false, fmt.Errorf("record %q: %w", name, repo.ErrUnknownCheck)
	}
	prev := e.check.LastStatus
	if prev != nil && dispatchedAt.Before(e.statusFrom) {
		return prev, false, nil
	}
	// Status values are never mutated in place, so sharing the pointer with
	// snapshots handed out earlier is safe.
	s := st
	e.check.LastStatus = &s
	e.statusFrom = dispatchedAt
	return prev, true, nil
}
