package notify

import (
	"github.com/hamed0406/heartbeat/internal/domain"
)

// Event describes one completed execution whose status was recorded.
type Event struct {
	RunID    string
	Check    string
	Kind     domain.Kind
	Status   domain.Status
	Previous *domain.Status // nil on the first completion
}

// Changed reports whether the up/down state flipped. The first completion
// counts as a change.
func (e Event) Changed() bool {
	return e.Previous == nil || e.Previous.Up != e.Status.Up
}

// Sink consumes completed executions. Observe runs on the execution
// goroutine and must not block.
type Sink interface {
	Observe(e Event)
}

type Multi []Sink

func (m Multi) Observe(e Event) {
	for _, s := range m {
		if s == nil {
			continue
		}
		s.Observe(e)
	}
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

func (f SinkFunc) Observe(e Event) { f(e) }
