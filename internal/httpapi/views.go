package httpapi

import (
	"time"

	"github.com/hamed0406/heartbeat/internal/domain"
)

type statusView struct {
	Up        bool      `json:"up"`
	ElapsedMS float64   `json:"elapsed_ms"`
	Reason    string    `json:"reason,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

type checkView struct {
	Name        string          `json:"name"`
	Type        domain.KindType `json:"type"`
	Target      string          `json:"target"`
	IntervalSec float64         `json:"interval_seconds"`
	LastRun     *time.Time      `json:"last_run"` // null until first dispatch
	Status      *statusView     `json:"status"`   // null until first completion
}

func newStatusView(st domain.Status) *statusView {
	return &statusView{
		Up:        st.Up,
		ElapsedMS: float64(st.Elapsed) / float64(time.Millisecond),
		Reason:    st.Reason,
		CheckedAt: st.CheckedAt,
	}
}

func newCheckView(c domain.Check) checkView {
	v := checkView{
		Name:        c.Name,
		Type:        c.Kind.Type,
		Target:      c.Kind.Target(),
		IntervalSec: c.Interval.Seconds(),
	}
	if !c.LastRun.IsZero() {
		lr := c.LastRun.UTC()
		v.LastRun = &lr
	}
	if c.LastStatus != nil {
		v.Status = newStatusView(*c.LastStatus)
	}
	return v
}
