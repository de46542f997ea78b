package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/heartbeat/internal/domain"
	"github.com/hamed0406/heartbeat/internal/notify"
	"github.com/hamed0406/heartbeat/internal/probe"
	"github.com/hamed0406/heartbeat/internal/repo"
)

// Run identifies one dispatch of a check.
type Run struct {
	ID           string
	Check        string
	DispatchedAt time.Time
}

// Executor runs a single check to completion and records its status.
type Executor struct {
	Logger  *zap.Logger
	Checks  repo.CheckStore
	Prober  probe.Prober
	Sink    notify.Sink
	Timeout time.Duration // used when the check has no timeout of its own

	now func() time.Time
}

func NewExecutor(
	logger *zap.Logger,
	checks repo.CheckStore,
	prober probe.Prober,
	sink notify.Sink,
	timeout time.Duration,
) *Executor {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Executor{
		Logger:  logger,
		Checks:  checks,
		Prober:  prober,
		Sink:    sink,
		Timeout: timeout,
		now:     time.Now,
	}
}

// Execute probes the check named by run and writes the outcome back.
// A failing probe is a recorded outcome, not an error; Execute only
// returns an error when the check is missing from the store.
func (e *Executor) Execute(ctx context.Context, run Run) (domain.Status, error) {
	chk, err := e.Checks.Lookup(run.Check)
	if err != nil {
		e.invariant(run, "lookup", err)
		return domain.Status{}, err
	}

	timeout := chk.Timeout
	if timeout <= 0 {
		timeout = e.Timeout
	}
	pctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	perr := e.Prober.Probe(pctx, chk.Kind)
	elapsed := time.Since(start)

	st := domain.Success(elapsed)
	if perr != nil {
		reason := perr.Error()
		if errors.Is(pctx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			reason = fmt.Sprintf("timed out after %s: %s", timeout, reason)
		}
		st = domain.Fail(elapsed, reason)
	}
	st.CheckedAt = e.now().UTC()

	prev, applied, err := e.Checks.Record(run.Check, run.DispatchedAt, st)
	if err != nil {
		e.invariant(run, "record", err)
		return st, err
	}

	fields := []zap.Field{
		zap.String("check", run.Check),
		zap.String("run_id", run.ID),
		zap.String("type", string(chk.Kind.Type)),
		zap.String("target", chk.Kind.Target()),
		zap.Bool("up", st.Up),
		zap.Duration("elapsed", st.Elapsed),
	}
	if !st.Up {
		fields = append(fields, zap.String("reason", st.Reason))
	}
	if !applied {
		// A later dispatch already finished; keep its status.
		e.Logger.Debug("check_result_stale", append(fields, zap.Time("dispatched_at", run.DispatchedAt))...)
		return st, nil
	}
	e.Logger.Info("check_completed", fields...)

	ev := notify.Event{RunID: run.ID, Check: run.Check, Kind: chk.Kind, Status: st, Previous: prev}
	if prev != nil && ev.Changed() {
		if st.Up {
			e.Logger.Info("check_state_changed", zap.String("check", run.Check), zap.String("state", "up"))
		} else {
			e.Logger.Warn("check_state_changed", zap.String("check", run.Check), zap.String("state", "down"),
				zap.String("reason", st.Reason))
		}
	}
	if e.Sink != nil {
		e.Sink.Observe(ev)
	}
	return st, nil
}

func (e *Executor) invariant(run Run, stage string, err error) {
	e.Logger.Error("check_invariant_violation",
		zap.String("check", run.Check),
		zap.String("run_id", run.ID),
		zap.String("stage", stage),
		zap.Error(err),
	)
}
