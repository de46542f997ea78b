package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hamed0406/heartbeat/internal/repo"
)

// Scheduler dispatches every check whenever it becomes due. Executions run
// on their own goroutines; the loop never waits for them.
type Scheduler struct {
	Logger *zap.Logger
	Checks repo.CheckStore
	Exec   *Executor

	sem chan struct{} // nil when concurrency is unbounded
	wg  sync.WaitGroup
	now func() time.Time
}

// New returns a scheduler. concurrency caps how many probes run at once;
// 0 or less means no cap.
func New(logger *zap.Logger, checks repo.CheckStore, exec *Executor, concurrency int) *Scheduler {
	s := &Scheduler{
		Logger: logger,
		Checks: checks,
		Exec:   exec,
		now:    time.Now,
	}
	if concurrency > 0 {
		s.sem = make(chan struct{}, concurrency)
	}
	return s
}

// Run drives the loop until ctx is cancelled. Between passes it sleeps
// until the earliest next-due time. Use Wait to drain executions that are
// still in flight when Run returns.
func (s *Scheduler) Run(ctx context.Context) {
	s.Logger.Info("scheduler_started", zap.Int("checks", len(s.Checks.Snapshot())))

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.Logger.Info("scheduler_stopped")
			return
		case <-timer.C:
		}

		wait := s.Tick(ctx, s.now())
		if wait < 0 {
			// nothing to schedule
			<-ctx.Done()
			s.Logger.Info("scheduler_stopped")
			return
		}
		timer.Reset(wait)
	}
}

// Tick performs one scheduling pass at now. Every due check gets last_run
// set to now before its execution is dispatched. Tick returns the time until
// the earliest next-due check, or -1 when there are no checks.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) time.Duration {
	wait := time.Duration(-1)
	for _, c := range s.Checks.Snapshot() {
		if c.Due(now) {
			if err := s.Checks.MarkRun(c.Name, now); err != nil {
				s.Logger.Error("check_invariant_violation",
					zap.String("check", c.Name), zap.String("stage", "mark_run"), zap.Error(err))
				continue
			}
			c.LastRun = now
			s.dispatch(ctx, Run{ID: uuid.NewString(), Check: c.Name, DispatchedAt: now})
		}

		d := c.NextDue().Sub(now)
		if d < 0 {
			d = 0
		}
		if wait < 0 || d < wait {
			wait = d
		}
	}
	return wait
}

func (s *Scheduler) dispatch(ctx context.Context, run Run) {
	s.Logger.Debug("check_dispatched", zap.String("check", run.Check), zap.String("run_id", run.ID))

	// In-flight probes finish under their own timeout even after shutdown
	// starts, so the last status they record is a real outcome.
	ectx := context.WithoutCancel(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if s.sem != nil {
			select {
			case s.sem <- struct{}{}:
				defer func() { <-s.sem }()
			case <-ctx.Done():
				s.Logger.Debug("check_dispatch_dropped", zap.String("check", run.Check), zap.String("run_id", run.ID))
				return
			}
		}
		_, _ = s.Exec.Execute(ectx, run)
	}()
}

// Wait blocks until all dispatched executions finish or ctx is done.
func (s *Scheduler) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
