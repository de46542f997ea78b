package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hamed0406/heartbeat/internal/config"
	"github.com/hamed0406/heartbeat/internal/domain"
	"github.com/hamed0406/heartbeat/internal/probe"
	"github.com/hamed0406/heartbeat/internal/repo/memory"
	"github.com/hamed0406/heartbeat/internal/scheduler"
)

func newProbeCommand(loadConfig func() config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "probe <name>",
		Short: "Run one declared check once and print its status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			checks, err := config.LoadChecks(cfg.ChecksPath)
			if err != nil {
				return err
			}
			return probeOnce(cmd, cfg, checks, newProber(cfg), args[0])
		},
	}
}

func probeOnce(cmd *cobra.Command, cfg config.Config, checks []domain.Check, p probe.Prober, name string) error {
	var target *domain.Check
	for i := range checks {
		if checks[i].Name == name {
			target = &checks[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("no check named %q in %s", name, cfg.ChecksPath)
	}

	reg, err := memory.New([]domain.Check{*target})
	if err != nil {
		return err
	}
	now := time.Now()
	if err := reg.MarkRun(name, now); err != nil {
		return err
	}

	exec := scheduler.NewExecutor(zap.NewNop(), reg, p, nil, cfg.ProbeTimeout)
	st, err := exec.Execute(cmd.Context(), scheduler.Run{ID: uuid.NewString(), Check: name, DispatchedAt: now})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", name, target.Kind.Target(), st)
	if !st.Up {
		return fmt.Errorf("check %q is down", name)
	}
	return nil
}
