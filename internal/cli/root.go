package cli

import (
	"github.com/spf13/cobra"

	"github.com/hamed0406/heartbeat/internal/config"
	"github.com/hamed0406/heartbeat/internal/probe"
)

// NewRootCmd wires the cobra root command. Without a subcommand it runs the
// monitor.
func NewRootCmd() *cobra.Command {
	var checksPath string

	loadConfig := func() config.Config {
		cfg := config.FromEnv()
		if checksPath != "" {
			cfg.ChecksPath = checksPath
		}
		return cfg
	}

	runCmd := newRunCommand(loadConfig)
	root := &cobra.Command{
		Use:           "heartbeat",
		Short:         "Periodic availability checks for HTTP, TCP, ICMP and more",
		Args:          cobra.NoArgs,
		RunE:          runCmd.RunE,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&checksPath, "config", "c", "", "checks file (overrides CONFIG_PATH)")

	root.AddCommand(runCmd)
	root.AddCommand(newValidateCommand(loadConfig))
	root.AddCommand(newProbeCommand(loadConfig))
	return root
}

// newProber builds the probe set, wrapped with retries when configured.
func newProber(cfg config.Config) probe.Prober {
	set := probe.NewSet()
	if cfg.RetryAttempts > 1 {
		return &probe.RetryProber{Inner: set, Attempts: cfg.RetryAttempts, Backoff: cfg.RetryBackoff}
	}
	return set
}
