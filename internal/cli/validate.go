package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hamed0406/heartbeat/internal/config"
)

func newValidateCommand(loadConfig func() config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the checks file and list what would be scheduled",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			checks, err := config.LoadChecks(cfg.ChecksPath)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tTYPE\tINTERVAL\tTARGET")
			for _, c := range checks {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.Name, c.Kind.Type, c.Interval, c.Kind.Target())
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d checks OK\n", cfg.ChecksPath, len(checks))
			return nil
		},
	}
}
