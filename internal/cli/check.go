package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run a single deadline monitor pass and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := o.load()
			if err != nil {
				return err
			}
			defer logger.Sync()

			c, err := newComponents(cfg, logger, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			n := c.monitor.RunOnce(cmd.Context())
			c.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "%d notification(s) fired\n", n)
			return nil
		},
	}
}
