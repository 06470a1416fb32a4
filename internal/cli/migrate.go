package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newMigrateCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Rewrite the stored document in the current schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := o.load()
			if err != nil {
				return err
			}
			defer logger.Sync()

			repo, closeRepo, err := openRepository(cfg.Storage, logger)
			if err != nil {
				return err
			}
			if closeRepo != nil {
				defer closeRepo()
			}

			// Read errors are returned here rather than replaced by the
			// default document, so a broken store is never overwritten.
			d, err := repo.Get(cmd.Context())
			if err != nil {
				return err
			}
			if err := repo.Put(cmd.Context(), d); err != nil {
				return err
			}

			logger.Info("document migrated",
				zap.Int("schema_version", d.SchemaVersion),
				zap.Int("reminders", len(d.Reminders)),
				zap.Int("classes", len(d.Classes)))
			fmt.Fprintf(cmd.OutOrStdout(), "document at schema version %d\n", d.SchemaVersion)
			return nil
		},
	}
}
