package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmeshcher/petcare/internal/service"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Upgrade stored state to the current schema",
		Long: `Upgrade stored state to the current schema.

Opening the store applies database migrations. Loading the state merges
new achievements and daily activities into older saves and re-clamps stats.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := svc.Save(ctx); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "State is at schema version %d\n", service.SchemaVersion)
			return nil
		},
	}
}
