package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmeshcher/petcare/internal/backup"
)

func newBackupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export or import a pet backup file",
	}

	cmd.AddCommand(newBackupExportCmd(), newBackupImportCmd())
	return cmd
}

func newBackupExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write the pet to a backup file",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("file is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			snap, err := svc.BackupSnapshot(ctx)
			if err != nil {
				return err
			}
			if err := backup.WriteFile(args[0], snap); err != nil {
				return fmt.Errorf("write backup: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", snap.Pet.Name, args[0])
			return nil
		},
	}
}

func newBackupImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the pet with the contents of a backup file",
		Long: `Replace the pet with the contents of a backup file.

The pet and the daily bonus streak are replaced. Achievement progress,
daily activities and the transaction history are kept.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("file is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := backup.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read backup: %w", err)
			}

			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			p, err := svc.RestoreSnapshot(ctx, snap)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s the %s (level %d)\n", p.Name, p.Species, p.Level)
			return nil
		},
	}
}
