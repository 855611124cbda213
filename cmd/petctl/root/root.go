// Package root содержит команды утилиты petctl.
package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const Version = "0.1.0"

type globalFlags struct {
	databaseURI string
	balanceFile string
	cloudURL    string
	cloudToken  string
	verbose     bool
}

var flags globalFlags

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "petctl",
		Short:         "Maintenance tool for petcare state",
		Long:          "petctl inspects, backs up, restores, migrates and resets the stored state of a petcare pet.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.databaseURI, "db", "d", envOr("DATABASE_URI", "sqlite://petcare.db"), "storage URI (postgres://..., sqlite://path)")
	pf.StringVarP(&flags.balanceFile, "balance", "b", os.Getenv("BALANCE_FILE"), "path to YAML balance file")
	pf.StringVar(&flags.cloudURL, "cloud", os.Getenv("CLOUD_SYNC_ADDRESS"), "cloud sync service address")
	pf.StringVar(&flags.cloudToken, "cloud-token", os.Getenv("CLOUD_SYNC_TOKEN"), "cloud sync bearer token")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "log storage and service activity")

	cmd.AddCommand(
		newStatusCmd(),
		newBackupCmd(),
		newRestoreCmd(),
		newSyncCmd(),
		newMigrateCmd(),
		newResetCmd(),
	)
	return cmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error: "+err.Error())
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
