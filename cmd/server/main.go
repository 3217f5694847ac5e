// Command server runs the drone registry API and its maintenance tasks.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configFile string
	root := &cobra.Command{
		Use:           "registry",
		Short:         "Drone registry API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "path to a registry.yaml config file")
	root.PersistentFlags().String("log_level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().String("database.driver", "memory", "store driver: memory, sqlite, postgres, pgx or mysql")
	root.PersistentFlags().String("database.dsn", "", "database connection string")

	root.AddCommand(
		newServeCommand(&configFile),
		newMigrateCommand(&configFile),
		newSeedCommand(&configFile),
		newIssueTokenCommand(&configFile),
		newRevokeTokenCommand(&configFile),
	)
	return root
}
