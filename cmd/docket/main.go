package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/docket-dev/docket/internal/interfaces/cli/migrate"
	"github.com/docket-dev/docket/internal/interfaces/cli/server"
	"github.com/docket-dev/docket/internal/shared/version"
)

// @title Docket API
// @version 1.0
// @description Ticket activity and timeline engine for user reports and coding agents.
// @BasePath /
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
func main() {
	rootCmd := &cobra.Command{
		Use:     "docket",
		Short:   "Docket - ticket activity and timeline engine",
		Long:    `Docket tracks user reports and agent work on them as an append-only activity log with a status state machine.`,
		Version: version.Current(),
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
