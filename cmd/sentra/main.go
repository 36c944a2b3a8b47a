package main

import (
	"os"

	"github.com/spf13/cobra"

	"sentra/internal/interfaces/cli/migrate"
	"sentra/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sentra",
		Short: "Sentra - authorization service",
		Long:  `Sentra resolves role-based, branch-scoped permissions and serves them over HTTP.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
