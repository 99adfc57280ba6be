package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "circdesk",
		Short: "Interactive circulation desk for a small library",
		Long: `Circdesk runs one interactive circulation session against the library
database: log in, list the books, borrow and return them. Every successful
circulation action is appended to the audit trail.`,
		Example: `  # Run a circulation session with the default configuration
  circdesk

  # Point at a different configuration file
  CIRCDESK_CONFIG=staging.yaml circdesk`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCirculationSession(cmd.Context())
		},
	}

	// Add subcommands
	cmd.AddCommand(newMigrateCmd())

	return cmd
}
