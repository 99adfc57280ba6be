package cmd

import (
	"github.com/spf13/cobra"

	"github.com/circdesk/circdesk/internal/config"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the circulation tables if they do not exist",
		Long: `Creates the book inventory and the user roles tables in the configured
database. Existing tables are left untouched and no rows are seeded:
inventory and user accounts are provisioned outside of circdesk.`,
		Example: `  # Create the tables in the configured database
  circdesk migrate

  # Create the tables through the database/sql adapter instead
  CIRCDESK_DB_ADAPTER=sql.db circdesk migrate`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, cfgErr := config.Load()
			if cfgErr != nil {
				return cfgErr
			}

			logger := newLogger(cfg)

			gateway, cleanup, gatewayErr := openGateway(cmd.Context(), cfg, logger)
			if gatewayErr != nil {
				return gatewayErr
			}
			defer cleanup()

			if pingErr := gateway.Ping(cmd.Context()); pingErr != nil {
				return pingErr
			}

			return gateway.CreateSchema(cmd.Context())
		},
	}
}
