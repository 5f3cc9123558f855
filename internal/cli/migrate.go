package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	corecmd "github.com/tking/ebookbot/core/cmd"
	coredatabase "github.com/tking/ebookbot/core/database"
	"github.com/tking/ebookbot/core/logger"
	"github.com/tking/ebookbot/internal/app"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply decision journal migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadDatabaseConfig(corecmd.ResolveConfigPath(rootOpts.ConfigPath, ""))
			if err != nil {
				return err
			}
			if !cfg.Database.Enabled() {
				return fmt.Errorf("database is not configured (set DB_HOST or database.host)")
			}
			if err := logger.InitLogger(cfg.CoreConfig()); err != nil {
				return err
			}
			defer logger.Shutdown()

			if err := coredatabase.RunMigrations(cfg.Database); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}
