package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/workshop-hub/internal/database"
)

// migrateCmd applies pending schema migrations
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		pool, err := database.NewPool(cmd.Context(), cfg.Database, log)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer pool.Close()

		applied, err := database.Migrate(cmd.Context(), pool, log)
		if err != nil {
			return err
		}
		log.Info("migrations complete", zap.Strings("applied", applied))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
