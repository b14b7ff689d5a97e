package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/workshop-hub/internal/database"
	"github.com/Shivanand-hulikatti/workshop-hub/internal/seed"
)

var seedReset bool

// seedCmd loads the sample workshop
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the sample cardiology workshop",
	Long: `Insert the sample "Cardiology Workshop 2024" event with three sessions
of six topics each.

Examples:
  workshophub seed            # Add the sample event
  workshophub seed --reset    # Delete all data first`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		ctx := cmd.Context()
		a, err := openApp(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer a.Close()

		if seedReset {
			if err := database.Truncate(ctx, a.pool); err != nil {
				return fmt.Errorf("reset: %w", err)
			}
			log.Info("existing data removed")
		}

		event, err := seed.Load(ctx, a.eventSvc, seed.Cardiology)
		if err != nil {
			return err
		}
		log.Info("seeded sample workshop",
			zap.String("event_id", event.ID),
			zap.String("event_uuid", event.UUID),
			zap.Int("slots", len(seed.Cardiology.Slots)),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().BoolVar(&seedReset, "reset", false, "Delete all events, slots, topics and registrations first")
}
