package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/workshop-hub/internal/export"
	"github.com/Shivanand-hulikatti/workshop-hub/internal/model"
)

var (
	// Export flags
	exportEvent string
	exportOut   string
)

// exportCmd writes registrations as CSV
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export registrations as CSV",
	Long: `Write every registration, or those of one event, as the CSV sheet the
admin dashboard downloads.

Examples:
  workshophub export                          # All events, default file name
  workshophub export --event <id|uuid>        # One event
  workshophub export --out -                  # Write to stdout`,
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

		filter := model.RegistrationFilter{}
		if exportEvent != "" {
			event, err := a.events.Get(ctx, exportEvent)
			if err != nil {
				return fmt.Errorf("event %s: %w", exportEvent, err)
			}
			filter.EventID = event.ID
		}
		regs, err := a.registrations.ListRegistrations(ctx, filter)
		if err != nil {
			return err
		}

		out := exportOut
		if out == "" {
			out = export.Filename(time.Now())
		}
		var w io.Writer = cmd.OutOrStdout()
		if out != "-" {
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			defer f.Close()
			w = f
		}
		if err := export.WriteCSV(w, regs); err != nil {
			return err
		}
		if out != "-" {
			log.Info("export written", zap.String("file", out), zap.Int("rows", len(regs)))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportEvent, "event", "e", "", "Event id or public uuid")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file, or - for stdout (default workshop-registrations-YYYY-MM-DD.csv)")
}
