// Package cli wires configuration, logging and the service layers into the
// workshophub command.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/workshop-hub/internal/config"
	"github.com/Shivanand-hulikatti/workshop-hub/internal/logging"
)

var (
	// Global flags
	logLevel string
	logDev   bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "workshophub",
	Short: "Workshop Hub - event and workshop registration service",
	Long: `Workshop Hub lets attendees pick one topic per time slot of a workshop
event, enforces per-topic capacity, and emails a registration summary.

Configuration is read from environment variables (PORT, DATABASE_URL,
SMTP_HOST, REDIS_ADDR, ...); flags override them.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides LOG_LEVEL")
	rootCmd.PersistentFlags().BoolVar(&logDev, "log-dev", false, "Human-readable console logs; overrides LOG_DEV")
}

// setup loads configuration, applies flag overrides and builds the logger.
func setup(cmd *cobra.Command) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	applyFlags(cmd, cfg)

	log, err := logging.New(cfg.Log.Level, cfg.Log.Dev)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("log-dev") {
		cfg.Log.Dev = logDev
	}
	if flags.Lookup("port") != nil && flags.Changed("port") {
		cfg.Server.Port = servePort
	}
}
