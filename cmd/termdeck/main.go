package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/termdeck/termdeck/internal/infrastructure/config"
	"github.com/termdeck/termdeck/internal/logging"
	"github.com/termdeck/termdeck/internal/process"
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "termdeck",
	Short: "Manage embedded agent terminal sessions",
	Long: `termdeck spawns agent CLI sessions, tracks them in a durable process
registry that survives restarts, and discovers orphan sessions left
running by previous instances.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(spawnCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(orphansCmd)
	rootCmd.AddCommand(cleanupCmd)
	rootCmd.AddCommand(presetsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app bundles the shared wiring every subcommand needs.
type app struct {
	cfg      *config.Config
	log      *logging.Logger
	registry *process.Registry
}

func newApp() (*app, error) {
	cfg := config.LoadOrDefault()

	log, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	registry, err := process.Load(cfg.Registry.Path, log)
	if err != nil {
		// An unreadable registry document is not fatal; start empty
		// and keep going.
		log.Warn("registry load failed, starting empty", zap.Error(err))
	}

	return &app{cfg: cfg, log: log, registry: registry}, nil
}
