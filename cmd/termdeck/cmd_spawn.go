package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/termdeck/termdeck/internal/preset"
	"github.com/termdeck/termdeck/internal/process"
	"github.com/termdeck/termdeck/internal/shared/validate"
)

var spawnPresetName string

// spawnCmd starts headless agent instances from a preset and records
// them in the registry. Attached (PTY) sessions are spawned by the TUI
// through the terminal package; the CLI only handles the headless path.
var spawnCmd = &cobra.Command{
	Use:   "spawn",
	Short: "Spawn headless agent instances from a preset",
	RunE:  runSpawn,
}

func init() {
	spawnCmd.Flags().StringVarP(&spawnPresetName, "preset", "p", "", "preset name or shortcut")
	spawnCmd.MarkFlagRequired("preset")
}

func runSpawn(cmd *cobra.Command, args []string) error {
	if err := validate.PresetName(spawnPresetName); err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.log.Sync()

	presets, err := preset.Load()
	if err != nil {
		return err
	}

	p, ok := presets.Find(spawnPresetName)
	if !ok {
		return fmt.Errorf("preset not found: %s", spawnPresetName)
	}

	for i := 0; i < p.Instances; i++ {
		handle, err := process.SpawnHeadless(a.cfg.Agent.Executable, p.Cwd, p.AddDirs, p.ExtraArgs)
		if err != nil {
			return err
		}

		if err := a.registry.RegisterSpawn(handle.PID(), handle.SessionID.String(), p.Name, i, p.Cwd, p.AddDirs); err != nil {
			a.log.Warn("spawned but failed to register", zap.Error(err))
		}

		fmt.Printf("spawned %s instance %d: pid=%d session=%s\n", p.Name, i, handle.PID(), handle.SessionID)
	}

	return nil
}
