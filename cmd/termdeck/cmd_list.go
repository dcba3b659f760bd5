package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/termdeck/termdeck/internal/preset"
	"github.com/termdeck/termdeck/internal/process"
)

// listCmd prints the registry with current liveness.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered agent processes",
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.log.Sync()

	records := a.registry.List()
	if len(records) == 0 {
		fmt.Println("no registered processes")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PID\tSESSION\tPRESET\tIDX\tCWD\tSTATUS\tALIVE")
	for _, rec := range records {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%s\t%v\n",
			rec.PID, rec.SessionID, rec.PresetName, rec.InstanceIndex,
			rec.Cwd, rec.Status, process.Alive(rec.PID))
	}
	return w.Flush()
}

// presetsCmd prints the loaded presets.
var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List configured presets",
	RunE:  runPresets,
}

func runPresets(cmd *cobra.Command, args []string) error {
	presets, err := preset.Load()
	if err != nil {
		return err
	}

	all := presets.All()
	if len(all) == 0 {
		fmt.Printf("no presets defined; edit %s\n", presets.Path())
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSHORTCUT\tCWD\tINSTANCES")
	for _, p := range all {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", p.Name, p.Shortcut, p.Cwd, p.Instances)
	}
	return w.Flush()
}
