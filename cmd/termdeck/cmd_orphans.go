package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/termdeck/termdeck/internal/process"
)

// orphansCmd scans the session-state directory once and prints sessions
// the registry does not track.
var orphansCmd = &cobra.Command{
	Use:   "orphans",
	Short: "Show live sessions the registry does not track",
	RunE:  runOrphans,
}

func runOrphans(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.log.Sync()

	states, err := process.ScanSessionStates(a.cfg.Adoption.StateDir)
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", a.cfg.Adoption.StateDir, err)
	}

	orphans := process.ComputeOrphans(states, a.registry.List(), process.ScanSessionProcesses())
	if len(orphans) == 0 {
		fmt.Println("no orphan sessions")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SESSION\tSTATUS\tPID\tCWD")
	for _, o := range orphans {
		pid := "-"
		if o.PID > 0 {
			pid = strconv.Itoa(o.PID)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", o.SessionID, o.Status, pid, o.Cwd)
	}
	return w.Flush()
}

// cleanupCmd removes registry records whose process is gone.
var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove registry records for dead processes",
	RunE:  runCleanup,
}

func runCleanup(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.log.Sync()

	removed, err := a.registry.CleanupDead()
	if err != nil {
		return err
	}

	if len(removed) == 0 {
		fmt.Println("registry is clean")
		return nil
	}
	for _, rec := range removed {
		fmt.Printf("removed pid=%d session=%s\n", rec.PID, rec.SessionID)
	}
	return nil
}
