package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var modesCmd = &cobra.Command{
	Use:   "modes",
	Short: "List the start modes",
	Long:  `Shows the modes offered by the start menu with their input and tick interval.`,
	RunE:  runModes,
}

func runModes(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Println("Available modes:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, m := range cfg.Modes {
		maxIDLen = max(maxIDLen, len(m.ID))
	}

	// Print header
	fmt.Printf("  %-*s  %-8s  %-8s  %s\n", maxIDLen, "ID", "Input", "Tick", "Title")
	fmt.Printf("  %-*s  %-8s  %-8s  %s\n", maxIDLen, "--", "-----", "----", "-----")

	for _, m := range cfg.Modes {
		fmt.Printf("  %-*s  %-8s  %-8s  %s\n", maxIDLen, m.ID, m.Input, m.Interval(), m.Title)
	}

	fmt.Println()
	fmt.Printf("Board: %d lanes, %d rows, %d lives\n", cfg.Grid.Cols, cfg.Grid.Rows, cfg.Lives)
	fmt.Println("Run 'dodger play --mode <id>' to play a mode.")
	return nil
}
