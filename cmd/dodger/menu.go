package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/space-dodger/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the game with the interactive menu",
	Long: `Start the game in interactive menu mode.

Type your name, pick a mode with the arrow keys or j/k and press Enter.
After a run ends, press B to return to the menu or R to play again.

Controls:
  Up/Down/j/k  - Navigate menu
  Tab          - Edit name
  Enter/Space  - Select
  Q            - Quit

Examples:
  dodger menu
  dodger menu --store history
  dodger menu --lat 48.85 --lng 2.35`,
	RunE: runMenu,
}

func runMenu(cmd *cobra.Command, _ []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.cleanup()

	width, height := terminalSize()
	return tui.Run(s.env, os.Getenv("USER"), width, height)
}
