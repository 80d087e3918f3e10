package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/space-dodger/internal/platform/tui"
	"github.com/vovakirdan/space-dodger/internal/scores"
)

var (
	flagMode string
	flagName string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a mode directly",
	Long: `Start a run in the given mode, skipping the menu.

Controls:
  Left/Right/A/D  - Move one lane (tilt in sensor mode)
  Up/Down/W/S     - Tilt forward/back to speed up or slow down (sensor mode)
  P               - Pause
  M               - Mute
  R               - Restart (after game over)
  B/Esc           - Back to menu (paused or game over)
  Q/Ctrl+C        - Quit

Difficulty options:
  easy   - More lives, gentler ramp, fewer rocks
  normal - Configured values
  hard   - Fewer lives, steeper ramp, more rocks
  fixed  - No speed ramp

Examples:
  dodger play --mode slow --name Ada
  dodger play --mode tilt --difficulty easy
  dodger play --mode fast --layout compact --lat 31.77 --lng 35.21`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagMode, "mode", "slow", "Start mode (see 'dodger modes')")
	playCmd.Flags().StringVar(&flagName, "name", "", "Player name (default: last name used)")
}

func runPlay(cmd *cobra.Command, _ []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.cleanup()

	mode, ok := s.env.Config.Mode(flagMode)
	if !ok {
		return fmt.Errorf("unknown mode %q, run 'dodger modes' to see available modes", flagMode)
	}

	name := strings.TrimSpace(flagName)
	if name == "" {
		name = strings.TrimSpace(s.env.Prefs.GetString("last_name", ""))
	}
	if name == "" {
		return fmt.Errorf("%w: pass --name", scores.ErrNoName)
	}

	width, height := terminalSize()
	return tui.Play(s.env, mode, name, width, height)
}
