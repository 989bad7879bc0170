package cli

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/rajivsinclair/intentd/internal/core/domain"
	"github.com/rajivsinclair/intentd/internal/logger"
)

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Run as a session-stop hook",
	Long: `Reads a hook event as JSON from stdin and, for Stop and SubagentStop
events, tracks the current intent from the referenced transcript.

The command always exits 0: a hook must never break the session it is
observing. On success the boundary marker line is printed to stdout so
it lands in the transcript for the next run's boundary detection.
Nothing else is ever written to stdout.`,
	RunE: runHook,
}

func init() {
	rootCmd.AddCommand(hookCmd)
}

func runHook(cmd *cobra.Command, _ []string) error {
	if intentService == nil {
		return nil
	}

	var event domain.HookEvent
	if err := json.NewDecoder(cmd.InOrStdin()).Decode(&event); err != nil {
		logger.Debug("hook: undecodable event: %v", err)
		return nil
	}

	if !event.ShouldTrack() {
		logger.Debug("hook: ignoring event %q", event.Name)
		return nil
	}

	if event.TranscriptPath == "" {
		logger.Debug("hook: event carries no transcript path")
		return nil
	}
	if _, err := os.Stat(event.TranscriptPath); err != nil {
		logger.Debug("hook: transcript not readable: %v", err)
		return nil
	}

	result, err := intentService.Track(cmd.Context(), event.TranscriptPath)
	if err != nil {
		logger.Debug("hook: tracking skipped: %v", err)
		return nil
	}

	cmd.Println(result.Marker)
	return nil
}
