// Package cli provides the command-line interface adapter.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/rajivsinclair/intentd/internal/core/ports/driving"
	"github.com/rajivsinclair/intentd/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// verbose enables debug logging on stderr.
var verbose bool

// intentService is injected by the composition root before Execute.
var intentService driving.IntentService

var rootCmd = &cobra.Command{
	Use:   "intentd",
	Short: "Distil assistant work sessions into a current-intent line",
	Long: `intentd reads an assistant session transcript, distils the recent
work into a compact context, and keeps a one-line description of the
current intent in the repository's .git directory.

It is designed to run as a session-stop hook, but can also be invoked
manually or left watching a transcript.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging on stderr")
}

// SetIntentService injects the intent service implementation.
func SetIntentService(svc driving.IntentService) {
	intentService = svc
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
