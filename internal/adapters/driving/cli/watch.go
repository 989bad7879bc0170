package cli

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/rajivsinclair/intentd/internal/adapters/driving/watch"
)

var (
	watchTranscript string
	watchQuietGap   time.Duration
	watchInterval   time.Duration
	watchSchedule   string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch a transcript and keep the intent fresh",
	Long: `Observes the transcript file and reruns intent tracking whenever it
has been quiet for a while. Runs until interrupted.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchTranscript, "transcript", "t", "", "path to the session transcript (required)")
	watchCmd.Flags().DurationVar(&watchQuietGap, "quiet", watch.DefaultQuietGap, "how long the transcript must be idle before a pass")
	watchCmd.Flags().DurationVar(&watchInterval, "min-interval", watch.DefaultMinInterval, "minimum spacing between passes")
	watchCmd.Flags().StringVar(&watchSchedule, "schedule", "", "optional cron expression for periodic refreshes")
	_ = watchCmd.MarkFlagRequired("transcript")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if intentService == nil {
		return errors.New("intent service not configured")
	}

	w, err := watch.New(intentService, watch.Config{
		TranscriptPath: watchTranscript,
		QuietGap:       watchQuietGap,
		MinInterval:    watchInterval,
		Schedule:       watchSchedule,
	})
	if err != nil {
		return err
	}

	cmd.Printf("Watching %s (ctrl-c to stop)\n", watchTranscript)
	return w.Run(cmd.Context())
}
