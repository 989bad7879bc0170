package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rajivsinclair/intentd/internal/core/domain"
)

var generateTranscript string

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate an intent line from a transcript",
	Long: `Runs one tracking pass over the given transcript and prints the
generated intent. Unlike the hook command, failures are reported.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateTranscript, "transcript", "t", "", "path to the session transcript (required)")
	_ = generateCmd.MarkFlagRequired("transcript")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	if intentService == nil {
		return errors.New("intent service not configured")
	}

	result, err := intentService.Track(cmd.Context(), generateTranscript)
	switch {
	case errors.Is(err, domain.ErrTranscriptTooShort):
		return fmt.Errorf("transcript too short to analyse")
	case errors.Is(err, domain.ErrNothingToReport):
		return fmt.Errorf("no meaningful activity since the last boundary")
	case errors.Is(err, domain.ErrRateLimited):
		return fmt.Errorf("an identical or too-recent run is cached; try again later")
	case err != nil:
		return err
	}

	cmd.Printf("%s (via %s)\n", result.Intent, result.Generator)
	return nil
}
