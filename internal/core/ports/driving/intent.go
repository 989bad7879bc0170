package driving

import (
	"context"

	"github.com/rajivsinclair/intentd/internal/core/domain"
)

// IntentService runs the distillation pipeline once over a transcript and
// records the generated intent.
//
// A run with nothing worth reporting returns one of the domain sentinels
// (ErrTranscriptTooShort, ErrNothingToReport, ErrRateLimited); callers
// treat those as neutral no-ops, never as failures.
type IntentService interface {
	Track(ctx context.Context, transcriptPath string) (domain.IntentResult, error)
}
