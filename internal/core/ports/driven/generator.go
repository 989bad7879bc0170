package driven

import "context"

// IntentGenerator produces a one-line intent message from a composed
// prompt.
//
// Implementations may include:
//   - claude CLI subprocess (primary)
//   - Anthropic Messages API over HTTP
//   - pure pattern matching over the prompt (terminal fallback)
//
// An unreachable implementation returns domain.ErrGeneratorUnavailable
// (possibly wrapped); the caller tries the next generator in its chain.
type IntentGenerator interface {
	// Generate returns the intent message for the prompt.
	Generate(ctx context.Context, prompt string) (string, error)

	// Name identifies the generator in logs and debug records.
	Name() string
}
