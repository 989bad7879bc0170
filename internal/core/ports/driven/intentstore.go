package driven

import "github.com/rajivsinclair/intentd/internal/core/domain"

// IntentStore persists run output inside the repository's git directory.
type IntentStore interface {
	// WriteIntent overwrites the current-intent file.
	WriteIntent(intent string) error

	// AppendDebug appends one record to the debug log. Best effort; a
	// failure here never fails the run.
	AppendDebug(rec domain.DebugRecord) error
}
