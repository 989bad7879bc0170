package domain

import "time"

// IntentResult is the outcome of one successful tracking run.
type IntentResult struct {
	// Intent is the generated one-line message.
	Intent string

	// Generator names the adapter that produced the intent.
	Generator string

	// Boundary is where the summarised window started.
	Boundary BoundaryResult

	// Items are the context items that survived distillation.
	Items []ContextItem

	// ContextHash identifies the composed context for rate limiting.
	// It is opaque; no meaning beyond equality.
	ContextHash string

	// Marker is the sentinel line the caller must print to stdout so the
	// next run's marker detector can find this stopping point.
	Marker string
}

// DebugRecord is one line of the append-only debug log kept next to the
// intent file.
type DebugRecord struct {
	RunID     string
	At        time.Time
	Boundary  BoundaryResult
	ItemCount int
	DiffFiles int
	Intent    string
}
