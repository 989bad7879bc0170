package domain

import (
	"fmt"
	"time"
)

// BoundaryMarkerText is the sentinel stamped into the assistant's visible
// output after every successful run. Its only purpose is to let the next
// run find the exact point where the previous summary stopped.
const BoundaryMarkerText = "===INTENT_BOUNDARY==="

// BoundaryReason tags which detector picked the resume index.
type BoundaryReason string

// Detector reasons, strongest first. MarkerLine output produces the
// marker; commits and session resets are natural checkpoints; the tail
// window is the cap when nothing else matches.
const (
	BoundaryMarker       BoundaryReason = "marker"
	BoundaryCommit       BoundaryReason = "commit"
	BoundarySessionStart BoundaryReason = "session_start"
	BoundaryTailWindow   BoundaryReason = "tail_window"
)

// BoundaryResult is where unsummarised work begins in the transcript.
// Index is always in [0, len(transcript)].
type BoundaryResult struct {
	Index  int
	Reason BoundaryReason
}

// MarkerLine renders the sentinel line printed to stdout after a
// successful run: the marker, an ISO-8601 timestamp, and the intent.
func MarkerLine(at time.Time, intent string) string {
	if intent == "" {
		return fmt.Sprintf("%s %s", BoundaryMarkerText, at.Format(time.RFC3339))
	}
	return fmt.Sprintf("%s %s | %s", BoundaryMarkerText, at.Format(time.RFC3339), intent)
}
