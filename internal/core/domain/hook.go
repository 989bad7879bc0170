package domain

// Hook event names that trigger intent tracking. Other events are ignored.
const (
	HookEventStop         = "Stop"
	HookEventSubagentStop = "SubagentStop"
)

// HookEvent is the payload the interactive session delivers on stdin when
// it pauses. Unknown fields are tolerated and ignored.
type HookEvent struct {
	Name           string `json:"hook_event_name"`
	SessionID      string `json:"session_id"`
	TranscriptPath string `json:"transcript_path"`
	WorkingDir     string `json:"cwd"`
}

// ShouldTrack reports whether this event warrants a tracking run.
func (e HookEvent) ShouldTrack() bool {
	return e.Name == HookEventStop || e.Name == HookEventSubagentStop
}
