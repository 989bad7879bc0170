package services

import (
	"strings"

	"github.com/rajivsinclair/intentd/internal/core/domain"
)

// resetCommands are the session commands that mark a fresh start.
var resetCommands = map[string]bool{
	"/clear": true,
	"/start": true,
	"/reset": true,
}

// boundaryDetector inspects the transcript and optionally proposes a
// resume index. Detectors are independent; each scans newest-to-oldest
// within the lookback window.
type boundaryDetector func(entries []domain.Entry, oldest int) (int, bool)

// BoundaryLocator finds where unsummarised work begins in a transcript.
// Detectors run in strict priority order; the first match wins.
type BoundaryLocator struct {
	limits domain.Limits
}

// NewBoundaryLocator creates a locator with the given limits.
func NewBoundaryLocator(limits domain.Limits) *BoundaryLocator {
	return &BoundaryLocator{limits: limits}
}

// Locate returns the resume boundary for the transcript. The returned
// index is always in [0, len(entries)].
func (l *BoundaryLocator) Locate(entries []domain.Entry) domain.BoundaryResult {
	oldest := len(entries) - l.limits.MaxLookback
	if oldest < 0 {
		oldest = 0
	}

	ordered := []struct {
		detect boundaryDetector
		reason domain.BoundaryReason
	}{
		{detectMarker, domain.BoundaryMarker},
		{detectCommit, domain.BoundaryCommit},
		{detectSessionReset, domain.BoundarySessionStart},
	}
	for _, d := range ordered {
		if idx, ok := d.detect(entries, oldest); ok {
			return domain.BoundaryResult{Index: idx, Reason: d.reason}
		}
	}

	idx := len(entries) - l.limits.TailWindow
	if idx < 0 {
		idx = 0
	}
	return domain.BoundaryResult{Index: idx, Reason: domain.BoundaryTailWindow}
}

// detectMarker finds the most recent sentinel stamped by a previous run
// into the assistant's own output. Strongest signal: resume right there.
func detectMarker(entries []domain.Entry, oldest int) (int, bool) {
	for i := len(entries) - 1; i >= oldest; i-- {
		if entries[i].Role != domain.RoleAssistant {
			continue
		}
		for _, b := range entries[i].Blocks {
			if b.Type == domain.BlockText && strings.Contains(b.Text, domain.BoundaryMarkerText) {
				return i, true
			}
		}
	}
	return 0, false
}

// detectCommit finds the most recent git commit command whose following
// tool result looks like a success acknowledgment. The bracket check is a
// weak heuristic (a commit ack contains "[branch abc1234]") that can
// false-positive; it is kept as a documented approximation.
func detectCommit(entries []domain.Entry, oldest int) (int, bool) {
	for i := len(entries) - 1; i >= oldest; i-- {
		if entries[i].Role != domain.RoleAssistant || !isCommitCommand(entries[i]) {
			continue
		}
		if i+1 >= len(entries) {
			continue
		}
		next := entries[i+1]
		if next.Role != domain.RoleToolResult {
			continue
		}
		result := next.ResultText()
		if strings.Contains(result, "[") && strings.Contains(result, "]") {
			return i, true
		}
	}
	return 0, false
}

func isCommitCommand(e domain.Entry) bool {
	for _, b := range e.Blocks {
		if b.Type != domain.BlockToolUse || b.ToolName != "Bash" {
			continue
		}
		cmd, _ := b.Input["command"].(string)
		if strings.Contains(cmd, "git commit") && strings.Contains(cmd, "-m") {
			return true
		}
	}
	return false
}

// detectSessionReset finds the most recent human entry whose first content
// block is exactly a session reset command.
func detectSessionReset(entries []domain.Entry, oldest int) (int, bool) {
	for i := len(entries) - 1; i >= oldest; i-- {
		if entries[i].Role != domain.RoleHuman || len(entries[i].Blocks) == 0 {
			continue
		}
		first := entries[i].Blocks[0]
		if first.Type == domain.BlockText && resetCommands[strings.TrimSpace(first.Text)] {
			return i, true
		}
	}
	return 0, false
}
