// Package static provides a pattern-matching intent generator that
// never fails. It is the last link in the generator chain: when no LLM
// is reachable it derives a plausible conventional-commit line from the
// file changes listed in the prompt itself.
package static

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/rajivsinclair/intentd/internal/core/ports/driven"
)

// Ensure Generator implements the interface.
var _ driven.IntentGenerator = (*Generator)(nil)

// Generator derives an intent line from the prompt without an LLM.
type Generator struct{}

// NewGenerator creates a static fallback generator.
func NewGenerator() *Generator { return &Generator{} }

// Name identifies the generator in logs.
func (g *Generator) Name() string { return "static" }

// Generate parses the git-change lines out of the prompt and picks a
// message by simple precedence rules. It never returns an error.
func (g *Generator) Generate(_ context.Context, prompt string) (string, error) {
	var added, modified, deleted []string
	for _, line := range strings.Split(prompt, "\n") {
		switch {
		case strings.Contains(line, "Added:"):
			added = splitPaths(line, "Added:")
		case strings.Contains(line, "Modified:"):
			modified = splitPaths(line, "Modified:")
		case strings.Contains(line, "Deleted:"):
			deleted = splitPaths(line, "Deleted:")
		}
	}

	switch {
	case anyContains(added, "test"):
		return "test: Add test files", nil
	case anyContains(modified, "test"):
		return "test: Update test coverage", nil
	case anyContains(modified, "hook"):
		return "fix: Update automation hooks", nil
	case anyContains(added, ".md"):
		name := strings.TrimSuffix(path.Base(first(added, ".md")), ".md")
		return fmt.Sprintf("docs: Add %s documentation", name), nil
	case anyContains(modified, ".md"):
		return "docs: Update project documentation", nil
	case len(added) > 0:
		return fmt.Sprintf("feat: Add %s", path.Base(added[0])), nil
	case len(modified) > 0:
		return fmt.Sprintf("fix: Update %s", path.Base(modified[0])), nil
	case len(deleted) > 0:
		return "chore: Remove unnecessary files", nil
	}
	return "chore: Update project files", nil
}

func splitPaths(line, label string) []string {
	_, rest, ok := strings.Cut(line, label)
	if !ok {
		return nil
	}
	var paths []string
	for _, p := range strings.Split(rest, ",") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

func anyContains(paths []string, needle string) bool {
	return first(paths, needle) != ""
}

// first returns the first path whose lowercased form contains needle.
func first(paths []string, needle string) string {
	for _, p := range paths {
		if strings.Contains(strings.ToLower(p), needle) {
			return p
		}
	}
	return ""
}
