// Package gitdiff summarises pending working-tree changes by shelling
// out to git.
package gitdiff

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rajivsinclair/intentd/internal/core/domain"
	"github.com/rajivsinclair/intentd/internal/core/ports/driven"
)

// Ensure Provider implements the interface.
var _ driven.DiffProvider = (*Provider)(nil)

// Provider reads git diff output for a working directory.
type Provider struct {
	dir string

	// runGit is injectable for tests; defaults to a real subprocess.
	runGit func(ctx context.Context, dir string, args ...string) (string, error)
}

// NewProvider creates a diff provider rooted at dir.
func NewProvider(dir string) *Provider {
	return &Provider{dir: dir, runGit: runGit}
}

func runGit(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	return string(out), err
}

// Summary returns the files changed since HEAD grouped by status, plus
// the shortstat line and the most-touched directory.
func (p *Provider) Summary(ctx context.Context) (domain.DiffSummary, error) {
	nameStatus, err := p.runGit(ctx, p.dir, "diff", "--name-status", "HEAD")
	if err != nil {
		return domain.DiffSummary{}, fmt.Errorf("git diff: %v: %w", err, domain.ErrNotRepository)
	}

	summary := parseNameStatus(nameStatus)
	summary.PrimaryDirectory = primaryDirectory(summary)

	// Stats are cosmetic; a failure here does not void the summary.
	if shortstat, err := p.runGit(ctx, p.dir, "diff", "--shortstat", "HEAD"); err == nil {
		summary.Stats = strings.TrimSpace(shortstat)
	}

	return summary, nil
}

func parseNameStatus(out string) domain.DiffSummary {
	var summary domain.DiffSummary
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		status, file, ok := strings.Cut(line, "\t")
		if !ok || status == "" || file == "" {
			continue
		}
		// Renames and copies carry a score suffix (R100, C75).
		switch status[0] {
		case 'A':
			summary.Added = append(summary.Added, file)
		case 'M':
			summary.Modified = append(summary.Modified, file)
		case 'D':
			summary.Deleted = append(summary.Deleted, file)
		}
	}
	return summary
}

// primaryDirectory finds the directory touched by the most changed
// files; top-level files count under "root".
func primaryDirectory(summary domain.DiffSummary) string {
	counts := make(map[string]int)
	for _, group := range [][]string{summary.Added, summary.Modified, summary.Deleted} {
		for _, file := range group {
			dir := filepath.Dir(file)
			if dir == "." {
				dir = "root"
			}
			counts[dir]++
		}
	}

	var best string
	var bestCount int
	for dir, count := range counts {
		if count > bestCount || (count == bestCount && dir < best) {
			best, bestCount = dir, count
		}
	}
	return best
}
