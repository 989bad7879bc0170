// Package claudecli generates intent messages by invoking the local
// claude CLI binary as a subprocess.
package claudecli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rajivsinclair/intentd/internal/core/domain"
	"github.com/rajivsinclair/intentd/internal/core/ports/driven"
	"github.com/rajivsinclair/intentd/internal/logger"
)

// Ensure Generator implements the interface.
var _ driven.IntentGenerator = (*Generator)(nil)

// Default configuration values.
const (
	DefaultModel   = "claude-3-5-haiku-latest"
	DefaultTimeout = 300 * time.Second

	// maxSubjectLength is the conventional-commit subject limit used
	// when clipping generator output.
	maxSubjectLength = 72
)

// Config holds configuration for the CLI generator.
type Config struct {
	// Binary is an explicit path to the claude binary. When empty the
	// known install locations are probed in order.
	Binary string

	// Model is the model passed to the CLI (default: haiku, the cheap
	// tier; intent lines do not need a frontier model).
	Model string

	// Timeout is the subprocess deadline. On expiry the invocation is
	// retried exactly once at double the timeout.
	Timeout time.Duration
}

// Generator runs the claude CLI to produce an intent message.
type Generator struct {
	binary  string
	model   string
	timeout time.Duration

	// run is injectable for tests; defaults to a real subprocess.
	run func(ctx context.Context, binary, prompt, model string) (string, error)
}

// NewGenerator creates a CLI generator.
func NewGenerator(cfg Config) *Generator {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Generator{
		binary:  cfg.Binary,
		model:   cfg.Model,
		timeout: cfg.Timeout,
		run:     runBinary,
	}
}

// Name identifies the generator in logs.
func (g *Generator) Name() string { return "claude-cli" }

// Generate invokes the CLI with a generous timeout and one automatic
// retry at double the timeout on expiry.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	binary := g.binary
	if binary == "" {
		binary = discoverBinary()
	}
	if binary == "" {
		return "", fmt.Errorf("claude binary not found: %w", domain.ErrGeneratorUnavailable)
	}

	out, err := g.runWithTimeout(ctx, binary, prompt, g.timeout)
	if errors.Is(err, context.DeadlineExceeded) {
		logger.Warn("claude CLI timed out after %s, retrying once at %s", g.timeout, 2*g.timeout)
		out, err = g.runWithTimeout(ctx, binary, prompt, 2*g.timeout)
	}
	if err != nil {
		return "", fmt.Errorf("claude CLI: %v: %w", err, domain.ErrGeneratorUnavailable)
	}

	intent := pickMessage(out)
	if intent == "" {
		return "", fmt.Errorf("claude CLI returned no usable output: %w", domain.ErrGeneratorUnavailable)
	}
	return intent, nil
}

func (g *Generator) runWithTimeout(ctx context.Context, binary, prompt string, timeout time.Duration) (string, error) {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	out, err := g.run(runCtx, binary, prompt, g.model)
	if err != nil && runCtx.Err() != nil {
		return "", runCtx.Err()
	}
	return out, err
}

func runBinary(ctx context.Context, binary, prompt, model string) (string, error) {
	cmd := exec.CommandContext(ctx, binary, "-p", prompt, "--model", model)
	out, err := cmd.Output()
	return string(out), err
}

// discoverBinary probes the known claude install locations in priority
// order, then falls back to PATH lookup.
func discoverBinary() string {
	var candidates []string
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates,
			// Native install locations.
			filepath.Join(home, ".claude", "local", "claude"),
			filepath.Join(home, ".claude", "bin", "claude"),
			// npm / yarn / pnpm globals.
			filepath.Join(home, ".npm-global", "bin", "claude"),
			filepath.Join(home, ".npm", "bin", "claude"),
			filepath.Join(home, "node_modules", ".bin", "claude"),
			filepath.Join(home, ".yarn", "bin", "claude"),
			filepath.Join(home, ".local", "share", "pnpm", "claude"),
		)
	}
	candidates = append(candidates,
		"/usr/local/bin/claude",
		"/usr/bin/claude",
		"/opt/homebrew/bin/claude",
	)
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c
		}
	}
	if path, err := exec.LookPath("claude"); err == nil {
		return path
	}
	return ""
}

// pickMessage extracts a usable intent line from raw CLI output: the
// first line shaped like "type: subject", otherwise the first non-empty
// line clipped to the subject limit.
func pickMessage(out string) string {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" && strings.Contains(line, ":") && len(line) < 100 {
			return line
		}
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			if len(line) > maxSubjectLength {
				return line[:maxSubjectLength]
			}
			return line
		}
	}
	return ""
}
