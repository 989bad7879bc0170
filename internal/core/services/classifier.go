package services

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rajivsinclair/intentd/internal/core/domain"
)

// File-mutation tool names. Their payloads can be huge; only the target
// path is kept.
var fileMutationTools = map[string]bool{
	"Write":        true,
	"Edit":         true,
	"MultiEdit":    true,
	"NotebookEdit": true,
}

// Read-only tools whose output is large and non-summarisable.
var verboseTools = map[string]bool{
	"Read":      true,
	"Grep":      true,
	"WebFetch":  true,
	"WebSearch": true,
}

// fillerWords mark short assistant acknowledgments ("Sure, I'll...").
var fillerWords = []string{"sure", "ok", "will", "let me"}

// conclusionKeywords mark assistant text worth keeping as a work summary.
var conclusionKeywords = []string{
	"decided", "conclusion", "summary", "completed", "finished", "implemented",
}

// commitMessagePattern matches the -m argument of a git command so the
// message text can be redacted before the command is kept.
var commitMessagePattern = regexp.MustCompile(`-m\s+"[^"]*"`)

// Classify maps one transcript entry to a category, its extracted fields,
// and a relevance score. It is pure and total: malformed or unmatched
// input classifies as CategoryOther with zero relevance, never an error.
func Classify(e domain.Entry) domain.ClassifiedItem {
	switch e.Role {
	case domain.RoleHuman:
		return classifyHuman(e)
	case domain.RoleAssistant:
		return classifyAssistant(e)
	case domain.RoleToolResult:
		return classifyToolResult(e)
	}
	return other()
}

func classifyHuman(e domain.Entry) domain.ClassifiedItem {
	text := strings.TrimSpace(e.FirstText())
	if text == "" {
		return other()
	}
	return item(domain.CategoryUserRequest, map[string]string{
		domain.FieldText: truncate(text, 197, "..."),
	})
}

func classifyAssistant(e domain.Entry) domain.ClassifiedItem {
	for _, b := range e.Blocks {
		switch b.Type {
		case domain.BlockToolUse:
			if ci, ok := classifyToolUse(b); ok {
				return ci
			}
		case domain.BlockText:
			if ci, ok := classifyAssistantText(b.Text); ok {
				return ci
			}
		}
	}
	return other()
}

func classifyToolUse(b domain.ContentBlock) (domain.ClassifiedItem, bool) {
	switch {
	case b.ToolName == "Task":
		// Sub-agent work is otherwise invisible to summarisation; keep
		// who was delegated to and a preview of the instructions.
		subagent := inputString(b.Input, "subagent_type")
		if subagent == "" {
			subagent = "unknown"
		}
		return item(domain.CategoryTaskDelegation, map[string]string{
			domain.FieldSubagent:    subagent,
			domain.FieldDescription: inputString(b.Input, "description"),
			domain.FieldPrompt:      truncate(inputString(b.Input, "prompt"), 200, ""),
		}), true

	case fileMutationTools[b.ToolName]:
		path := inputString(b.Input, "file_path")
		if path == "" {
			path = inputString(b.Input, "notebook_path")
		}
		if path == "" {
			return domain.ClassifiedItem{}, false
		}
		return item(domain.CategoryFileOperation, map[string]string{
			domain.FieldAction: strings.ToLower(b.ToolName),
			domain.FieldFile:   path,
		}), true

	case b.ToolName == "TodoWrite":
		count := 0
		if todos, ok := b.Input["todos"].([]any); ok {
			count = len(todos)
		}
		return item(domain.CategoryTodoUpdate, map[string]string{
			domain.FieldCount: strconv.Itoa(count),
		}), true

	case b.ToolName == "Bash":
		cmd := inputString(b.Input, "command")
		if !strings.Contains(cmd, "git") {
			return domain.ClassifiedItem{}, false
		}
		clean := commitMessagePattern.ReplaceAllString(cmd, `-m "[message]"`)
		return item(domain.CategoryGitCommand, map[string]string{
			domain.FieldCommand: truncate(clean, 100, ""),
		}), true

	case verboseTools[b.ToolName]:
		return item(domain.CategoryVerbose, nil), true
	}
	return domain.ClassifiedItem{}, false
}

func classifyAssistantText(text string) (domain.ClassifiedItem, bool) {
	lower := strings.ToLower(text)

	if len([]rune(text)) < 50 {
		for _, w := range fillerWords {
			if strings.Contains(lower, w) {
				return item(domain.CategoryAcknowledgment, nil), true
			}
		}
	}

	for _, kw := range conclusionKeywords {
		if strings.Contains(lower, kw) {
			summary := text
			if i := strings.Index(text, "."); i >= 0 {
				summary = text[:i]
			} else {
				summary = truncate(text, 150, "")
			}
			return item(domain.CategorySummary, map[string]string{
				domain.FieldText: summary,
			}), true
		}
	}
	return domain.ClassifiedItem{}, false
}

func classifyToolResult(e domain.Entry) domain.ClassifiedItem {
	result := e.ResultText()
	lower := strings.ToLower(result)
	if !strings.Contains(lower, "error") && !strings.Contains(lower, "failed") {
		return other()
	}
	firstLine := result
	if i := strings.IndexByte(result, '\n'); i >= 0 {
		firstLine = result[:i]
	}
	return item(domain.CategoryError, map[string]string{
		domain.FieldMessage: truncate(firstLine, 100, ""),
	})
}

func item(c domain.Category, fields map[string]string) domain.ClassifiedItem {
	if fields == nil {
		fields = map[string]string{}
	}
	return domain.ClassifiedItem{Category: c, Fields: fields, Relevance: c.Relevance()}
}

func other() domain.ClassifiedItem {
	return item(domain.CategoryOther, nil)
}

// truncate clips s to at most n runes, appending the suffix when clipped.
func truncate(s string, n int, suffix string) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + suffix
}

func inputString(input map[string]any, key string) string {
	s, _ := input[key].(string)
	return s
}
