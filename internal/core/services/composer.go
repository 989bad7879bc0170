package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rajivsinclair/intentd/internal/core/domain"
)

// Composer display caps. The context block is generator input, not a
// report; each section keeps only what a short message can reflect.
const (
	maxUserRequests = 3
	maxDelegations  = 3
	maxDiffPaths    = 5
	maxGroupedPaths = 5
	maxSummaries    = 2
	maxErrors       = 2
)

// promptTemplate wraps the composed context with generation instructions.
const promptTemplate = `Analyze this git repository work session and generate a commit message.

CONTEXT:
%s

INSTRUCTIONS:
1. Generate a conventional commit message (type: description)
2. Types: feat, fix, docs, style, refactor, test, chore, perf, ci, build
3. Focus on the primary change if multiple exist
4. Be specific about WHAT changed and WHY
5. Maximum 72 characters
6. Use present tense

Output ONLY the commit message, nothing else.`

// ComposeContext renders distilled items plus the diff summary into the
// fixed-structure context block handed to a generator. Sections appear in
// fixed order and only when non-empty.
func ComposeContext(items []domain.ContextItem, diff domain.DiffSummary) string {
	var sections []string

	if s := userRequestsSection(items); s != "" {
		sections = append(sections, s)
	}
	if s := delegationsSection(items); s != "" {
		sections = append(sections, s)
	}
	sections = append(sections, diffSections(diff)...)
	if s := todoSection(items); s != "" {
		sections = append(sections, s)
	}
	if s := fileOperationsSection(items); s != "" {
		sections = append(sections, s)
	}
	if s := bulletSection("Work completed:", fieldValues(items, domain.CategorySummary, domain.FieldText), maxSummaries); s != "" {
		sections = append(sections, s)
	}
	if s := bulletSection("Issues encountered:", fieldValues(items, domain.CategoryError, domain.FieldMessage), maxErrors); s != "" {
		sections = append(sections, s)
	}

	return strings.Join(sections, "\n\n")
}

// BuildPrompt wraps a composed context block with the instruction preamble.
func BuildPrompt(context string) string {
	return fmt.Sprintf(promptTemplate, context)
}

// userRequestsSection lists the most recent unique requests. Recency wins:
// the last maxUserRequests unique texts, in transcript order.
func userRequestsSection(items []domain.ContextItem) string {
	unique := uniqueInOrder(fieldValues(items, domain.CategoryUserRequest, domain.FieldText))
	if len(unique) > maxUserRequests {
		unique = unique[len(unique)-maxUserRequests:]
	}
	return bulletSection("User requests:", unique, len(unique))
}

func delegationsSection(items []domain.ContextItem) string {
	var lines []string
	for _, it := range items {
		if it.Category != domain.CategoryTaskDelegation {
			continue
		}
		lines = append(lines, fmt.Sprintf("- %s: %s",
			it.Fields[domain.FieldSubagent], it.Fields[domain.FieldDescription]))
		if len(lines) == maxDelegations {
			break
		}
	}
	if len(lines) == 0 {
		return ""
	}
	return "Sub-agent tasks:\n" + strings.Join(lines, "\n")
}

func diffSections(diff domain.DiffSummary) []string {
	if diff.TotalFiles() == 0 {
		return nil
	}
	var lines []string
	if len(diff.Added) > 0 {
		lines = append(lines, "Added: "+strings.Join(clip(diff.Added, maxDiffPaths), ", "))
	}
	if len(diff.Modified) > 0 {
		lines = append(lines, "Modified: "+strings.Join(clip(diff.Modified, maxDiffPaths), ", "))
	}
	if len(diff.Deleted) > 0 {
		lines = append(lines, "Deleted: "+strings.Join(clip(diff.Deleted, maxDiffPaths), ", "))
	}
	sections := []string{"Git changes:\n" + strings.Join(lines, "\n")}
	if diff.Stats != "" {
		sections = append(sections, "Statistics: "+diff.Stats)
	}
	return sections
}

func todoSection(items []domain.ContextItem) string {
	total := 0
	seen := false
	for _, it := range items {
		if it.Category != domain.CategoryTodoUpdate {
			continue
		}
		seen = true
		if n, err := strconv.Atoi(it.Fields[domain.FieldCount]); err == nil {
			total += n
		}
	}
	if !seen {
		return ""
	}
	return fmt.Sprintf("Task management: %d todos tracked", total)
}

// fileOperationsSection groups unique paths by action.
func fileOperationsSection(items []domain.ContextItem) string {
	byAction := make(map[string][]string)
	var actions []string
	for _, it := range items {
		if it.Category != domain.CategoryFileOperation {
			continue
		}
		action := it.Fields[domain.FieldAction]
		if _, ok := byAction[action]; !ok {
			actions = append(actions, action)
		}
		byAction[action] = append(byAction[action], it.Fields[domain.FieldFile])
	}
	if len(actions) == 0 {
		return ""
	}
	var lines []string
	for _, action := range actions {
		files := clip(uniqueInOrder(byAction[action]), maxGroupedPaths)
		lines = append(lines, fmt.Sprintf("%s: %s", capitalize(action), strings.Join(files, ", ")))
	}
	return "File operations:\n" + strings.Join(lines, "\n")
}

func bulletSection(header string, values []string, max int) string {
	values = uniqueInOrder(values)
	values = clip(values, max)
	if len(values) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(header)
	for _, v := range values {
		sb.WriteString("\n- ")
		sb.WriteString(v)
	}
	return sb.String()
}

func fieldValues(items []domain.ContextItem, c domain.Category, field string) []string {
	var out []string
	for _, it := range items {
		if it.Category == c {
			out = append(out, it.Fields[field])
		}
	}
	return out
}

func uniqueInOrder(values []string) []string {
	seen := make(map[string]bool, len(values))
	var out []string
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func clip(values []string, max int) []string {
	if len(values) > max {
		return values[:max]
	}
	return values
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
