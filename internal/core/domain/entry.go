package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Role identifies who produced a transcript entry.
type Role string

// Canonical roles. Transcripts mix two schemas: a legacy flat one
// ({"type": "human", "content": ...}) and the current nested-message one
// ({"message": {"role": "user", ...}}). Both normalise to these values.
const (
	RoleHuman      Role = "human"
	RoleAssistant  Role = "assistant"
	RoleToolResult Role = "tool_result"
	RoleUnknown    Role = ""
)

// Block types found in entry content payloads.
const (
	BlockText       = "text"
	BlockToolUse    = "tool_use"
	BlockToolResult = "tool_result"
)

// ContentBlock is one unit of an entry's content payload.
type ContentBlock struct {
	// Type is one of the Block* constants.
	Type string

	// Text carries the payload for text blocks.
	Text string

	// ToolName is the invoked tool for tool_use blocks.
	ToolName string

	// Input holds the tool invocation arguments for tool_use blocks.
	Input map[string]any

	// Result carries the flattened payload for tool_result blocks.
	Result string
}

// Entry is one canonicalised transcript record. Entries are never mutated
// after parsing; all downstream processing derives new values from them.
type Entry struct {
	Role   Role
	Blocks []ContentBlock
}

// rawEntry covers both transcript schemas. Unknown fields are ignored.
type rawEntry struct {
	Type    string          `json:"type"`
	Content json.RawMessage `json:"content"`
	Message *struct {
		Role    string          `json:"role"`
		Content json.RawMessage `json:"content"`
	} `json:"message"`
	ToolUseResult json.RawMessage `json:"toolUseResult"`
}

// rawBlock is one element of a content array in either schema.
type rawBlock struct {
	Type    string          `json:"type"`
	Text    string          `json:"text"`
	Name    string          `json:"name"`
	Input   map[string]any  `json:"input"`
	Content json.RawMessage `json:"content"`
}

// ParseEntry normalises one transcript line into the canonical Entry shape.
// This is the only place schema differences are handled; everything after
// it sees a single shape. Returns ErrInvalidInput for unparsable lines.
func ParseEntry(line []byte) (Entry, error) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return Entry{}, fmt.Errorf("empty line: %w", ErrInvalidInput)
	}

	var raw rawEntry
	if err := json.Unmarshal(line, &raw); err != nil {
		return Entry{}, fmt.Errorf("parse entry: %w", ErrInvalidInput)
	}

	var role Role
	var content json.RawMessage
	switch {
	case raw.Message != nil:
		// Current schema: role and content live under "message".
		switch raw.Message.Role {
		case "user", "human":
			role = RoleHuman
		case "assistant":
			role = RoleAssistant
		}
		content = raw.Message.Content
	default:
		// Legacy schema: role and content at the top level.
		switch raw.Type {
		case "human", "user":
			role = RoleHuman
		case "assistant":
			role = RoleAssistant
		case "tool_result":
			role = RoleToolResult
		}
		content = raw.Content
	}

	blocks := parseBlocks(content)

	// Tool results ride on user-role entries in the current schema, either
	// as tool_result content blocks or a top-level toolUseResult payload.
	// Re-tag them so consumers never confuse them with real user input.
	if role == RoleHuman && isToolResult(raw.ToolUseResult, blocks) {
		role = RoleToolResult
		if len(raw.ToolUseResult) > 0 && resultText(blocks) == "" {
			blocks = append(blocks, ContentBlock{
				Type:   BlockToolResult,
				Result: flattenPayload(raw.ToolUseResult),
			})
		}
	}

	return Entry{Role: role, Blocks: blocks}, nil
}

// parseBlocks decodes a content payload, which may be a plain string or an
// array of typed blocks. Elements of unknown shape are dropped.
func parseBlocks(content json.RawMessage) []ContentBlock {
	if len(content) == 0 {
		return nil
	}

	var text string
	if err := json.Unmarshal(content, &text); err == nil {
		if strings.TrimSpace(text) == "" {
			return nil
		}
		return []ContentBlock{{Type: BlockText, Text: text}}
	}

	var rawBlocks []rawBlock
	if err := json.Unmarshal(content, &rawBlocks); err != nil {
		return nil
	}

	blocks := make([]ContentBlock, 0, len(rawBlocks))
	for _, rb := range rawBlocks {
		switch rb.Type {
		case BlockText:
			blocks = append(blocks, ContentBlock{Type: BlockText, Text: rb.Text})
		case BlockToolUse:
			blocks = append(blocks, ContentBlock{Type: BlockToolUse, ToolName: rb.Name, Input: rb.Input})
		case BlockToolResult:
			blocks = append(blocks, ContentBlock{Type: BlockToolResult, Result: flattenPayload(rb.Content)})
		}
	}
	return blocks
}

// isToolResult reports whether a user-role entry is actually a tool result.
func isToolResult(toolUseResult json.RawMessage, blocks []ContentBlock) bool {
	if len(toolUseResult) > 0 && string(toolUseResult) != "null" {
		return true
	}
	for _, b := range blocks {
		if b.Type == BlockToolResult {
			return true
		}
	}
	return false
}

// flattenPayload turns an arbitrary tool result payload into plain text.
// Payloads vary wildly (strings, block arrays, structured objects); only
// their text matters for error detection, so anything else is stringified.
func flattenPayload(payload json.RawMessage) string {
	if len(payload) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(payload, &s); err == nil {
		return s
	}
	var blocks []rawBlock
	if err := json.Unmarshal(payload, &blocks); err == nil {
		var sb strings.Builder
		for _, b := range blocks {
			if b.Text != "" {
				if sb.Len() > 0 {
					sb.WriteByte('\n')
				}
				sb.WriteString(b.Text)
			}
		}
		if sb.Len() > 0 {
			return sb.String()
		}
	}
	return string(payload)
}

// FirstText returns the text of the first text block, or "".
func (e Entry) FirstText() string {
	for _, b := range e.Blocks {
		if b.Type == BlockText {
			return b.Text
		}
	}
	return ""
}

// ResultText returns the flattened payload of the first tool result block.
func (e Entry) ResultText() string {
	return resultText(e.Blocks)
}

func resultText(blocks []ContentBlock) string {
	for _, b := range blocks {
		if b.Type == BlockToolResult {
			return b.Result
		}
	}
	return ""
}
