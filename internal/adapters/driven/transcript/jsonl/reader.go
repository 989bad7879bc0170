// Package jsonl reads session transcripts stored as line-delimited JSON.
package jsonl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rajivsinclair/intentd/internal/core/domain"
	"github.com/rajivsinclair/intentd/internal/core/ports/driven"
)

// Ensure Reader implements the interface.
var _ driven.TranscriptReader = (*Reader)(nil)

// maxLineBytes bounds how much of a single transcript line is buffered.
// Entries embed whole tool payloads, so lines far beyond bufio's default
// do occur; anything past this cap cannot be a useful entry.
const maxLineBytes = 10 * 1024 * 1024

// Reader is a tolerant transcript reader. Unparsable and over-long lines
// become zero-value entries instead of being dropped, so entry indexes
// always match line positions in the file.
type Reader struct{}

// NewReader creates a transcript reader.
func NewReader() *Reader {
	return &Reader{}
}

// Read loads all entries from the transcript at path.
func (r *Reader) Read(path string) ([]domain.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	defer f.Close()

	br := bufio.NewReaderSize(f, 64*1024)

	var entries []domain.Entry
	var buf []byte
	oversize := false
	for {
		chunk, isPrefix, err := br.ReadLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("scan transcript: %w", err)
		}

		if !oversize {
			buf = append(buf, chunk...)
			if len(buf) > maxLineBytes {
				// Stop buffering but keep draining to the line end so the
				// slot is preserved and later lines stay readable.
				oversize = true
				buf = buf[:0]
			}
		}
		if isPrefix {
			continue
		}

		line := buf
		buf = buf[:0]
		if oversize {
			oversize = false
			entries = append(entries, domain.Entry{})
			continue
		}
		if strings.TrimSpace(string(line)) == "" {
			continue
		}
		entry, err := domain.ParseEntry(line)
		if err != nil {
			// Malformed line: keep the slot, skip the content.
			entries = append(entries, domain.Entry{})
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
