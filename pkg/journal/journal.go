// Package journal reads and writes the daily journal files that feed both
// keyword search and long-term memory extraction. One markdown file per
// calendar day, entries separated by "## HH:MM - category" headers.
package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/harun/cortex/pkg/memory"
)

// Entry is one journal entry: a timestamp, a category tag and free text.
type Entry struct {
	Date     string `json:"date"` // YYYY-MM-DD
	Time     string `json:"time"` // HH:MM
	Category string `json:"category"`
	Text     string `json:"text"`
}

const headerPrefix = "## "

// FilePath returns the journal file for a day: <dir>/YYYY-MM/YYYY-MM-DD.md.
func FilePath(dir string, day time.Time) string {
	return filepath.Join(dir, day.Format("2006-01"), day.Format("2006-01-02")+".md")
}

// ParseEntries splits a day's file content into entries. Lines before the
// first header are ignored.
func ParseEntries(date, content string) []Entry {
	var entries []Entry
	var current *Entry
	var body []string

	flush := func() {
		if current == nil {
			return
		}
		current.Text = strings.TrimSpace(strings.Join(body, "\n"))
		entries = append(entries, *current)
		current = nil
		body = nil
	}

	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, headerPrefix) && strings.Contains(line, " - ") {
			flush()

			header := strings.TrimPrefix(line, headerPrefix)
			parts := strings.SplitN(header, " - ", 2)
			current = &Entry{
				Date:     date,
				Time:     strings.TrimSpace(parts[0]),
				Category: parseCategory(parts[1]),
			}
			continue
		}
		if current != nil {
			body = append(body, line)
		}
	}
	flush()

	return entries
}

// parseCategory extracts the category tag from a header remainder. The
// vocabulary is fixed; anything unrecognized is a note.
func parseCategory(rest string) string {
	rest = strings.ToLower(rest)
	for _, c := range []string{memory.CategoryTask, memory.CategoryKnowledge, memory.CategoryNoise, memory.CategoryNote} {
		if strings.Contains(rest, c) {
			return c
		}
	}
	return memory.CategoryNote
}

// ReadDay parses the journal file for a day. A missing file is not an
// error: the day simply has no entries.
func ReadDay(dir string, day time.Time) ([]Entry, error) {
	path := FilePath(dir, day)
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read journal %s: %w", path, err)
	}
	return ParseEntries(day.Format("2006-01-02"), string(content)), nil
}

// Append writes a new entry to the day's file, creating the month directory
// and the file as needed.
func Append(dir string, now time.Time, category, text string) error {
	path := FilePath(dir, now)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create journal directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open journal file: %w", err)
	}
	defer f.Close()

	if category == "" {
		category = memory.CategoryNote
	}
	if _, err := fmt.Fprintf(f, "\n%s%s - %s\n%s\n", headerPrefix, now.Format("15:04"), category, text); err != nil {
		return fmt.Errorf("failed to append journal entry: %w", err)
	}
	return nil
}
