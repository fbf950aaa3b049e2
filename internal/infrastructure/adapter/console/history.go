package console

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// DefaultHistoryLimit caps the number of persisted console commands.
const DefaultHistoryLimit = 1000

// ErrEmptyEntry is returned when attempting to add an empty or whitespace-only entry.
var ErrEmptyEntry = errors.New("history: entry cannot be empty or whitespace-only")

// ErrEmbeddedNewline is returned when attempting to add an entry containing embedded newlines.
// Entries with newlines would corrupt the line-based file format used for persistence.
var ErrEmbeddedNewline = errors.New("history: entry cannot contain embedded newlines")

// ErrConsecutiveDuplicate is returned when attempting to add a duplicate of the last entry.
var ErrConsecutiveDuplicate = errors.New("history: consecutive duplicate entry not allowed")

// History stores the console's command history, optionally persisted to a
// line-based file so entries survive across sessions.
type History struct {
	filePath   string
	maxEntries int

	mu      sync.RWMutex
	entries []string
}

// NewHistory creates a history store backed by the given file. An empty
// filePath keeps the history in memory only. maxEntries of 0 or less means
// unlimited. Existing entries are loaded from the file when it is readable.
func NewHistory(filePath string, maxEntries int) *History {
	if maxEntries < 0 {
		maxEntries = 0
	}
	h := &History{
		filePath:   ExpandPath(filePath),
		maxEntries: maxEntries,
		entries:    []string{},
	}
	h.load()
	return h
}

// Add appends one command to the history. The entry is trimmed of
// surrounding whitespace before storage.
// Returns ErrEmptyEntry if the entry is empty or whitespace-only.
// Returns ErrEmbeddedNewline if the entry contains embedded newlines.
// Returns ErrConsecutiveDuplicate if the entry matches the most recent entry.
func (h *History) Add(entry string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	trimmed := strings.TrimSpace(entry)
	if trimmed == "" {
		return ErrEmptyEntry
	}
	if strings.Contains(trimmed, "\n") {
		return ErrEmbeddedNewline
	}
	if len(h.entries) > 0 && h.entries[len(h.entries)-1] == trimmed {
		return ErrConsecutiveDuplicate
	}

	h.entries = append(h.entries, trimmed)

	if h.maxEntries > 0 && len(h.entries) > h.maxEntries {
		h.trim()
		h.rewriteFile()
	} else {
		h.appendToFile(trimmed)
	}

	return nil
}

// Entries returns a copy of the history, oldest first.
func (h *History) Entries() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

// Size returns the number of stored entries.
func (h *History) Size() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// trim drops the oldest entries above the limit.
// Must be called with mu held.
func (h *History) trim() {
	if h.maxEntries > 0 && len(h.entries) > h.maxEntries {
		h.entries = h.entries[len(h.entries)-h.maxEntries:]
	}
}

// ExpandPath expands a tilde prefix to the user's home directory.
// Paths without a leading tilde, or with ~username format, are returned
// unchanged. If the home directory cannot be determined, the original
// path is returned.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}

// File permission constants for history file operations.
const (
	// filePermission keeps the history file user read/write only.
	filePermission = 0o600
	// dirPermission keeps parent directories user-accessible only.
	dirPermission = 0o700
)

// load reads persisted entries during construction. Each non-empty line
// becomes one entry. File errors are non-fatal; the history starts empty.
func (h *History) load() {
	if h.filePath == "" {
		return
	}

	file, err := os.Open(h.filePath)
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			h.entries = append(h.entries, line)
		}
	}

	h.trim()
}

// ensureParentDir creates parent directories for the history file.
func (h *History) ensureParentDir() bool {
	return os.MkdirAll(filepath.Dir(h.filePath), dirPermission) == nil
}

// appendToFile appends a single entry to the history file. File errors are
// silently ignored so the console keeps working in memory.
// Must be called with mu held.
func (h *History) appendToFile(entry string) {
	if h.filePath == "" {
		return
	}
	if !h.ensureParentDir() {
		return
	}

	file, err := os.OpenFile(h.filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, filePermission)
	if err != nil {
		return
	}
	defer file.Close()

	_, _ = file.WriteString(entry + "\n")
}

// rewriteFile replaces the file contents with the in-memory entries. Used
// after trimming so the file matches what will be loaded next session.
// Must be called with mu held.
func (h *History) rewriteFile() {
	if h.filePath == "" {
		return
	}
	if !h.ensureParentDir() {
		return
	}

	file, err := os.OpenFile(h.filePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePermission)
	if err != nil {
		return
	}
	defer file.Close()

	for _, entry := range h.entries {
		_, _ = file.WriteString(entry + "\n")
	}
}
