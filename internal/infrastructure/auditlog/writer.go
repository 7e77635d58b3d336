package auditlog

import (
	"os"
	"path/filepath"
	"sync"
)

// Writer appends newline-delimited, human-readable records to a log file.
// Appends are serialized by a mutex and use open-append-close semantics so
// concurrent task operations never interleave partial records. The format
// is write-only: nothing in this repository parses it back.
type Writer struct {
	mu   sync.Mutex
	path string
}

// New returns a Writer targeting path. The file and its directory are
// created lazily on first append.
func New(path string) *Writer {
	return &Writer{path: path}
}

// Path returns the configured log file location.
func (w *Writer) Path() string {
	return w.path
}

// Append writes one record to the end of the log file.
func (w *Writer) Append(entry string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if dir := filepath.Dir(w.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteString(entry); err != nil {
		return err
	}
	return f.Sync()
}
