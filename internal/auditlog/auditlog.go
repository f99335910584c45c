// Package auditlog records who asked for which app to be vetted.
package auditlog

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"
)

// Entry is one vetting request on record.
type Entry struct {
	Timestamp time.Time
	ClientTag string
	URL       string
}

// Recorder persists vetting request entries.
type Recorder interface {
	Record(entry Entry) error
}

// FileRecorder appends entries to a tab-separated text file, one per line.
type FileRecorder struct {
	logger *slog.Logger
	path   string
	mu     sync.Mutex
}

// NewFileRecorder creates a FileRecorder writing to path. The file is created
// on first record.
func NewFileRecorder(log *slog.Logger, path string) (*FileRecorder, error) {
	if log == nil {
		log = slog.Default()
	}
	if path == "" {
		return nil, fmt.Errorf("audit log path is required")
	}
	return &FileRecorder{
		logger: log.With(slog.String("component", "auditlog")),
		path:   path,
	}, nil
}

// Record appends the entry. The timestamp defaults to now when unset, and the
// client tag to "unknown" when empty.
func (r *FileRecorder) Record(entry Entry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	if entry.ClientTag == "" {
		entry.ClientTag = "unknown"
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()
	line := fmt.Sprintf("%s\t%s\t%s\n", entry.Timestamp.UTC().Format(time.RFC3339), entry.ClientTag, entry.URL)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write audit log: %w", err)
	}
	r.logger.Debug("audit entry recorded", slog.String("client", entry.ClientTag), slog.String("url", entry.URL))
	return nil
}
