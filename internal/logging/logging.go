// Package logging routes the standard logger to a dated file alongside
// stderr and prunes old log files.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Setup opens the dated log file under dir, points the standard logger
// at it (mirrored to stderr), and removes files older than
// retentionDays. Returns the file so the caller can close it on exit.
func Setup(dir string, retentionDays int, now time.Time) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("logging: create %s: %w", dir, err)
	}

	name := fmt.Sprintf("vault-digest_%s.log", now.Format("2006-01-02"))
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: open log file: %w", err)
	}

	log.SetOutput(io.MultiWriter(os.Stderr, f))

	Cleanup(dir, retentionDays, now)

	return f, nil
}

// Cleanup removes .log files in dir whose mtime is older than
// retentionDays. Best effort: failures are logged, never fatal.
func Cleanup(dir string, retentionDays int, now time.Time) {
	if retentionDays <= 0 {
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Printf("WARNING: log cleanup: %v", err)
		return
	}

	cutoff := now.AddDate(0, 0, -retentionDays)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".log") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			path := filepath.Join(dir, e.Name())
			if err := os.Remove(path); err != nil {
				log.Printf("WARNING: failed to remove old log %s: %v", path, err)
			} else {
				log.Printf("Removed old log file %s", e.Name())
			}
		}
	}
}
