package logging

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSetupWritesDatedFile(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 8, 23, 8, 0, 0, 0, time.Local)

	f, err := Setup(dir, 7, now)
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	defer func() {
		log.SetOutput(os.Stderr)
		f.Close()
	}()

	log.Println("hello from the test")

	data, err := os.ReadFile(filepath.Join(dir, "vault-digest_2026-08-23.log"))
	if err != nil {
		t.Fatalf("Expected dated log file: %v", err)
	}
	if !strings.Contains(string(data), "hello from the test") {
		t.Errorf("Log line missing from file: %q", string(data))
	}
}

func TestCleanupRemovesOldLogs(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 8, 23, 8, 0, 0, 0, time.Local)

	oldPath := filepath.Join(dir, "vault-digest_2026-08-01.log")
	freshPath := filepath.Join(dir, "vault-digest_2026-08-22.log")
	keepPath := filepath.Join(dir, "notes.txt")
	for _, p := range []string{oldPath, freshPath, keepPath} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", p, err)
		}
	}
	old := now.AddDate(0, 0, -20)
	if err := os.Chtimes(oldPath, old, old); err != nil {
		t.Fatalf("Failed to set mtime: %v", err)
	}
	if err := os.Chtimes(keepPath, old, old); err != nil {
		t.Fatalf("Failed to set mtime: %v", err)
	}

	Cleanup(dir, 7, now)

	if _, err := os.Stat(oldPath); !os.IsNotExist(err) {
		t.Error("Expected old log file to be removed")
	}
	if _, err := os.Stat(freshPath); err != nil {
		t.Error("Fresh log file must be kept")
	}
	if _, err := os.Stat(keepPath); err != nil {
		t.Error("Non-log files must never be removed")
	}
}

func TestCleanupDisabled(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vault-digest_2020-01-01.log")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}
	old := time.Date(2020, 1, 1, 0, 0, 0, 0, time.Local)
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatalf("Failed to set mtime: %v", err)
	}

	Cleanup(dir, 0, time.Now())

	if _, err := os.Stat(path); err != nil {
		t.Error("retention_days<=0 must disable cleanup")
	}
}
