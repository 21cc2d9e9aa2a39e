package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
)

func TestLogFormatterIncludesAttemptAndOrderedFields(t *testing.T) {
	entry := &log.Entry{
		Time:    time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Level:   log.DebugLevel,
		Message: "authorize redirect received\n",
		Data: log.Fields{
			"status":     302,
			"step":       "authorize",
			FieldAttempt: "a1b2c3d4",
			"ignored":    "x",
		},
	}

	out, err := (&LogFormatter{}).Format(entry)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := string(out)
	want := "[2025-01-02 03:04:05] [a1b2c3d4] [debug] authorize redirect received step=authorize status=302\n"
	if got != want {
		t.Fatalf("unexpected output\n got: %q\nwant: %q", got, want)
	}
}

func TestLogFormatterPlaceholderAttempt(t *testing.T) {
	entry := &log.Entry{
		Time:    time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Level:   log.WarnLevel,
		Message: "hello",
		Data:    log.Fields{},
	}
	out, err := (&LogFormatter{}).Format(entry)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(out), "[--------] [warn ]") {
		t.Fatalf("expected placeholder attempt id and warn level, got %q", out)
	}
}

func TestNewAttemptID(t *testing.T) {
	a, b := NewAttemptID(), NewAttemptID()
	if len(a) != 8 || len(b) != 8 {
		t.Fatalf("expected 8 character ids, got %q and %q", a, b)
	}
	if a == b {
		t.Fatalf("expected distinct ids, got %q twice", a)
	}
}

func TestPruneLogDirDeletesOldest(t *testing.T) {
	dir := t.TempDir()

	writeLogFile(t, filepath.Join(dir, "old.log"), 600*1024, time.Unix(1, 0))
	writeLogFile(t, filepath.Join(dir, "mid.log"), 600*1024, time.Unix(2, 0))
	active := filepath.Join(dir, "wework.log")
	writeLogFile(t, active, 600*1024, time.Unix(3, 0))
	writeLogFile(t, filepath.Join(dir, "notes.txt"), 10, time.Unix(0, 0))

	deleted, err := pruneLogDir(dir, 1, active)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("expected 2 deleted files, got %d", deleted)
	}
	if _, err := os.Stat(active); err != nil {
		t.Fatalf("expected active log to remain, stat error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "notes.txt")); err != nil {
		t.Fatalf("expected non-log file to remain, stat error: %v", err)
	}
}

func TestPruneLogDirDisabled(t *testing.T) {
	dir := t.TempDir()
	writeLogFile(t, filepath.Join(dir, "a.log"), 2048, time.Unix(1, 0))

	deleted, err := pruneLogDir(dir, 0, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != 0 {
		t.Fatalf("expected no deletions, got %d", deleted)
	}
}

func writeLogFile(t *testing.T, path string, size int, modTime time.Time) {
	t.Helper()

	data := make([]byte, size)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := os.Chtimes(path, modTime, modTime); err != nil {
		t.Fatalf("set times: %v", err)
	}
}
