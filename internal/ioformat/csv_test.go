package ioformat

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriterRunningThenRenameOnCleanExit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.csv")

	w, err := NewWriter(path, false)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if err := w.WriteHeader(); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	if err := w.WriteRecord(Record{
		Date: "2026-07-31", Problem: "wvcp", Instance: "triangle", Method: "local_search",
		Turn: 1, ElapsedSeconds: 0.5, NColors: 3, NConflicts: 0, Score: 6,
		Coloring: []int32{0, 1, 2},
	}); err != nil {
		t.Fatalf("WriteRecord: %v", err)
	}

	if _, err := os.Stat(path + ".running"); err != nil {
		t.Fatalf(".running file missing mid-run: %v", err)
	}

	if err := w.Close(true); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("final path missing after clean close: %v", err)
	}
	if _, err := os.Stat(path + ".running"); !os.IsNotExist(err) {
		t.Fatalf(".running file should be gone after rename")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading final csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 data line, got %d lines", len(lines))
	}
	if !strings.Contains(lines[1], "0:1:2") {
		t.Fatalf("data line missing coloring column: %q", lines[1])
	}
}

func TestWriterLeavesRunningFileOnDirtyClose(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.csv")

	w, err := NewWriter(path, true)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	_ = w.WriteHeader()
	_ = w.Close(false)

	if _, err := os.Stat(path + ".running"); err != nil {
		t.Fatalf(".running file should survive a dirty close: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("final path should not exist after a dirty close")
	}
}
