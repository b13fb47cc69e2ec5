package obslog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGetIsNoOpWhenDebugModeDisabled(t *testing.T) {
	sink := NewSink(Options{DebugMode: false, LogDir: t.TempDir()})
	logger := sink.Get(CategoryExec)
	logger.Info("should not write anything")

	entries, err := os.ReadDir(sink.opts.LogDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no files written, found %v", entries)
	}
}

func TestGetWritesWhenDebugModeEnabled(t *testing.T) {
	dir := t.TempDir()
	sink := NewSink(Options{DebugMode: true, LogDir: dir, Level: "debug"})
	logger := sink.Get(CategoryExec)
	logger.Info("hello %s", "world")
	sink.Close()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one log file, found %d", len(entries))
	}

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Fatal("expected log file to contain data")
	}
}

func TestRunIDStampsEveryEntry(t *testing.T) {
	dir := t.TempDir()
	sink := NewSink(Options{DebugMode: true, LogDir: dir, Level: "debug"})
	if sink.RunID() == "" {
		t.Fatal("expected a non-empty run ID")
	}
	sink.Get(CategoryExec).Info("first")
	sink.Close()

	entries, _ := os.ReadDir(dir)
	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"run":"`+sink.RunID()+`"`) {
		t.Fatalf("expected log entry to carry run ID %s, got:\n%s", sink.RunID(), data)
	}
}

func TestCategoryDisabledExplicitly(t *testing.T) {
	dir := t.TempDir()
	sink := NewSink(Options{
		DebugMode:  true,
		LogDir:     dir,
		Categories: map[string]bool{string(CategoryExec): false},
	})
	logger := sink.Get(CategoryExec)
	logger.Info("should not write")

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no files for disabled category, found %v", entries)
	}
}

func TestLevelFiltering(t *testing.T) {
	dir := t.TempDir()
	sink := NewSink(Options{DebugMode: true, LogDir: dir, Level: "error"})
	logger := sink.Get(CategoryExec)
	logger.Info("filtered out")
	logger.Error("kept")
	sink.Close()

	entries, _ := os.ReadDir(dir)
	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Fatal("expected error-level entry to be written")
	}
}
