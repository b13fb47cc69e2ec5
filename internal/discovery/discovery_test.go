package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"testrules/internal/config"
)

func writeFiles(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("package pkg\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func testConfig() *config.Config {
	cfg, _ := config.Load("/nonexistent/testrules.json")
	return cfg
}

func TestDiscoverByTestType(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a_test.go", "sub/b_test.go", "sub/notatest.go")

	files, warnings := Discover(Options{TestType: "unit"}, testConfig(), root)

	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(files) != 2 {
		t.Fatalf("got %d files, want 2: %v", len(files), files)
	}
}

func TestDiscoverUnknownTestType(t *testing.T) {
	root := t.TempDir()
	_, warnings := Discover(Options{TestType: "nonexistent"}, testConfig(), root)
	if len(warnings) != 1 {
		t.Fatalf("expected one warning, got %v", warnings)
	}
}

func TestDiscoverByGroup(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "widget.go", "gadget.go")

	cfg := testConfig()
	cfg.TestGroups["fast"] = []string{"widget", "gadget"}

	files, warnings := Discover(Options{Group: "fast"}, cfg, root)

	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(files) != 2 {
		t.Fatalf("got %d files, want 2: %v", len(files), files)
	}
}

func TestDiscoverByGroupMissing(t *testing.T) {
	root := t.TempDir()
	_, warnings := Discover(Options{Group: "nope"}, testConfig(), root)
	if len(warnings) != 1 {
		t.Fatalf("expected one warning, got %v", warnings)
	}
}

func TestDiscoverByModulesNotFound(t *testing.T) {
	root := t.TempDir()
	_, warnings := Discover(Options{Modules: []string{"ghost"}}, testConfig(), root)
	if len(warnings) != 1 {
		t.Fatalf("expected one warning for missing module, got %v", warnings)
	}
}

func TestDiscoverAllDedupsAndSorts(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "z_test.go", "a_test.go")

	files, _ := Discover(Options{}, testConfig(), root)

	if len(files) < 2 {
		t.Fatalf("expected at least 2 files, got %v", files)
	}
	for i := 1; i < len(files); i++ {
		if files[i-1] > files[i] {
			t.Fatalf("files not sorted: %v", files)
		}
	}
}

func TestModulesTakePriorityOverGroup(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "explicit.go")

	cfg := testConfig()
	cfg.TestGroups["fast"] = []string{"should-not-be-used"}

	files, _ := Discover(Options{Modules: []string{"explicit"}, Group: "fast"}, cfg, root)

	if len(files) != 1 {
		t.Fatalf("got %d files, want 1 (explicit module wins)", len(files))
	}
}
