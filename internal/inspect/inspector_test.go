package inspect

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleSource = `package calc

import "testrules/pkg/testkit"

type CalculatorSuite struct {
	testkit.Case
}

func (s *CalculatorSuite) SetUp() {}

func (s *CalculatorSuite) TestAdd(t *testkit.T) {
	if 1+1 != 2 {
		t.Fail("bad math")
	}
}

func (s *CalculatorSuite) helperNotATest() {}

func TestStandalone(t *testkit.T) {}

func notATestFunc() {}
`

func writeSample(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "calc_test.go")
	if err := os.WriteFile(path, []byte(sampleSource), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestInspectFindsCaseMethodsAndStandaloneFuncs(t *testing.T) {
	ins := New()
	defer ins.Close()

	path := writeSample(t)
	methods, diag := ins.Inspect("calc", path)
	if diag != nil {
		t.Fatalf("unexpected diagnostic: %+v", diag)
	}

	names := map[string]bool{}
	for _, m := range methods {
		names[m.FullName()] = true
	}

	if !names["calc.CalculatorSuite.TestAdd"] {
		t.Errorf("missing case method, got %v", names)
	}
	if !names["calc.TestStandalone"] {
		t.Errorf("missing standalone func, got %v", names)
	}
	if len(methods) != 2 {
		t.Errorf("got %d methods, want 2 (helperNotATest/notATestFunc must be excluded): %v", len(methods), methods)
	}
}

func TestInspectMissingFile(t *testing.T) {
	ins := New()
	defer ins.Close()

	_, diag := ins.Inspect("ghost", filepath.Join(t.TempDir(), "ghost_test.go"))
	if diag == nil {
		t.Fatal("expected a diagnostic for a missing file")
	}
}

func TestModuleNameFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{path: "calc_test.go", want: "calc_test"},
		{path: "./pkg/calc_test.go", want: "pkg.calc_test"},
		{path: "pkg/sub/calc_test.go", want: "pkg.sub.calc_test"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := ModuleNameFromPath(tt.path); got != tt.want {
				t.Errorf("ModuleNameFromPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
