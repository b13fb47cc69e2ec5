// Package lint runs static style checks over a search path, the
// Go-native analogue of the original tool's flake8-based run_lint. It
// prefers shelling out to golangci-lint when it's on PATH -- the
// ecosystem's de facto linter, never meant to be embedded as a Go
// library -- and falls back to a small built-in tree-sitter scan when it
// isn't, so a lint step always produces a result.
package lint

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
)

// Violation is one style issue found in a source file.
type Violation struct {
	File    string
	Line    int
	Column  int
	Rule    string
	Message string
}

// Result is the outcome of one lint run.
type Result struct {
	Violations []Violation
	Backend    string // "golangci-lint" or "builtin"
	Failed     bool   // true if the backend itself errored, distinct from finding violations
}

// Count is the number of violations found, the Go-native analogue of
// run_lint's returned violation_count (-1 meant "errored"; here Failed
// carries that instead of overloading the count).
func (r Result) Count() int {
	return len(r.Violations)
}

// Run lints searchPath, preferring golangci-lint and falling back to the
// built-in scanner only when the external binary is not on PATH. When
// golangci-lint runs but its output cannot be parsed, the result has
// Failed set and the built-in scanner is not tried.
func Run(ctx context.Context, searchPath string) Result {
	if res, ok := runGolangciLint(ctx, searchPath); ok {
		return res
	}
	return runBuiltin(searchPath)
}

// golangciJSON is the subset of golangci-lint's --out-format json shape
// this package cares about.
type golangciJSON struct {
	Issues []struct {
		FromLinter string `json:"FromLinter"`
		Text       string `json:"Text"`
		Pos        struct {
			Filename string `json:"Filename"`
			Line     int    `json:"Line"`
			Column   int    `json:"Column"`
		} `json:"Pos"`
	} `json:"Issues"`
}

// runGolangciLint shells out to the golangci-lint binary and parses its
// JSON report, mirroring the teacher's battery.go subprocess-with-
// captured-output idiom. ok is false only when the binary can't be found
// on PATH, signaling the caller to fall back; a binary that fails to run
// leaves stdout empty and so reports Failed with ok true.
func runGolangciLint(ctx context.Context, searchPath string) (Result, bool) {
	if _, err := exec.LookPath("golangci-lint"); err != nil {
		return Result{}, false
	}

	cmd := exec.CommandContext(ctx, "golangci-lint", "run", "--out-format", "json", searchPath+"/...")
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = nil

	// golangci-lint exits non-zero when it finds issues; that's not a
	// tool failure, so only an unparsable stdout counts as Failed.
	_ = cmd.Run()

	var parsed golangciJSON
	if err := json.Unmarshal(stdout.Bytes(), &parsed); err != nil {
		return Result{Backend: "golangci-lint", Failed: true}, true
	}

	result := Result{Backend: "golangci-lint"}
	for _, issue := range parsed.Issues {
		result.Violations = append(result.Violations, Violation{
			File:    issue.Pos.Filename,
			Line:    issue.Pos.Line,
			Column:  issue.Pos.Column,
			Rule:    issue.FromLinter,
			Message: issue.Text,
		})
	}
	return result, true
}

// Summary renders a one-line human-readable summary, the same shape as
// report_lint_results' violation-count message.
func Summary(r Result) string {
	if r.Failed {
		return "linting failed due to an error"
	}
	n := r.Count()
	if n == 0 {
		return "no style violations found"
	}
	if n == 1 {
		return "found 1 style violation"
	}
	return fmt.Sprintf("found %d style violations", n)
}
