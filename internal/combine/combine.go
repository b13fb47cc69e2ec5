// Package combine derives the process exit code from test and lint
// outcomes, the Go-native form of the original tool's main() exit-code
// branch. It is intentionally the smallest package in the pipeline: pure
// boolean logic with no I/O, no library to reach for.
package combine

// ExitCode mirrors main()'s three-way branch: any test failure/error or
// any lint failure means a non-zero exit; clean on both means zero.
// Coverage never participates, matching spec.md's invariant that
// coverage reporting is informational only.
func ExitCode(anyTestFail, anyTestError, lintFailed bool) int {
	if anyTestFail || anyTestError || lintFailed {
		return 1
	}
	return 0
}

// Message returns the human-readable line main() printed alongside the
// exit code, so cmd/testrules's test and check paths share the exact
// wording instead of duplicating the branch.
func Message(anyTestFail, anyTestError, lintFailed bool) string {
	testsFailed := anyTestFail || anyTestError
	switch {
	case lintFailed && testsFailed:
		return "Both linting and tests failed. Please check above for details."
	case lintFailed:
		return "Linting failed but tests passed. Please fix style violations."
	case testsFailed:
		return "Some tests failed. Please check above for details."
	default:
		return "All checks passed successfully!"
	}
}
