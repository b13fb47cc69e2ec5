// Package report renders a testcase.Result (and, optionally, a coverage
// or lint outcome) to an injected io.Writer, the Go-native analogue of
// the original tool's report_test_summary/report_detailed_test_results
// console output.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"testrules/internal/lint"
	"testrules/internal/testcase"
)

const separator = "============================================================"

// Summary writes the totals/success-rate/duration block, the shape of
// report_test_summary.
func Summary(w io.Writer, r *testcase.Result) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, separator)
	fmt.Fprintln(w, "TEST SUMMARY")
	fmt.Fprintln(w, separator)
	fmt.Fprintf(w, "Passed:         %d\n", r.Passed)
	fmt.Fprintf(w, "Failed:         %d\n", r.Failed)
	fmt.Fprintf(w, "Errors:         %d\n", r.Errors)
	fmt.Fprintf(w, "Total:          %d\n", r.Total)
	fmt.Fprintf(w, "Success Rate:   %.2f%%\n", r.SuccessRate())
	fmt.Fprintf(w, "Execution Time: %.2f seconds\n", r.Duration)

	if r.Failed == 0 && r.Errors == 0 {
		fmt.Fprintln(w, "\nAll tests passed!")
	} else {
		fmt.Fprintf(w, "\n%d test(s) failed or had errors\n", r.Failed+r.Errors)
	}
}

// Detailed writes one line per method result, then a failure-details
// section for anything that didn't pass, mirroring
// report_detailed_test_results.
func Detailed(w io.Writer, r *testcase.Result) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, separator)
	fmt.Fprintln(w, "DETAILED TEST RESULTS")
	fmt.Fprintln(w, separator)

	for _, mr := range r.Results {
		fmt.Fprintf(w, "%s ... %s (%.3fs)\n", mr.Method.FullName(), strings.ToUpper(string(mr.Status)), mr.Duration)
	}

	failed := r.FailedResults()
	if len(failed) == 0 {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, separator)
	fmt.Fprintln(w, "FAILURE DETAILS")
	fmt.Fprintln(w, separator)

	for i, mr := range failed {
		fmt.Fprintf(w, "\n%d. %s\n", i+1, mr.Method.FullName())
		fmt.Fprintln(w, strings.Repeat("-", 60))
		if mr.Status == testcase.StatusFail {
			fmt.Fprintln(w, "FAILURE:")
		} else {
			fmt.Fprintln(w, "ERROR:")
		}
		if mr.Error != "" {
			fmt.Fprintln(w, mr.Error)
		}
		if mr.Traceback != "" {
			fmt.Fprintln(w, mr.Traceback)
		}
	}
}

// Coverage writes a per-file statement-coverage table, the analogue of
// generate_coverage_report's console table.
func Coverage(w io.Writer, c *testcase.CoverageSummary) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "COVERAGE REPORT")
	fmt.Fprintln(w, separator)
	fmt.Fprintf(w, "%-40s %8s %8s %8s\n", "Name", "Stmts", "Miss", "Cover")
	fmt.Fprintln(w, strings.Repeat("-", 60))

	for _, f := range c.PerFile {
		miss := f.Statements - f.Covered
		pct := 0.0
		if f.Statements > 0 {
			pct = (float64(f.Covered) / float64(f.Statements)) * 100.0
		}
		fmt.Fprintf(w, "%-40s %8d %8d %7.1f%%\n", f.Path, f.Statements, miss, pct)
		if len(f.MissingRanges) > 0 {
			fmt.Fprintf(w, "    missing: %s\n", strings.Join(f.MissingRanges, ", "))
		}
	}

	fmt.Fprintln(w, strings.Repeat("-", 60))
	fmt.Fprintf(w, "%-40s %8d %8d %7.1f%%\n", "TOTAL", c.TotalStatements, c.TotalStatements-c.CoveredStatements, c.StatementPercent())
}

// TimingBreakdown writes the top-N slowest method results, mirroring
// main()'s "show timing breakdown for slowest tests" section.
func TimingBreakdown(w io.Writer, r *testcase.Result, topN int) {
	if len(r.Results) == 0 {
		return
	}

	sorted := make([]testcase.MethodResult, len(r.Results))
	copy(sorted, r.Results)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Duration > sorted[j].Duration })

	if topN > len(sorted) {
		topN = len(sorted)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, separator)
	fmt.Fprintln(w, "TIMING BREAKDOWN")
	fmt.Fprintln(w, separator)
	for _, mr := range sorted[:topN] {
		fmt.Fprintf(w, "   %s: %.3fs\n", mr.Method.FullName(), mr.Duration)
	}
}

// Lint writes the lint result summary and, when there are any, a listing
// of individual violations, mirroring report_lint_results.
func Lint(w io.Writer, r lint.Result) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, separator)
	fmt.Fprintln(w, "LINT RESULTS")
	fmt.Fprintln(w, separator)
	fmt.Fprintln(w, lint.Summary(r))

	for _, v := range r.Violations {
		fmt.Fprintf(w, "%s:%d:%d: [%s] %s\n", v.File, v.Line, v.Column, v.Rule, v.Message)
	}
}
