package testcase

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMethodFullName(t *testing.T) {
	tests := []struct {
		name   string
		method Method
		want   string
	}{
		{
			name:   "method on a class",
			method: Method{Name: "TestAdd", Module: "calc", ClassName: "CalculatorSuite"},
			want:   "calc.CalculatorSuite.TestAdd",
		},
		{
			name:   "standalone function",
			method: Method{Name: "TestStandalone", Module: "calc"},
			want:   "calc.TestStandalone",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.method.FullName(); got != tt.want {
				t.Errorf("FullName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResultAddResultKeepsCountersInSync(t *testing.T) {
	clock := 0.0
	r := NewResult(func() float64 {
		clock++
		return clock
	})

	r.AddResult(MethodResult{Status: StatusPass})
	r.AddResult(MethodResult{Status: StatusFail})
	r.AddResult(MethodResult{Status: StatusError})
	r.AddResult(MethodResult{Status: StatusPass})

	if r.Total != 4 {
		t.Fatalf("Total = %d, want 4", r.Total)
	}
	if r.Total != len(r.Results) {
		t.Fatalf("Total (%d) != len(Results) (%d)", r.Total, len(r.Results))
	}
	if sum := r.Passed + r.Failed + r.Errors; sum != r.Total {
		t.Fatalf("Passed+Failed+Errors = %d, want %d", sum, r.Total)
	}
	if r.Passed != 2 || r.Failed != 1 || r.Errors != 1 {
		t.Fatalf("got passed=%d failed=%d errors=%d", r.Passed, r.Failed, r.Errors)
	}
}

func TestResultSuccessRate(t *testing.T) {
	tests := []struct {
		name    string
		results []Status
		want    float64
	}{
		{name: "empty", results: nil, want: 0.0},
		{name: "all pass", results: []Status{StatusPass, StatusPass}, want: 100.0},
		{name: "half pass", results: []Status{StatusPass, StatusFail}, want: 50.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResult(nil)
			for _, s := range tt.results {
				r.AddResult(MethodResult{Status: s})
			}
			if got := r.SuccessRate(); got != tt.want {
				t.Errorf("SuccessRate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResultFailedResults(t *testing.T) {
	r := NewResult(nil)
	r.AddResult(MethodResult{Method: Method{Name: "A"}, Status: StatusPass})
	r.AddResult(MethodResult{Method: Method{Name: "B"}, Status: StatusFail})
	r.AddResult(MethodResult{Method: Method{Name: "C"}, Status: StatusError})

	failed := r.FailedResults()
	want := []MethodResult{
		{Method: Method{Name: "B"}, Status: StatusFail},
		{Method: Method{Name: "C"}, Status: StatusError},
	}
	if diff := cmp.Diff(want, failed); diff != "" {
		t.Fatalf("FailedResults() mismatch (-want +got):\n%s", diff)
	}
}

func TestResultTiming(t *testing.T) {
	clock := 10.0
	r := NewResult(func() float64 {
		clock += 5
		return clock
	})
	r.StartTiming()
	r.StopTiming()
	if r.Duration != 5 {
		t.Fatalf("Duration = %v, want 5", r.Duration)
	}
}

func TestCoverageSummaryStatementPercent(t *testing.T) {
	tests := []struct {
		name string
		cov  CoverageSummary
		want float64
	}{
		{name: "no statements", cov: CoverageSummary{}, want: 0.0},
		{name: "half covered", cov: CoverageSummary{TotalStatements: 10, CoveredStatements: 5}, want: 50.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cov.StatementPercent(); got != tt.want {
				t.Errorf("StatementPercent() = %v, want %v", got, tt.want)
			}
		})
	}
}
