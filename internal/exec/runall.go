package exec

import (
	"context"

	"testrules/internal/testcase"
)

// RunAll executes every Method in methods sequentially -- spec.md's
// concurrency model rules out running them in parallel -- accumulating
// into a single testcase.Result. There is no per-method timeout; only
// ctx's own cancellation or deadline interrupts a method, and once ctx is
// done the remaining methods are not run.
func (r *Runner) RunAll(ctx context.Context, methods []testcase.Method) *testcase.Result {
	result := testcase.NewResult(nil)
	result.StartTiming()

	for _, m := range methods {
		mr := r.RunMethod(ctx, m)
		result.AddResult(mr)
		r.logf("%s ... %s", m.FullName(), mr.Status)

		if ctx.Err() != nil {
			break
		}
	}

	result.StopTiming()
	return result
}
