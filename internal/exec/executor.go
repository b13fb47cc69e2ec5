// Package exec dynamically loads a test source file with a yaegi
// interpreter and runs one discovered Method from it. This is the
// genuinely dynamic half of the port: Go cannot import a file chosen at
// runtime, so each test method is executed by handing its source to an
// interpreter, pulling the symbol out by reflection, and calling it --
// the same technique the teacher uses to run tool code it generated for
// itself.
package exec

import (
	"context"
	"fmt"
	"path/filepath"
	"reflect"
	"runtime/debug"
	"time"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"testrules/internal/obslog"
	"testrules/internal/testcase"
	"testrules/pkg/testkit"
)

// Runner executes discovered test methods one at a time. It never reuses
// an interpreter across methods: each run gets a fresh one so a panic or
// global-state mutation in one test method can't bleed into the next,
// matching spec.md's single-threaded, no-shared-state execution model.
type Runner struct {
	log *obslog.Logger
}

// NewRunner builds a Runner. log may be nil, in which case every log
// call is silently dropped.
func NewRunner(log *obslog.Logger) *Runner {
	return &Runner{log: log}
}

func (r *Runner) logf(format string, args ...interface{}) {
	if r.log != nil {
		r.log.Debug(format, args...)
	}
}

// RunMethod executes one Method and returns its MethodResult. ctx bounds
// the whole call, including setup, the method body, and teardown.
func (r *Runner) RunMethod(ctx context.Context, m testcase.Method) testcase.MethodResult {
	start := time.Now()

	i := interp.New(interp.Options{GoPath: filepath.Dir(m.FilePath)})
	if err := i.Use(stdlib.Symbols); err != nil {
		return errorResult(m, start, fmt.Sprintf("failed to load stdlib: %v", err), "")
	}
	if err := i.Use(testkit.Symbols); err != nil {
		return errorResult(m, start, fmt.Sprintf("failed to load testkit: %v", err), "")
	}

	r.logf("evaluating %s", m.FilePath)
	if _, err := i.EvalPath(m.FilePath); err != nil {
		return errorResult(m, start, fmt.Sprintf("Failed to import module: %v", err), "")
	}

	outcome := r.invoke(ctx, i, m)
	duration := time.Since(start).Seconds()

	switch outcome.Kind {
	case testkit.OutcomeOK:
		return testcase.MethodResult{Method: m, Status: testcase.StatusPass, Duration: duration}
	case testkit.OutcomeFail:
		return testcase.MethodResult{Method: m, Status: testcase.StatusFail, Duration: duration, Error: outcome.Msg, Traceback: outcome.Trace}
	default:
		return testcase.MethodResult{Method: m, Status: testcase.StatusError, Duration: duration, Error: outcome.Msg, Traceback: outcome.Trace}
	}
}

// invoke locates and calls the test symbol, running SetUp/TearDown
// around it when the method belongs to a testkit.Case type. It always
// runs on its own goroutine so ctx's deadline can interrupt it.
func (r *Runner) invoke(ctx context.Context, i *interp.Interpreter, m testcase.Method) testkit.Outcome {
	resultCh := make(chan testkit.Outcome, 1)

	go func() {
		resultCh <- func() (outcome testkit.Outcome) {
			defer func() {
				if rec := recover(); rec != nil {
					outcome = recoverToOutcome(rec)
				}
			}()

			if m.ClassName != "" {
				return r.invokeCaseMethod(i, m)
			}
			return r.invokeStandaloneFunc(i, m)
		}()
	}()

	select {
	case outcome := <-resultCh:
		return outcome
	case <-ctx.Done():
		return testkit.Outcome{Kind: testkit.OutcomeError, Msg: fmt.Sprintf("test execution timed out: %v", ctx.Err())}
	}
}

// invokeCaseMethod constructs the zero value of the receiver type, runs
// SetUp if present, runs the named Test method, then TearDown, mirroring
// run_single_test_method's unittest.TestSuite-of-one construction.
//
// m.Module is the discovery-time, path-derived display name (see
// inspect.ModuleNameFromPath) and has no relationship to the package
// identifier the source file actually declares, so it is never usable as
// a yaegi selector. Instead the type is located in the interpreter's own
// exported-symbol map (i.Symbols("")), exactly as the evaluated source
// declared it, and everything past that point is plain reflection.
func (r *Runner) invokeCaseMethod(i *interp.Interpreter, m testcase.Method) testkit.Outcome {
	structType, err := lookupType(i, m.ClassName)
	if err != nil {
		return testkit.Outcome{Kind: testkit.OutcomeError, Msg: err.Error()}
	}
	instance := reflect.New(structType)

	callHookIfPresent(instance, "SetUp")
	defer callHookIfPresent(instance, "TearDown")

	method := instance.MethodByName(m.Name)
	if !method.IsValid() {
		return testkit.Outcome{Kind: testkit.OutcomeError, Msg: fmt.Sprintf("method %s.%s not found", m.ClassName, m.Name)}
	}

	t := &testkit.T{}
	method.Call([]reflect.Value{reflect.ValueOf(t)})
	return testkit.Outcome{Kind: testkit.OutcomeOK}
}

func (r *Runner) invokeStandaloneFunc(i *interp.Interpreter, m testcase.Method) testkit.Outcome {
	v, err := lookupSymbol(i, m.Name)
	if err != nil {
		return testkit.Outcome{Kind: testkit.OutcomeError, Msg: err.Error()}
	}
	fn, ok := v.Interface().(func(*testkit.T))
	if !ok {
		return testkit.Outcome{Kind: testkit.OutcomeError, Msg: fmt.Sprintf("%s has an unsupported signature", m.Name)}
	}
	t := &testkit.T{}
	fn(t)
	return testkit.Outcome{Kind: testkit.OutcomeOK}
}

// modulePackage returns the exported-symbol map of the package i just
// evaluated via EvalPath, identified as whichever entry in i.Symbols("")
// isn't one of the library packages every Runner loads up front.
func modulePackage(i *interp.Interpreter) (map[string]reflect.Value, error) {
	for path, syms := range i.Symbols("") {
		if _, isStdlib := stdlib.Symbols[path]; isStdlib {
			continue
		}
		if _, isTestkit := testkit.Symbols[path]; isTestkit {
			continue
		}
		return syms, nil
	}
	return nil, fmt.Errorf("could not locate the evaluated module's package in the interpreter")
}

// lookupType finds a struct type declared in the evaluated module by
// name. Exported types surface in the symbol map the same way
// pkg/testkit/symbols.go registers its own (reflect.ValueOf((*T)(nil))),
// so Type().Elem() recovers the struct type itself.
func lookupType(i *interp.Interpreter, name string) (reflect.Type, error) {
	pkg, err := modulePackage(i)
	if err != nil {
		return nil, err
	}
	v, ok := pkg[name]
	if !ok || v.Kind() != reflect.Ptr {
		return nil, fmt.Errorf("type %s not found in evaluated module", name)
	}
	return v.Type().Elem(), nil
}

// lookupSymbol finds any top-level symbol (a standalone function, here)
// declared in the evaluated module by name.
func lookupSymbol(i *interp.Interpreter, name string) (reflect.Value, error) {
	pkg, err := modulePackage(i)
	if err != nil {
		return reflect.Value{}, err
	}
	v, ok := pkg[name]
	if !ok {
		return reflect.Value{}, fmt.Errorf("%s not found in evaluated module", name)
	}
	return v, nil
}

func callHookIfPresent(instance reflect.Value, hookName string) {
	method := instance.MethodByName(hookName)
	if !method.IsValid() {
		return // hook not defined; that's fine, it's optional
	}
	method.Call(nil)
}

// recoverToOutcome distinguishes testkit.Fail's sentinel panic (an
// assertion failure) from any other panic (an error), matching
// run_single_test_method's result.failures vs result.errors split.
func recoverToOutcome(rec interface{}) testkit.Outcome {
	if msg, ok := testkit.IsFailureSignal(rec); ok {
		return testkit.Outcome{Kind: testkit.OutcomeFail, Msg: msg, Trace: string(debug.Stack())}
	}
	return testkit.Outcome{Kind: testkit.OutcomeError, Msg: fmt.Sprintf("%v", rec), Trace: string(debug.Stack())}
}

func errorResult(m testcase.Method, start time.Time, msg, trace string) testcase.MethodResult {
	return testcase.MethodResult{
		Method:    m,
		Status:    testcase.StatusError,
		Duration:  time.Since(start).Seconds(),
		Error:     msg,
		Traceback: trace,
	}
}
