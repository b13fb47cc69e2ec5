// Package testkit is the test-framework contract that testrules consumes
// but does not reimplement: the "class with test methods, setup/teardown
// hooks, assertion primitive that raises a distinguished failure" from the
// original host language, expressed as a Go type a test source file embeds.
//
// A test file interpreted by testrules looks like:
//
//	package mypkg
//
//	import "testrules/pkg/testkit"
//
//	type CalculatorSuite struct {
//	    testkit.Case
//	}
//
//	func (s *CalculatorSuite) SetUp()    {}
//	func (s *CalculatorSuite) TearDown() {}
//	func (s *CalculatorSuite) TestAdd(t *testkit.T) {
//	    if 1+1 != 2 {
//	        t.Fail("expected 1+1 to equal 2")
//	    }
//	}
//
//	func TestStandalone(t *testkit.T) {
//	    t.Fail("always fails")
//	}
package testkit

import "fmt"

// Case is the test-case capability: an embeddable marker type a struct
// derives from to be recognized as holding Test* methods. It carries no
// state of its own; SetUp/TearDown are detected by name, not by interface,
// so a Case embedder participates whether or not it defines either hook.
type Case struct{}

// T is the handle passed to every test method/function. Fail is the
// assertion primitive: it raises the single distinguished failure the
// engine's fail/error split is keyed on. Any other panic escaping a test is
// an error, not a failure.
type T struct {
	failed bool
	msg    string
}

// failureSignal is the sentinel panic value Fail raises. The executor
// recovers it and distinguishes it from any other panic by type, exactly
// the way the host language's assertion primitive raises a value distinct
// from an arbitrary exception.
type failureSignal struct {
	msg string
}

// Fail records an assertion mismatch and unwinds the current test via
// panic. It never returns.
func (t *T) Fail(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	t.failed = true
	t.msg = msg
	panic(failureSignal{msg: msg})
}

// Fatalf is an alias for Fail kept for readers used to the standard
// library's testing.T vocabulary.
func (t *T) Fatalf(format string, args ...interface{}) {
	t.Fail(format, args...)
}

// Failed reports whether Fail has already been called on this handle.
func (t *T) Failed() bool {
	return t.failed
}

// Outcome is the tagged-variant result of running one test method, the
// concrete form of the framework Result the spec models abstractly.
type Outcome struct {
	Kind  OutcomeKind
	Msg   string
	Trace string
}

// OutcomeKind enumerates the trichotomy a framework Result collapses to.
type OutcomeKind int

const (
	OutcomeOK OutcomeKind = iota
	OutcomeFail
	OutcomeError
)

// IsFailureSignal reports whether v is the sentinel panic value Fail
// raises, and if so returns its message. Used by the executor's recover
// to tell an assertion mismatch apart from an arbitrary exception.
func IsFailureSignal(v interface{}) (string, bool) {
	fs, ok := v.(failureSignal)
	if !ok {
		return "", false
	}
	return fs.msg, true
}
