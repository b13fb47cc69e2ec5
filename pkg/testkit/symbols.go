package testkit

import (
	"reflect"

	"github.com/traefik/yaegi/interp"
)

// Symbols is the interp.Exports map that exposes this package's public API
// to a yaegi interpreter, the same shape yaegi's own stdlib/go1_*.go files
// use to expose the standard library. internal/exec calls i.Use(Symbols)
// next to i.Use(stdlib.Symbols) so test source evaluated by the interpreter
// can `import "testrules/pkg/testkit"` like any other package.
var Symbols = interp.Exports{
	"testrules/pkg/testkit/testkit": {
		"Case":      reflect.ValueOf((*Case)(nil)),
		"T":         reflect.ValueOf((*T)(nil)),
		"Outcome":   reflect.ValueOf((*Outcome)(nil)),
		"OutcomeOK": reflect.ValueOf(OutcomeOK),
		"OutcomeFail": reflect.ValueOf(OutcomeFail),
		"OutcomeError": reflect.ValueOf(OutcomeError),
	},
}
