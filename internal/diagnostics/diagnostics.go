// Package diagnostics formats the two-kind (NameError/TypeError) errors the
// evaluator surfaces into a message suitable for the CLI's stderr, the way
// the teacher's own packages lean on fmt rather than a logging framework
// for this kind of one-shot, pre-exit reporting.
package diagnostics

import (
	"fmt"
	"io"

	"github.com/brewlang/brew/internal/evaluator"
)

// Report writes a one-line "<Kind>: <message>" rendering of err to w,
// followed by a call stack only when the run had tracing enabled (spec.md
// §7 limits the error model itself to kind plus message — no source
// location, no mandatory stack trace — but doesn't forbid an opt-in trace
// the host config layer adds on top).
func Report(w io.Writer, err *evaluator.Error) {
	fmt.Fprintf(w, "%s: %s\n", err.Kind, err.Message)
	for i := len(err.Stack) - 1; i >= 0; i-- {
		fmt.Fprintf(w, "  at %s\n", err.Stack[i])
	}
}
