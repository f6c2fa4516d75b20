// Package driver wires lexer, parser and evaluator together into the
// single entrypoint spec.md §6.4 describes: parse a whole program, then
// run its main() function against a host I/O implementation.
package driver

import (
	"fmt"

	"github.com/brewlang/brew/internal/config"
	"github.com/brewlang/brew/internal/evaluator"
	"github.com/brewlang/brew/internal/host"
	"github.com/brewlang/brew/internal/parser"
)

// ParseError wraps one or more syntax errors the parser collected; it is
// distinct from evaluator.Error because parse failures happen before any
// Brew-level NameError/TypeError classification applies.
type ParseError struct {
	Messages []string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s", e.Messages[0])
}

// Run parses source and executes its main() function using io for
// built-in input/output, applying cfg's recursion-depth limit. It returns
// either a *ParseError, an *evaluator.Error, or nil on success.
func Run(source string, io host.IO, cfg config.Config) error {
	program, errs := parser.ParseProgram(source)
	if len(errs) > 0 {
		return &ParseError{Messages: errs}
	}

	ev := evaluator.New(io, cfg.MaxCallDepth)
	ev.SetTrace(cfg.Trace)
	if err := ev.Run(program); err != nil {
		return err
	}
	return nil
}
