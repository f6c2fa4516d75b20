package evaluator

import "strconv"

// builtinNames is the fixed set of built-in functions Brew provides
// (spec.md §6.3); they're checked before any user-defined function of the
// same name, and can't be overloaded or shadowed by a variable.
var builtinNames = map[string]bool{
	"print":  true,
	"inputi": true,
	"inputs": true,
}

// callBuiltin evaluates a builtin call's already-evaluated arguments.
// print concatenates the string form of every argument with no separator
// and writes one line; inputi/inputs optionally print their one argument as
// a prompt, then read one line from the host, returning it parsed as an Int
// (inputi) or as-is (inputs).
func (e *Evaluator) callBuiltin(name string, args []Value) Value {
	switch name {
	case "print":
		var line string
		for _, a := range args {
			line += Display(a)
		}
		e.Host.Output(line)
		return Nil{}
	case "inputi":
		if err := e.promptForInput(args); err != nil {
			return err
		}
		line, ok := e.Host.GetInput()
		if !ok {
			return newError(TypeError, "inputi: no input available")
		}
		n, err := strconv.ParseInt(line, 10, 64)
		if err != nil {
			return newError(TypeError, "inputi: %q is not an integer", line)
		}
		return Int{Value: n}
	case "inputs":
		if err := e.promptForInput(args); err != nil {
			return err
		}
		line, ok := e.Host.GetInput()
		if !ok {
			return newError(TypeError, "inputs: no input available")
		}
		return Str{Value: line}
	default:
		return newError(NameError, "unknown builtin %s", name)
	}
}

// promptForInput implements spec.md §6.3's input-builtin argument rule: zero
// arguments reads silently, one argument is written as a prompt via Output
// before reading, and more than one argument is a NameError.
func (e *Evaluator) promptForInput(args []Value) *Error {
	switch len(args) {
	case 0:
		return nil
	case 1:
		e.Host.Output(Display(args[0]))
		return nil
	default:
		return newError(NameError, "input builtins take at most 1 argument, got %d", len(args))
	}
}
