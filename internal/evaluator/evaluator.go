// Package evaluator is Brew's tree-walking interpreter core: value model,
// environment, prototype objects, expression/statement evaluation and call
// machinery (spec.md §3-§4). It never touches source text or tokens; it
// only ever calls ast.Node's ElemType()/Get(key).
package evaluator

import (
	"fmt"

	"github.com/brewlang/brew/internal/ast"
	"github.com/brewlang/brew/internal/host"
)

// DefaultMaxCallDepth bounds recursive function/lambda invocation so a
// runaway Brew program fails with a reported error instead of crashing the
// Go process with a stack overflow — the evaluator's only concession to
// resource limits, since Brew itself has no notion of stack depth.
const DefaultMaxCallDepth = 5000

// Evaluator holds all process-wide state for one run (spec.md §5: value
// store, object store and call stack are "entirely process-wide state
// within a single evaluator instance — never shared across runs").
type Evaluator struct {
	Env       *Environment
	Functions map[string]map[int]*Function
	Host      host.IO

	maxDepth int
	depth    int

	returning   bool
	returnValue Value

	thisStack []Value

	trace     bool
	callStack []string
}

// SetTrace enables call-stack capture on the first error raised during a
// run (spec.md's error model stays kind+message only; this is the config
// layer's opt-in "trace" knob, attached to *Error.Stack for diagnostics to
// render, the same "capture once, at the point the error first surfaces"
// idiom as the teacher's own StackTrace field).
func (e *Evaluator) SetTrace(on bool) { e.trace = on }

// pushFrame/popFrame track the call-machinery stack only while tracing is
// enabled, so a non-traced run pays no bookkeeping cost.
func (e *Evaluator) pushFrame(name string) {
	if e.trace {
		e.callStack = append(e.callStack, name)
	}
}

func (e *Evaluator) popFrame() {
	if e.trace && len(e.callStack) > 0 {
		e.callStack = e.callStack[:len(e.callStack)-1]
	}
}

// attachStack records the current call stack on err the first time it
// surfaces, if tracing is enabled (matches the teacher's
// "if len(err.StackTrace) == 0 && len(e.CallStack) > 0" guard in
// apply.go/expressions_calls.go — attach once, at the deepest frame).
func (e *Evaluator) attachStack(err *Error) *Error {
	if e.trace && err != nil && len(err.Stack) == 0 && len(e.callStack) > 0 {
		frames := make([]string, len(e.callStack))
		copy(frames, e.callStack)
		err.Stack = frames
	}
	return err
}

// New builds an Evaluator bound to io, with a recursion guard at maxDepth
// (0 selects DefaultMaxCallDepth).
func New(io host.IO, maxDepth int) *Evaluator {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxCallDepth
	}
	return &Evaluator{
		Env:       NewEnvironment(),
		Functions: make(map[string]map[int]*Function),
		Host:      io,
		maxDepth:  maxDepth,
	}
}

// Load registers every function definition in program (a Node with
// ElemType "program", field "functions") into the function table, keyed by
// name then arity so same-named functions of different arity coexist
// (spec.md §3.3's overloading).
func (e *Evaluator) Load(program ast.Node) *Error {
	for _, fn := range ast.Nodes(program, "functions") {
		name := ast.Str(fn, "name")
		params := paramsFromNodes(ast.Nodes(fn, "args"))
		record := &Function{Name: name, Node: fn, Params: params}
		if e.Functions[name] == nil {
			e.Functions[name] = make(map[int]*Function)
		}
		if _, dup := e.Functions[name][len(params)]; dup {
			return newError(NameError, "function %s already defined with %d parameters", name, len(params))
		}
		e.Functions[name][len(params)] = record
	}
	return nil
}

// Run locates the zero-argument "main" function and invokes it — Brew's
// sole program entry point (spec.md §6.4).
func (e *Evaluator) Run(program ast.Node) *Error {
	if err := e.Load(program); err != nil {
		return err
	}
	main, ok := e.Functions["main"][0]
	if !ok {
		return newError(NameError, "no main function with 0 parameters")
	}
	result := e.invokeFunction(main, nil, nil)
	if isError(result) {
		return asError(result)
	}
	return nil
}

// Eval evaluates an expression node to a Value. Errors are returned as a
// *Error Value (checked with isError), never panicked — the Go realization
// of spec.md §6.2's "host.error never returns": the call unwinds by simply
// propagating the *Error up through every caller instead of jumping out of
// band.
func (e *Evaluator) Eval(node ast.Node) Value {
	if node == nil {
		return Nil{}
	}
	switch node.ElemType() {
	case ast.ElemInt:
		return Int{Value: node.Get("val").(int64)}
	case ast.ElemString:
		return Str{Value: node.Get("val").(string)}
	case ast.ElemBool:
		return nativeBoolToValue(node.Get("val").(bool))
	case ast.ElemNil:
		return Nil{}
	case ast.ElemVar:
		return e.evalVar(ast.Str(node, "name"))
	case ast.ElemNeg, ast.ElemNot:
		return e.evalUnary(node)
	case ast.ElemAdd, ast.ElemSub, ast.ElemMul, ast.ElemDiv,
		ast.ElemEq, ast.ElemNeq, ast.ElemLt, ast.ElemLe, ast.ElemGt, ast.ElemGe:
		return e.evalBinary(node)
	case ast.ElemAnd, ast.ElemOr:
		return e.evalLogical(node)
	case ast.ElemFCall:
		return e.evalFCall(node)
	case ast.ElemMCall:
		return e.evalMCall(node)
	case ast.ElemLambda:
		return e.evalLambda(node)
	case ast.ElemAt:
		return newObject()
	default:
		return newError(TypeError, "cannot evaluate node of type %s as an expression", node.ElemType())
	}
}

// currentThis returns the receiver in scope for an unqualified "this"
// reference inside a method body, or nil outside any method call. It is
// typed as Value (not *Object) because spec.md §4.5 lets `this = e`
// rebind the receiver to any value, not just another Object (the original
// interpreter's do_assignment leaves the resulting value unchecked too).
func (e *Evaluator) currentThis() Value {
	if len(e.thisStack) == 0 {
		return nil
	}
	return e.thisStack[len(e.thisStack)-1]
}

// setCurrentThis replaces the top of the receiver stack in place — the
// counterpart to e.Env.Write("this", value) a literal `this = e` assignment
// must also update, since currentThis (not the environment) is what every
// unqualified `this`/`this.field` read resolves through.
func (e *Evaluator) setCurrentThis(v Value) {
	if len(e.thisStack) > 0 {
		e.thisStack[len(e.thisStack)-1] = v
	}
}

func (e *Evaluator) pushThis(obj *Object) { e.thisStack = append(e.thisStack, obj) }
func (e *Evaluator) popThis()             { e.thisStack = e.thisStack[:len(e.thisStack)-1] }

// truthy coerces an Int or Bool value to a boolean per spec.md §4.1's
// nonzero-is-true coercion; any other type is a TypeError.
func truthy(v Value) (bool, *Error) {
	switch val := v.(type) {
	case Bool:
		return val.Value, nil
	case Int:
		return val.Value != 0, nil
	default:
		return false, newError(TypeError, "expected a boolean or integer condition, got %s", v.Type())
	}
}

// Display renders v the way print concatenates it: spec.md §6.3 says print
// joins its arguments' string forms with no separator, integers and
// booleans rendered in their literal textual form.
func Display(v Value) string {
	switch val := v.(type) {
	case Nil:
		return "nil"
	case Bool:
		if val.Value {
			return "true"
		}
		return "false"
	case Int:
		return fmt.Sprintf("%d", val.Value)
	case Str:
		return val.Value
	case *Function:
		return val.Inspect()
	case *Lambda:
		return val.Inspect()
	case *Object:
		return val.Inspect()
	case *Error:
		return val.Inspect()
	default:
		return fmt.Sprintf("%v", v)
	}
}
