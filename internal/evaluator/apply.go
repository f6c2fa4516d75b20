package evaluator

import (
	"strings"

	"github.com/google/uuid"

	"github.com/brewlang/brew/internal/ast"
)

// evalFCall resolves and invokes a plain `name(args)` call per spec.md
// §4.6.1's fixed priority: built-ins first, then a same-arity named
// function (an arity mismatch against an existing function name is a
// NameError and never falls through to variable lookup), then a
// Function/Lambda held in a variable, else NameError.
func (e *Evaluator) evalFCall(node ast.Node) Value {
	name := ast.Str(node, "name")
	argNodes := ast.Nodes(node, "args")

	if builtinNames[name] {
		args := make([]Value, len(argNodes))
		for i, an := range argNodes {
			v := e.Eval(an)
			if isError(v) {
				return v
			}
			args[i] = v
		}
		return e.callBuiltin(name, args)
	}

	if overloads, ok := e.Functions[name]; ok {
		fn, found := overloads[len(argNodes)]
		if !found {
			return newError(NameError, "unknown function %s with arg length %d", name, len(argNodes))
		}
		return e.invokeFunction(fn, argNodes, nil)
	}

	if v, ok := e.Env.Read(name); ok {
		switch callee := v.(type) {
		case *Function:
			if callee.Arity() != len(argNodes) {
				return newError(TypeError, "%s expects %d arguments, got %d", name, callee.Arity(), len(argNodes))
			}
			return e.invokeFunction(callee, argNodes, nil)
		case *Lambda:
			return e.invokeLambda(callee, argNodes)
		default:
			return newError(TypeError, "%s is not callable", name)
		}
	}

	return newError(NameError, "unknown function %s with arg length %d", name, len(argNodes))
}

// evalMCall resolves and invokes `obj.name(args)`: name is looked up
// through obj's prototype chain and must be a Function or Lambda value
// (spec.md §4.7). A Function found this way reports an arity mismatch as
// NameError (matching the method-call path, distinct from the
// variable-call path's TypeError in evalFCall).
func (e *Evaluator) evalMCall(node ast.Node) Value {
	objref := ast.Str(node, "objref")
	name := ast.Str(node, "name")
	argNodes := ast.Nodes(node, "args")

	objVal := e.evalVar(objref)
	if isError(objVal) {
		return objVal
	}
	obj, ok := objVal.(*Object)
	if !ok {
		return newError(TypeError, "%s is not an object", objref)
	}

	method, ok := obj.lookupFieldOrProto(name)
	if !ok {
		return newError(NameError, "unknown method %s", name)
	}

	switch callee := method.(type) {
	case *Function:
		if callee.Arity() != len(argNodes) {
			return newError(NameError, "unknown function %s with arg length %d", name, len(argNodes))
		}
		return e.invokeFunction(callee, argNodes, obj)
	case *Lambda:
		return e.invokeLambdaWithReceiver(callee, argNodes, obj)
	default:
		return newError(TypeError, "%s is not callable", name)
	}
}

// evalLambda constructs a Lambda value, capturing a snapshot of every
// currently-bound variable into its closure map (spec.md §4.6.4). Go's
// value/pointer semantics already give the right capture behavior: Int/
// Str/Bool/Nil copy by value, Object/Lambda copy their pointer (sharing
// the same heap entity as the surrounding code), Function shares its
// immutable handle.
func (e *Evaluator) evalLambda(node ast.Node) Value {
	params := paramsFromNodes(ast.Nodes(node, "args"))
	closure := make(map[string]Value)
	for name := range e.Env.store {
		if v, ok := e.Env.Read(name); ok {
			closure[name] = v
		}
	}
	if this := e.currentThis(); this != nil {
		closure["this"] = this
	}
	return &Lambda{ID: uuid.New(), Node: node, Params: params, Closure: closure}
}

// bindParams pushes one binding per formal parameter, choosing reference
// binding when the formal is a refarg and the actual argument is a plain
// (undotted) in-scope variable (spec.md §4.6.2); a ref formal whose
// argument names a function binds that function value by value instead
// (references to functions degrade to value-binding); every other
// argument is evaluated and bound by value, applying the pass-by-value
// deep-copy boundary. On error, any bindings already pushed are unwound.
func (e *Evaluator) bindParams(params []Param, argNodes []ast.Node) *Error {
	pushed := make([]string, 0, len(params))
	unwind := func() {
		for i := len(pushed) - 1; i >= 0; i-- {
			e.Env.Pop(pushed[i])
		}
	}

	for i, param := range params {
		argNode := argNodes[i]

		if param.IsRef && argNode.ElemType() == ast.ElemVar {
			argName := ast.Str(argNode, "name")
			if !strings.Contains(argName, ".") {
				if e.Env.Exists(argName) {
					targetName, targetIdx, _ := e.Env.Resolve(argName)
					e.Env.PushRef(param.Name, targetName, targetIdx)
					pushed = append(pushed, param.Name)
					continue
				}
				if overloads, ok := e.Functions[argName]; ok && len(overloads) == 1 {
					for _, fn := range overloads {
						e.Env.PushDirect(param.Name, fn)
					}
					pushed = append(pushed, param.Name)
					continue
				}
				unwind()
				return newError(NameError, "unknown variable %s", argName)
			}
		}

		val := e.Eval(argNode)
		if isError(val) {
			unwind()
			return asError(val)
		}
		e.Env.PushDirect(param.Name, valueCopy(val))
		pushed = append(pushed, param.Name)
	}
	return nil
}

// invokeFunction runs fn's body with its parameters bound from argNodes,
// optionally under receiver as "this" (spec.md §4.6, §4.7). Arity must
// already match; callers are responsible for that check so the error kind
// they report (NameError for direct/method calls, TypeError for a
// variable-held Function) stays at the call site.
func (e *Evaluator) invokeFunction(fn *Function, argNodes []ast.Node, receiver *Object) Value {
	if e.depth >= e.maxDepth {
		return newError(TypeError, "maximum call depth exceeded")
	}
	e.depth++
	e.pushFrame(fn.Name)
	defer func() { e.depth--; e.popFrame() }()

	if err := e.bindParams(fn.Params, argNodes); err != nil {
		return e.attachStack(err)
	}
	paramNames := paramNamesOf(fn.Params)

	if receiver != nil {
		e.Env.PushDirect("this", receiver)
		e.pushThis(receiver)
	}

	prevReturning, prevReturnValue := e.returning, e.returnValue
	e.returning, e.returnValue = false, nil

	err := e.execBlockOnce(ast.Nodes(fn.Node, "statements"))

	result := e.returnValue
	if !e.returning {
		result = Nil{}
	}
	e.returning, e.returnValue = prevReturning, prevReturnValue

	if receiver != nil {
		e.popThis()
		e.Env.Pop("this")
	}
	for i := len(paramNames) - 1; i >= 0; i-- {
		e.Env.Pop(paramNames[i])
	}

	if err != nil {
		return e.attachStack(err)
	}
	return result
}

func (e *Evaluator) invokeLambda(l *Lambda, argNodes []ast.Node) Value {
	return e.invokeLambdaWithReceiver(l, argNodes, nil)
}

// invokeLambdaWithReceiver runs l's body, binding its parameters from
// argNodes and then its captured closure variables for any name not
// shadowed by a parameter (spec.md §4.6.4-§4.6.5). An arity mismatch here
// is a NameError, matching the original's "unknown lambda" behavior
// regardless of whether the lambda was reached via a direct call, a
// variable, or a method lookup. After the call, every captured entry not
// shadowed by a parameter is refreshed from its post-call top-of-stack
// value so later invocations observe any mutation (spec.md's closure
// persistence), including a captured name rebound to a different Object
// or Lambda.
func (e *Evaluator) invokeLambdaWithReceiver(l *Lambda, argNodes []ast.Node, receiver *Object) Value {
	if len(argNodes) != l.Arity() {
		return newError(NameError, "unknown lambda with arg length %d", len(argNodes))
	}
	if e.depth >= e.maxDepth {
		return newError(TypeError, "maximum call depth exceeded")
	}
	e.depth++
	e.pushFrame("<lambda>")
	defer func() { e.depth--; e.popFrame() }()

	if err := e.bindParams(l.Params, argNodes); err != nil {
		return e.attachStack(err)
	}
	paramNames := paramNamesOf(l.Params)
	isParam := make(map[string]bool, len(paramNames))
	for _, n := range paramNames {
		isParam[n] = true
	}

	var closureNames []string
	for name, v := range l.Closure {
		if isParam[name] {
			continue
		}
		if name == "this" {
			if receiver == nil {
				if obj, ok := v.(*Object); ok {
					receiver = obj
				}
			}
			continue
		}
		e.Env.PushDirect(name, v)
		closureNames = append(closureNames, name)
	}

	if receiver != nil {
		e.Env.PushDirect("this", receiver)
		e.pushThis(receiver)
	}

	prevReturning, prevReturnValue := e.returning, e.returnValue
	e.returning, e.returnValue = false, nil

	err := e.execBlockOnce(ast.Nodes(l.Node, "statements"))

	result := e.returnValue
	if !e.returning {
		result = Nil{}
	}
	e.returning, e.returnValue = prevReturning, prevReturnValue

	if receiver != nil {
		e.popThis()
		e.Env.Pop("this")
	}
	for _, name := range closureNames {
		if updated, ok := e.Env.Read(name); ok {
			l.Closure[name] = updated
		}
		e.Env.Pop(name)
	}
	for i := len(paramNames) - 1; i >= 0; i-- {
		e.Env.Pop(paramNames[i])
	}

	if err != nil {
		return e.attachStack(err)
	}
	return result
}

func paramNamesOf(params []Param) []string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return names
}
