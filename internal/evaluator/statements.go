package evaluator

import (
	"strings"

	"github.com/brewlang/brew/internal/ast"
)

// runStatements executes stmts in order, tracking which bare variable names
// it introduces into locals (spec.md §4.4's block scoping: an assignment to
// a name not yet present in the environment pushes a new binding, recorded
// so the enclosing block can pop it on the way out). It stops early on
// error or once e.returning is set by a return statement further down the
// call stack.
func (e *Evaluator) runStatements(stmts []ast.Node, locals *[]string) *Error {
	for _, stmt := range stmts {
		if stmt.ElemType() == ast.ElemAssign {
			name := ast.Str(stmt, "name")
			if name != "this" && !strings.Contains(name, ".") && !e.Env.Exists(name) {
				*locals = append(*locals, name)
			}
		}
		if err := e.execStatement(stmt); err != nil {
			return err
		}
		if e.returning {
			return nil
		}
	}
	return nil
}

// execBlockOnce runs stmts exactly once with their own fresh local-variable
// set, cleaning up that scope before returning — used for if-branches and
// function/lambda bodies (spec.md §4.4).
func (e *Evaluator) execBlockOnce(stmts []ast.Node) *Error {
	var locals []string
	err := e.runStatements(stmts, &locals)
	for _, name := range locals {
		e.Env.Pop(name)
	}
	return err
}

func (e *Evaluator) execStatement(node ast.Node) *Error {
	switch node.ElemType() {
	case ast.ElemAssign:
		return e.execAssign(node)
	case ast.ElemIf:
		return e.execIf(node)
	case ast.ElemWhile:
		return e.execWhile(node)
	case ast.ElemReturn:
		return e.execReturn(node)
	case ast.ElemFCall:
		v := e.evalFCall(node)
		return asError(v)
	case ast.ElemMCall:
		v := e.evalMCall(node)
		return asError(v)
	default:
		return newError(TypeError, "cannot execute node of type %s as a statement", node.ElemType())
	}
}

// execAssign implements spec.md §4.5: a dotted target assigns an object
// field (through the chain the dot's left side resolves to); "this"
// reassigns the current method receiver's binding; otherwise a plain
// variable is written in place, or introduced fresh if it doesn't exist
// yet.
func (e *Evaluator) execAssign(node ast.Node) *Error {
	name := ast.Str(node, "name")
	value := e.Eval(ast.Child(node, "expression"))
	if isError(value) {
		return asError(value)
	}

	if dot := strings.IndexByte(name, '.'); dot >= 0 {
		objName, field := name[:dot], name[dot+1:]
		objVal := e.evalVar(objName)
		if isError(objVal) {
			return asError(objVal)
		}
		obj, ok := objVal.(*Object)
		if !ok {
			return newError(TypeError, "%s is not an object, cannot assign field %s", objName, field)
		}
		if field == "proto" {
			if _, isNil := value.(Nil); isNil {
				obj.Parent = nil
				return nil
			}
			parent, ok := value.(*Object)
			if !ok {
				return newError(TypeError, "proto must be an object or nil")
			}
			obj.Parent = parent
			return nil
		}
		obj.setTop(field, value)
		return nil
	}

	if name == "this" {
		this := e.currentThis()
		if this == nil {
			return newError(NameError, "this is not bound outside of a method call")
		}
		e.Env.Write("this", value)
		e.setCurrentThis(value)
		return nil
	}

	e.Env.Write(name, value)
	return nil
}

func (e *Evaluator) execIf(node ast.Node) *Error {
	cond := e.Eval(ast.Child(node, "condition"))
	if isError(cond) {
		return asError(cond)
	}
	b, terr := truthy(cond)
	if terr != nil {
		return terr
	}
	if b {
		return e.execBlockOnce(ast.Nodes(node, "statements"))
	}
	return e.execBlockOnce(ast.Nodes(node, "else_statements"))
}

// execWhile implements spec.md §4.4's while loop: the locally-introduced
// variable set is shared across all iterations and cleaned up once, after
// the loop exits normally, via early return, or via error.
func (e *Evaluator) execWhile(node ast.Node) *Error {
	cond := ast.Child(node, "condition")
	stmts := ast.Nodes(node, "statements")
	var locals []string
	defer func() {
		for _, name := range locals {
			e.Env.Pop(name)
		}
	}()

	for {
		condVal := e.Eval(cond)
		if isError(condVal) {
			return asError(condVal)
		}
		b, terr := truthy(condVal)
		if terr != nil {
			return terr
		}
		if !b {
			return nil
		}
		if err := e.runStatements(stmts, &locals); err != nil {
			return err
		}
		if e.returning {
			return nil
		}
	}
}

func (e *Evaluator) execReturn(node ast.Node) *Error {
	expr := ast.Child(node, "expression")
	var value Value = Nil{}
	if expr != nil {
		value = e.Eval(expr)
		if isError(value) {
			return asError(value)
		}
	}
	e.returning = true
	e.returnValue = valueCopy(value)
	return nil
}

// valueCopy applies the deep-copy boundary spec.md §4.6 draws at both
// pass-by-value argument binding and function/lambda return: Object values
// are deep-copied (with their parent chain) so the receiver gets an
// independent record; Lambda values get a fresh record with a deep-copied
// closure map; scalars and Functions are already copy-safe under Go's
// value/pointer semantics.
func valueCopy(v Value) Value {
	switch val := v.(type) {
	case *Object:
		return deepCopyObject(val, map[*Object]*Object{})
	case *Lambda:
		return deepCopyLambda(val, map[*Object]*Object{})
	default:
		return v
	}
}
