package evaluator

import (
	"strings"

	"github.com/brewlang/brew/internal/ast"
)

// evalVar resolves a variable reference: a bare name, "this", or a single
// level "obj.field" access (spec.md §4.7 — Brew has no multi-level dotted
// chains, matching the original interpreter's one-split field lookup).
func (e *Evaluator) evalVar(name string) Value {
	if name == "this" {
		this := e.currentThis()
		if this == nil {
			return newError(NameError, "this is not bound outside of a method call")
		}
		return this
	}

	if dot := strings.IndexByte(name, '.'); dot >= 0 {
		objName, field := name[:dot], name[dot+1:]
		objVal := e.evalVar(objName)
		if isError(objVal) {
			return objVal
		}
		obj, ok := objVal.(*Object)
		if !ok {
			return newError(TypeError, "%s is not an object, cannot access field %s", objName, field)
		}
		v, ok := obj.lookupFieldOrProto(field)
		if !ok {
			return newError(NameError, "unknown field %s", field)
		}
		return v
	}

	if v, ok := e.Env.Read(name); ok {
		return v
	}

	if overloads, ok := e.Functions[name]; ok {
		if len(overloads) != 1 {
			return newError(NameError, "%s is an overloaded function name and cannot be used as a value", name)
		}
		for _, fn := range overloads {
			return fn
		}
	}

	return newError(NameError, "unknown variable %s", name)
}

func (e *Evaluator) evalUnary(node ast.Node) Value {
	operand := e.Eval(ast.Child(node, "op1"))
	if isError(operand) {
		return operand
	}
	switch node.ElemType() {
	case ast.ElemNeg:
		i, ok := operand.(Int)
		if !ok {
			return newError(TypeError, "unary - requires an integer, got %s", operand.Type())
		}
		return Int{Value: -i.Value}
	case ast.ElemNot:
		b, err := truthy(operand)
		if err != nil {
			return err
		}
		return nativeBoolToValue(!b)
	}
	return newError(TypeError, "unknown unary operator %s", node.ElemType())
}

// evalBinary implements the arithmetic/comparison coercion tables of
// spec.md §4.3: + works on Int+Int and Str+Str; -, *, / are Int-only;
// ordering operators are Int-only (Bool is excluded); == and != coerce
// Int/Bool against each other (nonzero-is-true) and otherwise require
// matching types.
func (e *Evaluator) evalBinary(node ast.Node) Value {
	left := e.Eval(ast.Child(node, "op1"))
	if isError(left) {
		return left
	}
	right := e.Eval(ast.Child(node, "op2"))
	if isError(right) {
		return right
	}

	switch node.ElemType() {
	case ast.ElemAdd:
		if li, lok := left.(Int); lok {
			if ri, rok := right.(Int); rok {
				return Int{Value: li.Value + ri.Value}
			}
		}
		if ls, lok := left.(Str); lok {
			if rs, rok := right.(Str); rok {
				return Str{Value: ls.Value + rs.Value}
			}
		}
		return newError(TypeError, "+ requires two integers or two strings, got %s and %s", left.Type(), right.Type())
	case ast.ElemSub, ast.ElemMul, ast.ElemDiv:
		li, lok := left.(Int)
		ri, rok := right.(Int)
		if !lok || !rok {
			return newError(TypeError, "%s requires two integers, got %s and %s", node.ElemType(), left.Type(), right.Type())
		}
		switch node.ElemType() {
		case ast.ElemSub:
			return Int{Value: li.Value - ri.Value}
		case ast.ElemMul:
			return Int{Value: li.Value * ri.Value}
		case ast.ElemDiv:
			if ri.Value == 0 {
				return newError(TypeError, "division by zero")
			}
			return Int{Value: li.Value / ri.Value}
		}
	case ast.ElemLt, ast.ElemLe, ast.ElemGt, ast.ElemGe:
		li, lok := left.(Int)
		ri, rok := right.(Int)
		if !lok || !rok {
			return newError(TypeError, "%s requires two integers, got %s and %s", node.ElemType(), left.Type(), right.Type())
		}
		switch node.ElemType() {
		case ast.ElemLt:
			return nativeBoolToValue(li.Value < ri.Value)
		case ast.ElemLe:
			return nativeBoolToValue(li.Value <= ri.Value)
		case ast.ElemGt:
			return nativeBoolToValue(li.Value > ri.Value)
		case ast.ElemGe:
			return nativeBoolToValue(li.Value >= ri.Value)
		}
	case ast.ElemEq, ast.ElemNeq:
		eq, err := valuesEqual(left, right)
		if err != nil {
			return err
		}
		if node.ElemType() == ast.ElemNeq {
			eq = !eq
		}
		return nativeBoolToValue(eq)
	}
	return newError(TypeError, "unknown binary operator %s", node.ElemType())
}

// evalLogical implements && and || eagerly: both operands are evaluated
// unconditionally before combining (spec.md's explicit deviation from
// short-circuit evaluation).
func (e *Evaluator) evalLogical(node ast.Node) Value {
	left := e.Eval(ast.Child(node, "op1"))
	if isError(left) {
		return left
	}
	right := e.Eval(ast.Child(node, "op2"))
	if isError(right) {
		return right
	}
	lb, err := truthy(left)
	if err != nil {
		return err
	}
	rb, err := truthy(right)
	if err != nil {
		return err
	}
	if node.ElemType() == ast.ElemAnd {
		return nativeBoolToValue(lb && rb)
	}
	return nativeBoolToValue(lb || rb)
}

// valuesEqual implements == / != coercion: two Ints compare numerically; an
// Int compared with a Bool is first coerced to Bool (nonzero is true), so
// 2 == true holds and -1 == false does not; Nil equals only Nil; Object/Lambda/
// Function compare by identity; Str compares by content.
func valuesEqual(left, right Value) (bool, *Error) {
	if isIntOrBool(left) && isIntOrBool(right) {
		li, _ := truthy(left)
		ri, _ := truthy(right)
		if l, ok := left.(Int); ok {
			if r, ok := right.(Int); ok {
				return l.Value == r.Value, nil
			}
		}
		return li == ri, nil
	}
	if left.Type() != right.Type() {
		return false, nil
	}
	switch l := left.(type) {
	case Nil:
		return true, nil
	case Str:
		r := right.(Str)
		return l.Value == r.Value, nil
	case *Object:
		return l == right.(*Object), nil
	case *Lambda:
		return l == right.(*Lambda), nil
	case *Function:
		return l == right.(*Function), nil
	}
	return false, newError(TypeError, "cannot compare values of type %s", left.Type())
}

func isIntOrBool(v Value) bool {
	switch v.(type) {
	case Int, Bool:
		return true
	}
	return false
}
