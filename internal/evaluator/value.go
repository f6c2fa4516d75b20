package evaluator

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/brewlang/brew/internal/ast"
)

// ValueType tags the runtime representation of a Brew value (spec.md §3.1).
type ValueType string

const (
	NIL_VALUE      ValueType = "NIL"
	BOOL_VALUE     ValueType = "BOOL"
	INT_VALUE      ValueType = "INT"
	STRING_VALUE   ValueType = "STRING"
	FUNCTION_VALUE ValueType = "FUNCTION"
	LAMBDA_VALUE   ValueType = "LAMBDA"
	OBJECT_VALUE   ValueType = "OBJECT"
	ERROR_VALUE    ValueType = "ERROR"
)

// Value is the interface every Brew runtime value implements.
type Value interface {
	Type() ValueType
	Inspect() string
}

// Nil is the absence value.
type Nil struct{}

func (Nil) Type() ValueType  { return NIL_VALUE }
func (Nil) Inspect() string  { return "nil" }

// Bool wraps a boolean.
type Bool struct{ Value bool }

func (b Bool) Type() ValueType { return BOOL_VALUE }
func (b Bool) Inspect() string {
	if b.Value {
		return "true"
	}
	return "false"
}

var (
	TRUE  = Bool{Value: true}
	FALSE = Bool{Value: false}
)

func nativeBoolToValue(v bool) Bool {
	if v {
		return TRUE
	}
	return FALSE
}

// Int wraps a 64-bit signed integer.
type Int struct{ Value int64 }

func (i Int) Type() ValueType { return INT_VALUE }
func (i Int) Inspect() string { return fmt.Sprintf("%d", i.Value) }

// Str wraps an immutable string.
type Str struct{ Value string }

func (s Str) Type() ValueType { return STRING_VALUE }
func (s Str) Inspect() string { return s.Value }

// ErrorKind is one of the two error kinds the evaluator reports (spec.md §7).
type ErrorKind string

const (
	NameError ErrorKind = "NameError"
	TypeError ErrorKind = "TypeError"
)

// Error is how Brew realizes the host's "error(kind, msg): unwinds
// execution; never returns" sink (spec.md §6.2) without literal panics: it
// is a sentinel Value returned up through Eval/Exec, checked at every call
// site via isError, the same propagation style the teacher uses for its
// own *Error object (internal/evaluator/helpers.go: newError/isError).
type Error struct {
	Kind    ErrorKind
	Message string
	Stack   []string
}

func (e *Error) Type() ValueType { return ERROR_VALUE }
func (e *Error) Inspect() string { return fmt.Sprintf("%s: %s", e.Kind, e.Message) }

// Error satisfies the standard error interface so an *Error that escapes
// the evaluator (e.g. from driver.Run) can be handled like any other Go
// error at the host boundary.
func (e *Error) Error() string { return e.Inspect() }

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func isError(v Value) bool {
	if v == nil {
		return false
	}
	_, ok := v.(*Error)
	return ok
}

func asError(v Value) *Error {
	e, _ := v.(*Error)
	return e
}

// Param is one formal parameter: a name plus whether it binds by reference.
type Param struct {
	Name  string
	IsRef bool
}

func paramsFromNodes(nodes []ast.Node) []Param {
	params := make([]Param, len(nodes))
	for i, n := range nodes {
		params[i] = Param{Name: ast.Str(n, "name"), IsRef: n.ElemType() == ast.ElemRefArg}
	}
	return params
}

// Function is a named function record: spec.md §3.3. Multiple Functions may
// share Name, distinguished by Arity (overloading).
type Function struct {
	Name   string
	Node   ast.Node
	Params []Param
}

func (f *Function) Type() ValueType { return FUNCTION_VALUE }
func (f *Function) Inspect() string { return fmt.Sprintf("<function %s/%d>", f.Name, len(f.Params)) }
func (f *Function) Arity() int      { return len(f.Params) }

// Lambda is an anonymous closure: spec.md §3.3/§4.6.4. Closure captures a
// copy of the enclosing scope at construction time — scalars and Functions
// copy by value (Go's value/pointer semantics already do the right thing:
// Int/Str/Bool/Nil are plain structs, Function is an immutable shared
// handle), Objects and other Lambdas are captured by pointer so the
// closure shares the same heap entity as the surrounding code (spec.md
// §4.6.4's "capture a reference into the closure").
type Lambda struct {
	ID      uuid.UUID
	Node    ast.Node
	Params  []Param
	Closure map[string]Value
}

func (l *Lambda) Type() ValueType { return LAMBDA_VALUE }
func (l *Lambda) Inspect() string { return fmt.Sprintf("<lambda %s>", l.ID) }
func (l *Lambda) Arity() int      { return len(l.Params) }

// Object is a prototype-chained record: spec.md §3.4.
type Object struct {
	ID     uuid.UUID
	Fields map[string][]Value
	Parent *Object
}

func newObject() *Object {
	return &Object{ID: uuid.New(), Fields: make(map[string][]Value)}
}

func (o *Object) Type() ValueType { return OBJECT_VALUE }
func (o *Object) Inspect() string { return fmt.Sprintf("<object %s>", o.ID) }

// setTop pushes v as the field's only value if the field is unset, or
// overwrites the current top otherwise — the "same shape as the
// environment, reused for uniform assignment" field-stack spec.md §3.4
// describes, minus reference bindings (object fields never hold refs).
func (o *Object) setTop(name string, v Value) {
	stack := o.Fields[name]
	if len(stack) == 0 {
		o.Fields[name] = []Value{v}
		return
	}
	stack[len(stack)-1] = v
}

// lookupField walks the prototype chain starting at o, returning the first
// hit's top-of-stack value (spec.md §4.7).
func (o *Object) lookupField(name string) (Value, bool) {
	for cur := o; cur != nil; cur = cur.Parent {
		if stack, ok := cur.Fields[name]; ok && len(stack) > 0 {
			return stack[len(stack)-1], true
		}
	}
	return nil, false
}

// lookupFieldOrProto is lookupField plus spec.md §4.7's reserved-name case:
// reading "proto" returns o's own parent handle directly rather than
// searching Fields (and the prototype chain) for a field literally named
// "proto" — mirroring the write-side special case already in execAssign.
func (o *Object) lookupFieldOrProto(name string) (Value, bool) {
	if name == "proto" {
		if o.Parent == nil {
			return nil, false
		}
		return o.Parent, true
	}
	return o.lookupField(name)
}

// deepCopyObject recursively clones obj, its parent chain, and any
// Object/Lambda values reachable through its fields, giving every clone a
// fresh identity disjoint from the original graph (spec.md §4.6's open
// question on return-copy of the parent chain). memo preserves sharing
// that existed within the source graph so a diamond-shaped reference
// structure doesn't get split into divergent copies.
func deepCopyObject(obj *Object, memo map[*Object]*Object) *Object {
	if obj == nil {
		return nil
	}
	if clone, ok := memo[obj]; ok {
		return clone
	}
	clone := newObject()
	memo[obj] = clone
	clone.Parent = deepCopyObject(obj.Parent, memo)
	for name, stack := range obj.Fields {
		newStack := make([]Value, len(stack))
		for i, v := range stack {
			newStack[i] = deepCopyValue(v, memo)
		}
		clone.Fields[name] = newStack
	}
	return clone
}

func deepCopyLambda(l *Lambda, memo map[*Object]*Object) *Lambda {
	if l == nil {
		return nil
	}
	clone := &Lambda{ID: uuid.New(), Node: l.Node, Params: l.Params, Closure: make(map[string]Value, len(l.Closure))}
	for k, v := range l.Closure {
		clone.Closure[k] = deepCopyValue(v, memo)
	}
	return clone
}

func deepCopyValue(v Value, memo map[*Object]*Object) Value {
	switch val := v.(type) {
	case *Object:
		return deepCopyObject(val, memo)
	case *Lambda:
		return deepCopyLambda(val, memo)
	default:
		return v
	}
}
