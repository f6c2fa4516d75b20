package evaluator

// slot is one entry in a variable's binding stack (spec.md §3.2). A direct
// slot holds a Value; a reference slot instead names another variable's
// stack position to read/write through. References never chain: whatever
// creates a reference slot must have already resolved to the ultimate
// (name, index) pair, so Resolve never needs to loop.
type slot struct {
	isRef    bool
	value    Value
	refName  string
	refIndex int
}

// Environment is the single process-wide table of name -> stack-of-bindings
// spec.md §3.2 describes. Brew has one flat environment per run, not a
// chain of nested scopes: block scoping is implemented by pushing and
// popping entries on this same table (see execBlockOnce/execWhile).
type Environment struct {
	store map[string][]*slot
}

func NewEnvironment() *Environment {
	return &Environment{store: make(map[string][]*slot)}
}

// Exists reports whether name currently has any binding at all.
func (e *Environment) Exists(name string) bool {
	stack, ok := e.store[name]
	return ok && len(stack) > 0
}

// Resolve follows a single reference indirection (if name's top slot is a
// reference) and returns the ultimate (name, index) pair holding the value.
func (e *Environment) Resolve(name string) (string, int, bool) {
	stack, ok := e.store[name]
	if !ok || len(stack) == 0 {
		return "", 0, false
	}
	top := stack[len(stack)-1]
	if top.isRef {
		return top.refName, top.refIndex, true
	}
	return name, len(stack) - 1, true
}

// Read returns the current value bound to name, resolving one reference
// indirection if needed.
func (e *Environment) Read(name string) (Value, bool) {
	target, idx, ok := e.Resolve(name)
	if !ok {
		return nil, false
	}
	stack := e.store[target]
	if idx < 0 || idx >= len(stack) {
		return nil, false
	}
	return stack[idx].value, true
}

// Write stores v at name's current binding, following a reference
// indirection to the referee's slot if name is bound by reference.
func (e *Environment) Write(name string, v Value) {
	stack, ok := e.store[name]
	if !ok || len(stack) == 0 {
		e.store[name] = []*slot{{value: v}}
		return
	}
	top := stack[len(stack)-1]
	if top.isRef {
		targetStack := e.store[top.refName]
		if top.refIndex >= 0 && top.refIndex < len(targetStack) {
			targetStack[top.refIndex].value = v
		}
		return
	}
	top.value = v
}

// PushDirect introduces a new direct binding for name, shadowing whatever
// was there before (spec.md §4.2's push_direct).
func (e *Environment) PushDirect(name string, v Value) {
	e.store[name] = append(e.store[name], &slot{value: v})
}

// PushRef introduces a new reference binding for name, pointing at
// (targetName, targetIndex) — which the caller must already have resolved
// via Resolve, so references never chain (spec.md §4.2's push_ref).
func (e *Environment) PushRef(name string, targetName string, targetIndex int) {
	e.store[name] = append(e.store[name], &slot{isRef: true, refName: targetName, refIndex: targetIndex})
}

// Pop removes name's top binding, deleting the key entirely once its stack
// is empty (spec.md §3.2's "an empty stack is removed from the environment").
func (e *Environment) Pop(name string) {
	stack, ok := e.store[name]
	if !ok || len(stack) == 0 {
		return
	}
	stack = stack[:len(stack)-1]
	if len(stack) == 0 {
		delete(e.store, name)
	} else {
		e.store[name] = stack
	}
}
