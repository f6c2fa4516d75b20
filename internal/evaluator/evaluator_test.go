package evaluator

import (
	"testing"

	"github.com/brewlang/brew/internal/host"
	"github.com/brewlang/brew/internal/parser"
)

func mustRun(t *testing.T, src string, in ...string) (*host.Buffer, *Error) {
	t.Helper()
	program, errs := parser.ParseProgram(src)
	if len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	buf := host.NewBuffer(in...)
	ev := New(buf, 0)
	err := ev.Run(program)
	return buf, err
}

func TestPrintConcatenatesWithoutSeparator(t *testing.T) {
	buf, err := mustRun(t, `
func main() {
  print("x is ", 5, " and true is ", true);
}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "x is 5 and true is true"
	if len(buf.Lines) != 1 || buf.Lines[0] != want {
		t.Fatalf("got %v, want [%q]", buf.Lines, want)
	}
}

func TestIntBoolEqualityCoercion(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"1 == true", "true"},
		{"0 == false", "true"},
		{"2 == true", "true"},
		{"2 == 2", "true"},
		{"true == true", "true"},
	}
	for _, tt := range tests {
		buf, err := mustRun(t, `func main() { print(`+tt.expr+`); }`)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.expr, err)
		}
		if buf.Lines[0] != tt.want {
			t.Errorf("%s = %s, want %s", tt.expr, buf.Lines[0], tt.want)
		}
	}
}

func TestArithmeticAndStringConcat(t *testing.T) {
	buf, err := mustRun(t, `
func main() {
  print(2 + 3 * 4);
  print("foo" + "bar");
}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Lines[0] != "14" || buf.Lines[1] != "foobar" {
		t.Fatalf("got %v", buf.Lines)
	}
}

func TestTypeErrorOnMixedAdd(t *testing.T) {
	_, err := mustRun(t, `func main() { print(1 + "x"); }`)
	if err == nil || err.Kind != TypeError {
		t.Fatalf("expected TypeError, got %v", err)
	}
}

func TestUnknownVariableIsNameError(t *testing.T) {
	_, err := mustRun(t, `func main() { print(x); }`)
	if err == nil || err.Kind != NameError {
		t.Fatalf("expected NameError, got %v", err)
	}
}

func TestRefParameterMutatesCaller(t *testing.T) {
	buf, err := mustRun(t, `
func bump(ref x) {
  x = x + 1;
}
func main() {
  y = 10;
  bump(y);
  print(y);
}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Lines[0] != "11" {
		t.Fatalf("got %v", buf.Lines)
	}
}

func TestValueParameterDoesNotMutateCaller(t *testing.T) {
	buf, err := mustRun(t, `
func bump(x) {
  x = x + 1;
  print(x);
}
func main() {
  y = 10;
  bump(y);
  print(y);
}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Lines[0] != "11" || buf.Lines[1] != "10" {
		t.Fatalf("got %v", buf.Lines)
	}
}

func TestArityOverloading(t *testing.T) {
	buf, err := mustRun(t, `
func greet() {
  print("hello");
}
func greet(name) {
  print("hello " + name);
}
func main() {
  greet();
  greet("brew");
}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Lines[0] != "hello" || buf.Lines[1] != "hello brew" {
		t.Fatalf("got %v", buf.Lines)
	}
}

func TestOverloadedFunctionNameAsValueIsNameError(t *testing.T) {
	_, err := mustRun(t, `
func f() { print("a"); }
func f(x) { print("b"); }
func main() {
  g = f;
  g();
}`)
	if err == nil || err.Kind != NameError {
		t.Fatalf("expected NameError for ambiguous overload reference, got %v", err)
	}
}

func TestClosurePersistsAcrossCalls(t *testing.T) {
	buf, err := mustRun(t, `
func makeCounter() {
  n = 0;
  c = lambda() {
    n = n + 1;
    return n;
  };
  return c;
}
func main() {
  counter = makeCounter();
  print(counter());
  print(counter());
  print(counter());
}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Lines[0] != "1" || buf.Lines[1] != "2" || buf.Lines[2] != "3" {
		t.Fatalf("got %v", buf.Lines)
	}
}

func TestClosuresAreIndependent(t *testing.T) {
	buf, err := mustRun(t, `
func makeCounter() {
  n = 0;
  c = lambda() {
    n = n + 1;
    return n;
  };
  return c;
}
func main() {
  a = makeCounter();
  b = makeCounter();
  print(a());
  print(a());
  print(b());
}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Lines[0] != "1" || buf.Lines[1] != "2" || buf.Lines[2] != "1" {
		t.Fatalf("got %v", buf.Lines)
	}
}

func TestPrototypeChainLookup(t *testing.T) {
	buf, err := mustRun(t, `
func main() {
  base = @;
  base.greeting = "hi";
  child = @;
  child.proto = base;
  print(child.greeting);
}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Lines[0] != "hi" {
		t.Fatalf("got %v", buf.Lines)
	}
}

func TestObjectPassedByValueIsCopied(t *testing.T) {
	buf, err := mustRun(t, `
func mutate(o) {
  o.x = 99;
}
func main() {
  a = @;
  a.x = 1;
  b = a;
  mutate(b);
  print(a.x);
  print(b.x);
}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Lines[0] != "1" || buf.Lines[1] != "1" {
		t.Fatalf("got %v", buf.Lines)
	}
}

func TestWhileLoopWithEarlyReturn(t *testing.T) {
	buf, err := mustRun(t, `
func findFirstEven(limit) {
  i = 0;
  while (i < limit) {
    if (i / 2 * 2 == i) {
      return i;
    }
    i = i + 1;
  }
  return -1;
}
func main() {
  print(findFirstEven(7));
}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Lines[0] != "0" {
		t.Fatalf("got %v", buf.Lines)
	}
}

func TestThisAssignmentReplacesReceiver(t *testing.T) {
	buf, err := mustRun(t, `
func main() {
  a = @; a.n = 1;
  b = @; b.n = 99;
  a.m = lambda() { this = b; print(this.n); };
  a.m();
}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Lines[0] != "99" {
		t.Fatalf("got %v, want [99] (this = b should make this.n read b.n)", buf.Lines)
	}
}

func TestReadProtoReturnsParent(t *testing.T) {
	buf, err := mustRun(t, `
func main() {
  a = @;
  b = @; b.proto = a;
  p = b.proto;
  print(p == a);
}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Lines[0] != "true" {
		t.Fatalf("got %v, want [true]", buf.Lines)
	}
}

func TestReadProtoWithNoParentIsNameError(t *testing.T) {
	_, err := mustRun(t, `
func main() {
  a = @;
  p = a.proto;
  print(p);
}`)
	if err == nil || err.Kind != NameError {
		t.Fatalf("expected NameError, got %v", err)
	}
}

func TestMethodCallWithThisReassignment(t *testing.T) {
	buf, err := mustRun(t, `
func main() {
  obj = @;
  obj.value = 1;
  obj.bump = lambda() {
    this.value = this.value + 1;
    return this.value;
  };
  print(obj.bump());
  print(obj.bump());
}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Lines[0] != "2" || buf.Lines[1] != "3" {
		t.Fatalf("got %v", buf.Lines)
	}
}

func TestEagerLogicalOperatorsEvaluateBothSides(t *testing.T) {
	buf, err := mustRun(t, `
func sideEffect(ref counter) {
  counter = counter + 1;
  return true;
}
func main() {
  hits = 0;
  result = false && sideEffect(hits);
  print(result);
  print(hits);
}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Lines[0] != "false" || buf.Lines[1] != "1" {
		t.Fatalf("got %v, expected eager evaluation to still run the right-hand side", buf.Lines)
	}
}

func TestInputiReadsIntegerFromHost(t *testing.T) {
	buf, err := mustRun(t, `
func main() {
  x = inputi();
  print(x + 1);
}`, "41")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Lines[0] != "42" {
		t.Fatalf("got %v", buf.Lines)
	}
}

func TestInputiPrintsPromptArgument(t *testing.T) {
	buf, err := mustRun(t, `
func main() {
  x = inputi("enter a number: ");
  print(x);
}`, "7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(buf.Lines) != 2 || buf.Lines[0] != "enter a number: " || buf.Lines[1] != "7" {
		t.Fatalf("got %v", buf.Lines)
	}
}

func TestInputBuiltinWithTooManyArgsIsNameError(t *testing.T) {
	_, err := mustRun(t, `func main() { x = inputi("a", "b"); print(x); }`)
	if err == nil || err.Kind != NameError {
		t.Fatalf("expected NameError, got %v", err)
	}
}

func TestArityMismatchOnDirectCallIsNameError(t *testing.T) {
	_, err := mustRun(t, `
func needsOne(x) { print(x); }
func main() {
  needsOne(1, 2);
}`)
	if err == nil || err.Kind != NameError {
		t.Fatalf("expected NameError, got %v", err)
	}
}

func TestArityMismatchOnVariableHeldFunctionIsTypeError(t *testing.T) {
	_, err := mustRun(t, `
func needsOne(x) { print(x); }
func main() {
  f = needsOne;
  f(1, 2);
}`)
	if err == nil || err.Kind != TypeError {
		t.Fatalf("expected TypeError, got %v", err)
	}
}

func TestTraceCapturesCallStackOnError(t *testing.T) {
	program, errs := parser.ParseProgram(`
func inner() { return 1 + "x"; }
func outer() { return inner(); }
func main() { return outer(); }`)
	if len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	ev := New(host.NewBuffer(), 0)
	ev.SetTrace(true)
	err := ev.Run(program)
	if err == nil || err.Kind != TypeError {
		t.Fatalf("expected TypeError, got %v", err)
	}
	want := []string{"main", "outer", "inner"}
	if len(err.Stack) != len(want) {
		t.Fatalf("expected stack %v, got %v", want, err.Stack)
	}
	for i, name := range want {
		if err.Stack[i] != name {
			t.Fatalf("expected stack %v, got %v", want, err.Stack)
		}
	}
}

func TestNoTraceLeavesStackEmpty(t *testing.T) {
	_, err := mustRun(t, `
func inner() { return 1 + "x"; }
func main() { return inner(); }`)
	if err == nil || err.Kind != TypeError {
		t.Fatalf("expected TypeError, got %v", err)
	}
	if len(err.Stack) != 0 {
		t.Fatalf("expected no stack without tracing, got %v", err.Stack)
	}
}
