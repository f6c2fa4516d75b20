package parser

import (
	"testing"

	"github.com/brewlang/brew/internal/ast"
)

func TestParseProgramFunctionsAndParams(t *testing.T) {
	src := `
func add(x, ref y) {
  y = x + y;
  return y;
}
func main() {
  print(add(1, 2));
}`
	program, errs := ParseProgram(src)
	if len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	fns := ast.Nodes(program, "functions")
	if len(fns) != 2 {
		t.Fatalf("expected 2 functions, got %d", len(fns))
	}

	add := fns[0]
	if ast.Str(add, "name") != "add" {
		t.Fatalf("expected function named add, got %s", ast.Str(add, "name"))
	}
	params := ast.Nodes(add, "args")
	if len(params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(params))
	}
	if params[0].ElemType() != ast.ElemArg {
		t.Errorf("expected first param to be by-value, got %s", params[0].ElemType())
	}
	if params[1].ElemType() != ast.ElemRefArg {
		t.Errorf("expected second param to be by-reference, got %s", params[1].ElemType())
	}
}

func TestParseDottedFieldAccessAndMethodCall(t *testing.T) {
	src := `
func main() {
  x = obj.field;
  obj.method(1, 2);
}`
	program, errs := ParseProgram(src)
	if len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	stmts := ast.Nodes(ast.Nodes(program, "functions")[0], "statements")
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(stmts))
	}

	assign := stmts[0]
	if assign.ElemType() != ast.ElemAssign || ast.Str(assign, "name") != "x" {
		t.Fatalf("expected assignment to x, got %v", assign)
	}
	rhs := ast.Child(assign, "expression")
	if rhs.ElemType() != ast.ElemVar || ast.Str(rhs, "name") != "obj.field" {
		t.Fatalf("expected dotted var obj.field, got %v", rhs)
	}

	mcall := stmts[1]
	if mcall.ElemType() != ast.ElemMCall {
		t.Fatalf("expected a method call statement, got %s", mcall.ElemType())
	}
	if ast.Str(mcall, "objref") != "obj" || ast.Str(mcall, "name") != "method" {
		t.Fatalf("unexpected mcall fields: objref=%s name=%s", ast.Str(mcall, "objref"), ast.Str(mcall, "name"))
	}
	if len(ast.Nodes(mcall, "args")) != 2 {
		t.Fatalf("expected 2 args, got %d", len(ast.Nodes(mcall, "args")))
	}
}

func TestParseIfElseReturn(t *testing.T) {
	src := `
func main() {
  if (1 < 2) {
    return 1;
  } else {
    return 2;
  }
}`
	program, errs := ParseProgram(src)
	if len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	stmts := ast.Nodes(ast.Nodes(program, "functions")[0], "statements")
	if len(stmts) != 1 || stmts[0].ElemType() != ast.ElemIf {
		t.Fatalf("expected a single if statement, got %v", stmts)
	}
	ifNode := stmts[0]
	if len(ast.Nodes(ifNode, "statements")) != 1 || len(ast.Nodes(ifNode, "else_statements")) != 1 {
		t.Fatalf("expected one statement in each branch")
	}
}

func TestOperatorPrecedence(t *testing.T) {
	src := `func main() { x = 1 + 2 * 3 == 7 && true; }`
	program, errs := ParseProgram(src)
	if len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	assign := ast.Nodes(ast.Nodes(program, "functions")[0], "statements")[0]
	rhs := ast.Child(assign, "expression")
	if rhs.ElemType() != ast.ElemAnd {
		t.Fatalf("expected top-level && node, got %s", rhs.ElemType())
	}
	left := ast.Child(rhs, "op1")
	if left.ElemType() != ast.ElemEq {
		t.Fatalf("expected == under &&, got %s", left.ElemType())
	}
	add := ast.Child(left, "op1")
	if add.ElemType() != ast.ElemAdd {
		t.Fatalf("expected + nested under ==, got %s", add.ElemType())
	}
	mul := ast.Child(add, "op2")
	if mul.ElemType() != ast.ElemMul {
		t.Fatalf("expected * to bind tighter than +, got %s", mul.ElemType())
	}
}
