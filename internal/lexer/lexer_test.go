package lexer

import (
	"testing"

	"github.com/brewlang/brew/internal/token"
)

func TestNextTokenMixedFunction(t *testing.T) {
	input := `func f(ref x) {
  if (x <= 10 && x >= 1 || x != 0) {
    y = "hi\n" + "there";
    return true;
  }
  return nil;
} // trailing comment`

	tests := []struct {
		wantType    token.Type
		wantLiteral string
	}{
		{token.FUNC, "func"},
		{token.IDENT, "f"},
		{token.LPAREN, "("},
		{token.REF, "ref"},
		{token.IDENT, "x"},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.IF, "if"},
		{token.LPAREN, "("},
		{token.IDENT, "x"},
		{token.LE, "<="},
		{token.INT, "10"},
		{token.AND, "&&"},
		{token.IDENT, "x"},
		{token.GE, ">="},
		{token.INT, "1"},
		{token.OR, "||"},
		{token.IDENT, "x"},
		{token.NOT_EQ, "!="},
		{token.INT, "0"},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.IDENT, "y"},
		{token.ASSIGN, "="},
		{token.STRING, "hi\n"},
		{token.PLUS, "+"},
		{token.STRING, "there"},
		{token.SEMICOLON, ";"},
		{token.RETURN, "return"},
		{token.TRUE, "true"},
		{token.SEMICOLON, ";"},
		{token.RBRACE, "}"},
		{token.RETURN, "return"},
		{token.NIL, "nil"},
		{token.SEMICOLON, ";"},
		{token.RBRACE, "}"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.wantType {
			t.Fatalf("test[%d] - wrong type. expected=%q, got=%q (literal %q)", i, tt.wantType, tok.Type, tok.Literal)
		}
		if tok.Literal != tt.wantLiteral {
			t.Fatalf("test[%d] - wrong literal. expected=%q, got=%q", i, tt.wantLiteral, tok.Literal)
		}
	}
}

func TestUnterminatedStringIsIllegal(t *testing.T) {
	l := New(`"unterminated`)
	tok := l.NextToken()
	if tok.Type != token.ILLEGAL {
		t.Fatalf("expected ILLEGAL, got %s", tok.Type)
	}
}
