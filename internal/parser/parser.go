// Package parser builds a Brew AST (package ast) from a token stream
// (package lexer/token) using a Pratt parser, in the same prefix/infix
// registration style as the teacher's parser package.
package parser

import (
	"fmt"

	"github.com/brewlang/brew/internal/ast"
	"github.com/brewlang/brew/internal/lexer"
	"github.com/brewlang/brew/internal/token"
)

const (
	LOWEST int = iota
	OR
	AND
	EQUALS
	LESSGREATER
	SUM
	PRODUCT
	PREFIX
	CALL
)

var precedences = map[token.Type]int{
	token.OR:       OR,
	token.AND:      AND,
	token.EQ:       EQUALS,
	token.NOT_EQ:   EQUALS,
	token.LT:       LESSGREATER,
	token.LE:       LESSGREATER,
	token.GT:       LESSGREATER,
	token.GE:       LESSGREATER,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.SLASH:    PRODUCT,
	token.ASTERISK: PRODUCT,
	token.DOT:      CALL,
	token.LPAREN:   CALL,
}

type (
	prefixParseFn func() ast.Node
	infixParseFn  func(ast.Node) ast.Node
)

// Parser is a recursive-descent/Pratt parser over a single token stream.
type Parser struct {
	l *lexer.Lexer

	curToken  token.Token
	peekToken token.Token

	errors []string

	prefixParseFns map[token.Type]prefixParseFn
	infixParseFns  map[token.Type]infixParseFn
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}

	p.prefixParseFns = map[token.Type]prefixParseFn{
		token.IDENT:  p.parseIdentifier,
		token.INT:    p.parseIntegerLiteral,
		token.STRING: p.parseStringLiteral,
		token.TRUE:   p.parseBooleanLiteral,
		token.FALSE:  p.parseBooleanLiteral,
		token.NIL:    p.parseNilLiteral,
		token.BANG:   p.parsePrefixExpression,
		token.MINUS:  p.parsePrefixExpression,
		token.LPAREN: p.parseGroupedExpression,
		token.LAMBDA: p.parseLambdaLiteral,
		token.AT:     p.parseObjectLiteral,
	}

	p.infixParseFns = map[token.Type]infixParseFn{
		token.PLUS:     p.parseInfixExpression,
		token.MINUS:    p.parseInfixExpression,
		token.SLASH:    p.parseInfixExpression,
		token.ASTERISK: p.parseInfixExpression,
		token.EQ:       p.parseInfixExpression,
		token.NOT_EQ:   p.parseInfixExpression,
		token.LT:       p.parseInfixExpression,
		token.LE:       p.parseInfixExpression,
		token.GT:       p.parseInfixExpression,
		token.GE:       p.parseInfixExpression,
		token.AND:      p.parseInfixExpression,
		token.OR:       p.parseInfixExpression,
		token.LPAREN:   p.parseCallExpression,
		token.DOT:      p.parseDotExpression,
	}

	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) Errors() []string { return p.errors }

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t token.Type) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.Type) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t token.Type) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(t token.Type) {
	p.errors = append(p.errors, fmt.Sprintf(
		"line %d: expected next token to be %s, got %s (%q) instead",
		p.peekToken.Line, t, p.peekToken.Type, p.peekToken.Literal))
}

func (p *Parser) errorf(format string, a ...any) {
	p.errors = append(p.errors, fmt.Sprintf("line %d: %s", p.curToken.Line, fmt.Sprintf(format, a...)))
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curToken.Type]; ok {
		return pr
	}
	return LOWEST
}

// parseExpression is the Pratt loop: apply curToken's prefix handler, then
// keep applying infix handlers while the next operator binds tighter than
// precedence.
func (p *Parser) parseExpression(precedence int) ast.Node {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.errorf("unexpected token %s (%q)", p.curToken.Type, p.curToken.Literal)
		return nil
	}
	left := prefix()
	for left != nil && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		p.nextToken()
		left = infix(left)
	}
	return left
}

// ParseProgram parses a whole Brew source file: a sequence of function
// definitions. Returns a Node with ElemType "program" and field
// "functions" ([]ast.Node), matching spec.md §6.4's `ast.get("functions")`.
func ParseProgram(input string) (ast.Node, []string) {
	p := New(lexer.New(input))
	tok := p.curToken

	var functions []ast.Node
	for !p.curTokenIs(token.EOF) {
		if !p.curTokenIs(token.FUNC) {
			p.errorf("expected function definition, got %s", p.curToken.Type)
			p.nextToken()
			continue
		}
		fn := p.parseFunctionDefinition()
		if fn != nil {
			functions = append(functions, fn)
		}
		p.nextToken() // move past the function body's closing '}'
	}

	return ast.New(ast.ElemProgram, tok, "functions", functions), p.errors
}

func (p *Parser) parseFunctionDefinition() ast.Node {
	tok := p.curToken // 'func'
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	name := p.curToken.Literal

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	params := p.parseParamList()

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmts := p.parseBlockStatements()

	return ast.New(ast.ElemFunction, tok, "name", name, "args", params, "statements", stmts)
}

func (p *Parser) parseParamList() []ast.Node {
	var params []ast.Node
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params
	}
	p.nextToken()
	params = append(params, p.parseParam())
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		params = append(params, p.parseParam())
	}
	if !p.expectPeek(token.RPAREN) {
		return params
	}
	return params
}

func (p *Parser) parseParam() ast.Node {
	if p.curTokenIs(token.REF) {
		tok := p.curToken
		p.nextToken()
		name := p.curToken.Literal
		return ast.New(ast.ElemRefArg, tok, "name", name)
	}
	tok := p.curToken
	name := p.curToken.Literal
	return ast.New(ast.ElemArg, tok, "name", name)
}

// parseBlockStatements parses statements up to the closing '}' and returns
// with curToken on that '}' (the caller advances past it).
func (p *Parser) parseBlockStatements() []ast.Node {
	var stmts []ast.Node
	p.nextToken()
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
		p.nextToken()
	}
	return stmts
}
