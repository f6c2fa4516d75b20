package parser

import (
	"strconv"

	"github.com/brewlang/brew/internal/ast"
	"github.com/brewlang/brew/internal/token"
)

func (p *Parser) parseIdentifier() ast.Node {
	tok := p.curToken
	name := p.curToken.Literal

	if p.peekTokenIs(token.DOT) {
		p.nextToken() // consume '.'
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		field := p.curToken.Literal

		if p.peekTokenIs(token.LPAREN) {
			p.nextToken() // consume '('
			args := p.parseArgList()
			return ast.New(ast.ElemMCall, tok, "objref", name, "name", field, "args", args)
		}
		return ast.New(ast.ElemVar, tok, "name", name+"."+field)
	}

	if p.peekTokenIs(token.LPAREN) {
		p.nextToken() // consume '('
		args := p.parseArgList()
		return ast.New(ast.ElemFCall, tok, "name", name, "args", args)
	}

	return ast.New(ast.ElemVar, tok, "name", name)
}

// parseArgList parses a call's comma-separated argument expressions. curToken
// is the '(' on entry; it consumes through the matching ')'.
func (p *Parser) parseArgList() []ast.Node {
	var args []ast.Node
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return args
	}
	p.nextToken()
	args = append(args, p.parseExpression(LOWEST))
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		args = append(args, p.parseExpression(LOWEST))
	}
	if !p.expectPeek(token.RPAREN) {
		return args
	}
	return args
}

// parseCallExpression is the infix handler registered for '(' so that a
// parenthesized call can follow an already-parsed variable, as in a grouped
// `(f)(x)`; calling any other expression (a lambda literal, a call result)
// is reported as a parse error. Ordinary `name(args)` calls are produced by
// parseIdentifier instead.
func (p *Parser) parseCallExpression(left ast.Node) ast.Node {
	tok := p.curToken
	args := p.parseArgList()
	if left.ElemType() == ast.ElemVar {
		return ast.New(ast.ElemFCall, tok, "name", ast.Str(left, "name"), "args", args)
	}
	p.errorf("cannot call a non-identifier expression")
	return nil
}

// parseDotExpression is the infix handler registered for '.', covering the
// case where the left side of a dotted access was already parsed as a
// full expression by the Pratt loop (kept for completeness with the
// precedence table; parseIdentifier handles the common `name.field` case
// directly to assemble mcall/var nodes in one step).
func (p *Parser) parseDotExpression(left ast.Node) ast.Node {
	tok := p.curToken
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	field := p.curToken.Literal
	objref, ok := assignTargetName(left)
	if !ok {
		p.errorf("left side of '.' must be a variable")
		return nil
	}

	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		args := p.parseArgList()
		return ast.New(ast.ElemMCall, tok, "objref", objref, "name", field, "args", args)
	}
	return ast.New(ast.ElemVar, tok, "name", objref+"."+field)
}

func (p *Parser) parseIntegerLiteral() ast.Node {
	tok := p.curToken
	v, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
	if err != nil {
		p.errorf("could not parse %q as integer", p.curToken.Literal)
		return nil
	}
	return ast.New(ast.ElemInt, tok, "val", v)
}

func (p *Parser) parseStringLiteral() ast.Node {
	tok := p.curToken
	return ast.New(ast.ElemString, tok, "val", p.curToken.Literal)
}

func (p *Parser) parseBooleanLiteral() ast.Node {
	tok := p.curToken
	return ast.New(ast.ElemBool, tok, "val", p.curTokenIs(token.TRUE))
}

func (p *Parser) parseNilLiteral() ast.Node {
	tok := p.curToken
	return ast.New(ast.ElemNil, tok, "val", nil)
}

func (p *Parser) parsePrefixExpression() ast.Node {
	tok := p.curToken
	elem := ast.ElemNot
	if p.curTokenIs(token.MINUS) {
		elem = ast.ElemNeg
	}
	p.nextToken()
	right := p.parseExpression(PREFIX)
	return ast.New(elem, tok, "op1", right)
}

func (p *Parser) parseInfixExpression(left ast.Node) ast.Node {
	tok := p.curToken
	elem := ast.ElemType(p.curToken.Literal)
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence)
	return ast.New(elem, tok, "op1", left, "op2", right)
}

func (p *Parser) parseGroupedExpression() ast.Node {
	p.nextToken()
	expr := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return expr
}

func (p *Parser) parseLambdaLiteral() ast.Node {
	tok := p.curToken
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	params := p.parseParamList()
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmts := p.parseBlockStatements()
	return ast.New(ast.ElemLambda, tok, "args", params, "statements", stmts)
}

func (p *Parser) parseObjectLiteral() ast.Node {
	tok := p.curToken
	return ast.New(ast.ElemAt, tok)
}
