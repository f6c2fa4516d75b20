package parser

import (
	"github.com/brewlang/brew/internal/ast"
	"github.com/brewlang/brew/internal/token"
)

// parseStatement parses one statement. curToken is the statement's first
// token on entry; on return curToken is the statement's last token (the
// caller advances past it).
func (p *Parser) parseStatement() ast.Node {
	switch p.curToken.Type {
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	default:
		return p.parseAssignmentOrCallStatement()
	}
}

// parseAssignmentOrCallStatement handles `name = expr;`, `name.field = expr;`,
// `this = expr;`, bare function calls and method calls, each terminated by ';'.
func (p *Parser) parseAssignmentOrCallStatement() ast.Node {
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		p.skipToSemicolon()
		return nil
	}

	if p.peekTokenIs(token.ASSIGN) {
		tok := p.curToken
		name, ok := assignTargetName(expr)
		if !ok {
			p.errorf("invalid assignment target")
			p.skipToSemicolon()
			return nil
		}
		p.nextToken() // consume '='
		p.nextToken() // move to expression
		value := p.parseExpression(LOWEST)
		if p.peekTokenIs(token.SEMICOLON) {
			p.nextToken()
		}
		return ast.New(ast.ElemAssign, tok, "name", name, "expression", value)
	}

	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	return expr
}

// assignTargetName recovers the dotted/plain name an expression parse
// produced, for use as an assignment's "name" field (spec.md §4.5).
func assignTargetName(n ast.Node) (string, bool) {
	if n.ElemType() == ast.ElemVar {
		return ast.Str(n, "name"), true
	}
	return "", false
}

func (p *Parser) skipToSemicolon() {
	for !p.curTokenIs(token.SEMICOLON) && !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		p.nextToken()
	}
}

func (p *Parser) parseIfStatement() ast.Node {
	tok := p.curToken
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	thenStmts := p.parseBlockStatements()

	var elseStmts []ast.Node
	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		if !p.expectPeek(token.LBRACE) {
			return nil
		}
		elseStmts = p.parseBlockStatements()
	}

	return ast.New(ast.ElemIf, tok, "condition", cond, "statements", thenStmts, "else_statements", elseStmts)
}

func (p *Parser) parseWhileStatement() ast.Node {
	tok := p.curToken
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmts := p.parseBlockStatements()

	return ast.New(ast.ElemWhile, tok, "condition", cond, "statements", stmts)
}

func (p *Parser) parseReturnStatement() ast.Node {
	tok := p.curToken
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		return ast.New(ast.ElemReturn, tok, "expression", nil)
	}
	p.nextToken()
	expr := p.parseExpression(LOWEST)
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	return ast.New(ast.ElemReturn, tok, "expression", expr)
}
