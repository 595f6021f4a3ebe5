// Package parser builds statements from tokens by recursive descent.
package parser

import (
	"errors"

	"github.com/takoeight0821/lox/ast"
	"github.com/takoeight0821/lox/token"
	"github.com/takoeight0821/lox/utils"
)

type Parser struct {
	tokens  []token.Token
	current int
	errs    []error
}

func NewParser(tokens []token.Token) *Parser {
	return &Parser{tokens, 0, nil}
}

// Parse parses a whole program.
// A declaration with a syntax error is skipped and parsing resumes at the next statement boundary,
// so the returned error joins every syntax error of the pass, in source order.
func (p *Parser) Parse() ([]ast.Stmt, error) {
	p.errs = nil
	stmts := []ast.Stmt{}
	for !p.IsAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}

	return stmts, errors.Join(p.errs...)
}

// bailout unwinds the declaration being parsed. The error is already recorded.
type bailout struct{}

// declaration = varDecl | statement ;
func (p *Parser) declaration() (stmt ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			p.synchronize()
			stmt = nil
		}
	}()

	if p.match(token.VAR) {
		return p.varDecl()
	}

	return p.statement()
}

// varDecl = "var" IDENT ("=" expression)? ";" ;
func (p *Parser) varDecl() *ast.Var {
	p.consume(token.VAR, "expect 'var'")
	name := p.consume(token.IDENT, "expect variable name")

	var init ast.Expr
	if p.match(token.EQUAL) {
		p.advance()
		init = p.expression()
	}
	p.consume(token.SEMICOLON, "expect ';' after variable declaration")

	return &ast.Var{Name: name, Init: init}
}

// statement = forStmt | ifStmt | printStmt | whileStmt | block | exprStmt ;
func (p *Parser) statement() ast.Stmt {
	switch {
	case p.match(token.FOR):
		return p.forStmt()
	case p.match(token.IF):
		return p.ifStmt()
	case p.match(token.PRINT):
		return p.printStmt()
	case p.match(token.WHILE):
		return p.whileStmt()
	case p.match(token.LEFTBRACE):
		return &ast.Block{Stmts: p.block()}
	default:
		return p.exprStmt()
	}
}

// forStmt = "for" "(" (varDecl | exprStmt | ";") expression? ";" expression? ")" statement ;
//
// There is no loop node for it: it becomes
// (block init (while cond (block body (expr incr)))).
func (p *Parser) forStmt() ast.Stmt {
	p.consume(token.FOR, "expect 'for'")
	p.consume(token.LEFTPAREN, "expect '(' after 'for'")

	var init ast.Stmt
	switch {
	case p.match(token.SEMICOLON):
		p.advance()
	case p.match(token.VAR):
		init = p.varDecl()
	default:
		init = p.exprStmt()
	}

	var cond ast.Expr
	if !p.match(token.SEMICOLON) {
		cond = p.expression()
	}
	p.consume(token.SEMICOLON, "expect ';' after loop condition")

	var incr ast.Expr
	if !p.match(token.RIGHTPAREN) {
		incr = p.expression()
	}
	p.consume(token.RIGHTPAREN, "expect ')' after for clauses")

	body := p.statement()

	if incr != nil {
		body = &ast.Block{Stmts: []ast.Stmt{body, &ast.Expression{Expr: incr}}}
	}
	if cond == nil {
		cond = &ast.Literal{Value: true}
	}
	body = &ast.While{Cond: cond, Body: body}
	if init != nil {
		body = &ast.Block{Stmts: []ast.Stmt{init, body}}
	}

	return body
}

// ifStmt = "if" "(" expression ")" statement ("else" statement)? ;
func (p *Parser) ifStmt() *ast.If {
	p.consume(token.IF, "expect 'if'")
	p.consume(token.LEFTPAREN, "expect '(' after 'if'")
	cond := p.expression()
	p.consume(token.RIGHTPAREN, "expect ')' after condition")

	then := p.statement()
	var els ast.Stmt
	if p.match(token.ELSE) {
		p.advance()
		els = p.statement()
	}

	return &ast.If{Cond: cond, Then: then, Else: els}
}

// printStmt = "print" expression ";" ;
func (p *Parser) printStmt() *ast.Print {
	p.consume(token.PRINT, "expect 'print'")
	value := p.expression()
	p.consume(token.SEMICOLON, "expect ';' after value")

	return &ast.Print{Expr: value}
}

// whileStmt = "while" "(" expression ")" statement ;
func (p *Parser) whileStmt() *ast.While {
	p.consume(token.WHILE, "expect 'while'")
	p.consume(token.LEFTPAREN, "expect '(' after 'while'")
	cond := p.expression()
	p.consume(token.RIGHTPAREN, "expect ')' after condition")
	body := p.statement()

	return &ast.While{Cond: cond, Body: body}
}

// block = "{" declaration* "}" ;
func (p *Parser) block() []ast.Stmt {
	p.consume(token.LEFTBRACE, "expect '{'")
	stmts := []ast.Stmt{}
	for !p.match(token.RIGHTBRACE) && !p.IsAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	p.consume(token.RIGHTBRACE, "expect '}' after block")

	return stmts
}

// exprStmt = expression ";" ;
func (p *Parser) exprStmt() *ast.Expression {
	expr := p.expression()
	p.consume(token.SEMICOLON, "expect ';' after expression")

	return &ast.Expression{Expr: expr}
}

// expression = assignment ;
func (p *Parser) expression() ast.Expr {
	return p.assignment()
}

// assignment = IDENT "=" assignment | logicOr ;
func (p *Parser) assignment() ast.Expr {
	expr := p.logicOr()

	if p.match(token.EQUAL) {
		equals := p.advance()
		value := p.assignment()

		if v, ok := expr.(*ast.Variable); ok {
			return &ast.Assign{Name: v.Name, Value: value}
		}

		// not worth a bailout: the parser is not confused.
		p.report(utils.ErrorAt{Where: equals, Message: "invalid assignment target"})

		return value
	}

	return expr
}

// logicOr = logicAnd ("or" logicAnd)* ;
func (p *Parser) logicOr() ast.Expr {
	expr := p.logicAnd()
	for p.match(token.OR) {
		op := p.advance()
		right := p.logicAnd()
		expr = &ast.Logical{Left: expr, Op: op, Right: right}
	}

	return expr
}

// logicAnd = equality ("and" equality)* ;
func (p *Parser) logicAnd() ast.Expr {
	expr := p.equality()
	for p.match(token.AND) {
		op := p.advance()
		right := p.equality()
		expr = &ast.Logical{Left: expr, Op: op, Right: right}
	}

	return expr
}

// equality = comparison (("!=" | "==") comparison)* ;
func (p *Parser) equality() ast.Expr {
	expr := p.comparison()
	for p.match(token.BANGEQUAL, token.EQUALEQUAL) {
		op := p.advance()
		right := p.comparison()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}

	return expr
}

// comparison = term ((">" | ">=" | "<" | "<=") term)* ;
func (p *Parser) comparison() ast.Expr {
	expr := p.term()
	for p.match(token.GREATER, token.GREATEREQUAL, token.LESS, token.LESSEQUAL) {
		op := p.advance()
		right := p.term()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}

	return expr
}

// term = factor (("-" | "+") factor)* ;
func (p *Parser) term() ast.Expr {
	expr := p.factor()
	for p.match(token.MINUS, token.PLUS) {
		op := p.advance()
		right := p.factor()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}

	return expr
}

// factor = unary (("/" | "*") unary)* ;
func (p *Parser) factor() ast.Expr {
	expr := p.unary()
	for p.match(token.SLASH, token.STAR) {
		op := p.advance()
		right := p.unary()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}

	return expr
}

// unary = ("!" | "-") unary | primary ;
func (p *Parser) unary() ast.Expr {
	if p.match(token.BANG, token.MINUS) {
		op := p.advance()
		right := p.unary()

		return &ast.Unary{Op: op, Right: right}
	}

	return p.primary()
}

// primary = NUMBER | STRING | "true" | "false" | "nil" | IDENT | "(" expression ")" ;
func (p *Parser) primary() ast.Expr {
	//exhaustive:ignore
	switch tok := p.peek(); tok.Kind {
	case token.FALSE:
		p.advance()

		return &ast.Literal{Value: false}
	case token.TRUE:
		p.advance()

		return &ast.Literal{Value: true}
	case token.NIL:
		p.advance()

		return &ast.Literal{Value: nil}
	case token.NUMBER, token.STRING:
		p.advance()

		return &ast.Literal{Value: tok.Literal}
	case token.IDENT:
		p.advance()

		return &ast.Variable{Name: tok}
	case token.LEFTPAREN:
		p.advance()
		expr := p.expression()
		p.consume(token.RIGHTPAREN, "expect ')' after expression")

		return &ast.Grouping{Expr: expr}
	default:
		panic(p.errorAt(tok, "expect expression"))
	}
}

// synchronize discards tokens until a likely statement boundary:
// just after a `;`, or just before a keyword that starts a statement.
func (p *Parser) synchronize() {
	p.advance()

	for !p.IsAtEnd() {
		if p.previous().Kind == token.SEMICOLON {
			return
		}

		//exhaustive:ignore
		switch p.peek().Kind {
		case token.CLASS, token.FUN, token.VAR, token.FOR, token.IF, token.WHILE, token.PRINT, token.RETURN:
			return
		}

		p.advance()
	}
}

func (p *Parser) report(err error) {
	p.errs = append(p.errs, err)
}

// errorAt records a syntax error. The caller panics with the result to abandon the declaration.
func (p *Parser) errorAt(t token.Token, message string) bailout {
	p.report(utils.ErrorAt{Where: t, Message: message})

	return bailout{}
}

func (p Parser) peek() token.Token {
	return p.tokens[p.current]
}

func (p *Parser) advance() token.Token {
	if !p.IsAtEnd() {
		p.current++
	}

	return p.previous()
}

func (p Parser) previous() token.Token {
	return p.tokens[p.current-1]
}

func (p Parser) IsAtEnd() bool {
	return p.peek().Kind == token.EOF
}

// match reports whether the next token is one of kinds. It does not consume it.
func (p Parser) match(kinds ...token.Kind) bool {
	if p.IsAtEnd() {
		return false
	}

	for _, kind := range kinds {
		if p.peek().Kind == kind {
			return true
		}
	}

	return false
}

func (p *Parser) consume(kind token.Kind, message string) token.Token {
	if p.match(kind) {
		return p.advance()
	}

	panic(p.errorAt(p.peek(), message))
}
