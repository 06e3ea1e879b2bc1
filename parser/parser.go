// Package parser implements the mako recursive-descent parser.
//
// The parser reads a token stream from a [lexer.Lexer] and builds an
// [ast.Program]. Expression parsing uses Pratt (top-down operator precedence)
// so that precedence rules are encoded in a small table rather than a tangle
// of grammar rules.
//
// Usage:
//
//	l := lexer.New(source)
//	p := parser.New(l)
//	prog := p.ParseProgram()
//	if errs := p.Errors(); len(errs) != 0 { ... }
//
// Error recovery: the parser records errors and keeps going so that multiple
// problems surface in a single pass. A program that produced errors may be
// missing statements or contain nil children and must not be evaluated.
package parser

import (
	"fmt"
	"strconv"

	"github.com/metaphox/mako-lang/ast"
	"github.com/metaphox/mako-lang/lexer"
)

// ── Operator precedence ───────────────────────────────────────────────────────

// Precedence levels, ordered from lowest to highest.
const (
	precLowest      = iota + 1
	precEquals      // == !=
	precLessGreater // < >
	precSum         // + -
	precProduct     // * /
	precPrefix      // -x  !x
	precCall        // f(...)
)

// tokenPrecedence maps a TokenType to its infix precedence level.
// Tokens not in this map have precLowest.
var tokenPrecedence = map[ast.TokenType]int{
	ast.EQ:       precEquals,
	ast.NOT_EQ:   precEquals,
	ast.LT:       precLessGreater,
	ast.GT:       precLessGreater,
	ast.PLUS:     precSum,
	ast.MINUS:    precSum,
	ast.SLASH:    precProduct,
	ast.ASTERISK: precProduct,
	ast.LPAREN:   precCall,
}

// ── Parser ────────────────────────────────────────────────────────────────────

// prefixParseFn parses an expression that starts with the current token.
type prefixParseFn func() ast.Expression

// infixParseFn parses an infix expression given the already-parsed left side.
type infixParseFn func(left ast.Expression) ast.Expression

// Parser holds all state needed to parse one source string.
// Create one with [New] and call [Parser.ParseProgram].
type Parser struct {
	l      *lexer.Lexer
	cur    ast.Token // current token (the one being examined)
	peek   ast.Token // next token
	errors []string  // accumulated parse errors
}

// New creates a Parser that reads tokens from l and primes the two-token lookahead.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.advance()
	p.advance()
	return p
}

// Parse is a convenience wrapper that parses the whole token stream of l.
func Parse(l *lexer.Lexer) (*ast.Program, []string) {
	p := New(l)
	prog := p.ParseProgram()
	return prog, p.Errors()
}

// Errors returns all parse errors collected so far.
func (p *Parser) Errors() []string {
	return p.errors
}

// ParseProgram builds the AST for the input up to the first end marker.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}
	for !p.cur.IsEnd() {
		s := p.parseStatement()
		if s != nil {
			prog.Statements = append(prog.Statements, s)
		}
		p.advance()
	}
	return prog
}

// ── Internal token management ─────────────────────────────────────────────────

// advance consumes one token from the lexer, shifting peek into cur.
func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

// expect checks that the peek token matches tt. If so it advances and returns
// true; otherwise it records an error and returns false (no advance).
func (p *Parser) expect(tt ast.TokenType) bool {
	if p.peek.Type == tt {
		p.advance()
		return true
	}
	p.errorf("expected next token to be %s, got %s instead", tt, p.peek.Type)
	return false
}

func (p *Parser) curIs(tt ast.TokenType) bool  { return p.cur.Type == tt }
func (p *Parser) peekIs(tt ast.TokenType) bool { return p.peek.Type == tt }

func (p *Parser) curPrec() int {
	if prec, ok := tokenPrecedence[p.cur.Type]; ok {
		return prec
	}
	return precLowest
}

func (p *Parser) peekPrec() int {
	if prec, ok := tokenPrecedence[p.peek.Type]; ok {
		return prec
	}
	return precLowest
}

// errorf records a formatted parse error.
func (p *Parser) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

// ── Dispatch tables ───────────────────────────────────────────────────────────

// prefixFn returns the prefix parser for tt, or nil if tt cannot start an
// expression.
func (p *Parser) prefixFn(tt ast.TokenType) prefixParseFn {
	switch tt {
	case ast.IDENT:
		return p.parseIdentifier
	case ast.INT:
		return p.parseIntegerLiteral
	case ast.STRING:
		return p.parseStringLiteral
	case ast.TRUE, ast.FALSE:
		return p.parseBoolean
	case ast.BANG, ast.MINUS:
		return p.parsePrefixExpression
	case ast.LPAREN:
		return p.parseGroupedExpression
	case ast.IF:
		return p.parseIfExpression
	case ast.FUNCTION:
		return p.parseFunctionLiteral
	}
	return nil
}

// infixFn returns the infix parser for tt, or nil if tt is not an infix operator.
func (p *Parser) infixFn(tt ast.TokenType) infixParseFn {
	switch tt {
	case ast.PLUS, ast.MINUS, ast.ASTERISK, ast.SLASH,
		ast.EQ, ast.NOT_EQ, ast.LT, ast.GT:
		return p.parseInfixExpression
	case ast.LPAREN:
		return p.parseCallExpression
	}
	return nil
}

// ── Statement parsing ─────────────────────────────────────────────────────────

func (p *Parser) parseStatement() ast.Statement {
	switch p.cur.Type {
	case ast.LET:
		return p.parseLetStatement()
	case ast.RETURN:
		return p.parseReturnStatement()
	default:
		return p.parseExpressionStatement()
	}
}

// parseLetStatement parses `let name = expr [;]`.
func (p *Parser) parseLetStatement() ast.Statement {
	stmt := &ast.LetStatement{Token: p.cur}

	if !p.expect(ast.IDENT) {
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.cur, Value: p.cur.Literal}

	if !p.expect(ast.ASSIGN) {
		return nil
	}
	p.advance() // move past '='

	stmt.Value = p.parseExpression(precLowest)

	if p.peekIs(ast.SEMICOLON) {
		p.advance()
	}
	return stmt
}

// parseReturnStatement parses `return [expr] [;]`. The value is absent when
// the statement is immediately closed by ';', '}' or the end of input.
func (p *Parser) parseReturnStatement() ast.Statement {
	stmt := &ast.ReturnStatement{Token: p.cur}

	if p.peekIs(ast.SEMICOLON) || p.peekIs(ast.RBRACE) || p.peek.IsEnd() {
		if p.peekIs(ast.SEMICOLON) {
			p.advance()
		}
		return stmt
	}
	p.advance() // move past 'return'

	stmt.ReturnValue = p.parseExpression(precLowest)

	if p.peekIs(ast.SEMICOLON) {
		p.advance()
	}
	return stmt
}

// parseExpressionStatement parses an expression in statement position. The
// trailing ';' is optional so that `5 + 5` is a complete program.
func (p *Parser) parseExpressionStatement() ast.Statement {
	stmt := &ast.ExpressionStatement{Token: p.cur}
	stmt.Expression = p.parseExpression(precLowest)

	if p.peekIs(ast.SEMICOLON) {
		p.advance()
	}
	return stmt
}

// parseBlockStatement parses `{ stmts }`. cur must be '{' on entry and is '}'
// (or an end marker, for an unclosed block) on return.
func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.cur}
	p.advance() // move past '{'

	for !p.curIs(ast.RBRACE) && !p.cur.IsEnd() {
		s := p.parseStatement()
		if s != nil {
			block.Statements = append(block.Statements, s)
		}
		p.advance()
	}
	return block
}

// ── Expression parsing ────────────────────────────────────────────────────────

// parseExpression is the Pratt loop: parse a prefix expression, then keep
// folding infix operators that bind tighter than prec.
func (p *Parser) parseExpression(prec int) ast.Expression {
	prefix := p.prefixFn(p.cur.Type)
	if prefix == nil {
		p.errorf("no prefix parse function for %s found", p.cur.Type)
		return nil
	}

	left := prefix()

	for !p.peekIs(ast.SEMICOLON) && prec < p.peekPrec() {
		infix := p.infixFn(p.peek.Type)
		if infix == nil {
			return left
		}
		p.advance()
		left = infix(left)
	}

	return left
}

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.cur, Value: p.cur.Literal}
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	tok := p.cur
	val, err := strconv.ParseInt(tok.Literal, 10, 64)
	if err != nil {
		p.errorf("could not parse %s as integer", tok.Literal)
		return nil
	}
	return &ast.IntegerLiteral{Token: tok, Value: val}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.cur, Value: p.cur.Literal}
}

func (p *Parser) parseBoolean() ast.Expression {
	return &ast.Boolean{Token: p.cur, Value: p.curIs(ast.TRUE)}
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	expr := &ast.PrefixExpression{Token: p.cur, Operator: p.cur.Literal}
	p.advance()
	expr.Right = p.parseExpression(precPrefix)
	return expr
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expr := &ast.InfixExpression{Token: p.cur, Operator: p.cur.Literal, Left: left}
	prec := p.curPrec()
	p.advance()
	expr.Right = p.parseExpression(prec)
	return expr
}

// parseGroupedExpression parses `( expr )`; the parentheses leave no node behind.
func (p *Parser) parseGroupedExpression() ast.Expression {
	p.advance() // move past '('

	expr := p.parseExpression(precLowest)
	if !p.expect(ast.RPAREN) {
		return nil
	}
	return expr
}

// parseIfExpression parses `if (cond) { ... } [else { ... }]`.
func (p *Parser) parseIfExpression() ast.Expression {
	expr := &ast.IfExpression{Token: p.cur}

	if !p.expect(ast.LPAREN) {
		return nil
	}
	p.advance() // move to condition
	expr.Condition = p.parseExpression(precLowest)

	if !p.expect(ast.RPAREN) {
		return nil
	}
	if !p.expect(ast.LBRACE) {
		return nil
	}
	expr.Consequence = p.parseBlockStatement()

	if p.peekIs(ast.ELSE) {
		p.advance() // consume 'else'
		if !p.expect(ast.LBRACE) {
			return nil
		}
		expr.Alternative = p.parseBlockStatement()
	}

	return expr
}

// parseFunctionLiteral parses `fn(params) { body }`.
func (p *Parser) parseFunctionLiteral() ast.Expression {
	lit := &ast.FunctionLiteral{Token: p.cur}

	if !p.expect(ast.LPAREN) {
		return nil
	}
	params, ok := p.parseFunctionParameters()
	if !ok {
		return nil
	}
	lit.Parameters = params

	if !p.expect(ast.LBRACE) {
		return nil
	}
	lit.Body = p.parseBlockStatement()
	return lit
}

// parseFunctionParameters parses a comma-separated identifier list. cur must be
// '(' on entry and is ')' on successful return.
func (p *Parser) parseFunctionParameters() ([]*ast.Identifier, bool) {
	params := []*ast.Identifier{}

	if p.peekIs(ast.RPAREN) {
		p.advance()
		return params, true
	}

	if !p.expect(ast.IDENT) {
		return nil, false
	}
	params = append(params, &ast.Identifier{Token: p.cur, Value: p.cur.Literal})

	for p.peekIs(ast.COMMA) {
		p.advance() // consume ','
		if !p.expect(ast.IDENT) {
			return nil, false
		}
		params = append(params, &ast.Identifier{Token: p.cur, Value: p.cur.Literal})
	}

	if !p.expect(ast.RPAREN) {
		return nil, false
	}
	return params, true
}

func (p *Parser) parseCallExpression(fn ast.Expression) ast.Expression {
	expr := &ast.CallExpression{Token: p.cur, Function: fn}
	args, ok := p.parseCallArguments()
	if !ok {
		return nil
	}
	expr.Arguments = args
	return expr
}

// parseCallArguments parses a comma-separated expression list. cur must be '('
// on entry and is ')' on successful return.
func (p *Parser) parseCallArguments() ([]ast.Expression, bool) {
	args := []ast.Expression{}

	if p.peekIs(ast.RPAREN) {
		p.advance()
		return args, true
	}

	p.advance()
	args = append(args, p.parseExpression(precLowest))

	for p.peekIs(ast.COMMA) {
		p.advance() // consume ','
		p.advance() // move to next argument
		args = append(args, p.parseExpression(precLowest))
	}

	if !p.expect(ast.RPAREN) {
		return nil, false
	}
	return args, true
}
