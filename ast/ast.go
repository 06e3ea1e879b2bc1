// Abstract Syntax Tree (AST) node types.
//
// The hierarchy is closed: only types in this package implement Statement and
// Expression, because both carry an unexported marker method.
//
//	Node (interface)
//	  Statement (interface)
//	    LetStatement, ReturnStatement, ExpressionStatement, BlockStatement
//	  Expression (interface)
//	    Identifier, IntegerLiteral, StringLiteral, Boolean
//	    PrefixExpression, InfixExpression, IfExpression
//	    FunctionLiteral, CallExpression
//
// String renders a node in a fully parenthesised form that the parser accepts
// again and that yields an equivalent tree. Children left nil by a failed parse
// render as the empty string.

package ast

import (
	"strings"
)

// ── Interfaces ────────────────────────────────────────────────────────────────

// Node is the root interface for every element in the AST.
type Node interface {
	// TokenLiteral returns the literal string of the token that began this node.
	TokenLiteral() string
	// String returns the re-parseable rendering of the node.
	String() string
}

// Statement is a Node in statement position.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node that evaluates to a value.
type Expression interface {
	Node
	expressionNode()
}

// ── Top-level program ─────────────────────────────────────────────────────────

// Program is the root AST node produced by the parser.
type Program struct {
	Statements []Statement
}

// TokenLiteral returns the literal of the first statement's starting token,
// or "" for an empty program.
func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

// String joins the statements with "; ".
func (p *Program) String() string {
	return joinStatements(p.Statements)
}

// ── Statements ────────────────────────────────────────────────────────────────

// LetStatement binds a name in the current scope.
//
//	let x = 5 * 5;
type LetStatement struct {
	Token Token // the 'let' token
	Name  *Identifier
	Value Expression
}

func (s *LetStatement) statementNode()       {}
func (s *LetStatement) TokenLiteral() string { return s.Token.Literal }
func (s *LetStatement) String() string {
	name := ""
	if s.Name != nil {
		name = s.Name.String()
	}
	return "let " + name + " = " + exprString(s.Value)
}

// ReturnStatement leaves the enclosing function (or program) with a value.
// ReturnValue is nil for a bare `return;`.
type ReturnStatement struct {
	Token       Token // the 'return' token
	ReturnValue Expression
}

func (s *ReturnStatement) statementNode()       {}
func (s *ReturnStatement) TokenLiteral() string { return s.Token.Literal }
func (s *ReturnStatement) String() string {
	if s.ReturnValue == nil {
		return "return"
	}
	return "return " + s.ReturnValue.String()
}

// ExpressionStatement wraps an expression that appears in statement position.
//
//	x + 10;
type ExpressionStatement struct {
	Token      Token // the first token of the expression
	Expression Expression
}

func (s *ExpressionStatement) statementNode()       {}
func (s *ExpressionStatement) TokenLiteral() string { return s.Token.Literal }
func (s *ExpressionStatement) String() string       { return exprString(s.Expression) }

// BlockStatement is a brace-delimited sequence of statements. Its value is the
// value of the last statement that produced one.
type BlockStatement struct {
	Token      Token // the '{' token
	Statements []Statement
}

func (s *BlockStatement) statementNode()       {}
func (s *BlockStatement) TokenLiteral() string { return s.Token.Literal }
func (s *BlockStatement) String() string {
	if len(s.Statements) == 0 {
		return "{}"
	}
	return "{ " + joinStatements(s.Statements) + " }"
}

// ── Expressions ───────────────────────────────────────────────────────────────

// Identifier is a reference to a named binding.
type Identifier struct {
	Token Token
	Value string
}

func (e *Identifier) expressionNode()      {}
func (e *Identifier) TokenLiteral() string { return e.Token.Literal }
func (e *Identifier) String() string       { return e.Value }

// IntegerLiteral is a decimal integer literal value.
type IntegerLiteral struct {
	Token Token
	Value int64
}

func (e *IntegerLiteral) expressionNode()      {}
func (e *IntegerLiteral) TokenLiteral() string { return e.Token.Literal }
func (e *IntegerLiteral) String() string       { return e.Token.Literal }

// StringLiteral holds the verbatim text between two double quotes.
type StringLiteral struct {
	Token Token
	Value string
}

func (e *StringLiteral) expressionNode()      {}
func (e *StringLiteral) TokenLiteral() string { return e.Token.Literal }
func (e *StringLiteral) String() string       { return `"` + e.Value + `"` }

// Boolean is the literal true or false.
type Boolean struct {
	Token Token
	Value bool
}

func (e *Boolean) expressionNode()      {}
func (e *Boolean) TokenLiteral() string { return e.Token.Literal }
func (e *Boolean) String() string       { return e.Token.Literal }

// PrefixExpression is a unary expression: !x  or  -5.
type PrefixExpression struct {
	Token    Token  // the operator token
	Operator string // "!" or "-"
	Right    Expression
}

func (e *PrefixExpression) expressionNode()      {}
func (e *PrefixExpression) TokenLiteral() string { return e.Token.Literal }
func (e *PrefixExpression) String() string {
	return "(" + e.Operator + exprString(e.Right) + ")"
}

// InfixExpression is a binary expression: left op right.
type InfixExpression struct {
	Token    Token // the operator token
	Left     Expression
	Operator string // "+", "-", "*", "/", "<", ">", "==", "!="
	Right    Expression
}

func (e *InfixExpression) expressionNode()      {}
func (e *InfixExpression) TokenLiteral() string { return e.Token.Literal }
func (e *InfixExpression) String() string {
	return "(" + exprString(e.Left) + " " + e.Operator + " " + exprString(e.Right) + ")"
}

// IfExpression is a conditional. Alternative is nil when there is no else branch.
//
//	if (x < y) { x } else { y }
type IfExpression struct {
	Token       Token // the 'if' token
	Condition   Expression
	Consequence *BlockStatement
	Alternative *BlockStatement
}

func (e *IfExpression) expressionNode()      {}
func (e *IfExpression) TokenLiteral() string { return e.Token.Literal }
func (e *IfExpression) String() string {
	var out strings.Builder
	out.WriteString("if (")
	out.WriteString(exprString(e.Condition))
	out.WriteString(") ")
	out.WriteString(blockString(e.Consequence))
	if e.Alternative != nil {
		out.WriteString(" else ")
		out.WriteString(e.Alternative.String())
	}
	return out.String()
}

// FunctionLiteral is an anonymous function.
//
//	fn(x, y) { x + y; }
type FunctionLiteral struct {
	Token      Token // the 'fn' token
	Parameters []*Identifier
	Body       *BlockStatement
}

func (e *FunctionLiteral) expressionNode()      {}
func (e *FunctionLiteral) TokenLiteral() string { return e.Token.Literal }
func (e *FunctionLiteral) String() string {
	return "fn(" + ParamList(e.Parameters) + ") " + blockString(e.Body)
}

// CallExpression applies a callee to arguments.
//
//	add(1, 2 * 3)
type CallExpression struct {
	Token     Token      // the '(' token
	Function  Expression // Identifier or FunctionLiteral, or any expression
	Arguments []Expression
}

func (e *CallExpression) expressionNode()      {}
func (e *CallExpression) TokenLiteral() string { return e.Token.Literal }
func (e *CallExpression) String() string {
	args := make([]string, len(e.Arguments))
	for i, a := range e.Arguments {
		args[i] = exprString(a)
	}
	return exprString(e.Function) + "(" + strings.Join(args, ", ") + ")"
}

// ── Rendering helpers ─────────────────────────────────────────────────────────

// ParamList renders parameters as "x, y".
func ParamList(params []*Identifier) string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.String()
	}
	return strings.Join(names, ", ")
}

func joinStatements(stmts []Statement) string {
	parts := make([]string, len(stmts))
	for i, s := range stmts {
		parts[i] = s.String()
	}
	return strings.Join(parts, "; ")
}

func exprString(e Expression) string {
	if e == nil {
		return ""
	}
	return e.String()
}

func blockString(b *BlockStatement) string {
	if b == nil {
		return ""
	}
	return b.String()
}
