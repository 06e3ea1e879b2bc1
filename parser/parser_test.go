// Package parser_test contains tests for the mako Pratt parser.
//
// Each test parses a snippet, inspects the returned AST via type assertions,
// and fails with a descriptive message on mismatch.
//
// Test categories:
//   - Statements:   let, return, expression statements
//   - Expressions:  literals, prefix, infix (with precedence), if, fn, call
//   - Errors:       accumulation and best-effort recovery
//   - Rendering:    String() output re-parses to the same tree
package parser_test

import (
	"strings"
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/metaphox/mako-lang/ast"
	"github.com/metaphox/mako-lang/lexer"
	"github.com/metaphox/mako-lang/parser"
)

// ── Helpers ───────────────────────────────────────────────────────────────────

// parse runs the full parser on input and fails the test if any parse errors
// were collected or if the number of top-level statements doesn't match want.
func parse(t *testing.T, input string, wantStmts int) *ast.Program {
	t.Helper()
	prog := expectNoErrors(t, input)
	if len(prog.Statements) != wantStmts {
		t.Fatalf("expected %d statements, got %d", wantStmts, len(prog.Statements))
	}
	return prog
}

// expectNoErrors is like parse but does not assert statement count.
func expectNoErrors(t *testing.T, input string) *ast.Program {
	t.Helper()
	prog, errs := parser.Parse(lexer.New(input + lexer.Sentinel))
	if len(errs) > 0 {
		t.Errorf("parser produced %d error(s):", len(errs))
		for _, e := range errs {
			t.Errorf("  %s", e)
		}
		t.FailNow()
	}
	return prog
}

// firstExpr parses a one-statement program and returns its expression.
func firstExpr(t *testing.T, input string) ast.Expression {
	t.Helper()
	stmt := parse(t, input, 1).Statements[0]
	es, ok := stmt.(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("expected *ast.ExpressionStatement, got %T", stmt)
	}
	return es.Expression
}

func assertIdent(t *testing.T, expr ast.Expression, name string) {
	t.Helper()
	id, ok := expr.(*ast.Identifier)
	if !ok {
		t.Fatalf("expected *ast.Identifier, got %T", expr)
	}
	if id.Value != name {
		t.Fatalf("identifier name: got %q, want %q", id.Value, name)
	}
	if id.TokenLiteral() != name {
		t.Fatalf("identifier token literal: got %q, want %q", id.TokenLiteral(), name)
	}
}

func assertIntLit(t *testing.T, expr ast.Expression, val int64) {
	t.Helper()
	lit, ok := expr.(*ast.IntegerLiteral)
	if !ok {
		t.Fatalf("expected *ast.IntegerLiteral, got %T", expr)
	}
	if lit.Value != val {
		t.Fatalf("IntegerLiteral value: got %d, want %d", lit.Value, val)
	}
}

func assertBool(t *testing.T, expr ast.Expression, val bool) {
	t.Helper()
	b, ok := expr.(*ast.Boolean)
	if !ok {
		t.Fatalf("expected *ast.Boolean, got %T", expr)
	}
	if b.Value != val {
		t.Fatalf("Boolean value: got %t, want %t", b.Value, val)
	}
}

// assertLiteral dispatches on the Go type of want.
func assertLiteral(t *testing.T, expr ast.Expression, want any) {
	t.Helper()
	switch v := want.(type) {
	case int:
		assertIntLit(t, expr, int64(v))
	case int64:
		assertIntLit(t, expr, v)
	case string:
		assertIdent(t, expr, v)
	case bool:
		assertBool(t, expr, v)
	default:
		t.Fatalf("unsupported literal type %T", want)
	}
}

func assertInfix(t *testing.T, expr ast.Expression, left any, op string, right any) {
	t.Helper()
	inf, ok := expr.(*ast.InfixExpression)
	if !ok {
		t.Fatalf("expected *ast.InfixExpression, got %T", expr)
	}
	if inf.Operator != op {
		t.Fatalf("infix operator: got %q, want %q", inf.Operator, op)
	}
	assertLiteral(t, inf.Left, left)
	assertLiteral(t, inf.Right, right)
}

// diff renders a character diff between want and got for failure messages.
func diff(want, got string) string {
	dmp := diffmatchpatch.New()
	return dmp.DiffPrettyText(dmp.DiffMain(want, got, false))
}

// ── Let / Return statements ───────────────────────────────────────────────────

func TestParser_LetStatements(t *testing.T) {
	tests := []struct {
		input string
		name  string
		value any
	}{
		{"let x = 5;", "x", 5},
		{"let y = true;", "y", true},
		{"let foobar = y;", "foobar", "y"},
		{"let z = 10", "z", 10},
	}

	for _, tt := range tests {
		stmt := parse(t, tt.input, 1).Statements[0]
		ls, ok := stmt.(*ast.LetStatement)
		if !ok {
			t.Fatalf("%q: expected *ast.LetStatement, got %T", tt.input, stmt)
		}
		if ls.TokenLiteral() != "let" {
			t.Errorf("TokenLiteral: got %q, want %q", ls.TokenLiteral(), "let")
		}
		assertIdent(t, ls.Name, tt.name)
		assertLiteral(t, ls.Value, tt.value)
	}
}

func TestParser_ReturnStatements(t *testing.T) {
	tests := []struct {
		input string
		value any
	}{
		{"return 5;", 5},
		{"return true;", true},
		{"return foobar", "foobar"},
	}

	for _, tt := range tests {
		stmt := parse(t, tt.input, 1).Statements[0]
		rs, ok := stmt.(*ast.ReturnStatement)
		if !ok {
			t.Fatalf("%q: expected *ast.ReturnStatement, got %T", tt.input, stmt)
		}
		if rs.TokenLiteral() != "return" {
			t.Errorf("TokenLiteral: got %q, want %q", rs.TokenLiteral(), "return")
		}
		assertLiteral(t, rs.ReturnValue, tt.value)
	}
}

func TestParser_BareReturn(t *testing.T) {
	for _, input := range []string{"return;", "return", "fn() { return }"} {
		prog := expectNoErrors(t, input)
		if len(prog.Statements) != 1 {
			t.Fatalf("%q: expected 1 statement, got %d", input, len(prog.Statements))
		}
	}
	rs := parse(t, "return;", 1).Statements[0].(*ast.ReturnStatement)
	if rs.ReturnValue != nil {
		t.Fatalf("expected nil return value, got %s", rs.ReturnValue)
	}
}

// TestParser_WithoutSentinel checks that natural end of input terminates a
// program the same way the `\0` sentinel does.
func TestParser_WithoutSentinel(t *testing.T) {
	prog, errs := parser.Parse(lexer.New("let a = 1; a + 2"))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(prog.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(prog.Statements))
	}
}

// ── Literal expressions ───────────────────────────────────────────────────────

func TestParser_Identifier(t *testing.T) {
	assertIdent(t, firstExpr(t, "foobar;"), "foobar")
}

func TestParser_IntegerLiteral(t *testing.T) {
	assertIntLit(t, firstExpr(t, "5;"), 5)
	assertIntLit(t, firstExpr(t, "0"), 0)
}

func TestParser_StringLiteral(t *testing.T) {
	expr := firstExpr(t, `"hello world";`)
	lit, ok := expr.(*ast.StringLiteral)
	if !ok {
		t.Fatalf("expected *ast.StringLiteral, got %T", expr)
	}
	if lit.Value != "hello world" {
		t.Fatalf("value: got %q, want %q", lit.Value, "hello world")
	}
}

func TestParser_BooleanLiteral(t *testing.T) {
	assertBool(t, firstExpr(t, "true;"), true)
	assertBool(t, firstExpr(t, "false"), false)
}

// ── Operators ─────────────────────────────────────────────────────────────────

func TestParser_PrefixExpressions(t *testing.T) {
	tests := []struct {
		input    string
		operator string
		value    any
	}{
		{"!5;", "!", 5},
		{"-15;", "-", 15},
		{"!foobar;", "!", "foobar"},
		{"-foobar;", "-", "foobar"},
		{"!true;", "!", true},
		{"!false;", "!", false},
	}

	for _, tt := range tests {
		expr := firstExpr(t, tt.input)
		pe, ok := expr.(*ast.PrefixExpression)
		if !ok {
			t.Fatalf("%q: expected *ast.PrefixExpression, got %T", tt.input, expr)
		}
		if pe.Operator != tt.operator {
			t.Fatalf("operator: got %q, want %q", pe.Operator, tt.operator)
		}
		assertLiteral(t, pe.Right, tt.value)
	}
}

func TestParser_InfixExpressions(t *testing.T) {
	tests := []struct {
		input string
		left  any
		op    string
		right any
	}{
		{"5 + 5;", 5, "+", 5},
		{"5 - 5;", 5, "-", 5},
		{"5 * 5;", 5, "*", 5},
		{"5 / 5;", 5, "/", 5},
		{"5 > 5;", 5, ">", 5},
		{"5 < 5;", 5, "<", 5},
		{"5 == 5;", 5, "==", 5},
		{"5 != 5;", 5, "!=", 5},
		{"foobar + barfoo;", "foobar", "+", "barfoo"},
		{"true == true", true, "==", true},
		{"true != false", true, "!=", false},
	}

	for _, tt := range tests {
		assertInfix(t, firstExpr(t, tt.input), tt.left, tt.op, tt.right)
	}
}

func TestParser_OperatorPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"-a * b", "((-a) * b)"},
		{"!-a", "(!(-a))"},
		{"a + b + c", "((a + b) + c)"},
		{"a + b - c", "((a + b) - c)"},
		{"a * b * c", "((a * b) * c)"},
		{"a * b / c", "((a * b) / c)"},
		{"a + b / c", "(a + (b / c))"},
		{"a + b * c", "(a + (b * c))"},
		{"a * b + c", "((a * b) + c)"},
		{"a + b * c + d / e - f", "(((a + (b * c)) + (d / e)) - f)"},
		{"3 + 4; -5 * 5", "(3 + 4); ((-5) * 5)"},
		{"5 > 4 == 3 < 4", "((5 > 4) == (3 < 4))"},
		{"5 < 4 != 3 > 4", "((5 < 4) != (3 > 4))"},
		{"3 + 4 * 5 == 3 * 1 + 4 * 5", "((3 + (4 * 5)) == ((3 * 1) + (4 * 5)))"},
		{"true", "true"},
		{"false", "false"},
		{"3 > 5 == false", "((3 > 5) == false)"},
		{"3 < 5 == true", "((3 < 5) == true)"},
		{"1 + (2 + 3) + 4", "((1 + (2 + 3)) + 4)"},
		{"(5 + 5) * 2", "((5 + 5) * 2)"},
		{"2 / (5 + 5)", "(2 / (5 + 5))"},
		{"(5 + 5) * 2 * (5 + 5)", "(((5 + 5) * 2) * (5 + 5))"},
		{"-(5 + 5)", "(-(5 + 5))"},
		{"!(true == true)", "(!(true == true))"},
		{"a + add(b * c) + d", "((a + add((b * c))) + d)"},
		{"add(a, b, 1, 2 * 3, 4 + 5, add(6, 7 * 8))", "add(a, b, 1, (2 * 3), (4 + 5), add(6, (7 * 8)))"},
		{"add(a + b + c * d / f + g)", "add((((a + b) + ((c * d) / f)) + g))"},
	}

	for _, tt := range tests {
		got := expectNoErrors(t, tt.input).String()
		if got != tt.expected {
			t.Errorf("%q:\n%s", tt.input, diff(tt.expected, got))
		}
	}
}

// ── Compound expressions ──────────────────────────────────────────────────────

func TestParser_IfExpression(t *testing.T) {
	expr := firstExpr(t, `if (x < y) { x }`)
	ie, ok := expr.(*ast.IfExpression)
	if !ok {
		t.Fatalf("expected *ast.IfExpression, got %T", expr)
	}
	assertInfix(t, ie.Condition, "x", "<", "y")
	if len(ie.Consequence.Statements) != 1 {
		t.Fatalf("consequence: expected 1 statement, got %d", len(ie.Consequence.Statements))
	}
	assertIdent(t, ie.Consequence.Statements[0].(*ast.ExpressionStatement).Expression, "x")
	if ie.Alternative != nil {
		t.Fatalf("expected nil alternative, got %s", ie.Alternative)
	}
}

func TestParser_IfElseExpression(t *testing.T) {
	expr := firstExpr(t, `if (x < y) { x } else { y }`)
	ie := expr.(*ast.IfExpression)
	assertInfix(t, ie.Condition, "x", "<", "y")
	if ie.Alternative == nil || len(ie.Alternative.Statements) != 1 {
		t.Fatalf("alternative: expected 1 statement, got %v", ie.Alternative)
	}
	assertIdent(t, ie.Alternative.Statements[0].(*ast.ExpressionStatement).Expression, "y")
}

func TestParser_FunctionLiteral(t *testing.T) {
	expr := firstExpr(t, `fn(x, y) { x + y; }`)
	fn, ok := expr.(*ast.FunctionLiteral)
	if !ok {
		t.Fatalf("expected *ast.FunctionLiteral, got %T", expr)
	}
	if len(fn.Parameters) != 2 {
		t.Fatalf("expected 2 parameters, got %d", len(fn.Parameters))
	}
	assertIdent(t, fn.Parameters[0], "x")
	assertIdent(t, fn.Parameters[1], "y")
	if len(fn.Body.Statements) != 1 {
		t.Fatalf("body: expected 1 statement, got %d", len(fn.Body.Statements))
	}
	assertInfix(t, fn.Body.Statements[0].(*ast.ExpressionStatement).Expression, "x", "+", "y")
}

func TestParser_FunctionParameters(t *testing.T) {
	tests := []struct {
		input  string
		params []string
	}{
		{"fn() {};", []string{}},
		{"fn(x) {};", []string{"x"}},
		{"fn(x, y, z) {};", []string{"x", "y", "z"}},
	}

	for _, tt := range tests {
		fn := firstExpr(t, tt.input).(*ast.FunctionLiteral)
		if len(fn.Parameters) != len(tt.params) {
			t.Fatalf("%q: expected %d parameters, got %d", tt.input, len(tt.params), len(fn.Parameters))
		}
		for i, name := range tt.params {
			assertIdent(t, fn.Parameters[i], name)
		}
	}
}

func TestParser_CallExpression(t *testing.T) {
	expr := firstExpr(t, "add(1, 2 * 3, 4 + 5);")
	call, ok := expr.(*ast.CallExpression)
	if !ok {
		t.Fatalf("expected *ast.CallExpression, got %T", expr)
	}
	assertIdent(t, call.Function, "add")
	if len(call.Arguments) != 3 {
		t.Fatalf("expected 3 arguments, got %d", len(call.Arguments))
	}
	assertLiteral(t, call.Arguments[0], 1)
	assertInfix(t, call.Arguments[1], 2, "*", 3)
	assertInfix(t, call.Arguments[2], 4, "+", 5)
}

func TestParser_CallOfFunctionLiteral(t *testing.T) {
	call := firstExpr(t, "fn(x) { x; }(5)").(*ast.CallExpression)
	if _, ok := call.Function.(*ast.FunctionLiteral); !ok {
		t.Fatalf("callee: expected *ast.FunctionLiteral, got %T", call.Function)
	}
	if len(call.Arguments) != 1 {
		t.Fatalf("expected 1 argument, got %d", len(call.Arguments))
	}
}

func TestParser_CallWithoutArguments(t *testing.T) {
	call := firstExpr(t, "f()").(*ast.CallExpression)
	if call.Arguments == nil || len(call.Arguments) != 0 {
		t.Fatalf("expected empty argument list, got %v", call.Arguments)
	}
}

func TestParser_Program(t *testing.T) {
	prog := parse(t, `
let newAdder = fn(x) {
  fn(y) { x + y };
};
let addTwo = newAdder(2);
addTwo(3);`, 3)

	want := "let newAdder = fn(x) { fn(y) { (x + y) } }; let addTwo = newAdder(2); addTwo(3)"
	if got := prog.String(); got != want {
		t.Fatalf("rendering:\n%s", diff(want, got))
	}
}

// ── Errors ────────────────────────────────────────────────────────────────────

func parseErrors(input string) []string {
	_, errs := parser.Parse(lexer.New(input + lexer.Sentinel))
	return errs
}

func TestParser_Errors(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"let x 5;", []string{"expected next token to be =, got INT instead"}},
		{"let = 10;", []string{
			"expected next token to be IDENT, got = instead",
			"no prefix parse function for = found",
		}},
		{"let 838383;", []string{"expected next token to be IDENT, got INT instead"}},
		{"[1, 2]", []string{"no prefix parse function for [ found"}},
		{"@", []string{"no prefix parse function for ILLEGAL found"}},
		{"if (x { x }", []string{"expected next token to be ), got { instead"}},
		{"fn(x, 1) { x }", []string{"expected next token to be IDENT, got INT instead"}},
		{"92233720368547758070", []string{"could not parse 92233720368547758070 as integer"}},
	}

	for _, tt := range tests {
		errs := parseErrors(tt.input)
		if len(errs) < len(tt.want) {
			t.Errorf("%q: expected at least %d errors, got %v", tt.input, len(tt.want), errs)
			continue
		}
		for i, w := range tt.want {
			if errs[i] != w {
				t.Errorf("%q: error %d: got %q, want %q", tt.input, i, errs[i], w)
			}
		}
	}
}

// TestParser_ErrorAccumulation checks that parsing continues past the first
// error so that every broken statement is reported in a single pass.
func TestParser_ErrorAccumulation(t *testing.T) {
	p := parser.New(lexer.New("let x 5; let = 1; let y = 2;" + lexer.Sentinel))
	prog := p.ParseProgram()
	if prog == nil {
		t.Fatal("ParseProgram returned nil")
	}
	if len(p.Errors()) < 2 {
		t.Fatalf("expected at least 2 errors, got %v", p.Errors())
	}
	var lets int
	for _, s := range prog.Statements {
		if ls, ok := s.(*ast.LetStatement); ok && ls.Name.Value == "y" {
			lets++
		}
	}
	if lets != 1 {
		t.Fatalf("expected the valid `let y` to survive, got %q", prog.String())
	}
}

// TestParser_PartialTreesRender makes sure String never panics on nil children.
func TestParser_PartialTreesRender(t *testing.T) {
	for _, input := range []string{"-", "1 +", "f(1,", "if (", "fn(", "let x = ;", "{"} {
		prog, errs := parser.Parse(lexer.New(input + lexer.Sentinel))
		if len(errs) == 0 {
			t.Errorf("%q: expected errors", input)
		}
		_ = prog.String()
	}
}

// ── Rendering ─────────────────────────────────────────────────────────────────

// TestParser_RoundTrip checks that re-parsing a rendered program yields a tree
// that renders identically.
func TestParser_RoundTrip(t *testing.T) {
	inputs := []string{
		"a + b * c",
		"-a * !b",
		"let x = 5; let y = x * 2; return x + y",
		`let s = "hello world"; s`,
		"if (x < y) { x } else { y }",
		"if (a) { if (b) { return 1; } return 2; }",
		"fn() {}",
		"let f = fn(x, y) { let z = x + y; z * 2 }; f(1, 2)",
		"fn(x) { fn(y) { x + y } }(1)(2)",
		"add(a, b, 1, 2 * 3, 4 + 5, add(6, 7 * 8))",
		"return;",
	}

	for _, input := range inputs {
		first := expectNoErrors(t, input).String()
		second := expectNoErrors(t, first).String()
		if first != second {
			t.Errorf("%q does not round-trip:\n%s", input, diff(first, second))
		}
		if strings.Contains(first, "\n") {
			t.Errorf("%q: rendering spans lines: %q", input, first)
		}
	}
}
