// Package evaluator walks a parsed program and produces runtime values.
//
// Eval is a single type switch over the closed set of AST nodes. Runtime errors
// and `return` both travel as ordinary values (*object.Error and
// *object.ReturnValue): every step that evaluates a child checks for them and
// hands them straight back to its caller.
package evaluator

import (
	"fmt"

	"github.com/metaphox/mako-lang/ast"
	"github.com/metaphox/mako-lang/object"
)

// Eval evaluates node in env. Statements that produce no value (let) return nil.
func Eval(node ast.Node, env *object.Environment) object.Object {
	switch node := node.(type) {

	// Statements
	case *ast.Program:
		return evalProgram(node, env)

	case *ast.BlockStatement:
		return evalBlockStatement(node, env)

	case *ast.ExpressionStatement:
		return evalExpression(node.Expression, env)

	case *ast.LetStatement:
		val := evalExpression(node.Value, env)
		if isError(val) {
			return val
		}
		env.Set(node.Name.Value, val)
		return nil

	case *ast.ReturnStatement:
		val := evalExpression(node.ReturnValue, env)
		if isError(val) {
			return val
		}
		return &object.ReturnValue{Value: val}

	// Expressions
	case *ast.IntegerLiteral:
		return &object.Integer{Value: node.Value}

	case *ast.StringLiteral:
		return &object.String{Value: node.Value}

	case *ast.Boolean:
		return object.NativeBool(node.Value)

	case *ast.Identifier:
		return evalIdentifier(node, env)

	case *ast.PrefixExpression:
		right := evalExpression(node.Right, env)
		if isError(right) {
			return right
		}
		return evalPrefixExpression(node.Operator, right)

	case *ast.InfixExpression:
		left := evalExpression(node.Left, env)
		if isError(left) {
			return left
		}
		right := evalExpression(node.Right, env)
		if isError(right) {
			return right
		}
		return evalInfixExpression(node.Operator, left, right)

	case *ast.IfExpression:
		return evalIfExpression(node, env)

	case *ast.FunctionLiteral:
		return &object.Function{Parameters: node.Parameters, Body: node.Body, Env: env}

	case *ast.CallExpression:
		function := evalExpression(node.Function, env)
		if isError(function) {
			return function
		}
		args := evalExpressions(node.Arguments, env)
		if len(args) == 1 && isError(args[0]) {
			return args[0]
		}
		return applyFunction(function, args)
	}

	return nil
}

// evalExpression is Eval for an expression slot that a failed parse may have
// left empty. A missing expression is NULL.
func evalExpression(expr ast.Expression, env *object.Environment) object.Object {
	if expr == nil {
		return object.NULL
	}
	if val := Eval(expr, env); val != nil {
		return val
	}
	return object.NULL
}

func evalProgram(program *ast.Program, env *object.Environment) object.Object {
	var result object.Object

	for _, stmt := range program.Statements {
		val := Eval(stmt, env)
		if val == nil {
			continue
		}
		result = val

		switch result := result.(type) {
		case *object.ReturnValue:
			return result.Value
		case *object.Error:
			return result
		}
	}

	return result
}

// evalBlockStatement differs from evalProgram in leaving ReturnValue wrapped,
// so that a return inside nested blocks unwinds all the way to the call.
func evalBlockStatement(block *ast.BlockStatement, env *object.Environment) object.Object {
	var result object.Object

	for _, stmt := range block.Statements {
		val := Eval(stmt, env)
		if val == nil {
			continue
		}
		result = val

		if rt := result.Type(); rt == object.RETURN_VALUE_OBJ || rt == object.ERROR_OBJ {
			return result
		}
	}

	return result
}

func evalIdentifier(node *ast.Identifier, env *object.Environment) object.Object {
	if val, ok := env.Get(node.Value); ok {
		return val
	}
	return newError("identifier not found: %s", node.Value)
}

// evalPrefixExpression handles the two prefix operators the parser produces.
func evalPrefixExpression(operator string, right object.Object) object.Object {
	if operator == "!" {
		return evalBangOperatorExpression(right)
	}
	return evalMinusPrefixOperatorExpression(right)
}

// evalBangOperatorExpression: only FALSE and NULL negate to TRUE.
func evalBangOperatorExpression(right object.Object) object.Object {
	switch right {
	case object.TRUE:
		return object.FALSE
	case object.FALSE, object.NULL:
		return object.TRUE
	default:
		return object.FALSE
	}
}

func evalMinusPrefixOperatorExpression(right object.Object) object.Object {
	i, ok := right.(*object.Integer)
	if !ok {
		return newError("unknown operator: -%s", right.Type())
	}
	return &object.Integer{Value: -i.Value}
}

func evalInfixExpression(operator string, left, right object.Object) object.Object {
	l, lok := left.(*object.Integer)
	r, rok := right.(*object.Integer)
	switch {
	case lok && rok:
		return evalIntegerInfixExpression(operator, l, r)
	case operator == "==":
		return object.NativeBool(identical(left, right))
	case operator == "!=":
		return object.NativeBool(!identical(left, right))
	case left.Type() != right.Type():
		return newError("type mismatch: %s %s %s", left.Type(), operator, right.Type())
	default:
		return newError("unknown operator: %s %s %s", left.Type(), operator, right.Type())
	}
}

func evalIntegerInfixExpression(operator string, left, right *object.Integer) object.Object {
	l, r := left.Value, right.Value

	switch operator {
	case "+":
		return &object.Integer{Value: l + r}
	case "-":
		return &object.Integer{Value: l - r}
	case "*":
		return &object.Integer{Value: l * r}
	case "/":
		if r == 0 {
			return newError("division by zero: %d / 0", l)
		}
		return &object.Integer{Value: l / r}
	case "<":
		return object.NativeBool(l < r)
	case ">":
		return object.NativeBool(l > r)
	case "==":
		return object.NativeBool(l == r)
	case "!=":
		return object.NativeBool(l != r)
	default:
		return newError("unknown operator: %s %s %s", left.Type(), operator, right.Type())
	}
}

// identical is the equality used by == and != on anything but two integers.
// Booleans compare by value and null equals null; every other pair compares by
// identity, so two separately built strings are never equal.
func identical(left, right object.Object) bool {
	switch l := left.(type) {
	case *object.Boolean:
		r, ok := right.(*object.Boolean)
		return ok && l.Value == r.Value
	case *object.Null:
		_, ok := right.(*object.Null)
		return ok
	}
	return left == right
}

func evalIfExpression(ie *ast.IfExpression, env *object.Environment) object.Object {
	condition := evalExpression(ie.Condition, env)
	if isError(condition) {
		return condition
	}

	switch {
	case isTruthy(condition):
		return evalBranch(ie.Consequence, env)
	case ie.Alternative != nil:
		return evalBranch(ie.Alternative, env)
	default:
		return object.NULL
	}
}

// evalBranch evaluates an if branch. A branch with no value-producing statement
// yields NULL.
func evalBranch(block *ast.BlockStatement, env *object.Environment) object.Object {
	if block == nil {
		return object.NULL
	}
	if val := evalBlockStatement(block, env); val != nil {
		return val
	}
	return object.NULL
}

// isTruthy: everything except NULL and FALSE, including the integer 0.
func isTruthy(obj object.Object) bool {
	switch obj {
	case object.NULL, object.FALSE:
		return false
	default:
		return true
	}
}

// evalExpressions evaluates exps left to right. On the first error it returns
// a one-element slice holding that error.
func evalExpressions(exps []ast.Expression, env *object.Environment) []object.Object {
	result := make([]object.Object, 0, len(exps))

	for _, e := range exps {
		evaluated := evalExpression(e, env)
		if isError(evaluated) {
			return []object.Object{evaluated}
		}
		result = append(result, evaluated)
	}

	return result
}

func applyFunction(fn object.Object, args []object.Object) object.Object {
	function, ok := fn.(*object.Function)
	if !ok {
		return newError("not a function: %s", fn.Type())
	}

	extendedEnv := extendFunctionEnv(function, args)
	evaluated := evalBranch(function.Body, extendedEnv)
	return unwrapReturnValue(evaluated)
}

// extendFunctionEnv binds parameters positionally in a fresh scope enclosed by
// the scope the function was defined in, not the caller's. Extra arguments are
// dropped; a parameter without an argument stays unbound, so its name resolves
// in the enclosing scopes.
func extendFunctionEnv(fn *object.Function, args []object.Object) *object.Environment {
	env := object.NewEnclosedEnvironment(fn.Env)

	for i, param := range fn.Parameters {
		if i >= len(args) {
			break
		}
		env.Set(param.Value, args[i])
	}

	return env
}

func unwrapReturnValue(obj object.Object) object.Object {
	if rv, ok := obj.(*object.ReturnValue); ok {
		return rv.Value
	}
	return obj
}

func newError(format string, a ...any) *object.Error {
	return &object.Error{Message: fmt.Sprintf(format, a...)}
}

func isError(obj object.Object) bool {
	if obj != nil {
		return obj.Type() == object.ERROR_OBJ
	}
	return false
}
