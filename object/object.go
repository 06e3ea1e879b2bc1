// Package object defines the runtime values produced by the evaluator and the
// lexically scoped Environment they are bound in.
//
// Object is a closed set: only the types in this package implement it. The
// evaluator dispatches over it with type switches.
package object

import (
	"strconv"
	"strings"

	"github.com/metaphox/mako-lang/ast"
)

// ObjectType is the type tag every Object reports. The values appear verbatim
// in runtime error messages.
type ObjectType string

const (
	INTEGER_OBJ      ObjectType = "INTEGER"
	BOOLEAN_OBJ      ObjectType = "BOOLEAN"
	STRING_OBJ       ObjectType = "STRING"
	NULL_OBJ         ObjectType = "NULL"
	RETURN_VALUE_OBJ ObjectType = "RETURN_VALUE"
	FUNCTION_OBJ     ObjectType = "FUNCTION"
	ERROR_OBJ        ObjectType = "ERROR"
)

// Object is a runtime value.
type Object interface {
	// Type returns the type tag of the value.
	Type() ObjectType
	// Inspect returns the human-readable rendering shown to users.
	Inspect() string
	object()
}

// The process-wide singletons. Booleans and null are never allocated anywhere else.
var (
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
	NULL  = &Null{}
)

// NativeBool returns the singleton for b.
func NativeBool(b bool) *Boolean {
	if b {
		return TRUE
	}
	return FALSE
}

// Integer is a signed 64-bit integer. Arithmetic wraps on overflow.
type Integer struct {
	Value int64
}

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) Inspect() string  { return strconv.FormatInt(i.Value, 10) }
func (i *Integer) object()          {}

// Boolean is true or false. Use TRUE, FALSE or NativeBool.
type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return strconv.FormatBool(b.Value) }
func (b *Boolean) object()          {}

// String is an immutable text value.
type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return s.Value }
func (s *String) object()          {}

// Null is the absence of a value. Use NULL.
type Null struct{}

func (n *Null) Type() ObjectType { return NULL_OBJ }
func (n *Null) Inspect() string  { return "null" }
func (n *Null) object()          {}

// ReturnValue carries a `return`ed value up through enclosing blocks until the
// function call (or program) that unwraps it. It is never user-visible.
type ReturnValue struct {
	Value Object
}

func (rv *ReturnValue) Type() ObjectType { return RETURN_VALUE_OBJ }
func (rv *ReturnValue) Inspect() string {
	if rv.Value == nil {
		return ""
	}
	return rv.Value.Inspect()
}
func (rv *ReturnValue) object() {}

// Function is a closure: a function literal paired with the environment it was
// evaluated in. Env is shared, not copied, so later changes to that scope are
// visible to the function.
type Function struct {
	Parameters []*ast.Identifier
	Body       *ast.BlockStatement
	Env        *Environment
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) Inspect() string {
	var out strings.Builder
	out.WriteString("fn(")
	out.WriteString(ast.ParamList(f.Parameters))
	out.WriteString(") {\n")
	if f.Body != nil {
		for i, s := range f.Body.Statements {
			if i > 0 {
				out.WriteString("; ")
			}
			out.WriteString(s.String())
		}
	}
	out.WriteString("\n}")
	return out.String()
}
func (f *Function) object() {}

// Error is a runtime error. It unwinds evaluation the same way ReturnValue does.
type Error struct {
	Message string
}

func (e *Error) Type() ObjectType { return ERROR_OBJ }
func (e *Error) Inspect() string  { return "ERROR: " + e.Message }
func (e *Error) object()          {}
