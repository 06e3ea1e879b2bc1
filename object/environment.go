package object

import "sort"

// Environment maps names to values for one scope and links to the scope that
// encloses it. Function calls create a new Environment enclosed by the
// function's defining scope, which stays alive for as long as any closure
// refers to it.
type Environment struct {
	store map[string]Object
	outer *Environment
}

// NewEnvironment creates an empty root scope.
func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]Object)}
}

// NewEnclosedEnvironment creates an empty scope whose lookups fall back to outer.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.outer = outer
	return env
}

// Get looks name up in this scope, then in each enclosing scope in turn.
func (e *Environment) Get(name string) (Object, bool) {
	obj, ok := e.store[name]
	if !ok && e.outer != nil {
		obj, ok = e.outer.Get(name)
	}
	return obj, ok
}

// Set binds name in this scope only, overwriting any existing binding, and
// returns val.
func (e *Environment) Set(name string, val Object) Object {
	e.store[name] = val
	return val
}

// Names returns the names bound directly in this scope, sorted.
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.store))
	for name := range e.store {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
