package eval

import (
	"fmt"
	"sort"
	"strings"

	"github.com/takoeight0821/lox/token"
)

// Environment is one scope of the scope chain.
// A scope only knows its parent; the global scope has none.
type Environment struct {
	parent *Environment
	values map[string]Value
}

func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		parent: parent,
		values: make(map[string]Value),
	}
}

func (env *Environment) String() string {
	names := make([]string, 0, len(env.values))
	for name := range env.values {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("{")
	for _, name := range names {
		b.WriteString(fmt.Sprintf(" %s:%s", name, Stringify(env.values[name])))
	}
	b.WriteString(" }")
	if env.parent != nil {
		b.WriteString("\n\t&")
		b.WriteString(env.parent.String())
	}
	return b.String()
}

// Define binds name in this scope. An existing binding is overwritten.
func (env *Environment) Define(name string, v Value) {
	env.values[name] = v
}

// Get looks name up from this scope outward.
func (env *Environment) Get(name token.Token) (Value, error) {
	if v, ok := env.values[name.Lexeme]; ok {
		return v, nil
	}
	if env.parent != nil {
		return env.parent.Get(name)
	}
	return nil, undefinedVariable(name)
}

// Assign overwrites the nearest existing binding of name.
func (env *Environment) Assign(name token.Token, v Value) error {
	if _, ok := env.values[name.Lexeme]; ok {
		env.values[name.Lexeme] = v
		return nil
	}
	if env.parent != nil {
		return env.parent.Assign(name, v)
	}
	return undefinedVariable(name)
}

func undefinedVariable(name token.Token) error {
	return &RuntimeError{Token: name, Message: "undefined variable " + name.Lexeme}
}
