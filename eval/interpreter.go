// Package eval executes statements by walking the syntax tree.
package eval

import (
	"fmt"
	"io"
	"log"

	"github.com/takoeight0821/lox/ast"
	"github.com/takoeight0821/lox/token"
)

// Interpreter executes a program against a chain of scopes.
// Every run starts with a fresh global scope.
type Interpreter struct {
	out io.Writer
	env *Environment
}

func NewInterpreter(out io.Writer) *Interpreter {
	return &Interpreter{out: out, env: NewEnvironment(nil)}
}

// Env returns the scope statements currently execute in.
// Between runs it is the global scope, which the driver's env dump prints.
func (in *Interpreter) Env() *Environment {
	return in.env
}

// Init discards every binding of the previous run.
func (in *Interpreter) Init([]ast.Stmt) error {
	in.env = NewEnvironment(nil)
	return nil
}

// Run executes program in order and stops at the first error.
func (in *Interpreter) Run(program []ast.Stmt) ([]ast.Stmt, error) {
	for _, stmt := range program {
		if err := in.execute(stmt); err != nil {
			return program, err
		}
	}
	return program, nil
}

// Interpret runs program in a fresh global scope.
func (in *Interpreter) Interpret(program []ast.Stmt) error {
	if err := in.Init(program); err != nil {
		return err
	}
	_, err := in.Run(program)
	return err
}

func (in *Interpreter) execute(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.Expression:
		_, err := in.evaluate(s.Expr)
		return err
	case *ast.Print:
		v, err := in.evaluate(s.Expr)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(in.out, Stringify(v)); err != nil {
			return fmt.Errorf("print: %w", err)
		}
		return nil
	case *ast.Var:
		var v Value
		if s.Init != nil {
			var err error
			if v, err = in.evaluate(s.Init); err != nil {
				return err
			}
		}
		in.env.Define(s.Name.Lexeme, v)
		return nil
	case *ast.Block:
		return in.executeBlock(s.Stmts, NewEnvironment(in.env))
	case *ast.If:
		cond, err := in.evaluate(s.Cond)
		if err != nil {
			return err
		}
		if isTruthy(cond) {
			return in.execute(s.Then)
		}
		if s.Else != nil {
			return in.execute(s.Else)
		}
		return nil
	case *ast.While:
		for {
			cond, err := in.evaluate(s.Cond)
			if err != nil {
				return err
			}
			if !isTruthy(cond) {
				return nil
			}
			if err := in.execute(s.Body); err != nil {
				return err
			}
		}
	default:
		log.Panicf("unexpected statement: %v", s)
		return nil
	}
}

// executeBlock runs stmts in env, then restores the enclosing scope even if a statement fails.
func (in *Interpreter) executeBlock(stmts []ast.Stmt, env *Environment) error {
	previous := in.env
	in.env = env
	defer func() { in.env = previous }()

	for _, stmt := range stmts {
		if err := in.execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) evaluate(expr ast.Expr) (Value, error) {
	switch e := expr.(type) {
	case *ast.Literal:
		return e.Value, nil
	case *ast.Grouping:
		return in.evaluate(e.Expr)
	case *ast.Unary:
		right, err := in.evaluate(e.Right)
		if err != nil {
			return nil, err
		}
		return unary(e.Op, right)
	case *ast.Binary:
		left, err := in.evaluate(e.Left)
		if err != nil {
			return nil, err
		}
		right, err := in.evaluate(e.Right)
		if err != nil {
			return nil, err
		}
		return binary(e.Op, left, right)
	case *ast.Logical:
		left, err := in.evaluate(e.Left)
		if err != nil {
			return nil, err
		}
		if e.Op.Kind == token.OR {
			if isTruthy(left) {
				return left, nil
			}
		} else if !isTruthy(left) {
			return left, nil
		}
		return in.evaluate(e.Right)
	case *ast.Variable:
		return in.env.Get(e.Name)
	case *ast.Assign:
		v, err := in.evaluate(e.Value)
		if err != nil {
			return nil, err
		}
		if err := in.env.Assign(e.Name, v); err != nil {
			return nil, err
		}
		return v, nil
	default:
		log.Panicf("unexpected expression: %v", e)
		return nil, nil
	}
}

func unary(op token.Token, right Value) (Value, error) {
	//exhaustive:ignore
	switch op.Kind {
	case token.MINUS:
		n, err := checkNumber(op, right)
		if err != nil {
			return nil, err
		}
		return -n, nil
	case token.BANG:
		return !isTruthy(right), nil
	default:
		log.Panicf("unexpected unary operator: %v", op)
		return nil, nil
	}
}

func binary(op token.Token, left, right Value) (Value, error) {
	//exhaustive:ignore
	switch op.Kind {
	case token.PLUS:
		switch l := left.(type) {
		case float64:
			if r, ok := right.(float64); ok {
				return l + r, nil
			}
		case string:
			if r, ok := right.(string); ok {
				return l + r, nil
			}
		}
		return nil, &RuntimeError{Token: op, Message: "operands must be two numbers or two strings"}
	case token.EQUALEQUAL:
		return isEqual(left, right), nil
	case token.BANGEQUAL:
		return !isEqual(left, right), nil
	}

	l, r, err := checkNumbers(op, left, right)
	if err != nil {
		return nil, err
	}

	//exhaustive:ignore
	switch op.Kind {
	case token.MINUS:
		return l - r, nil
	case token.SLASH:
		return l / r, nil
	case token.STAR:
		return l * r, nil
	case token.GREATER:
		return l > r, nil
	case token.GREATEREQUAL:
		return l >= r, nil
	case token.LESS:
		return l < r, nil
	case token.LESSEQUAL:
		return l <= r, nil
	default:
		log.Panicf("unexpected binary operator: %v", op)
		return nil, nil
	}
}
