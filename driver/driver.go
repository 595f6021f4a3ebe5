package driver

import (
	"errors"
	"fmt"
	"io"

	"github.com/takoeight0821/lox/ast"
	"github.com/takoeight0821/lox/eval"
	"github.com/takoeight0821/lox/lexer"
	"github.com/takoeight0821/lox/parser"
	"github.com/takoeight0821/lox/token"
)

type Pass interface {
	Init([]ast.Stmt) error
	Run([]ast.Stmt) ([]ast.Stmt, error)
}

type PassRunner struct {
	diag   *Diagnostics
	passes []Pass

	// TokenDump receives every scanned token when it is not nil.
	TokenDump io.Writer
}

func NewPassRunner(diag *Diagnostics) *PassRunner {
	return &PassRunner{diag: diag}
}

// AddPass adds a pass to the end of the pass list.
func (r *PassRunner) AddPass(pass Pass) {
	r.passes = append(r.passes, pass)
}

// Run executes passes in order.
// If an error occurs, it stops the execution and returns the current program.
func (r *PassRunner) Run(program []ast.Stmt) ([]ast.Stmt, error) {
	for _, pass := range r.passes {
		err := pass.Init(program)
		if err != nil {
			return program, fmt.Errorf("init: %w", err)
		}
		program, err = pass.Run(program)
		if err != nil {
			return program, err
		}
	}

	return program, nil
}

// RunSource scans and parses source, then executes passes in order.
// Lexical errors do not stop parsing, but any lexical or syntax error keeps the passes from running.
// Every error is also reported to the runner's Diagnostics.
func (r *PassRunner) RunSource(source string) ([]ast.Stmt, error) {
	tokens, errLex := lexer.Lex(source)
	if errLex != nil {
		r.diag.Report(errLex)
	}
	if r.TokenDump != nil {
		DumpTokens(r.TokenDump, tokens)
	}

	program, errParse := parser.NewParser(tokens).Parse()
	if errParse != nil {
		r.diag.Report(errParse)
	}

	if err := errors.Join(errLex, errParse); err != nil {
		return nil, err
	}

	program, err := r.Run(program)
	if err != nil {
		r.diag.ReportRuntime(err)
	}

	return program, err
}

// DumpTokens writes one token per line.
func DumpTokens(w io.Writer, tokens []token.Token) {
	for _, t := range tokens {
		fmt.Fprintln(w, t)
	}
}

// ASTDumper is a pass that prints each statement and leaves the program unchanged.
type ASTDumper struct {
	Out io.Writer
}

func (d ASTDumper) Init([]ast.Stmt) error {
	return nil
}

func (d ASTDumper) Run(program []ast.Stmt) ([]ast.Stmt, error) {
	for _, stmt := range program {
		if _, err := fmt.Fprintln(d.Out, stmt); err != nil {
			return program, fmt.Errorf("dump: %w", err)
		}
	}
	return program, nil
}

var _ Pass = ASTDumper{}

// EnvDumper is a pass that prints the global scope of Interp.
// Add it after the interpreter; a runtime error stops the runner before it.
type EnvDumper struct {
	Out    io.Writer
	Interp *eval.Interpreter
}

func (d EnvDumper) Init([]ast.Stmt) error {
	return nil
}

func (d EnvDumper) Run(program []ast.Stmt) ([]ast.Stmt, error) {
	if _, err := fmt.Fprintln(d.Out, d.Interp.Env()); err != nil {
		return program, fmt.Errorf("dump: %w", err)
	}
	return program, nil
}

var _ Pass = EnvDumper{}
