package driver_test

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/takoeight0821/lox/driver"
	"github.com/takoeight0821/lox/eval"
	"github.com/takoeight0821/lox/utils"
)

var _ driver.Pass = (*eval.Interpreter)(nil)

type runner struct {
	*driver.PassRunner
	diag   *driver.Diagnostics
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newRunner() runner {
	var stdout, stderr bytes.Buffer
	diag := driver.NewDiagnostics(&stderr)
	r := driver.NewPassRunner(diag)
	r.AddPass(eval.NewInterpreter(&stdout))
	return runner{PassRunner: r, diag: diag, stdout: &stdout, stderr: &stderr}
}

func TestEvalFromTestData(t *testing.T) {
	t.Parallel()
	s, err := os.ReadFile("../testdata/testcase.yaml")
	if err != nil {
		panic(err)
	}
	testcases := utils.ReadTestData(s)
	for _, testcase := range testcases {
		expected, ok := testcase.Expected["eval"]
		if !ok {
			continue
		}
		r := newRunner()
		if _, err := r.RunSource(testcase.Input); err != nil {
			t.Errorf("%s: RunSource returned error: %v", testcase.Label, err)
			continue
		}
		if diff := cmp.Diff(expected, r.stdout.String()); diff != "" {
			t.Errorf("%s mismatch (-want +got):\n%s", testcase.Label, diff)
		}
	}
}

func BenchmarkFromTestData(b *testing.B) {
	s, err := os.ReadFile("../testdata/testcase.yaml")
	if err != nil {
		panic(err)
	}
	testcases := utils.ReadTestData(s)

	for _, testcase := range testcases {
		if _, ok := testcase.Expected["eval"]; !ok {
			continue
		}
		b.Run(testcase.Label, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_, _ = newRunner().RunSource(testcase.Input)
			}
		})
	}
}

func TestDiagnostics(t *testing.T) {
	t.Parallel()

	testcases := []struct {
		label  string
		input  string
		stdout string
		stderr string
		code   int
	}{
		{
			label:  "ok",
			input:  "print 1;",
			stdout: "1\n",
			stderr: "",
			code:   driver.ExitOK,
		},
		{
			label:  "lexical error",
			input:  "print 1; @",
			stderr: "[line 1] Error: unexpected character '@'\n",
			code:   driver.ExitSyntaxError,
		},
		{
			label:  "lexical and syntax errors are both reported",
			input:  "print \"a\" ^;\nprint",
			stderr: "[line 1] Error: unexpected character '^'\n[line 2] Error at end: expect expression\n",
			code:   driver.ExitSyntaxError,
		},
		{
			label:  "two syntax errors in one pass",
			input:  "print 1 +;\nvar 1 = 2;\nprint 3;",
			stderr: "[line 1] Error at ';': expect expression\n[line 2] Error at '1': expect variable name\n",
			code:   driver.ExitSyntaxError,
		},
		{
			label:  "runtime error",
			input:  "print 1;\nprint 1 + \"a\";\nprint 2;",
			stdout: "1\n",
			stderr: "operands must be two numbers or two strings\n[line 2]\n",
			code:   driver.ExitRuntimeError,
		},
		{
			label:  "undefined variable",
			input:  "print y;",
			stderr: "undefined variable y\n[line 1]\n",
			code:   driver.ExitRuntimeError,
		},
	}

	for _, testcase := range testcases {
		r := newRunner()
		_, _ = r.RunSource(testcase.input)
		if diff := cmp.Diff(testcase.stdout, r.stdout.String()); diff != "" {
			t.Errorf("%s: stdout mismatch (-want +got):\n%s", testcase.label, diff)
		}
		if diff := cmp.Diff(testcase.stderr, r.stderr.String()); diff != "" {
			t.Errorf("%s: stderr mismatch (-want +got):\n%s", testcase.label, diff)
		}
		if code := r.diag.ExitCode(); code != testcase.code {
			t.Errorf("%s: ExitCode() = %d, want %d", testcase.label, code, testcase.code)
		}
	}
}

func TestRuntimeErrorIsReturned(t *testing.T) {
	t.Parallel()

	r := newRunner()
	_, err := r.RunSource("-nil;")
	var rt *eval.RuntimeError
	if !errors.As(err, &rt) {
		t.Fatalf("RunSource returned %v; want *eval.RuntimeError", err)
	}
	if rt.Token.Lexeme != "-" {
		t.Errorf("error token = %q, want %q", rt.Token.Lexeme, "-")
	}
}

func TestBindingsDoNotPersistAcrossRuns(t *testing.T) {
	t.Parallel()

	// Each line of the REPL is a separate run with its own global scope.
	r := newRunner()
	if _, err := r.RunSource("var x = 1;"); err != nil {
		t.Fatalf("RunSource returned error: %v", err)
	}
	_, _ = r.RunSource("print x;")
	if diff := cmp.Diff("undefined variable x\n[line 1]\n", r.stderr.String()); diff != "" {
		t.Errorf("stderr mismatch (-want +got):\n%s", diff)
	}
}

func TestReset(t *testing.T) {
	t.Parallel()

	r := newRunner()
	_, _ = r.RunSource("print ;")
	if !r.diag.HadError {
		t.Fatal("HadError = false after a syntax error")
	}
	r.diag.Reset()
	if _, err := r.RunSource("print 1;"); err != nil {
		t.Errorf("RunSource returned error after Reset: %v", err)
	}
	if r.diag.ExitCode() != driver.ExitOK {
		t.Errorf("ExitCode() = %d after Reset, want %d", r.diag.ExitCode(), driver.ExitOK)
	}
}

func TestDumps(t *testing.T) {
	t.Parallel()

	var tokens, tree bytes.Buffer
	diag := driver.NewDiagnostics(&bytes.Buffer{})
	r := driver.NewPassRunner(diag)
	r.TokenDump = &tokens
	r.AddPass(driver.ASTDumper{Out: &tree})

	program, err := r.RunSource("print -1;")
	if err != nil {
		t.Fatalf("RunSource returned error: %v", err)
	}
	if len(program) != 1 {
		t.Errorf("RunSource returned %d statements, want 1", len(program))
	}

	expectedTokens := strings.Join([]string{
		`{PRINT, "print", 1, <nil>}`,
		`{MINUS, "-", 1, <nil>}`,
		`{NUMBER, "1", 1, 1}`,
		`{SEMICOLON, ";", 1, <nil>}`,
		`{EOF, "", 1, <nil>}`,
	}, "\n") + "\n"
	if diff := cmp.Diff(expectedTokens, tokens.String()); diff != "" {
		t.Errorf("token dump mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff("(print (unary - (literal 1)))\n", tree.String()); diff != "" {
		t.Errorf("ast dump mismatch (-want +got):\n%s", diff)
	}
}

func TestEnvDump(t *testing.T) {
	t.Parallel()

	var out, env bytes.Buffer
	diag := driver.NewDiagnostics(&bytes.Buffer{})
	r := driver.NewPassRunner(diag)
	interp := eval.NewInterpreter(&out)
	r.AddPass(interp)
	r.AddPass(driver.EnvDumper{Out: &env, Interp: interp})

	if _, err := r.RunSource(`var b = "x"; var a = 1; { var c = 2; a = a + c; }`); err != nil {
		t.Fatalf("RunSource returned error: %v", err)
	}
	if diff := cmp.Diff("{ a:3 b:x }\n", env.String()); diff != "" {
		t.Errorf("env dump mismatch (-want +got):\n%s", diff)
	}

	env.Reset()
	if _, err := r.RunSource("var d = nil; print d + 1;"); err == nil {
		t.Fatal("RunSource returned no error")
	}
	if env.Len() != 0 {
		t.Errorf("env dump ran after a runtime error: %q", env.String())
	}
}
