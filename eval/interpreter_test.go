package eval_test

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/takoeight0821/lox/ast"
	"github.com/takoeight0821/lox/eval"
	"github.com/takoeight0821/lox/lexer"
	"github.com/takoeight0821/lox/parser"
)

func parse(t *testing.T, source string) []ast.Stmt {
	t.Helper()

	tokens, err := lexer.Lex(source)
	if err != nil {
		t.Fatalf("Lex(%q) returned error: %v", source, err)
	}
	stmts, err := parser.NewParser(tokens).Parse()
	if err != nil {
		t.Fatalf("Parse(%q) returned error: %v", source, err)
	}
	return stmts
}

func interpret(t *testing.T, in *eval.Interpreter, source string) error {
	t.Helper()
	return in.Interpret(parse(t, source))
}

func TestPrint(t *testing.T) {
	t.Parallel()

	testcases := []struct {
		input    string
		expected string
	}{
		{"print 2 + 3 * 4;", "14\n"},
		{"print (2 + 3) * 4;", "20\n"},
		{`print "a" + "b";`, "ab\n"},
		{"print !nil; print !0; print !false;", "true\nfalse\ntrue\n"},
		{`print !"";`, "false\n"},
		{`print nil == false; print 1 == "1"; print nil == nil; print "a" == "a";`, "false\nfalse\ntrue\ntrue\n"},
		{"print 1 >= 1; print 1 > 1; print 1 <= 0; print 0 < 1;", "true\nfalse\nfalse\ntrue\n"},
		{"var x = 1; { var x = 2; print x; } print x;", "2\n1\n"},
		{"var x = 1; { x = 2; } print x;", "2\n"},
		{"var x = 1; var x = 2; print x;", "2\n"},
		{"var a = 1; print a = 3; print a;", "3\n3\n"},
		{"for (var i = 0; i < 3; i = i + 1) print i;", "0\n1\n2\n"},
		{"print 6 / 2; print 1 / 3;", "3\n0.3333333333333333\n"},
		{`if ("") print "empty string is truthy";`, "empty string is truthy\n"},
		{`if (false) print 1; else if (nil) print 2; else print 3;`, "3\n"},
	}

	for _, testcase := range testcases {
		var out bytes.Buffer
		if err := interpret(t, eval.NewInterpreter(&out), testcase.input); err != nil {
			t.Errorf("Interpret(%q) returned error: %v", testcase.input, err)
			continue
		}
		if diff := cmp.Diff(testcase.expected, out.String()); diff != "" {
			t.Errorf("Interpret(%q) mismatch (-want +got):\n%s", testcase.input, diff)
		}
	}
}

func TestShortCircuit(t *testing.T) {
	t.Parallel()

	// the right operands would fail if they were evaluated.
	var out bytes.Buffer
	err := interpret(t, eval.NewInterpreter(&out), `print true or undefined; print nil and -"x";`)
	if err != nil {
		t.Fatalf("Interpret returned error: %v", err)
	}
	if diff := cmp.Diff("true\nnil\n", out.String()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestRuntimeErrors(t *testing.T) {
	t.Parallel()

	testcases := []struct {
		input    string
		expected string
		output   string
	}{
		{`print 1 + "a";`, "operands must be two numbers or two strings\n[line 1]", ""},
		{`print -"x";`, "operand must be a number\n[line 1]", ""},
		{`print "a" < "b";`, "operands must be a number\n[line 1]", ""},
		{`print nil * 2;`, "operands must be a number\n[line 1]", ""},
		{"print y;", "undefined variable y\n[line 1]", ""},
		{"y = 1;", "undefined variable y\n[line 1]", ""},
		{"var a = 1;\n\nprint a -\n true;", "operands must be a number\n[line 3]", ""},
		{"print 1; print -nil; print 2;", "operand must be a number\n[line 1]", "1\n"},
		{"{ var inner = 1; } print inner;", "undefined variable inner\n[line 1]", ""},
	}

	for _, testcase := range testcases {
		var out bytes.Buffer
		err := interpret(t, eval.NewInterpreter(&out), testcase.input)

		var rt *eval.RuntimeError
		if !errors.As(err, &rt) {
			t.Errorf("Interpret(%q) returned %v; want *RuntimeError", testcase.input, err)
			continue
		}
		if diff := cmp.Diff(testcase.expected, rt.Error()); diff != "" {
			t.Errorf("Interpret(%q) error mismatch (-want +got):\n%s", testcase.input, diff)
		}
		if diff := cmp.Diff(testcase.output, out.String()); diff != "" {
			t.Errorf("Interpret(%q) output mismatch (-want +got):\n%s", testcase.input, diff)
		}
	}
}

func TestForLoopVariableDoesNotLeak(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	err := interpret(t, eval.NewInterpreter(&out), "for (var i = 0; i < 2; i = i + 1) {} print i;")

	var rt *eval.RuntimeError
	if !errors.As(err, &rt) || rt.Message != "undefined variable i" {
		t.Errorf("Interpret returned %v; want undefined variable i", err)
	}
}

func TestBlockRestoresScopeAfterError(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	in := eval.NewInterpreter(&out)
	err := interpret(t, in, "var a = 1; { var b = 2; { var c = 3; print c + nil; } }")
	if err == nil {
		t.Fatal("Interpret returned no error")
	}

	env := in.Env()
	if v, err := env.Get(ident("a")); err != nil || v != 1.0 {
		t.Errorf("Env().Get(a) = %v, %v; want 1", v, err)
	}
	for _, name := range []string{"b", "c"} {
		if _, err := env.Get(ident(name)); err == nil {
			t.Errorf("Env().Get(%s) succeeded; the block scope leaked", name)
		}
	}
}

func TestEachRunStartsWithFreshGlobals(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	in := eval.NewInterpreter(&out)
	if err := interpret(t, in, "var x = 1;"); err != nil {
		t.Fatalf("Interpret returned error: %v", err)
	}

	err := interpret(t, in, "print x;")
	var rt *eval.RuntimeError
	if !errors.As(err, &rt) || rt.Message != "undefined variable x" {
		t.Errorf("second Interpret returned %v; want undefined variable x", err)
	}
}

func TestStringify(t *testing.T) {
	t.Parallel()

	testcases := []struct {
		value    eval.Value
		expected string
	}{
		{nil, "nil"},
		{true, "true"},
		{false, "false"},
		{3.0, "3"},
		{-2.0, "-2"},
		{2.5, "2.5"},
		{1.0 / 3.0, "0.3333333333333333"},
		{1234567.0, "1234567"},
		{0.0001, "0.0001"},
		{1e15, "1000000000000000"},
		{1e16, "1e+16"},
		{0.00001, "1e-05"},
		{1.5e-7, "1.5e-07"},
		{1e21, "1e+21"},
		{math.NaN(), "nan"},
		{math.Inf(1), "inf"},
		{math.Inf(-1), "-inf"},
		{"text", "text"},
		{"", ""},
	}

	for _, testcase := range testcases {
		if got := eval.Stringify(testcase.value); got != testcase.expected {
			t.Errorf("Stringify(%#v) = %q, want %q", testcase.value, got, testcase.expected)
		}
	}
}
