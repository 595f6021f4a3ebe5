package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/takoeight0821/lox/token"
)

// Expr is the closed set of expression nodes.
// Only types in this package can implement it.
type Expr interface {
	fmt.Stringer
	expr()
}

// Stmt is the closed set of statement nodes.
type Stmt interface {
	fmt.Stringer
	stmt()
}

// Literal holds nil, bool, float64 or string.
type Literal struct {
	Value any
}

func (l Literal) String() string {
	return parenthesize("literal", text(literalString(l.Value))).String()
}

func (*Literal) expr() {}

var _ Expr = &Literal{}

func literalString(v any) string {
	switch v := v.(type) {
	case nil:
		return "nil"
	case string:
		return strconv.Quote(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

type Grouping struct {
	Expr Expr
}

func (g Grouping) String() string {
	return parenthesize("group", g.Expr).String()
}

func (*Grouping) expr() {}

var _ Expr = &Grouping{}

type Unary struct {
	Op    token.Token
	Right Expr
}

func (u Unary) String() string {
	return parenthesize("unary", text(u.Op.Lexeme), u.Right).String()
}

func (*Unary) expr() {}

var _ Expr = &Unary{}

type Binary struct {
	Left  Expr
	Op    token.Token
	Right Expr
}

func (b Binary) String() string {
	return parenthesize("binary", b.Left, text(b.Op.Lexeme), b.Right).String()
}

func (*Binary) expr() {}

var _ Expr = &Binary{}

// Logical is a short-circuiting `and` / `or`.
type Logical struct {
	Left  Expr
	Op    token.Token
	Right Expr
}

func (l Logical) String() string {
	return parenthesize("logical", l.Left, text(l.Op.Lexeme), l.Right).String()
}

func (*Logical) expr() {}

var _ Expr = &Logical{}

type Variable struct {
	Name token.Token
}

func (v Variable) String() string {
	return parenthesize("var", text(v.Name.Lexeme)).String()
}

func (*Variable) expr() {}

var _ Expr = &Variable{}

type Assign struct {
	Name  token.Token
	Value Expr
}

func (a Assign) String() string {
	return parenthesize("assign", text(a.Name.Lexeme), a.Value).String()
}

func (*Assign) expr() {}

var _ Expr = &Assign{}

// Expression is an expression evaluated for its side effects.
type Expression struct {
	Expr Expr
}

func (e Expression) String() string {
	return parenthesize("expr", e.Expr).String()
}

func (*Expression) stmt() {}

var _ Stmt = &Expression{}

type Print struct {
	Expr Expr
}

func (p Print) String() string {
	return parenthesize("print", p.Expr).String()
}

func (*Print) stmt() {}

var _ Stmt = &Print{}

// Var declares Name in the current scope. Init is nil when omitted.
type Var struct {
	Name token.Token
	Init Expr
}

func (v Var) String() string {
	if v.Init == nil {
		return parenthesize("def", text(v.Name.Lexeme)).String()
	}
	return parenthesize("def", text(v.Name.Lexeme), v.Init).String()
}

func (*Var) stmt() {}

var _ Stmt = &Var{}

type Block struct {
	Stmts []Stmt
}

func (b Block) String() string {
	return parenthesize("block", concat(b.Stmts)).String()
}

func (*Block) stmt() {}

var _ Stmt = &Block{}

// If has a nil Else when there is no else branch.
type If struct {
	Cond Expr
	Then Stmt
	Else Stmt
}

func (i If) String() string {
	if i.Else == nil {
		return parenthesize("if", i.Cond, i.Then).String()
	}
	return parenthesize("if", i.Cond, i.Then, i.Else).String()
}

func (*If) stmt() {}

var _ Stmt = &If{}

type While struct {
	Cond Expr
	Body Stmt
}

func (w While) String() string {
	return parenthesize("while", w.Cond, w.Body).String()
}

func (*While) stmt() {}

var _ Stmt = &While{}

// text is a plain string that satisfies fmt.Stringer.
type text string

func (t text) String() string {
	return string(t)
}

// parenthesize takes a head and a list of elements that implement the fmt.Stringer interface.
// It returns a fmt.Stringer that represents a string in the format "(head elem1 elem2 ...)".
func parenthesize(head string, elems ...fmt.Stringer) fmt.Stringer {
	var b strings.Builder
	b.WriteString("(")
	b.WriteString(head)
	if elemsStr := concat(elems).String(); elemsStr != "" {
		b.WriteString(" ")
		b.WriteString(elemsStr)
	}
	b.WriteString(")")
	return &b
}

// concat takes a slice of nodes that implement the fmt.Stringer interface.
// It returns a fmt.Stringer that represents a string where each node is separated by a space.
func concat[T fmt.Stringer](elems []T) fmt.Stringer {
	var b strings.Builder
	for _, elem := range elems {
		// ignore empty string
		// e.g. concat({}) == ""
		str := elem.String()
		if str == "" {
			continue
		}
		if b.Len() != 0 {
			b.WriteString(" ")
		}
		b.WriteString(str)
	}
	return &b
}
