package expand_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/ishehadeh/rush/ast"
	"github.com/ishehadeh/rush/expand"
	"github.com/ishehadeh/rush/variables"
)

func TestWordLiteral(t *testing.T) {
	c := qt.New(t)
	store := variables.New()
	w := ast.Word{Parts: []ast.WordPart{ast.Literal{Value: []byte("hello")}}}
	got, err := expand.Word(w, store)
	c.Assert(err, qt.IsNil)
	c.Assert(string(got), qt.Equals, "hello")
}

func TestWordVariable(t *testing.T) {
	c := qt.New(t)
	store := variables.New()
	store.DefineString("NAME", "world")
	w := ast.Word{Parts: []ast.WordPart{
		ast.Literal{Value: []byte("hello ")},
		ast.Variable{Name: "NAME"},
	}}
	got, err := expand.Word(w, store)
	c.Assert(err, qt.IsNil)
	c.Assert(string(got), qt.Equals, "hello world")
}

func TestWordVariableAbsentIsEmpty(t *testing.T) {
	c := qt.New(t)
	store := variables.New()
	w := ast.Word{Parts: []ast.WordPart{ast.Variable{Name: "MISSING"}}}
	got, err := expand.Word(w, store)
	c.Assert(err, qt.IsNil)
	c.Assert(string(got), qt.Equals, "")
}

func TestWordEscapes(t *testing.T) {
	c := qt.New(t)
	store := variables.New()
	tests := []struct {
		char byte
		want string
	}{
		{'n', "\n"},
		{'t', "\t"},
		{'\\', "\\"},
		{'"', "\""},
		{'\'', "'"},
		{' ', " "},
		{'$', "$"},
		{'|', "|"},
		{'`', "`"},
		{'&', "&"},
		{'{', "{"},
		{'}', "}"},
	}
	for _, tc := range tests {
		w := ast.Word{Parts: []ast.WordPart{ast.Escape{Char: tc.char}}}
		got, err := expand.Word(w, store)
		c.Assert(err, qt.IsNil)
		c.Assert(string(got), qt.Equals, tc.want)
	}
}

func TestWordEscapeUnknownIsReplacementChar(t *testing.T) {
	c := qt.New(t)
	store := variables.New()
	w := ast.Word{Parts: []ast.WordPart{ast.Escape{Char: 'z'}}}
	got, err := expand.Word(w, store)
	c.Assert(err, qt.IsNil)
	c.Assert(string(got), qt.Equals, "�")
}

func TestWordQuoted(t *testing.T) {
	c := qt.New(t)
	store := variables.New()
	store.DefineString("X", "1")
	w := ast.Word{Parts: []ast.WordPart{
		ast.Quoted{Sub: ast.Word{Parts: []ast.WordPart{
			ast.Variable{Name: "X"},
			ast.Literal{Value: []byte(" literal")},
		}}},
	}}
	got, err := expand.Word(w, store)
	c.Assert(err, qt.IsNil)
	c.Assert(string(got), qt.Equals, "1 literal")
}

func TestWordArithmetic(t *testing.T) {
	c := qt.New(t)
	store := variables.New()
	store.DefineString("x", "1")
	w := ast.Word{Parts: []ast.WordPart{
		ast.Arithmetic{Sub: ast.Word{Parts: []ast.WordPart{
			ast.Literal{Value: []byte("x + 1")},
		}}},
	}}
	got, err := expand.Word(w, store)
	c.Assert(err, qt.IsNil)
	c.Assert(string(got), qt.Equals, "2")
}

func TestWordArithmeticSideEffectVisibleToLaterPart(t *testing.T) {
	c := qt.New(t)
	store := variables.New()
	w := ast.Word{Parts: []ast.WordPart{
		ast.Arithmetic{Sub: ast.Word{Parts: []ast.WordPart{
			ast.Literal{Value: []byte("n = 5")},
		}}},
		ast.Literal{Value: []byte("-")},
		ast.Variable{Name: "n"},
	}}
	got, err := expand.Word(w, store)
	c.Assert(err, qt.IsNil)
	c.Assert(string(got), qt.Equals, "5-5")
}

func TestWordTilde(t *testing.T) {
	c := qt.New(t)
	store := variables.New()
	store.DefineString("HOME", "/home/u")
	w := ast.Word{Parts: []ast.WordPart{
		ast.Tilde{},
		ast.Literal{Value: []byte("/bin")},
	}}
	got, err := expand.Word(w, store)
	c.Assert(err, qt.IsNil)
	c.Assert(string(got), qt.Equals, "/home/u/bin")
}

func TestWordTildeNotLeadingIsLiteral(t *testing.T) {
	c := qt.New(t)
	store := variables.New()
	store.DefineString("HOME", "/home/u")
	w := ast.Word{Parts: []ast.WordPart{
		ast.Literal{Value: []byte("a")},
		ast.Tilde{},
	}}
	got, err := expand.Word(w, store)
	c.Assert(err, qt.IsNil)
	c.Assert(string(got), qt.Equals, "a~")
}
