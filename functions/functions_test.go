package functions_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/ishehadeh/rush/ast"
	"github.com/ishehadeh/rush/functions"
)

func lit(s string) ast.Word {
	return ast.Word{Parts: []ast.WordPart{ast.Literal{Value: []byte(s)}}}
}

func TestStoreInsertAndLookup(t *testing.T) {
	c := qt.New(t)
	s := functions.New()
	body := &ast.SimpleCommand{Words: []ast.Word{lit("echo"), lit("hi")}}
	s.Insert("greet", body)

	got, ok := s.Lookup("greet")
	c.Assert(ok, qt.IsTrue)
	c.Assert(got, qt.DeepEquals, body)
}

func TestStoreLookupMissing(t *testing.T) {
	c := qt.New(t)
	s := functions.New()
	_, ok := s.Lookup("nope")
	c.Assert(ok, qt.IsFalse)
}

func TestStoreLookupReturnsIndependentClone(t *testing.T) {
	c := qt.New(t)
	s := functions.New()
	body := &ast.SimpleCommand{Words: []ast.Word{lit("echo")}}
	s.Insert("f", body)

	got, ok := s.Lookup("f")
	c.Assert(ok, qt.IsTrue)
	got.(*ast.SimpleCommand).Words[0] = lit("mutated")

	got2, _ := s.Lookup("f")
	c.Assert(got2.(*ast.SimpleCommand).Words[0], qt.DeepEquals, lit("echo"))
}

func TestStoreInsertShadowsPreviousDefinition(t *testing.T) {
	c := qt.New(t)
	s := functions.New()
	s.Insert("f", &ast.SimpleCommand{Words: []ast.Word{lit("old")}})
	s.Insert("f", &ast.SimpleCommand{Words: []ast.Word{lit("new")}})

	got, ok := s.Lookup("f")
	c.Assert(ok, qt.IsTrue)
	c.Assert(got.(*ast.SimpleCommand).Words[0], qt.DeepEquals, lit("new"))
}

func TestStoreRemove(t *testing.T) {
	c := qt.New(t)
	s := functions.New()
	s.Insert("f", &ast.SimpleCommand{Words: []ast.Word{lit("x")}})
	s.Remove("f")
	_, ok := s.Lookup("f")
	c.Assert(ok, qt.IsFalse)
	s.Remove("f") // idempotent
}

func TestStoreNamesSorted(t *testing.T) {
	c := qt.New(t)
	s := functions.New()
	s.Insert("b", &ast.SimpleCommand{Words: []ast.Word{lit("x")}})
	s.Insert("a", &ast.SimpleCommand{Words: []ast.Word{lit("x")}})
	c.Assert(s.Names(), qt.DeepEquals, []string{"a", "b"})
}

func TestStoreCloneIsIndependent(t *testing.T) {
	c := qt.New(t)
	s := functions.New()
	s.Insert("f", &ast.SimpleCommand{Words: []ast.Word{lit("old")}})

	clone := s.Clone()
	clone.Insert("f", &ast.SimpleCommand{Words: []ast.Word{lit("new")}})

	got, _ := s.Lookup("f")
	c.Assert(got.(*ast.SimpleCommand).Words[0], qt.DeepEquals, lit("old"))

	gotClone, _ := clone.Lookup("f")
	c.Assert(gotClone.(*ast.SimpleCommand).Words[0], qt.DeepEquals, lit("new"))
}
