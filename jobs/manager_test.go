package jobs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/ishehadeh/rush/ast"
	"github.com/ishehadeh/rush/jobs"
)

func lit(s string) ast.Word {
	return ast.Word{Parts: []ast.WordPart{ast.Literal{Value: []byte(s)}}}
}

func simple(words ...string) ast.Command {
	w := make([]ast.Word, len(words))
	for i, s := range words {
		w[i] = lit(s)
	}
	return &ast.SimpleCommand{Words: w}
}

func newCtx(t *testing.T) *jobs.Context {
	t.Helper()
	ctx := jobs.NewContext(t.TempDir())
	ctx.Vars.DefineString("PATH", os.Getenv("PATH"))
	return ctx
}

func TestRunSimpleSuccess(t *testing.T) {
	c := qt.New(t)
	m := jobs.NewManager()
	rec, err := m.Run(context.Background(), simple("true"), newCtx(t))
	c.Assert(err, qt.IsNil)
	c.Assert(rec.Code, qt.Equals, 0)
}

func TestRunSimpleFailure(t *testing.T) {
	c := qt.New(t)
	m := jobs.NewManager()
	rec, err := m.Run(context.Background(), simple("false"), newCtx(t))
	c.Assert(err, qt.IsNil)
	c.Assert(rec.Code, qt.Equals, 1)
}

func TestRunMissingExecutable(t *testing.T) {
	c := qt.New(t)
	m := jobs.NewManager()
	_, err := m.Run(context.Background(), simple("this-does-not-exist-anywhere"), newCtx(t))
	c.Assert(err, qt.Not(qt.IsNil))
	var missing *jobs.MissingExecutableError
	c.Assert(err, qt.ErrorAs, &missing)
}

// TestRunPipelineRightSideMissingExecutableReapsLeft covers a pipeline
// where the left side launches (spawning a real process) before the
// right side fails to resolve. The left child must be drained rather
// than left running unwaited: it is the manager's first job (id 0),
// and its status must be complete once Run has returned the error.
func TestRunPipelineRightSideMissingExecutableReapsLeft(t *testing.T) {
	c := qt.New(t)
	m := jobs.NewManager()
	cmd := &ast.Pipeline{
		From: simple("true"),
		To:   simple("this-does-not-exist-anywhere"),
	}
	_, err := m.Run(context.Background(), cmd, newCtx(t))
	c.Assert(err, qt.Not(qt.IsNil))
	var missing *jobs.MissingExecutableError
	c.Assert(err, qt.ErrorAs, &missing)

	st, err := m.Status(jobs.JobID(0))
	c.Assert(err, qt.IsNil)
	c.Assert(st.Running, qt.IsFalse)
}

func TestRunConditionalAndIf(t *testing.T) {
	c := qt.New(t)
	m := jobs.NewManager()

	rec, err := m.Run(context.Background(), &ast.ConditionalPair{
		Left: simple("true"), Right: simple("false"), Op: ast.AndIf,
	}, newCtx(t))
	c.Assert(err, qt.IsNil)
	c.Assert(rec.Code, qt.Equals, 1)

	rec, err = m.Run(context.Background(), &ast.ConditionalPair{
		Left: simple("false"), Right: simple("true"), Op: ast.AndIf,
	}, newCtx(t))
	c.Assert(err, qt.IsNil)
	c.Assert(rec.Code, qt.Equals, 1)

	rec, err = m.Run(context.Background(), &ast.ConditionalPair{
		Left: simple("true"), Right: simple("true"), Op: ast.AndIf,
	}, newCtx(t))
	c.Assert(err, qt.IsNil)
	c.Assert(rec.Code, qt.Equals, 0)
}

func TestRunConditionalOrIf(t *testing.T) {
	c := qt.New(t)
	m := jobs.NewManager()

	rec, err := m.Run(context.Background(), &ast.ConditionalPair{
		Left: simple("true"), Right: simple("false"), Op: ast.OrIf,
	}, newCtx(t))
	c.Assert(err, qt.IsNil)
	c.Assert(rec.Code, qt.Equals, 0)

	rec, err = m.Run(context.Background(), &ast.ConditionalPair{
		Left: simple("false"), Right: simple("false"), Op: ast.OrIf,
	}, newCtx(t))
	c.Assert(err, qt.IsNil)
	c.Assert(rec.Code, qt.Equals, 1)
}

func TestRunPipelineWithFileOut(t *testing.T) {
	c := qt.New(t)
	m := jobs.NewManager()
	dir := t.TempDir()
	out := filepath.Join(dir, "out.txt")

	cmd := &ast.Pipeline{
		From: simple("printf", "%s", "hello"),
		To:   simple("cp", "/dev/stdin", out),
	}
	rec, err := m.Run(context.Background(), cmd, newCtx(t))
	c.Assert(err, qt.IsNil)
	c.Assert(rec.Code, qt.Equals, 0)

	got, err := os.ReadFile(out)
	c.Assert(err, qt.IsNil)
	c.Assert(string(got), qt.Equals, "hello")
}

func TestRunFunctionCallThroughPipeline(t *testing.T) {
	c := qt.New(t)
	m := jobs.NewManager()
	dir := t.TempDir()
	out := filepath.Join(dir, "out.txt")
	ctx := newCtx(t)

	body := &ast.BraceGroup{Commands: []ast.Command{
		simple("printf", "hello\n"),
		simple("printf", "hello\n"),
		simple("printf", "hello\n"),
	}}
	_, err := m.Run(context.Background(), &ast.FuncDef{Name: "f", Body: body}, ctx)
	c.Assert(err, qt.IsNil)

	cmd := &ast.Pipeline{From: simple("f"), To: simple("cp", "/dev/stdin", out)}
	rec, err := m.Run(context.Background(), cmd, ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(rec.Code, qt.Equals, 0)

	got, err := os.ReadFile(out)
	c.Assert(err, qt.IsNil)
	c.Assert(string(got), qt.Equals, "hello\nhello\nhello\n")
}

func TestRunVariableExpansionInArgv(t *testing.T) {
	c := qt.New(t)
	m := jobs.NewManager()
	ctx := newCtx(t)
	ctx.Vars.DefineString("X", "helloworld")

	word := ast.Word{Parts: []ast.WordPart{ast.Variable{Name: "X"}}}
	cmd := &ast.SimpleCommand{Words: []ast.Word{lit("test"), word, lit("="), lit("helloworld")}}
	rec, err := m.Run(context.Background(), cmd, ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(rec.Code, qt.Equals, 0)
}

func TestRunRedirectOut(t *testing.T) {
	c := qt.New(t)
	m := jobs.NewManager()
	dir := t.TempDir()
	out := filepath.Join(dir, "out.txt")
	ctx := newCtx(t)

	cmd := &ast.FileRedirect{
		Inner: simple("printf", "%s", "hi"),
		Redirects: []ast.Redirect{
			{Kind: ast.RedirOut, Fd: -1, Target: lit(out)},
		},
	}
	rec, err := m.Run(context.Background(), cmd, ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(rec.Code, qt.Equals, 0)

	got, err := os.ReadFile(out)
	c.Assert(err, qt.IsNil)
	c.Assert(string(got), qt.Equals, "hi")
}

func TestRunGroupSequential(t *testing.T) {
	c := qt.New(t)
	m := jobs.NewManager()
	ctx := newCtx(t)

	grp := &ast.Group{Commands: []ast.Command{simple("true"), simple("false"), simple("true")}}
	rec, err := m.Run(context.Background(), grp, ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(rec.Code, qt.Equals, 0)
}

func TestRunBraceGroupIsolatesVariables(t *testing.T) {
	c := qt.New(t)
	m := jobs.NewManager()
	ctx := newCtx(t)
	ctx.Vars.DefineString("X", "outer")

	// The argument `$((X = 5))` assigns X while the word is expanded,
	// inside the brace group's cloned context.
	assign := ast.Word{Parts: []ast.WordPart{ast.Arithmetic{Sub: lit("X = 5")}}}
	grp := &ast.BraceGroup{Commands: []ast.Command{
		&ast.SimpleCommand{Words: []ast.Word{lit("true"), assign}},
	}}
	_, err := m.Run(context.Background(), grp, ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(ctx.Vars.ValueString("X"), qt.Equals, "outer")
}

func TestStatusInvalidJobId(t *testing.T) {
	c := qt.New(t)
	m := jobs.NewManager()
	_, err := m.Status(jobs.JobID(999))
	c.Assert(err, qt.Not(qt.IsNil))
	var invalid *jobs.InvalidJobIdError
	c.Assert(err, qt.ErrorAs, &invalid)
}
