package jobs

import (
	"github.com/ishehadeh/rush/functions"
	"github.com/ishehadeh/rush/variables"
)

// Context is the caller-provided bundle of variable store, function
// store, and current working directory threaded through all command
// execution. Grounded on ExecutionEnvironment in
// original_source/src/lang/exec.rs and original_source/src/shell/exec.rs.
type Context struct {
	Vars  *variables.Store
	Funcs *functions.Store
	Dir   string
}

// NewContext returns a Context with fresh, empty stores rooted at dir.
func NewContext(dir string) *Context {
	return &Context{Vars: variables.New(), Funcs: functions.New(), Dir: dir}
}

// Clone returns a Context with independently mutable stores, used to
// enter a brace-group's isolated execution scope.
func (c *Context) Clone() *Context {
	return &Context{Vars: c.Vars.Clone(), Funcs: c.Funcs.Clone(), Dir: c.Dir}
}
