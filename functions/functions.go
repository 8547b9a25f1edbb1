// Package functions implements the shell's function store: an ordered
// mapping from name to an owned command tree.
//
// Grounded on mvdan.cc/sh/v3/interp/runner.go's r.Funcs map, generalized
// to own a command-tree clone per insertion the way
// original_source/src/shell/exec.rs's function-call path does, cloning
// function bodies on insertion and lookup to avoid shared mutable state
// while a body runs.
package functions

import (
	"sort"

	"github.com/ishehadeh/rush/ast"
)

// Store is an ordered mapping from name to a command tree. Lookup
// during command dispatch precedes executable resolution on PATH.
type Store struct {
	bodies map[string]ast.Command
}

// New returns an empty Store.
func New() *Store {
	return &Store{bodies: make(map[string]ast.Command)}
}

// Clone returns a deep copy of s, used when entering a brace-group's
// cloned execution context.
func (s *Store) Clone() *Store {
	clone := &Store{bodies: make(map[string]ast.Command, len(s.bodies))}
	for k, v := range s.bodies {
		clone.bodies[k] = v.Clone()
	}
	return clone
}

// Insert stores a clone of body under name, shadowing any previous
// definition.
func (s *Store) Insert(name string, body ast.Command) {
	if s.bodies == nil {
		s.bodies = make(map[string]ast.Command)
	}
	s.bodies[name] = body.Clone()
}

// Lookup returns a clone of the body stored under name, and whether it
// was found.
func (s *Store) Lookup(name string) (ast.Command, bool) {
	body, ok := s.bodies[name]
	if !ok {
		return nil, false
	}
	return body.Clone(), true
}

// Remove deletes name. Idempotent.
func (s *Store) Remove(name string) {
	delete(s.bodies, name)
}

// Names returns all defined names in sorted order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.bodies))
	for k := range s.bodies {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
