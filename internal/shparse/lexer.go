// Package shparse is a small recursive-descent reader for the
// command-line front-end's REPL: just enough grammar to drive the
// execution core in jobs and arith — simple commands, pipelines,
// `&&`/`||`, `{ ...; }` groups, `( ... )` groups run in the caller's
// context, redirects, and function definitions. It is not a line
// editor or a POSIX-conformant parser; those are out of scope.
//
// Grounded on the shape of mvdan.cc/sh/v3/syntax/parser.go's reader
// loop (byte-at-a-time scanning with an explicit lookahead byte),
// narrowed to this grammar subset.
package shparse

import "fmt"

// scanner is a byte cursor over a single command-line's source text.
type scanner struct {
	src []byte
	pos int
}

func newScanner(src string) *scanner {
	return &scanner{src: []byte(src)}
}

func (s *scanner) eof() bool { return s.pos >= len(s.src) }

func (s *scanner) peek() byte {
	if s.eof() {
		return 0
	}
	return s.src[s.pos]
}

func (s *scanner) peekAt(off int) byte {
	if s.pos+off >= len(s.src) {
		return 0
	}
	return s.src[s.pos+off]
}

func (s *scanner) advance() byte {
	c := s.src[s.pos]
	s.pos++
	return c
}

func (s *scanner) skipBlank() {
	for !s.eof() {
		switch s.peek() {
		case ' ', '\t', '\n':
			s.pos++
		default:
			return
		}
	}
}

// SyntaxError reports a malformed command line. Named by what it
// reports, not by any upstream grammar's diagnostic taxonomy.
type SyntaxError struct {
	Msg string
	Pos int
}

func (e *SyntaxError) Error() string { return fmt.Sprintf("%s (at byte %d)", e.Msg, e.Pos) }

func isWordBoundary(c byte) bool {
	switch c {
	case 0, ' ', '\t', '\n', '|', '&', ';', '(', ')', '{', '}', '<', '>':
		return true
	default:
		return false
	}
}
