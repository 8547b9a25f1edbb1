package shparse

import "github.com/ishehadeh/rush/ast"

// scanWord reads one word starting at the scanner's current
// position, stopping at an unquoted blank or operator byte. ok is
// false when no word is present (the cursor sits on a boundary byte).
func scanWord(s *scanner) (ast.Word, bool, error) {
	if s.eof() || isWordBoundary(s.peek()) {
		return ast.Word{}, false, nil
	}

	var parts []ast.WordPart
	var lit []byte
	flush := func() {
		if len(lit) > 0 {
			parts = append(parts, ast.Literal{Value: append([]byte(nil), lit...)})
			lit = lit[:0]
		}
	}

	leading := true
	for !s.eof() {
		c := s.peek()
		if isWordBoundary(c) {
			break
		}
		switch c {
		case '~':
			if leading {
				flush()
				parts = append(parts, ast.Tilde{})
				s.advance()
				leading = false
				continue
			}
			lit = append(lit, s.advance())
		case '\\':
			s.advance()
			if s.eof() {
				lit = append(lit, '\\')
				break
			}
			flush()
			parts = append(parts, ast.Escape{Char: s.advance()})
		case '\'':
			s.advance()
			start := s.pos
			for !s.eof() && s.peek() != '\'' {
				s.advance()
			}
			lit = append(lit, s.src[start:s.pos]...)
			if !s.eof() {
				s.advance()
			}
		case '"':
			s.advance()
			flush()
			sub, err := scanQuoted(s)
			if err != nil {
				return ast.Word{}, false, err
			}
			parts = append(parts, ast.Quoted{Sub: sub})
		case '$':
			part, consumed, err := scanDollar(s)
			if err != nil {
				return ast.Word{}, false, err
			}
			if consumed {
				flush()
				parts = append(parts, part)
			} else {
				lit = append(lit, s.advance())
			}
		default:
			lit = append(lit, s.advance())
		}
		leading = false
	}
	flush()
	return ast.Word{Parts: parts}, true, nil
}

// scanQuoted reads the body of a double-quoted string, up to the
// closing quote (already expected to be consumed by the time this
// returns). Tildes are not special inside quotes.
func scanQuoted(s *scanner) (ast.Word, error) {
	var parts []ast.WordPart
	var lit []byte
	flush := func() {
		if len(lit) > 0 {
			parts = append(parts, ast.Literal{Value: append([]byte(nil), lit...)})
			lit = lit[:0]
		}
	}

	for {
		if s.eof() {
			return ast.Word{}, &SyntaxError{Msg: "unterminated double-quoted string", Pos: s.pos}
		}
		c := s.peek()
		if c == '"' {
			s.advance()
			break
		}
		switch c {
		case '\\':
			s.advance()
			if s.eof() {
				lit = append(lit, '\\')
				break
			}
			flush()
			parts = append(parts, ast.Escape{Char: s.advance()})
		case '$':
			part, consumed, err := scanDollar(s)
			if err != nil {
				return ast.Word{}, err
			}
			if consumed {
				flush()
				parts = append(parts, part)
			} else {
				lit = append(lit, s.advance())
			}
		default:
			lit = append(lit, s.advance())
		}
	}
	flush()
	return ast.Word{Parts: parts}, nil
}

// scanDollar reads a `$NAME`, `${NAME}`, or `$((expr))` form starting
// at the scanner's `$`. consumed is false (and no bytes are advanced
// past the `$`) when the following character does not start a valid
// form, so the caller treats `$` as a literal byte.
func scanDollar(s *scanner) (ast.WordPart, bool, error) {
	if s.peekAt(1) == '(' && s.peekAt(2) == '(' {
		s.advance() // $
		s.advance() // (
		s.advance() // (
		start := s.pos
		depth := 0
		for {
			if s.eof() {
				return nil, false, &SyntaxError{Msg: "unterminated arithmetic expansion", Pos: s.pos}
			}
			switch s.peek() {
			case '(':
				depth++
			case ')':
				if depth == 0 && s.peekAt(1) == ')' {
					text := string(s.src[start:s.pos])
					s.advance()
					s.advance()
					sub := ast.Word{Parts: []ast.WordPart{ast.Literal{Value: []byte(text)}}}
					return ast.Arithmetic{Sub: sub}, true, nil
				}
				depth--
			}
			s.advance()
		}
	}

	if s.peekAt(1) == '{' {
		s.advance() // $
		s.advance() // {
		start := s.pos
		for !s.eof() && s.peek() != '}' {
			s.advance()
		}
		if s.eof() {
			return nil, false, &SyntaxError{Msg: "unterminated parameter expansion", Pos: s.pos}
		}
		name := string(s.src[start:s.pos])
		s.advance()
		return ast.Variable{Name: name}, true, nil
	}

	if isIdentByte(s.peekAt(1), true) {
		s.advance() // $
		start := s.pos
		for !s.eof() && isIdentByte(s.peek(), false) {
			s.advance()
		}
		return ast.Variable{Name: string(s.src[start:s.pos])}, true, nil
	}

	return nil, false, nil
}

func isIdentByte(c byte, first bool) bool {
	if c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
		return true
	}
	if !first && c >= '0' && c <= '9' {
		return true
	}
	return false
}
