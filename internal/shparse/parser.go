package shparse

import "github.com/ishehadeh/rush/ast"

// Parse reads a single command line and returns its command tree.
// Grammar (informal):
//
//	line       := andor (';' andor)*
//	andor      := pipeline (('&&' | '||') pipeline)*
//	pipeline   := redirected ('|' redirected)*
//	redirected := simple_or_group redirect*
//	redirect   := [fd] ('>' | '>>' | '<') word | [fd] ('<&' | '>&') fd
//	group      := '{' line '}' | '(' line ')'
//	funcdef    := name '(' ')' (group | simple)
func Parse(src string) (ast.Command, error) {
	s := newScanner(src)
	cmd, err := parseLine(s)
	if err != nil {
		return nil, err
	}
	s.skipBlank()
	if !s.eof() {
		return nil, &SyntaxError{Msg: "unexpected trailing input", Pos: s.pos}
	}
	return cmd, nil
}

func parseLine(s *scanner) (ast.Command, error) {
	var cmds []ast.Command
	cmd, err := parseAndOr(s)
	if err != nil {
		return nil, err
	}
	cmds = append(cmds, cmd)

	for {
		s.skipBlank()
		if s.peek() != ';' && s.peek() != '\n' {
			break
		}
		s.advance()
		s.skipBlank()
		if s.eof() || s.peek() == '}' || s.peek() == ')' {
			break
		}
		cmd, err := parseAndOr(s)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, cmd)
	}

	if len(cmds) == 1 {
		return cmds[0], nil
	}
	return &ast.Group{Commands: cmds}, nil
}

func parseAndOr(s *scanner) (ast.Command, error) {
	left, err := parsePipeline(s)
	if err != nil {
		return nil, err
	}
	for {
		s.skipBlank()
		var op ast.CondOp
		switch {
		case s.peek() == '&' && s.peekAt(1) == '&':
			op = ast.AndIf
		case s.peek() == '|' && s.peekAt(1) == '|':
			op = ast.OrIf
		default:
			return left, nil
		}
		s.advance()
		s.advance()
		s.skipBlank()
		right, err := parsePipeline(s)
		if err != nil {
			return nil, err
		}
		left = &ast.ConditionalPair{Left: left, Op: op, Right: right}
	}
}

func parsePipeline(s *scanner) (ast.Command, error) {
	negate := false
	s.skipBlank()
	if s.peek() == '!' && (s.peekAt(1) == ' ' || s.peekAt(1) == '\t') {
		negate = true
		s.advance()
		s.skipBlank()
	}

	left, err := parseRedirected(s)
	if err != nil {
		return nil, err
	}

	for {
		s.skipBlank()
		if s.peek() != '|' || s.peekAt(1) == '|' {
			break
		}
		s.advance()
		s.skipBlank()
		right, err := parseRedirected(s)
		if err != nil {
			return nil, err
		}
		left = &ast.Pipeline{From: left, To: right}
	}

	if negate {
		if p, ok := left.(*ast.Pipeline); ok {
			p.Negate = true
			return p, nil
		}
		return &ast.Pipeline{From: left, Negate: true}, nil
	}
	return left, nil
}

// parseRedirected parses one command (a group or a simple command)
// followed by any redirects trailing it. A simple command's own
// redirects are consumed inline by parseSimpleOrFuncDef, since they
// may sit between words (`cat 3< in.txt > out.txt`); this loop only
// matters for redirects trailing a group (`{ ...; } > out.txt`).
func parseRedirected(s *scanner) (ast.Command, error) {
	inner, err := parseCommandOrGroup(s)
	if err != nil {
		return nil, err
	}

	var redirs []ast.Redirect
	for {
		s.skipBlank()
		r, ok, err := tryParseRedirect(s)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		redirs = append(redirs, r)
	}
	if len(redirs) == 0 {
		return inner, nil
	}
	if fr, ok := inner.(*ast.FileRedirect); ok {
		fr.Redirects = append(fr.Redirects, redirs...)
		return fr, nil
	}
	return &ast.FileRedirect{Inner: inner, Redirects: redirs}, nil
}

// tryParseRedirect attempts `[fd]op word` or `[fd]op fd`. ok is false
// (with no bytes consumed) when the cursor is not on a redirect
// operator.
func tryParseRedirect(s *scanner) (ast.Redirect, bool, error) {
	start := s.pos
	fd := -1
	if isDigitByte(s.peek()) {
		digitStart := s.pos
		for isDigitByte(s.peek()) {
			s.advance()
		}
		if s.peek() == '<' || s.peek() == '>' {
			n := 0
			for _, c := range s.src[digitStart:s.pos] {
				n = n*10 + int(c-'0')
			}
			fd = n
		} else {
			s.pos = start
		}
	}

	switch {
	case s.peek() == '>' && s.peekAt(1) == '>':
		s.advance()
		s.advance()
		s.skipBlank()
		w, ok, err := scanWord(s)
		if err != nil || !ok {
			return ast.Redirect{}, false, firstErr(err, &SyntaxError{Msg: "expected word after '>>'", Pos: s.pos})
		}
		return ast.Redirect{Kind: ast.RedirAppend, Fd: fd, Target: w}, true, nil

	case s.peek() == '>' && s.peekAt(1) == '&':
		s.advance()
		s.advance()
		n, ok := scanFdNumber(s)
		if !ok {
			return ast.Redirect{}, false, &SyntaxError{Msg: "expected fd after '>&'", Pos: s.pos}
		}
		if fd < 0 {
			fd = 1
		}
		return ast.Redirect{Kind: ast.RedirDup, Fd: fd, TargetFd: n}, true, nil

	case s.peek() == '>':
		s.advance()
		s.skipBlank()
		w, ok, err := scanWord(s)
		if err != nil || !ok {
			return ast.Redirect{}, false, firstErr(err, &SyntaxError{Msg: "expected word after '>'", Pos: s.pos})
		}
		return ast.Redirect{Kind: ast.RedirOut, Fd: fd, Target: w}, true, nil

	case s.peek() == '<' && s.peekAt(1) == '&':
		s.advance()
		s.advance()
		n, ok := scanFdNumber(s)
		if !ok {
			return ast.Redirect{}, false, &SyntaxError{Msg: "expected fd after '<&'", Pos: s.pos}
		}
		return ast.Redirect{Kind: ast.RedirDup, Fd: fd, TargetFd: n}, true, nil

	case s.peek() == '<':
		s.advance()
		s.skipBlank()
		w, ok, err := scanWord(s)
		if err != nil || !ok {
			return ast.Redirect{}, false, firstErr(err, &SyntaxError{Msg: "expected word after '<'", Pos: s.pos})
		}
		return ast.Redirect{Kind: ast.RedirIn, Fd: fd, Target: w}, true, nil
	}

	s.pos = start
	return ast.Redirect{}, false, nil
}

func firstErr(err, fallback error) error {
	if err != nil {
		return err
	}
	return fallback
}

func isDigitByte(c byte) bool { return c >= '0' && c <= '9' }

func scanFdNumber(s *scanner) (int, bool) {
	start := s.pos
	for isDigitByte(s.peek()) {
		s.advance()
	}
	if s.pos == start {
		return 0, false
	}
	n := 0
	for _, c := range s.src[start:s.pos] {
		n = n*10 + int(c-'0')
	}
	return n, true
}

func parseCommandOrGroup(s *scanner) (ast.Command, error) {
	s.skipBlank()
	switch s.peek() {
	case '{':
		s.advance()
		s.skipBlank()
		if s.peek() == '}' {
			s.advance()
			return &ast.BraceGroup{}, nil
		}
		inner, err := parseLine(s)
		if err != nil {
			return nil, err
		}
		s.skipBlank()
		if s.peek() != '}' {
			return nil, &SyntaxError{Msg: "expected '}'", Pos: s.pos}
		}
		s.advance()
		return &ast.BraceGroup{Commands: flattenGroup(inner)}, nil

	case '(':
		s.advance()
		s.skipBlank()
		if s.peek() == ')' {
			return nil, &SyntaxError{Msg: "expected command inside '(' ')'", Pos: s.pos}
		}
		inner, err := parseLine(s)
		if err != nil {
			return nil, err
		}
		s.skipBlank()
		if s.peek() != ')' {
			return nil, &SyntaxError{Msg: "expected ')'", Pos: s.pos}
		}
		s.advance()
		return &ast.Group{Commands: flattenGroup(inner)}, nil
	}

	return parseSimpleOrFuncDef(s)
}

func flattenGroup(cmd ast.Command) []ast.Command {
	if g, ok := cmd.(*ast.Group); ok {
		return g.Commands
	}
	return []ast.Command{cmd}
}

// parseSimpleOrFuncDef parses a simple command's words and any
// redirects interspersed among them (`cat 3< in.txt > out.txt`),
// or a `name() body` function definition when a lone first word is
// immediately followed by `()`.
func parseSimpleOrFuncDef(s *scanner) (ast.Command, error) {
	var words []ast.Word
	var redirs []ast.Redirect
	for {
		s.skipBlank()

		r, ok, err := tryParseRedirect(s)
		if err != nil {
			return nil, err
		}
		if ok {
			redirs = append(redirs, r)
			continue
		}

		w, ok, err := scanWord(s)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		words = append(words, w)

		if len(words) == 1 && len(redirs) == 0 && s.peek() == '(' && s.peekAt(1) == ')' {
			if name := words[0].Lit(); name != "" {
				s.advance()
				s.advance()
				s.skipBlank()
				body, err := parseCommandOrGroup(s)
				if err != nil {
					return nil, err
				}
				return &ast.FuncDef{Name: name, Body: body}, nil
			}
		}
	}
	if len(words) == 0 {
		return nil, &SyntaxError{Msg: "expected a command", Pos: s.pos}
	}
	var cmd ast.Command = &ast.SimpleCommand{Words: words}
	if len(redirs) > 0 {
		cmd = &ast.FileRedirect{Inner: cmd, Redirects: redirs}
	}
	return cmd, nil
}
