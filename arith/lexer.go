package arith

import (
	"strconv"
	"strings"
)

// Lexer is a lazy, finite, non-restartable sequence of arithmetic
// tokens over a source string. Grounded on TokenStream in
// original_source/src/expr/lexer.rs.
type Lexer struct {
	input  string
	pos    int // byte offset of the next unread rune
	column int // 1-based column of the next unread rune
}

// NewLexer returns a Lexer over src.
func NewLexer(src string) *Lexer {
	return &Lexer{input: src, pos: 0, column: 1}
}

func (l *Lexer) errCtx(column int, tokText string) Context {
	return Context{Input: l.input, Token: tokText, Column: column, Line: 1}
}

func isDigit(c byte) bool      { return c >= '0' && c <= '9' }
func isHexDigit(c byte) bool   { return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') }
func isOctalDigit(c byte) bool { return c >= '0' && c <= '7' }
func isBinaryDigit(c byte) bool { return c == '0' || c == '1' }
func isIdentStart(c byte) bool { return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isIdentCont(c byte) bool  { return isIdentStart(c) || isDigit(c) }

// Next returns the next token. ok is false once the input is
// exhausted, with err nil. A non-nil err means the remaining input
// starts with an unrecognized character (InvalidCharacter) or a
// malformed number literal (InvalidNumber).
func (l *Lexer) Next() (tok Token, ok bool, err error) {
	l.skipSpace()
	if l.pos >= len(l.input) {
		return Token{}, false, nil
	}
	startCol := l.column
	c := l.input[l.pos]

	switch {
	case isDigit(c) || (c == '.' && l.pos+1 < len(l.input) && isDigit(l.input[l.pos+1])):
		return l.lexNumber(startCol)
	case isIdentStart(c):
		return l.lexIdent(startCol), true, nil
	case c == ',':
		l.advance(1)
		return Token{Kind: TokComma, Text: ",", Column: startCol}, true, nil
	case c == '?':
		l.advance(1)
		return Token{Kind: TokQuestion, Text: "?", Column: startCol}, true, nil
	case c == ':':
		l.advance(1)
		return Token{Kind: TokColon, Text: ":", Column: startCol}, true, nil
	case c == '(':
		l.advance(1)
		return Token{Kind: TokLParen, Text: "(", Column: startCol}, true, nil
	case c == ')':
		l.advance(1)
		return Token{Kind: TokRParen, Text: ")", Column: startCol}, true, nil
	default:
		if op, text, matched := l.matchOperator(); matched {
			return Token{Kind: TokOp, Text: text, Op: op, Column: startCol}, true, nil
		}
		r := rune(c)
		return Token{}, false, &Error{Kind: InvalidCharacter, Char: r, Ctx: l.errCtx(startCol, string(r))}
	}
}

func (l *Lexer) skipSpace() {
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			l.advance(1)
			continue
		}
		break
	}
}

func (l *Lexer) advance(n int) {
	l.pos += n
	l.column += n
}

func (l *Lexer) lexIdent(startCol int) Token {
	start := l.pos
	for l.pos < len(l.input) && isIdentCont(l.input[l.pos]) {
		l.advance(1)
	}
	return Token{Kind: TokIdent, Text: l.input[start:l.pos], Column: startCol}
}

// lexNumber consumes an integer (decimal, 0x, 0o, 0b) or a
// floating-point literal (decimal point and/or exponent). A bare
// integer without a decimal point or exponent is an integer token,
// never a float token.
func (l *Lexer) lexNumber(startCol int) (Token, bool, error) {
	start := l.pos

	if l.input[l.pos] == '0' && l.pos+1 < len(l.input) {
		switch l.input[l.pos+1] {
		case 'x', 'X':
			l.advance(2)
			digStart := l.pos
			for l.pos < len(l.input) && isHexDigit(l.input[l.pos]) {
				l.advance(1)
			}
			text := l.input[start:l.pos]
			n, err := strconv.ParseInt(l.input[digStart:l.pos], 16, 64)
			if err != nil || digStart == l.pos {
				return Token{}, false, &Error{Kind: InvalidNumber, Ctx: l.errCtx(startCol, text)}
			}
			return Token{Kind: TokInt, Text: text, Number: float64(n), Column: startCol}, true, nil
		case 'o', 'O':
			l.advance(2)
			digStart := l.pos
			for l.pos < len(l.input) && isOctalDigit(l.input[l.pos]) {
				l.advance(1)
			}
			text := l.input[start:l.pos]
			n, err := strconv.ParseInt(l.input[digStart:l.pos], 8, 64)
			if err != nil || digStart == l.pos {
				return Token{}, false, &Error{Kind: InvalidNumber, Ctx: l.errCtx(startCol, text)}
			}
			return Token{Kind: TokInt, Text: text, Number: float64(n), Column: startCol}, true, nil
		case 'b', 'B':
			l.advance(2)
			digStart := l.pos
			for l.pos < len(l.input) && isBinaryDigit(l.input[l.pos]) {
				l.advance(1)
			}
			text := l.input[start:l.pos]
			n, err := strconv.ParseInt(l.input[digStart:l.pos], 2, 64)
			if err != nil || digStart == l.pos {
				return Token{}, false, &Error{Kind: InvalidNumber, Ctx: l.errCtx(startCol, text)}
			}
			return Token{Kind: TokInt, Text: text, Number: float64(n), Column: startCol}, true, nil
		}
	}

	for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
		l.advance(1)
	}
	isFloat := false
	if l.pos < len(l.input) && l.input[l.pos] == '.' {
		isFloat = true
		l.advance(1)
		for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
			l.advance(1)
		}
	}
	if l.pos < len(l.input) && (l.input[l.pos] == 'e' || l.input[l.pos] == 'E') {
		save := l.pos
		saveCol := l.column
		l.advance(1)
		if l.pos < len(l.input) && (l.input[l.pos] == '+' || l.input[l.pos] == '-') {
			l.advance(1)
		}
		if l.pos < len(l.input) && isDigit(l.input[l.pos]) {
			isFloat = true
			for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
				l.advance(1)
			}
		} else {
			// not actually an exponent; back out
			l.pos = save
			l.column = saveCol
		}
	}

	text := l.input[start:l.pos]
	if isFloat {
		n, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Token{}, false, &Error{Kind: InvalidNumber, Ctx: l.errCtx(startCol, text)}
		}
		return Token{Kind: TokFloat, Text: text, Number: n, Column: startCol}, true, nil
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return Token{}, false, &Error{Kind: InvalidNumber, Ctx: l.errCtx(startCol, text)}
	}
	return Token{Kind: TokInt, Text: text, Number: float64(n), Column: startCol}, true, nil
}

// operatorTable is ordered longest-match first so "<<=" is tried
// before "<<" before "<".
var operatorTable = []struct {
	text string
	op   Operator
}{
	{">>=", ShrAssign},
	{"<<=", ShlAssign},
	{"<<", Shl},
	{">>", Shr},
	{"==", Eq},
	{"!=", Ne},
	{"&&", LogAnd},
	{"||", LogOr},
	{"++", Inc},
	{"--", Dec},
	{"+=", AddAssign},
	{"-=", SubAssign},
	{"*=", MulAssign},
	{"/=", DivAssign},
	{"%=", ModAssign},
	{"&=", AndAssign},
	{"|=", OrAssign},
	{"^=", XorAssign},
	{"<=", Le},
	{">=", Ge},
	{"=", Assign},
	{"<", Lt},
	{">", Gt},
	{"^", BitXor},
	{"|", BitOr},
	{"&", BitAnd},
	{"+", Add},
	{"-", Sub},
	{"*", Mul},
	{"/", Div},
	{"%", Mod},
	{"~", BitNot},
	{"!", LogNot},
}

func (l *Lexer) matchOperator() (Operator, string, bool) {
	rest := l.input[l.pos:]
	for _, cand := range operatorTable {
		if strings.HasPrefix(rest, cand.text) {
			l.advance(len(cand.text))
			return cand.op, cand.text, true
		}
	}
	return 0, "", false
}
