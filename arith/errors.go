package arith

import "fmt"

// ErrorKind is the closed taxonomy of lexer/parser failures, grounded
// on original_source/src/expr/errors.rs.
type ErrorKind int

const (
	InvalidCharacter ErrorKind = iota
	InvalidToken
	InvalidPrefixOperator
	InvalidInfixOperator
	ExpectingTernaryElse
	ExpectingRightParentheses
	InvalidNumber
	UnexpectedEof
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidCharacter:
		return "InvalidCharacter"
	case InvalidToken:
		return "InvalidToken"
	case InvalidPrefixOperator:
		return "InvalidPrefixOperator"
	case InvalidInfixOperator:
		return "InvalidInfixOperator"
	case ExpectingTernaryElse:
		return "ExpectingTernaryElse"
	case ExpectingRightParentheses:
		return "ExpectingRightParentheses"
	case InvalidNumber:
		return "InvalidNumber"
	case UnexpectedEof:
		return "UnexpectedEof"
	default:
		return "Unknown"
	}
}

// Context carries the diagnostic data bubbled with every Error: the
// original input, the offending token's source text, and its column.
// Line is always 1, since arithmetic expressions are single-line.
type Context struct {
	Input  string
	Token  string
	Column int
	Line   int
}

// Error is returned by the lexer and parser. It renders a two-line
// caret pointing at the offending token.
type Error struct {
	Kind ErrorKind
	Char rune // set only for InvalidCharacter
	Ctx  Context
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Kind == InvalidCharacter {
		msg = fmt.Sprintf("InvalidCharacter(%q)", e.Char)
	}
	return fmt.Sprintf("%s\n%s\n%s^", msg, e.Ctx.Input, caretPad(e.Ctx.Column))
}

func caretPad(column int) string {
	if column < 1 {
		column = 1
	}
	b := make([]byte, column-1)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}

func newError(kind ErrorKind, ctx Context) *Error {
	return &Error{Kind: kind, Ctx: ctx}
}
