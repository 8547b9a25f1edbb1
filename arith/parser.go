package arith

// Expr is a node in a parsed arithmetic expression tree. It is a
// closed sum type; implementations live only in this package.
type Expr interface {
	isExpr()
}

// Number is a literal numeric value.
type Number struct {
	Value float64
}

func (Number) isExpr() {}

// Variable is a named reference into the variable store.
type Variable struct {
	Name string
}

func (Variable) isExpr() {}

// Prefix is a prefix operator applied to Right: `-x`, `!x`, `~x`,
// `++x`, `--x`.
type Prefix struct {
	Op    Operator
	Right Expr
}

func (*Prefix) isExpr() {}

// Suffix is a suffix operator applied to Left: `x++`, `x--`.
type Suffix struct {
	Op   Operator
	Left Expr
}

func (*Suffix) isExpr() {}

// Infix is a binary operator, including assignment and compound
// assignment forms.
type Infix struct {
	Left  Expr
	Op    Operator
	Right Expr
}

func (*Infix) isExpr() {}

// Ternary is `cond ? then : else`.
type Ternary struct {
	Cond, Then, Else Expr
}

func (*Ternary) isExpr() {}

// Precedence orders operators from loosest-binding (lowest) to
// tightest-binding (highest). Assignment and Ternary are
// right-associative; every other binary level is left-associative.
//
// This follows the bit-and/bit-xor/bit-or ordering used throughout
// this execution core's surrounding documentation (& tightest, then
// ^, then | loosest) rather than the order found in
// original_source/src/expr/types.rs (BitAnd, BitOr, BitExclusiveOr),
// which does not match that ordering.
type Precedence int

const (
	PrecNone Precedence = iota
	PrecAssign
	PrecTernary
	PrecLogOr
	PrecLogAnd
	PrecBitOr
	PrecBitXor
	PrecBitAnd
	PrecEquality
	PrecRelational
	PrecShift
	PrecSum
	PrecProduct
	PrecPrefix
)

func infixPrecedence(op Operator) (Precedence, bool) {
	switch op {
	case Assign, AddAssign, SubAssign, MulAssign, DivAssign, ModAssign,
		AndAssign, OrAssign, XorAssign, ShlAssign, ShrAssign:
		return PrecAssign, true
	case LogOr:
		return PrecLogOr, true
	case LogAnd:
		return PrecLogAnd, true
	case BitOr:
		return PrecBitOr, true
	case BitXor:
		return PrecBitXor, true
	case BitAnd:
		return PrecBitAnd, true
	case Eq, Ne:
		return PrecEquality, true
	case Lt, Le, Gt, Ge:
		return PrecRelational, true
	case Shl, Shr:
		return PrecShift, true
	case Add, Sub:
		return PrecSum, true
	case Mul, Div, Mod:
		return PrecProduct, true
	default:
		return PrecNone, false
	}
}

func isRightAssoc(op Operator) bool {
	return op.IsAssign()
}

// Parser is a precedence-climbing (Pratt) parser over a Lexer's token
// stream, one token of lookahead. Grounded on the structure of
// original_source/src/expr/parser.rs, but implementing genuine
// right-associativity for assignment and ternary forms via explicit
// minimum-precedence thresholds, since a literal port of that
// source's generic precedence-recursion does not right-associate
// repeated same-precedence assignment/ternary chains.
type Parser struct {
	lex     *Lexer
	peeked  *Token
	atEOF   bool
	lastCol int
}

// NewParser returns a Parser reading tokens from src.
func NewParser(src string) *Parser {
	return &Parser{lex: NewLexer(src), lastCol: 1}
}

func (p *Parser) peek() (Token, bool, error) {
	if p.peeked != nil {
		return *p.peeked, true, nil
	}
	if p.atEOF {
		return Token{}, false, nil
	}
	tok, ok, err := p.lex.Next()
	if err != nil {
		return Token{}, false, err
	}
	if !ok {
		p.atEOF = true
		return Token{}, false, nil
	}
	p.peeked = &tok
	p.lastCol = tok.Column
	return tok, true, nil
}

func (p *Parser) advance() (Token, bool, error) {
	tok, ok, err := p.peek()
	if err != nil || !ok {
		return tok, ok, err
	}
	p.peeked = nil
	p.lastCol = tok.Column + len(tok.Text)
	return tok, true, nil
}

func (p *Parser) eofError(kind ErrorKind) error {
	return &Error{Kind: kind, Ctx: Context{Input: p.lex.input, Token: "", Column: p.lastCol, Line: 1}}
}

// ParseExpression parses a full comma-separated expression sequence
// and requires the input be fully consumed. Only the rightmost
// operand of the sequence is returned; earlier operands are checked
// for syntax but dropped from the tree, so they are never evaluated
// and their side effects do not happen.
func (p *Parser) ParseExpression() (Expr, error) {
	expr, err := p.parseCommaSeq()
	if err != nil {
		return nil, err
	}
	tok, ok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if ok {
		return nil, &Error{Kind: InvalidToken, Ctx: Context{Input: p.lex.input, Token: tok.Text, Column: tok.Column, Line: 1}}
	}
	return expr, nil
}

func (p *Parser) parseCommaSeq() (Expr, error) {
	expr, err := p.parsePrecedence(PrecAssign)
	if err != nil {
		return nil, err
	}
	for {
		tok, ok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if !ok || tok.Kind != TokComma {
			return expr, nil
		}
		p.advance()
		expr, err = p.parsePrecedence(PrecAssign)
		if err != nil {
			return nil, err
		}
	}
}

// parsePrecedence parses a primary expression followed by as many
// infix/ternary operators as bind at or above minPrec.
func (p *Parser) parsePrecedence(minPrec Precedence) (Expr, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	left, err = p.maybeSuffix(left)
	if err != nil {
		return nil, err
	}

	for {
		tok, ok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if !ok {
			return left, nil
		}

		if tok.Kind == TokQuestion {
			if PrecTernary < minPrec {
				return left, nil
			}
			p.advance()
			thenExpr, err := p.parsePrecedence(PrecAssign)
			if err != nil {
				return nil, err
			}
			colonTok, ok, err := p.peek()
			if err != nil {
				return nil, err
			}
			if !ok || colonTok.Kind != TokColon {
				return nil, p.eofError(ExpectingTernaryElse)
			}
			p.advance()
			elseExpr, err := p.parsePrecedence(PrecTernary)
			if err != nil {
				return nil, err
			}
			left = &Ternary{Cond: left, Then: thenExpr, Else: elseExpr}
			continue
		}

		if tok.Kind != TokOp {
			return left, nil
		}
		prec, isInfix := infixPrecedence(tok.Op)
		if !isInfix || prec < minPrec {
			return left, nil
		}
		p.advance()
		nextMin := prec + 1
		if isRightAssoc(tok.Op) {
			nextMin = prec
		}
		right, err := p.parsePrecedence(nextMin)
		if err != nil {
			return nil, err
		}
		left = &Infix{Left: left, Op: tok.Op, Right: right}
	}
}

func (p *Parser) maybeSuffix(left Expr) (Expr, error) {
	tok, ok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if ok && tok.Kind == TokOp && tok.Op.IsSuffix() {
		p.advance()
		return &Suffix{Op: tok.Op, Left: left}, nil
	}
	return left, nil
}

func (p *Parser) parsePrimary() (Expr, error) {
	tok, ok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, p.eofError(UnexpectedEof)
	}

	switch tok.Kind {
	case TokInt, TokFloat:
		p.advance()
		return &Number{Value: tok.Number}, nil
	case TokIdent:
		p.advance()
		return Variable{Name: tok.Text}, nil
	case TokLParen:
		p.advance()
		inner, err := p.parseCommaSeq()
		if err != nil {
			return nil, err
		}
		closeTok, ok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if !ok || closeTok.Kind != TokRParen {
			return nil, p.eofError(ExpectingRightParentheses)
		}
		p.advance()
		return inner, nil
	case TokOp:
		if !tok.Op.IsPrefix() {
			return nil, &Error{Kind: InvalidPrefixOperator, Ctx: Context{Input: p.lex.input, Token: tok.Text, Column: tok.Column, Line: 1}}
		}
		p.advance()
		right, err := p.parsePrecedence(PrecPrefix)
		if err != nil {
			return nil, err
		}
		return &Prefix{Op: tok.Op, Right: right}, nil
	default:
		return nil, &Error{Kind: InvalidToken, Ctx: Context{Input: p.lex.input, Token: tok.Text, Column: tok.Column, Line: 1}}
	}
}
