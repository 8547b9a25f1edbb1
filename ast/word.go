package ast

// WordPart is one piece of a parsed shell word. Grounded on the
// word::Token enum in original_source/src/lang/word.rs and
// original_source/src/shell/word.rs, narrowed to the parts this
// execution core expands: literal, escape, variable, quoted subword,
// arithmetic, tilde.
type WordPart interface {
	isWordPart()
	clonePart() WordPart
}

// Literal is a verbatim byte slice, copied as-is during expansion.
type Literal struct {
	Value []byte
}

func (Literal) isWordPart() {}
func (l Literal) clonePart() WordPart {
	cp := make([]byte, len(l.Value))
	copy(cp, l.Value)
	return Literal{Value: cp}
}

// Escape is a single escaped character, e.g. the 'n' in `\n`. The
// word expander maps the character to its expansion.
type Escape struct {
	Char byte
}

func (Escape) isWordPart()           {}
func (e Escape) clonePart() WordPart { return e }

// Variable is a deferred named-variable reference, e.g. `$HOME`.
type Variable struct {
	Name string
}

func (Variable) isWordPart()           {}
func (v Variable) clonePart() WordPart { return v }

// Quoted is a recursively-expanded subword composed of quote-context
// parts, e.g. the contents of `"$x literal"`.
type Quoted struct {
	Sub Word
}

func (Quoted) isWordPart() {}
func (q Quoted) clonePart() WordPart {
	return Quoted{Sub: q.Sub.Clone()}
}

// Arithmetic is an arithmetic-expression sub-word, e.g. the contents
// of `$((x + 1))`. The subword is expanded first, then parsed and
// evaluated as an arithmetic expression.
type Arithmetic struct {
	Sub Word
}

func (Arithmetic) isWordPart() {}
func (a Arithmetic) clonePart() WordPart {
	return Arithmetic{Sub: a.Sub.Clone()}
}

// Tilde marks a leading `~`, replaced by the value of $HOME.
type Tilde struct{}

func (Tilde) isWordPart()         {}
func (t Tilde) clonePart() WordPart { return t }

// Word is an ordered sequence of parts that renders to a single byte
// string against the variable store.
type Word struct {
	Parts []WordPart
}

// Clone returns a deep copy of w.
func (w Word) Clone() Word {
	parts := make([]WordPart, len(w.Parts))
	for i, p := range w.Parts {
		parts[i] = p.clonePart()
	}
	return Word{Parts: parts}
}

// Lit returns the word's literal text when it is made up of exactly
// one Literal part, and the empty string otherwise. Used by callers
// that need a plain identifier (e.g. a function name) without going
// through full expansion.
func (w Word) Lit() string {
	if len(w.Parts) == 1 {
		if l, ok := w.Parts[0].(Literal); ok {
			return string(l.Value)
		}
	}
	return ""
}
