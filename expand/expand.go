// Package expand renders a parsed ast.Word to a byte string against a
// variable store.
//
// Grounded on mvdan.cc/sh/v3/expand/expand.go, which walks a
// syntax.Word's parts left to right accumulating output;
// generalized to this execution core's smaller part set (literal,
// escape, variable, quoted, arithmetic, tilde) per
// original_source/src/lang/word.rs's Word::compile.
package expand

import (
	"unicode/utf8"

	"github.com/ishehadeh/rush/arith"
	"github.com/ishehadeh/rush/ast"
	"github.com/ishehadeh/rush/variables"
)

// replacementChar is written for an escape whose character has no
// defined expansion.
const replacementChar = '�'

// Word renders w to a byte string against store. Arithmetic sub-parts
// are parsed and evaluated in place, so a write to store made by an
// earlier part is visible to a later one.
func Word(w ast.Word, store *variables.Store) ([]byte, error) {
	var out []byte
	for i, part := range w.Parts {
		b, err := wordPart(part, store, i == 0)
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	return out, nil
}

func wordPart(part ast.WordPart, store *variables.Store, leading bool) ([]byte, error) {
	switch p := part.(type) {
	case ast.Literal:
		return p.Value, nil
	case ast.Escape:
		return escapeChar(p.Char), nil
	case ast.Variable:
		return store.Value(p.Name), nil
	case ast.Quoted:
		return Word(p.Sub, store)
	case ast.Arithmetic:
		sub, err := Word(p.Sub, store)
		if err != nil {
			return nil, err
		}
		result, err := arith.Eval(string(sub), store)
		if err != nil {
			return nil, err
		}
		return []byte(arith.FormatNumber(result)), nil
	case ast.Tilde:
		if !leading {
			return []byte{'~'}, nil
		}
		return store.Value("HOME"), nil
	default:
		return nil, nil
	}
}

func escapeChar(c byte) []byte {
	switch c {
	case 'n':
		return []byte{'\n'}
	case 't':
		return []byte{'\t'}
	case '\\':
		return []byte{'\\'}
	case '"':
		return []byte{'"'}
	case '\'':
		return []byte{'\''}
	case ' ', '$', '|', '`', '&', '{', '}', '\n':
		return []byte{c}
	default:
		buf := make([]byte, utf8.RuneLen(replacementChar))
		utf8.EncodeRune(buf, replacementChar)
		return buf
	}
}
