package formulon

import (
	"strconv"
)

// file lexer.go streams one token per call from an input string (spec.md
// §4.2), grounded on the teacher's internal/tunascript/lexer.go state
// machine — a matchRule table driving a small lexMode, here simplified to
// a single hand-written scan function since formulon's token set has none
// of tunascript's string-interpolation or flag-reference modes.

// tokenKind tags a lexer token (spec.md §3).
type tokenKind int

const (
	tokNumber tokenKind = iota
	tokVariable
	tokFunction
	tokClosure
	tokInfix
	tokOpen
	tokClose
	tokSep
	tokEnd
	tokError
)

// token is a single lexer output. Only the fields relevant to Kind are
// populated, mirroring the payload table in spec.md §3.
type token struct {
	kind tokenKind
	pos  int // 1-based character offset where the token begins

	value float64 // tokNumber

	ref *float64 // tokVariable

	name      string      // tokFunction, tokClosure
	arity     int         // tokFunction, tokClosure
	pure      bool        // tokFunction, tokClosure
	op        OperatorID  // tokFunction, tokClosure: OpNone for host bindings
	fn        Func        // tokFunction
	closureFn ClosureFunc // tokClosure
	ctx       any         // tokClosure

	symbol string // tokInfix: the exact operator spelling matched

	message string // tokError
}

// twoCharOps must be checked before single-char operators so that e.g. `**`
// is not lexed as two `*` tokens. "<>" is the spec-mandated alias for "!=".
var twoCharOps = []string{"**", "==", "!=", "<=", ">=", "<<", ">>", "&&", "||", "^^", "<>"}

var singleCharOps = map[rune]bool{
	'+': true, '-': true, '*': true, '/': true, '%': true,
	'~': true, '!': true, '&': true, '|': true, '^': true,
	'<': true, '>': true,
}

type lexer struct {
	input    []rune
	offset   int // 0-based index of the next unconsumed rune
	bindings *Bindings
	opts     Options
}

func newLexer(input string, bindings *Bindings, opts Options) *lexer {
	return &lexer{input: []rune(input), bindings: bindings, opts: opts}
}

func (l *lexer) pos() int {
	return l.offset + 1
}

func (l *lexer) peekAt(i int) (rune, bool) {
	idx := l.offset + i
	if idx < 0 || idx >= len(l.input) {
		return 0, false
	}
	return l.input[idx], true
}

func (l *lexer) skipWhitespace() {
	for {
		c, ok := l.peekAt(0)
		if !ok {
			return
		}
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' {
			l.offset++
			continue
		}
		return
	}
}

// next returns the next token. After an End token has been returned,
// subsequent calls keep returning End. An Error token consumes the
// offending text, so the call after it scans whatever follows.
func (l *lexer) next() token {
	l.skipWhitespace()

	start := l.pos()

	c, ok := l.peekAt(0)
	if !ok {
		// Point at the last character of input rather than one past it, so
		// "dangling operator" errors (e.g. "1+") report the position of
		// the operator itself rather than of end-of-string. Empty input
		// has no last character, so it falls back to 1 (spec.md §6: "The
		// offset is 1 for inputs that fail at the first character
		// (including empty input)").
		endPos := len(l.input)
		if endPos == 0 {
			endPos = 1
		}
		return token{kind: tokEnd, pos: endPos}
	}

	switch {
	case isDigit(c) || c == '.':
		return l.lexNumber()
	case isIdentStart(c):
		return l.lexIdent()
	case c == '(':
		l.offset++
		return token{kind: tokOpen, pos: start}
	case c == ')':
		l.offset++
		return token{kind: tokClose, pos: start}
	case c == ',':
		l.offset++
		return token{kind: tokSep, pos: start}
	}

	// two-character operators, longest-match first.
	if next, ok := l.peekAt(1); ok {
		two := string([]rune{c, next})
		for _, op := range twoCharOps {
			if op == two {
				l.offset += 2
				return token{kind: tokInfix, pos: start, symbol: two}
			}
		}
	}

	if c == '=' {
		// a lone '=' is not a valid operator (spec.md §4.2).
		l.offset++
		return token{kind: tokError, pos: start, message: "unexpected character '='"}
	}

	if singleCharOps[c] {
		l.offset++
		return token{kind: tokInfix, pos: start, symbol: string(c)}
	}

	l.offset++
	return token{kind: tokError, pos: start, message: "unexpected character " + strconv.QuoteRune(c)}
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isIdentCont(c rune) bool {
	return isIdentStart(c) || isDigit(c)
}

// lexNumber scans any lexeme parseable by a standard double parser
// (decimal and exponent forms), per spec.md §4.2.
func (l *lexer) lexNumber() token {
	start := l.pos()
	startOffset := l.offset

	for {
		c, ok := l.peekAt(0)
		if !ok || !isDigit(c) {
			break
		}
		l.offset++
	}

	if c, ok := l.peekAt(0); ok && c == '.' {
		l.offset++
		for {
			c, ok := l.peekAt(0)
			if !ok || !isDigit(c) {
				break
			}
			l.offset++
		}
	}

	if c, ok := l.peekAt(0); ok && (c == 'e' || c == 'E') {
		save := l.offset
		l.offset++
		if c, ok := l.peekAt(0); ok && (c == '+' || c == '-') {
			l.offset++
		}
		digits := 0
		for {
			c, ok := l.peekAt(0)
			if !ok || !isDigit(c) {
				break
			}
			l.offset++
			digits++
		}
		if digits == 0 {
			// not actually an exponent suffix; back out of it.
			l.offset = save
		}
	}

	lexeme := string(l.input[startOffset:l.offset])
	v, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		return token{kind: tokError, pos: start, message: "malformed number literal " + strconv.Quote(lexeme)}
	}
	return token{kind: tokNumber, pos: start, value: v}
}

// lexIdent scans [A-Za-z_][A-Za-z0-9_]* and resolves it against the host
// bindings (linear scan, exact match) and then the builtin registry (binary
// search, exact match), per spec.md §4.2.
func (l *lexer) lexIdent() token {
	start := l.pos()
	startOffset := l.offset

	l.offset++ // isIdentStart already confirmed
	for {
		c, ok := l.peekAt(0)
		if !ok || !isIdentCont(c) {
			break
		}
		l.offset++
	}

	name := string(l.input[startOffset:l.offset])

	if b, ok := l.bindings.lookup(name); ok {
		switch b.Kind {
		case BindingVariable:
			return token{kind: tokVariable, pos: start, ref: b.Ref}
		case BindingFunction:
			return token{kind: tokFunction, pos: start, name: name, arity: b.Arity, pure: b.Pure, fn: b.Fn, op: OpNone}
		case BindingClosure:
			return token{kind: tokClosure, pos: start, name: name, arity: b.Arity, pure: b.Pure, closureFn: b.ClosureFn, ctx: b.Ctx, op: OpNone}
		}
	}

	if bi, ok := lookupBuiltin(name, l.opts); ok {
		return token{kind: tokFunction, pos: start, name: name, arity: bi.arity, pure: true, fn: bi.fn, op: bi.op}
	}

	return token{kind: tokError, pos: start, message: "unknown name " + strconv.Quote(name)}
}

// isInfixSymbol reports whether sym is one of the single- or two-character
// operator spellings next can produce. Nothing in the package calls it.
func isInfixSymbol(sym string) bool {
	if len(sym) == 1 {
		r := []rune(sym)[0]
		return singleCharOps[r]
	}
	for _, op := range twoCharOps {
		if op == sym {
			return true
		}
	}
	return false
}
