// Package formulon parses, optimizes, and evaluates mathematical
// expressions written as textual infix formulae over float64, given an
// optional table of host-provided bindings (scalar variables, 0..7-ary
// functions, and closures carrying host context).
//
// A single call to Interp parses, optimizes, evaluates, and frees an
// expression in one step. Compile instead returns a reusable AST: callers
// that want to re-evaluate an expression cheaply as bound scalars change
// should Compile once and call Eval repeatedly, calling Free exactly once
// on the root when done.
package formulon

import "math"

// Compile parses text against bindings (which may be nil for an
// expression with no host-provided names), applies the requested options,
// and constant-folds the result. The returned AST must be released with a
// single call to Free. On error the returned AST is nil; use ErrorIndex to
// recover the 1-based character offset spec.md §6 specifies.
func Compile(text string, bindings *Bindings, opts ...Option) (*Node, error) {
	o := resolveOptions(opts...)
	p := newParser(text, bindings, o)
	ast, err := p.parseProgram()
	if err != nil {
		return nil, err
	}
	return Optimize(ast), nil
}

// Interp compiles, evaluates, and frees text in one step. On error it
// returns NaN; use ErrorIndex to recover the character offset.
func Interp(text string, bindings *Bindings, opts ...Option) (float64, error) {
	ast, err := Compile(text, bindings, opts...)
	if err != nil {
		return math.NaN(), err
	}
	v := Eval(ast)
	Free(ast)
	return v, nil
}

// ErrorIndex translates an error returned by Compile or Interp into the
// language-neutral error-index convention of spec.md §6: 0 on success, -1
// on allocation or catastrophic failure, otherwise the 1-based character
// offset into the input at which parsing stopped.
func ErrorIndex(err error) int {
	if err == nil {
		return 0
	}
	if se, ok := err.(SyntaxError); ok {
		return se.Offset()
	}
	return -1
}
