package formulon

import "math"

// file eval.go is the evaluator (spec.md §4.7): a pure recursive tree walk
// with no side effects and no error return, grounded on the teacher's
// (inter Interpreter) eval dispatch in internal/tunascript/eval.go, which
// likewise switches on which pointer field of a tagged node is populated
// and recurses into children before calling the node's operation.

// Eval evaluates a compiled AST and returns its numeric result. It never
// errors: a malformed or absent subtree yields NaN (spec.md §4.7, §7),
// matching the library's policy that only compilation can fail.
//
// Argument evaluation is strictly left-to-right; short-circuiting of
// &&/||/^^ is deliberately not performed (spec.md §4.7) — both operands are
// always evaluated before booleanization.
func Eval(n *Node) float64 {
	if n == nil {
		return math.NaN()
	}

	switch n.Kind {
	case KindConstant:
		return n.Value

	case KindVariable:
		if n.Ref == nil {
			return math.NaN()
		}
		return *n.Ref

	case KindFunction:
		arity := len(n.Args)
		if arity < 0 || arity > 7 {
			return math.NaN()
		}

		args := make([]float64, arity)
		for i, c := range n.Args {
			args[i] = Eval(c)
		}

		if n.IsClosure {
			if n.ClosureFn == nil {
				return math.NaN()
			}
			return n.ClosureFn(n.Ctx, args)
		}
		if n.Fn == nil {
			return math.NaN()
		}
		return n.Fn(args)

	default:
		return math.NaN()
	}
}
