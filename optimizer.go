package formulon

// file optimizer.go is the constant-folding pass (spec.md §4.6): a
// post-order traversal that replaces any pure Function/Closure node whose
// children have all folded to Constant with a Constant node carrying the
// evaluated value. Variable and Constant nodes are never rewritten, and
// impure nodes are never folded. There is no teacher analogue for a
// folding pass (tunascript evaluates eagerly, with no separate optimize
// step); this is a straightforward post-order AST mutation in the same
// pointer-owns-children style as the rest of the package.

// Optimize folds n in place (and returns it): every pure KindFunction node
// whose arguments have all become KindConstant after folding its own
// children is evaluated immediately, its children freed, and the node
// itself rewritten into a KindConstant carrying the result. The returned
// pointer is always n (or nil if n is nil); Optimize never allocates a
// replacement node, so a caller holding a reference to an ancestor node
// observes the fold through its existing Args slot.
func Optimize(n *Node) *Node {
	if n == nil {
		return nil
	}
	if n.Kind != KindFunction {
		return n
	}

	for i, c := range n.Args {
		n.Args[i] = Optimize(c)
	}

	if !n.Pure {
		return n
	}

	args := make([]float64, len(n.Args))
	for i, c := range n.Args {
		if c.Kind != KindConstant {
			return n
		}
		args[i] = c.Value
	}

	var result float64
	if n.IsClosure {
		if n.ClosureFn == nil {
			return n
		}
		result = n.ClosureFn(n.Ctx, args)
	} else {
		if n.Fn == nil {
			return n
		}
		result = n.Fn(args)
	}

	for _, c := range n.Args {
		Free(c)
	}

	n.Kind = KindConstant
	n.Value = result
	n.Args = nil
	n.Fn = nil
	n.ClosureFn = nil
	n.Ctx = nil
	n.Ref = nil
	n.Name = ""
	n.Op = OpNone
	n.IsClosure = false
	n.Pure = false

	return n
}
