package formulon

// file diff.go is the symbolic differentiator (spec.md §4.8): given a
// compiled AST and a target host scalar, it produces a new AST for the
// partial derivative with respect to that scalar using the calculus
// identities spec.md §4.8 lists, over only the operator subset it names
// (+, -, unary -, *, /, **, sin, cos, ln, exp). Everything else — bitwise,
// comparison, logical, factorial-family, min/max, and any host-registered
// function or closure taking arguments — is explicitly unsupported and
// reported via
// DifferentiationError, per spec.md §9's design note that this is a
// narrow, clearly-bounded pass rather than a general CAS.
//
// There's no teacher analogue for symbolic differentiation; this is built
// directly from the calculus identities spec.md §4.8 specifies, using the
// same node constructors and operator Funcs (binaryOpFunc/unaryOpFunc,
// builtinRegistry) as the rest of the package so a derivative tree behaves
// identically to one the parser would have produced.

// Differentiate produces ∂ast/∂target as a new, independently-freeable AST,
// optimized before being returned (spec.md §4.8: "The result is passed
// through the optimizer before returning"). ast itself is left untouched.
// target identifies the scalar to differentiate with respect to — it must
// be the same *float64 used by the Variable binding in question.
func Differentiate(ast *Node, target *float64) (*Node, error) {
	d, err := diffNode(ast, target)
	if err != nil {
		Free(d)
		return nil, err
	}
	return Optimize(d), nil
}

func builtinFn(name string) Func {
	e, _ := lookupBuiltin(name, Options{})
	return e.fn
}

func mkUnary(op OperatorID, name string, fn Func, arg *Node) *Node {
	return NewFunction(op, name, true, fn, arg)
}

func mkBinary(op OperatorID, a, b *Node) *Node {
	return NewFunction(op, operatorSymbol(op), true, binaryOpFunc(op), a, b)
}

// diffBothOrFree differentiates a and b in turn, freeing the first result
// if the second differentiation fails, so callers never leak a partially
// built derivative on error.
func diffBothOrFree(a, b *Node, target *float64) (*Node, *Node, error) {
	ap, err := diffNode(a, target)
	if err != nil {
		return nil, nil, err
	}
	bp, err := diffNode(b, target)
	if err != nil {
		Free(ap)
		return nil, nil, err
	}
	return ap, bp, nil
}

func diffNode(n *Node, target *float64) (*Node, error) {
	if n == nil {
		return NewConstant(0), nil
	}

	switch n.Kind {
	case KindConstant:
		return NewConstant(0), nil

	case KindVariable:
		if n.Ref == target {
			return NewConstant(1), nil
		}
		return NewConstant(0), nil

	case KindFunction:
		return diffFunction(n, target)

	default:
		return NewConstant(0), nil
	}
}

func diffFunction(n *Node, target *float64) (*Node, error) {
	if len(n.Args) == 0 {
		// nullary function (e.g. pi, e, or a host Function-0): constant
		// with respect to every variable (spec.md §4.8).
		return NewConstant(0), nil
	}

	switch n.Op {
	case OpAdd:
		up, vp, err := diffBothOrFree(n.Args[0], n.Args[1], target)
		if err != nil {
			return nil, err
		}
		return mkBinary(OpAdd, up, vp), nil

	case OpSub:
		up, vp, err := diffBothOrFree(n.Args[0], n.Args[1], target)
		if err != nil {
			return nil, err
		}
		return mkBinary(OpSub, up, vp), nil

	case OpNeg:
		up, err := diffNode(n.Args[0], target)
		if err != nil {
			return nil, err
		}
		return mkUnary(OpNeg, "-", unaryOpFunc(OpNeg), up), nil

	case OpMul:
		// d/dx(u*v) = u'*v + v'*u
		up, err := diffNode(n.Args[0], target)
		if err != nil {
			return nil, err
		}
		vCopy := DeepCopy(n.Args[1])
		term1 := mkBinary(OpMul, up, vCopy)

		vp, err := diffNode(n.Args[1], target)
		if err != nil {
			Free(term1)
			return nil, err
		}
		uCopy := DeepCopy(n.Args[0])
		term2 := mkBinary(OpMul, vp, uCopy)

		return mkBinary(OpAdd, term1, term2), nil

	case OpDiv:
		// d/dx(u/v) = (u'*v - v'*u) / v^2
		up, err := diffNode(n.Args[0], target)
		if err != nil {
			return nil, err
		}
		vCopyA := DeepCopy(n.Args[1])
		term1 := mkBinary(OpMul, up, vCopyA)

		vp, err := diffNode(n.Args[1], target)
		if err != nil {
			Free(term1)
			return nil, err
		}
		uCopy := DeepCopy(n.Args[0])
		term2 := mkBinary(OpMul, vp, uCopy)

		numerator := mkBinary(OpSub, term1, term2)
		denom := mkBinary(OpMul, DeepCopy(n.Args[1]), DeepCopy(n.Args[1]))
		return mkBinary(OpDiv, numerator, denom), nil

	case OpPow:
		// d/dx(u**v) = u**v * (u'*v/u + v'*ln(u))
		powCopy := DeepCopy(n)

		up, err := diffNode(n.Args[0], target)
		if err != nil {
			Free(powCopy)
			return nil, err
		}
		termA := mkBinary(OpDiv, mkBinary(OpMul, up, DeepCopy(n.Args[1])), DeepCopy(n.Args[0]))

		vp, err := diffNode(n.Args[1], target)
		if err != nil {
			Free(powCopy)
			Free(termA)
			return nil, err
		}
		lnU := mkUnary(OpLn, "ln", builtinFn("ln"), DeepCopy(n.Args[0]))
		termB := mkBinary(OpMul, vp, lnU)

		inner := mkBinary(OpAdd, termA, termB)
		return mkBinary(OpMul, powCopy, inner), nil

	case OpSin:
		// d/dx(sin u) = cos(u) * u'
		cosU := mkUnary(OpCos, "cos", builtinFn("cos"), DeepCopy(n.Args[0]))
		up, err := diffNode(n.Args[0], target)
		if err != nil {
			Free(cosU)
			return nil, err
		}
		return mkBinary(OpMul, cosU, up), nil

	case OpCos:
		// d/dx(cos u) = -sin(u) * u'
		sinU := mkUnary(OpSin, "sin", builtinFn("sin"), DeepCopy(n.Args[0]))
		up, err := diffNode(n.Args[0], target)
		if err != nil {
			Free(sinU)
			return nil, err
		}
		return mkUnary(OpNeg, "-", unaryOpFunc(OpNeg), mkBinary(OpMul, sinU, up)), nil

	case OpLn:
		// d/dx(ln u) = u' / u
		up, err := diffNode(n.Args[0], target)
		if err != nil {
			return nil, err
		}
		return mkBinary(OpDiv, up, DeepCopy(n.Args[0])), nil

	case OpExp:
		// d/dx(exp u) = exp(u) * u'
		expCopy := DeepCopy(n)
		up, err := diffNode(n.Args[0], target)
		if err != nil {
			Free(expCopy)
			return nil, err
		}
		return mkBinary(OpMul, expCopy, up), nil

	default:
		return nil, DifferentiationError{Operator: diffOperatorName(n)}
	}
}

func diffOperatorName(n *Node) string {
	if n.Name != "" {
		return n.Name
	}
	return operatorSymbol(n.Op)
}
