package formulon

import "fmt"

// file ast.go contains the tagged AST node type (spec.md §3) and the node
// allocation helpers (spec.md §4.3). A node is an explicit sum type
// discriminated by Kind; only the fields relevant to that Kind are
// populated. This mirrors the teacher's pointer-per-variant astNode
// (internal/tunascript/ast.go) but collapses Function and Closure into one
// Kind carrying an erased function object plus an arity discriminator
// (spec.md §9, "uniform function pointer union" design note), since both
// variants are evaluated, printed, and constant-folded identically and
// differ only in whether a host context is prepended at call time.

// Kind is the tag of an AST node.
type Kind int

const (
	// KindConstant nodes hold a literal float64 and have no children.
	KindConstant Kind = iota

	// KindVariable nodes hold a read-only reference to a host-owned scalar
	// and have no children.
	KindVariable

	// KindFunction nodes hold an operator/function identity, an arity-many
	// list of children, and the callable used to evaluate them. This
	// covers builtin operators (+, -, **, ...), builtin math functions
	// (sin, gcd, ...), host-registered functions, and host closures.
	KindFunction
)

func (k Kind) String() string {
	switch k {
	case KindConstant:
		return "Constant"
	case KindVariable:
		return "Variable"
	case KindFunction:
		return "Function"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// OperatorID identifies which specific operator or builtin a KindFunction
// node represents. It exists purely so the optimizer, printer, and symbolic
// differentiator can recognize known identities without inspecting the
// erased Go function value; evaluation itself never switches on it (eval.go
// always dispatches through the node's Fn/ClosureFn).
//
// OpNone marks a node built from a host-registered Function-N or Closure-N
// binding: the differentiator cannot know its calculus identity and the
// printer falls back to printing Name.
type OperatorID int

const (
	OpNone OperatorID = iota

	// arithmetic and comparison infix operators (spec.md §4.5)
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpPow
	OpEq
	OpNeq
	OpLt
	OpLte
	OpGt
	OpGte

	// logical infix operators
	OpLogAnd
	OpLogOr
	OpLogXor

	// bitwise infix operators
	OpShl
	OpShr
	OpBAnd
	OpBOr
	OpBXor

	// folded unary operators (spec.md §4.4)
	OpNeg
	OpLogNot
	OpLogNotNot
	OpNegLogNot
	OpNegLogNotNot
	OpBNot
	OpBNotNot

	// nullary builtin constants (spec.md §4.1)
	OpPi
	OpE

	// arity-1 builtins
	OpAbs
	OpAcos
	OpAsin
	OpAtan
	OpCbrt
	OpCeil
	OpCos
	OpCosh
	OpExp
	OpFac
	OpFloor
	OpGamma
	OpLn
	OpLog10
	OpLog2
	OpSin
	OpSinh
	OpSqrt
	OpTan
	OpTanh

	// arity-2 builtins
	OpAtan2
	OpGcd
	OpMax
	OpMin
	OpNcr
	OpNpr

	// OpComma represents a parenthesized comma-sequence (spec.md §4.4
	// "list" production): it evaluates every child left-to-right and
	// returns the value of the last one (spec.md §9).
	OpComma
)

// Func is the signature of a pure or host-impure Function-N binding, erased
// to a single shape regardless of declared arity: it receives exactly len
// arguments, one per declared parameter.
type Func func(args []float64) float64

// ClosureFunc is the signature of a host Closure-N binding: like Func, but
// receives the closure's opaque host context as its first parameter.
type ClosureFunc func(ctx any, args []float64) float64

// Node is a single AST node. Its zero value is not meaningful; construct
// nodes with NewConstant, NewVariable, NewFunction, or NewClosure.
//
// A non-leaf node exclusively owns its Args; Free recursively releases them.
// A Variable node does not own the scalar Ref points to, and a closure node
// does not own Ctx — both are borrowed from the host for at least the
// lifetime of the tree (spec.md §5).
type Node struct {
	Kind Kind

	// Value is meaningful only when Kind == KindConstant.
	Value float64

	// Ref is meaningful only when Kind == KindVariable. It is a borrowed
	// reference to a host-owned scalar; dereferencing it at eval time
	// always observes the current value, which is how rebinding without
	// recompilation (spec.md §9) works.
	Ref *float64

	// The following are meaningful only when Kind == KindFunction.

	Op   OperatorID
	Name string
	Args []*Node
	Pure bool

	IsClosure bool
	Fn        Func        // populated when !IsClosure
	ClosureFn ClosureFunc // populated when IsClosure
	Ctx       any         // only meaningful when IsClosure; borrowed from host
}

// Arity returns the number of children of a KindFunction node. It is always
// len(Args); Constant and Variable nodes have arity 0 and no Args slice.
func (n *Node) Arity() int {
	return len(n.Args)
}

// NewConstant allocates a leaf node holding a literal value.
func NewConstant(v float64) *Node {
	return &Node{Kind: KindConstant, Value: v}
}

// NewVariable allocates a leaf node referencing a host-owned scalar. ref must
// outlive the returned node.
func NewVariable(ref *float64) *Node {
	return &Node{Kind: KindVariable, Ref: ref}
}

// NewFunction allocates a pure-or-impure Function-N node of declared arity
// len(args), identified for printing/differentiation purposes by op and
// name. fn is called with exactly len(args) evaluated arguments at eval
// time.
func NewFunction(op OperatorID, name string, pure bool, fn Func, args ...*Node) *Node {
	return &Node{
		Kind: KindFunction,
		Op:   op,
		Name: name,
		Args: args,
		Pure: pure,
		Fn:   fn,
	}
}

// NewClosure allocates a Closure-N node. fn is called at eval time with ctx
// prepended to the len(args) evaluated arguments. ctx must outlive the
// returned node.
func NewClosure(op OperatorID, name string, pure bool, fn ClosureFunc, ctx any, args ...*Node) *Node {
	return &Node{
		Kind:      KindFunction,
		Op:        op,
		Name:      name,
		Args:      args,
		Pure:      pure,
		IsClosure: true,
		ClosureFn: fn,
		Ctx:       ctx,
	}
}

// Free releases n and, recursively, every node it exclusively owns. Freeing
// a nil root is a no-op. Freeing the same root twice is undefined, per
// spec.md §5.
func Free(n *Node) {
	if n == nil {
		return
	}
	for _, c := range n.Args {
		Free(c)
	}
	n.Args = nil
	n.Fn = nil
	n.ClosureFn = nil
	n.Ref = nil
	n.Ctx = nil
}

// DeepCopy recursively clones an AST. The clone is independent of the
// original (freeing one does not affect the other) but shares the same
// borrowed Variable references and closure contexts, since those are never
// owned by the tree. DeepCopy preserves equality of evaluation under all
// bindings.
func DeepCopy(n *Node) *Node {
	if n == nil {
		return nil
	}

	cp := *n
	if n.Args != nil {
		cp.Args = make([]*Node, len(n.Args))
		for i, c := range n.Args {
			cp.Args[i] = DeepCopy(c)
		}
	}
	return &cp
}
