package formulon

import "fmt"

// file bindings.go is the host binding table (spec.md §3 "Binding table",
// §6 "Binding entry format"): the ordered list of host-provided names a
// compile call consults, in kind groups Variable / Function-N / Closure-N.
// Grounded on the teacher's Interpreter.fn map construction in
// tunascript.go and tunascript/functions.go, but kept as an ordered slice
// rather than a map because spec.md §4.2 requires resolving identifiers
// against the bindings via "linear scan, exact full-name match" before
// falling back to the (binary-searched) builtin registry.

// BindingKind selects which of the three binding shapes an entry is.
type BindingKind int

const (
	BindingVariable BindingKind = iota
	BindingFunction
	BindingClosure
)

// Binding is one entry of the host binding table.
type Binding struct {
	Name string
	Kind BindingKind

	// Ref is populated for BindingVariable: a stable reference to a
	// host-owned double.
	Ref *float64

	// Arity, Pure are populated for BindingFunction and BindingClosure.
	Arity int
	Pure  bool

	// Fn is populated for BindingFunction.
	Fn Func

	// ClosureFn and Ctx are populated for BindingClosure: ctx must outlive
	// any AST built from this binding.
	ClosureFn ClosureFunc
	Ctx       any
}

// Bindings is the ordered table of host-provided names consulted when
// compiling an expression. The zero value is an empty table ready to use.
type Bindings struct {
	entries []Binding
}

// NewBindings returns an empty binding table.
func NewBindings() *Bindings {
	return &Bindings{}
}

// Variable registers name as a reference to a host-owned scalar. ref must
// outlive any AST compiled against this table.
func (b *Bindings) Variable(name string, ref *float64) *Bindings {
	b.entries = append(b.entries, Binding{Name: name, Kind: BindingVariable, Ref: ref})
	return b
}

// Function registers name as a Function-N binding of the given arity
// (0..7). pure marks it eligible for constant folding; builtins are always
// pure, host functions default to impure unless the host says otherwise
// (spec.md §3).
func (b *Bindings) Function(name string, arity int, fn Func, pure bool) *Bindings {
	if arity < 0 || arity > 7 {
		panic(fmt.Sprintf("formulon: binding %q: arity %d out of range [0,7]", name, arity))
	}
	b.entries = append(b.entries, Binding{Name: name, Kind: BindingFunction, Arity: arity, Fn: fn, Pure: pure})
	return b
}

// Closure registers name as a Closure-N binding of the given arity (0..7).
// ctx must outlive any AST compiled against this table; fn receives ctx as
// its first argument at eval time.
func (b *Bindings) Closure(name string, arity int, fn ClosureFunc, ctx any, pure bool) *Bindings {
	if arity < 0 || arity > 7 {
		panic(fmt.Sprintf("formulon: binding %q: arity %d out of range [0,7]", name, arity))
	}
	b.entries = append(b.entries, Binding{Name: name, Kind: BindingClosure, Arity: arity, ClosureFn: fn, Ctx: ctx, Pure: pure})
	return b
}

// lookup resolves name against the table via linear scan with exact
// full-name match, per spec.md §4.2. The first matching entry wins.
func (b *Bindings) lookup(name string) (Binding, bool) {
	if b == nil {
		return Binding{}, false
	}
	for _, e := range b.entries {
		if e.Name == name {
			return e, true
		}
	}
	return Binding{}, false
}
