package formulon

import (
	"math"
	"sort"
)

// file builtins.go is the builtin registry (spec.md §4.1): a sorted,
// immutable table of standard functions and constants, looked up by exact
// case-sensitive name via binary search, grounded on the teacher's
// tunascript/syntax/builtins.go BuiltInFunctions table (a sorted-by-
// convention name→metadata map) and internal/tunascript/builtins.go's free
// functions implementing each one.

// builtinEntry describes one registry entry: its name, declared arity, the
// OperatorID used to recognize it for printing and differentiation, and the
// Func that implements it. All builtins are pure (spec.md §4.1).
type builtinEntry struct {
	name  string
	arity int
	op    OperatorID
	fn    Func
}

// builtinRegistry is sorted by name so lookupBuiltin can binary-search it.
// "log" is deliberately absent: its resolution depends on the log_is_natural
// compile option (spec.md §4.1, §6) and is handled separately by
// lookupBuiltin.
var builtinRegistry = buildSortedRegistry([]builtinEntry{
	{"abs", 1, OpAbs, func(a []float64) float64 { return math.Abs(a[0]) }},
	{"acos", 1, OpAcos, func(a []float64) float64 { return math.Acos(a[0]) }},
	{"asin", 1, OpAsin, func(a []float64) float64 { return math.Asin(a[0]) }},
	{"atan", 1, OpAtan, func(a []float64) float64 { return math.Atan(a[0]) }},
	{"atan2", 2, OpAtan2, func(a []float64) float64 { return math.Atan2(a[0], a[1]) }},
	{"cbrt", 1, OpCbrt, func(a []float64) float64 { return math.Cbrt(a[0]) }},
	{"ceil", 1, OpCeil, func(a []float64) float64 { return math.Ceil(a[0]) }},
	{"cos", 1, OpCos, func(a []float64) float64 { return math.Cos(a[0]) }},
	{"cosh", 1, OpCosh, func(a []float64) float64 { return math.Cosh(a[0]) }},
	{"e", 0, OpE, func(a []float64) float64 { return math.E }},
	{"exp", 1, OpExp, func(a []float64) float64 { return math.Exp(a[0]) }},
	{"fac", 1, OpFac, func(a []float64) float64 { return fac(a[0]) }},
	{"floor", 1, OpFloor, func(a []float64) float64 { return math.Floor(a[0]) }},
	{"gamma", 1, OpGamma, func(a []float64) float64 { return math.Gamma(a[0]) }},
	{"gcd", 2, OpGcd, func(a []float64) float64 { return gcd(a[0], a[1]) }},
	{"ln", 1, OpLn, func(a []float64) float64 { return math.Log(a[0]) }},
	{"log10", 1, OpLog10, func(a []float64) float64 { return math.Log10(a[0]) }},
	{"log2", 1, OpLog2, func(a []float64) float64 { return math.Log2(a[0]) }},
	{"max", 2, OpMax, func(a []float64) float64 { return math.Max(a[0], a[1]) }},
	{"min", 2, OpMin, func(a []float64) float64 { return math.Min(a[0], a[1]) }},
	{"mod", 2, OpMod, func(a []float64) float64 { return math.Mod(a[0], a[1]) }},
	{"ncr", 2, OpNcr, func(a []float64) float64 { return ncr(a[0], a[1]) }},
	{"npr", 2, OpNpr, func(a []float64) float64 { return ncr(a[0], a[1]) * fac(a[1]) }},
	{"pi", 0, OpPi, func(a []float64) float64 { return math.Pi }},
	{"pow", 2, OpPow, func(a []float64) float64 { return math.Pow(a[0], a[1]) }},
	{"sin", 1, OpSin, func(a []float64) float64 { return math.Sin(a[0]) }},
	{"sinh", 1, OpSinh, func(a []float64) float64 { return math.Sinh(a[0]) }},
	{"sqrt", 1, OpSqrt, func(a []float64) float64 { return math.Sqrt(a[0]) }},
	{"tan", 1, OpTan, func(a []float64) float64 { return math.Tan(a[0]) }},
	{"tanh", 1, OpTanh, func(a []float64) float64 { return math.Tanh(a[0]) }},
})

// logBase10Entry and logNaturalEntry are the two candidate bindings for the
// name "log"; lookupBuiltin picks one based on Options.LogIsNatural.
var (
	logBase10Entry = builtinEntry{"log", 1, OpLog10, func(a []float64) float64 { return math.Log10(a[0]) }}
	logNaturalEntry = builtinEntry{"log", 1, OpLn, func(a []float64) float64 { return math.Log(a[0]) }}
)

func buildSortedRegistry(entries []builtinEntry) []builtinEntry {
	sort.Slice(entries, func(i, j int) bool { return entries[i].name < entries[j].name })
	return entries
}

// lookupBuiltin resolves name against the builtin registry, honoring the
// log_is_natural compile option for the special-cased "log" name. It
// reports ok=false if name is not a builtin.
func lookupBuiltin(name string, opts Options) (builtinEntry, bool) {
	if name == "log" {
		if opts.LogIsNatural {
			return logNaturalEntry, true
		}
		return logBase10Entry, true
	}

	i := sort.Search(len(builtinRegistry), func(i int) bool {
		return builtinRegistry[i].name >= name
	})
	if i < len(builtinRegistry) && builtinRegistry[i].name == name {
		return builtinRegistry[i], true
	}
	return builtinEntry{}, false
}

// fac implements the factorial/gamma contract spec.md §4.1 requires
// documented: NaN for a < 0, 1 for a == 0, and Gamma(a+1) for a > 0
// (covering both integer factorials and the gamma-extension for
// non-integer a, with +Inf on overflow falling out of math.Gamma itself).
// See DESIGN.md for why this choice was made over the "a>0 guard, NaN
// otherwise for non-integers" alternative spec.md §9 also allows.
func fac(a float64) float64 {
	if a < 0 {
		return math.NaN()
	}
	if a == 0 {
		return 1
	}
	return math.Gamma(a + 1)
}

const maxUint32AsFloat = float64(1<<32 - 1)

// ncr implements the integer binomial coefficient contract of spec.md §4.1.
func ncr(n, r float64) float64 {
	if n < 0 || r < 0 || n < r {
		return math.NaN()
	}
	if n > maxUint32AsFloat || r > maxUint32AsFloat {
		return math.Inf(1)
	}

	un := uint64(n)
	ur := uint64(r)
	if ur > un/2 {
		ur = un - ur
	}

	var result uint64 = 1
	for i := uint64(1); i <= ur; i++ {
		term := un - ur + i
		if result > math.MaxUint64/term {
			return math.Inf(1)
		}
		result = result * term / i
	}
	return float64(result)
}

// gcd implements the Euclidean algorithm over the truncated-to-unsigned
// representations of x and y, per spec.md §4.1.
func gcd(x, y float64) float64 {
	a := uint64(x)
	b := uint64(y)
	for b != 0 {
		a, b = b, a%b
	}
	return float64(a)
}
