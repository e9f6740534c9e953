package formulon

// file options.go holds the compile-time options enumerated in spec.md §6.
// They are resolved once per Compile/Interp call (not a global build
// switch) so a single host process can use both associativity conventions
// side by side if it needs to.

// Options controls parser and builtin-registry behavior for a single
// Compile or Interp call.
type Options struct {
	// ExponentLeftAssoc selects left-associative `**` (a**b**c = (a**b)**c,
	// -a**b = (-a)**b) instead of the default right-associative behavior
	// (a**b**c = a**(b**c), -a**b = -(a**b)).
	ExponentLeftAssoc bool

	// LogIsNatural makes the builtin name "log" resolve to natural log
	// instead of base-10 log.
	LogIsNatural bool
}

// Option configures an Options value. The zero Options (right-associative
// `**`, base-10 `log`) is the specification's default.
type Option func(*Options)

// WithLeftAssocExponent selects left-associative `**`.
func WithLeftAssocExponent() Option {
	return func(o *Options) { o.ExponentLeftAssoc = true }
}

// WithNaturalLog makes "log" resolve to natural log instead of base-10.
func WithNaturalLog() Option {
	return func(o *Options) { o.LogIsNatural = true }
}

func resolveOptions(opts ...Option) Options {
	var o Options
	for _, apply := range opts {
		apply(&o)
	}
	return o
}
