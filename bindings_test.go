package formulon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Bindings_scopingWithoutRecompilation(t *testing.T) {
	assert := assert.New(t)

	x := 2.0
	b := NewBindings().Variable("x", &x)

	ast, err := Compile("x*x", b)
	assert.NoError(err)
	defer Free(ast)

	assert.Equal(4.0, Eval(ast))

	x = 10
	assert.Equal(100.0, Eval(ast))
}

func Test_Bindings_firstMatchWins(t *testing.T) {
	assert := assert.New(t)

	a := 1.0
	bVal := 2.0
	b := NewBindings().Variable("x", &a).Variable("x", &bVal)

	ast, err := Compile("x", b)
	assert.NoError(err)
	defer Free(ast)

	assert.Equal(1.0, Eval(ast))
}

func Test_Bindings_functionArityOutOfRangePanics(t *testing.T) {
	assert := assert.New(t)

	fn := func(args []float64) float64 { return 0 }

	assert.Panics(func() {
		NewBindings().Function("bad", 8, fn, true)
	})
	assert.Panics(func() {
		NewBindings().Function("bad", -1, fn, true)
	})
}

func Test_Bindings_impureFunctionNotFolded(t *testing.T) {
	assert := assert.New(t)

	calls := 0
	counter := func(args []float64) float64 {
		calls++
		return float64(calls)
	}

	b := NewBindings().Function("next", 0, counter, false)

	ast, err := Compile("next()", b)
	assert.NoError(err)
	defer Free(ast)

	// an impure nullary function must not have been folded away by the
	// optimizer: every Eval should observe another call.
	assert.Equal(KindFunction, ast.Kind)
	assert.Equal(1.0, Eval(ast))
	assert.Equal(2.0, Eval(ast))
}
