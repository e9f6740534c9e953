package formulon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Eval_nilSubtreesYieldNaN(t *testing.T) {
	assert := assert.New(t)

	assert.True(isNaN(Eval(nil)))

	v := NewVariable(nil)
	assert.True(isNaN(Eval(v)))
	Free(v)
}

func Test_Eval_logicalOperatorsDoNotShortCircuit(t *testing.T) {
	assert := assert.New(t)

	calls := 0
	sideEffect := func(args []float64) float64 {
		calls++
		return 1
	}
	b := NewBindings().Function("one", 0, sideEffect, false)

	ast, err := Compile("0 && one()", b)
	assert.NoError(err)
	defer Free(ast)

	Eval(ast)
	assert.Equal(1, calls, "right operand of && must still be evaluated even though the left is false")
}

func Test_Eval_noShortCircuitOnOr(t *testing.T) {
	assert := assert.New(t)

	calls := 0
	sideEffect := func(args []float64) float64 {
		calls++
		return 1
	}
	b := NewBindings().Function("one", 0, sideEffect, false)

	ast, err := Compile("1 || one()", b)
	assert.NoError(err)
	defer Free(ast)

	Eval(ast)
	assert.Equal(1, calls, "right operand of || must still be evaluated even though the left is true")
}

func isNaN(f float64) bool {
	return f != f
}
