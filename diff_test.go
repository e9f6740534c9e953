package formulon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Differentiate_unsupportedOperator(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	x := 2.0
	b := NewBindings().Variable("x", &x)

	ast, err := Compile("x & 1", b)
	require.NoError(err)
	defer Free(ast)

	d, err := Differentiate(ast, &x)
	assert.Nil(d)
	require.Error(err)

	var de DifferentiationError
	require.ErrorAs(err, &de)
	assert.Equal("&", de.Operator)
}

func Test_Differentiate_polynomial(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	x := 3.0
	b := NewBindings().Variable("x", &x)

	ast, err := Compile("x*x*x", b)
	require.NoError(err)
	defer Free(ast)

	d, err := Differentiate(ast, &x)
	require.NoError(err)
	defer Free(d)

	// d/dx(x^3) = 3x^2, at x=3 -> 27
	assert.InDelta(27.0, Eval(d), 1e-9)
}

func Test_Differentiate_doesNotMutateOriginal(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	x := 5.0
	b := NewBindings().Variable("x", &x)

	ast, err := Compile("x*x", b)
	require.NoError(err)
	defer Free(ast)

	before := Eval(ast)

	d, err := Differentiate(ast, &x)
	require.NoError(err)
	defer Free(d)

	assert.Equal(before, Eval(ast))
}
