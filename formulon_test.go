package formulon

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Interp_concreteScenarios(t *testing.T) {
	testCases := []struct {
		name   string
		expr   string
		expect float64
	}{
		{name: "nested sqrt/pow/sum", expr: "sqrt(5**2 * 2 + 7**2 + 11**2 + (8 - 2)**2)", expect: 16.0},
		{name: "bitwise not of zero, masked to 53 bits", expr: "~0", expect: 9007199254740991.0},
		{name: "log-not of bitwise-not of negative", expr: "!~-1023", expect: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			v, err := Interp(tc.expr, nil)
			assert.NoError(err)
			assert.InDelta(tc.expect, v, 1e-9)
		})
	}
}

func Test_Interp_atan2(t *testing.T) {
	assert := assert.New(t)

	v1, err := Interp("atan2(3,4)", nil)
	assert.NoError(err)
	assert.InDelta(0.6435, v1, 1e-4)

	v2, err := Interp("atan2((3+3),4*2)", nil)
	assert.NoError(err)
	assert.InDelta(0.6435, v2, 1e-4)
}

func Test_Interp_errorIndices(t *testing.T) {
	testCases := []struct {
		name        string
		expr        string
		expectIndex int
	}{
		{name: "empty input", expr: "", expectIndex: 1},
		{name: "dangling operator", expr: "1+", expectIndex: 2},
		{name: "unknown name", expr: "cos5", expectIndex: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			v, err := Interp(tc.expr, nil)
			assert.Error(err)
			assert.True(math.IsNaN(v))
			assert.Equal(tc.expectIndex, ErrorIndex(err))
		})
	}
}

func Test_Interp_boundVariable(t *testing.T) {
	assert := assert.New(t)

	aa := 6.0
	b := NewBindings().Variable("Aa", &aa)

	v, err := Interp("Aa+5", b)
	assert.NoError(err)
	assert.Equal(11.0, v)
}

func Test_Compile_sinSquaredPiX(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	x := 0.5
	b := NewBindings().Variable("x", &x)

	ast, err := Compile("(sin(pi*x))**2", b)
	require.NoError(err)
	defer Free(ast)

	// depends on x, so the optimizer must not have collapsed it to a
	// Constant even though it was compiled and optimized once already.
	assert.NotEqual(KindConstant, ast.Kind)

	v := Eval(ast)
	assert.InDelta(1.0, v, 1e-9)

	dv, err := Differentiate(ast, &x)
	require.NoError(err)
	defer Free(dv)

	assert.InDelta(0, Eval(dv), 1e-9)
}

func Test_Compile_closureBinding(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	extra := 0.0
	sum := func(ctx any, args []float64) float64 {
		return *(ctx.(*float64)) + args[0] + args[1]
	}

	b := NewBindings().Closure("c2", 2, sum, &extra, false)

	ast, err := Compile("c2(10, 20)", b)
	require.NoError(err)
	defer Free(ast)

	assert.Equal(30.0, Eval(ast))

	extra = 10
	assert.Equal(40.0, Eval(ast))
}

func Test_Optimize_purityDrivenFolding(t *testing.T) {
	assert := assert.New(t)

	ast, err := Compile("5**2 * 2 + 7**2 + 11**2 + (8 - 2)**2", nil)
	assert.NoError(err)
	defer Free(ast)

	assert.Equal(KindConstant, ast.Kind)
	assert.Equal(256.0, ast.Value)
}

func Test_Optimize_idempotent(t *testing.T) {
	assert := assert.New(t)

	const expr = "2 + 3 * sqrt(16) - 1"

	v1, err := Interp(expr, nil)
	assert.NoError(err)

	ast, err := Compile(expr, nil)
	assert.NoError(err)
	v2 := Eval(ast)
	Free(ast)

	// re-optimizing an already-optimized, fully-bound tree must not
	// change its value.
	ast2, err := Compile(expr, nil)
	assert.NoError(err)
	reOptimized := Optimize(DeepCopy(ast2))
	v3 := Eval(reOptimized)
	Free(ast2)
	Free(reOptimized)

	assert.Equal(v1, v2)
	assert.Equal(v2, v3)
}
