package formulon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Parse_exponentAssociativity(t *testing.T) {
	assert := assert.New(t)

	rightAssoc, err := Interp("2**3**2", nil)
	assert.NoError(err)
	assert.Equal(512.0, rightAssoc) // 2**(3**2) = 2**9

	leftAssoc, err := Interp("2**3**2", nil, WithLeftAssocExponent())
	assert.NoError(err)
	assert.Equal(64.0, leftAssoc) // (2**3)**2 = 8**2
}

func Test_Parse_unaryMinusPowAssociativity(t *testing.T) {
	assert := assert.New(t)

	rightAssoc, err := Interp("-2**2", nil)
	assert.NoError(err)
	assert.Equal(-4.0, rightAssoc) // -(2**2)

	leftAssoc, err := Interp("-2**2", nil, WithLeftAssocExponent())
	assert.NoError(err)
	assert.Equal(4.0, leftAssoc) // (-2)**2
}

func Test_Parse_unaryFoldingRuns(t *testing.T) {
	testCases := []struct {
		name   string
		expr   string
		expect float64
	}{
		{name: "single minus", expr: "-5", expect: -5},
		{name: "double minus cancels", expr: "--5", expect: 5},
		{name: "triple minus", expr: "---5", expect: -5},
		{name: "leading plus is a no-op", expr: "+5", expect: 5},
		{name: "plus-minus mix", expr: "+-+-+5", expect: 5},
		{name: "six-high cancelling minuses", expr: "------5", expect: 5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			v, err := Interp(tc.expr, nil)
			assert.NoError(err)
			assert.Equal(tc.expect, v)
		})
	}
}

func Test_Parse_complexUnaryMix(t *testing.T) {
	assert := assert.New(t)

	// !~-1023 parses as !(~(-1023)): ~(-1023) is 1022, so the logical not
	// gives 0, whereas !!-1023 would give 1. The mixed run is not folded
	// into a single logical operator.
	v, err := Interp("!~-1023", nil)
	assert.NoError(err)
	assert.Equal(0.0, v)

	direct, err := Interp("~-1023", nil)
	assert.NoError(err)
	assert.NotEqual(0.0, direct)
}

func Test_Compile_commaList(t *testing.T) {
	assert := assert.New(t)

	// a parenthesized comma-list evaluates every element left-to-right and
	// takes the value of the last one.
	v, err := Interp("(1, 2, 3)", nil)
	assert.NoError(err)
	assert.Equal(3.0, v)
}

func Test_Compile_commaListBeyondFunctionArityCap(t *testing.T) {
	assert := assert.New(t)

	// Eval caps KindFunction nodes at arity 7 for host-bound Function-N
	// calls; a comma list must not be built as one flat N-ary node or a
	// list of 8+ elements would trip that cap and silently yield NaN
	// instead of its last element.
	v, err := Interp("(1,2,3,4,5,6,7,8,9)", nil)
	assert.NoError(err)
	assert.Equal(9.0, v)
}

func Test_Compile_commaListEvaluatesEveryOperandLeftToRight(t *testing.T) {
	assert := assert.New(t)

	var order []float64
	side := func(args []float64) float64 {
		order = append(order, args[0])
		return args[0]
	}
	b := NewBindings().Function("tap", 1, side, false)

	v, err := Interp("(tap(1), tap(2), tap(3), tap(4), tap(5), tap(6), tap(7), tap(8), tap(9))", b)
	assert.NoError(err)
	assert.Equal(9.0, v)
	assert.Equal([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9}, order)
}
