package formulon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Interp_builtinFunctions(t *testing.T) {
	testCases := []struct {
		name   string
		expr   string
		expect float64
	}{
		{name: "fac of 5", expr: "fac(5)", expect: 120},
		{name: "fac of 0", expr: "fac(0)", expect: 1},
		{name: "gcd", expr: "gcd(12, 18)", expect: 6},
		{name: "ncr", expr: "ncr(5, 2)", expect: 10},
		{name: "npr", expr: "npr(5, 2)", expect: 20},
		{name: "max", expr: "max(3, 7)", expect: 7},
		{name: "min", expr: "min(3, 7)", expect: 3},
		{name: "pi constant", expr: "pi", expect: 3.141592653589793},
		{name: "e constant", expr: "e", expect: 2.718281828459045},
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

func Test_Interp_facOfNegativeIsNaN(t *testing.T) {
	assert := assert.New(t)

	v, err := Interp("fac(-1)", nil)
	assert.NoError(err)
	assert.True(v != v) // NaN
}

func Test_Interp_logOptionSwitchesBase(t *testing.T) {
	assert := assert.New(t)

	base10, err := Interp("log(100)", nil)
	assert.NoError(err)
	assert.InDelta(2.0, base10, 1e-9)

	natural, err := Interp("log(100)", nil, WithNaturalLog())
	assert.NoError(err)
	assert.InDelta(4.605170185988092, natural, 1e-9)
}
