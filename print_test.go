package formulon

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_SprintTree_constantLeaf(t *testing.T) {
	assert := assert.New(t)

	n := NewConstant(3.5)
	defer Free(n)

	out := SprintTree(n)
	assert.Contains(out, "3.500000")
}

func Test_SprintTree_functionNodeShowsArityAndChildren(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	ast, err := Compile("1 + 2", nil)
	require.NoError(err)
	defer Free(ast)

	// "1 + 2" folds to a Constant during Compile's Optimize pass; build an
	// unoptimized tree by hand instead so the function-node rendering has
	// something to show.
	fn := NewFunction(OpAdd, "+", true, binaryOpFunc(OpAdd), NewConstant(1), NewConstant(2))
	defer Free(fn)

	out := SprintTree(fn)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(lines, 3)
	assert.Equal("f2 +", lines[0])
	assert.Equal("  1.000000", lines[1])
	assert.Equal("  2.000000", lines[2])
}
