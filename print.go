package formulon

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// file print.go implements the human-readable tree dump spec.md §6
// describes: one node per line, indented by 2·depth spaces; constants as
// %f; variables as "bound <opaque-id>"; function/closure nodes as "fN
// <name>" followed by their recursively printed children. Node identity
// for Variable/Closure context is rendered as the Go pointer value rather
// than the source C implementation's raw slot index, since that's the
// only stable "opaque id" available on this side.
//
// Grounded on the indentation-helper style of the teacher's
// tunascript/syntax package (spaceIndentNewlines in syntax.go), adapted
// from a string-rewriting helper into a depth-driven recursive writer.

const printIndentWidth = 2

// FprintTree writes the indented tree dump of ast to w.
func FprintTree(w io.Writer, ast *Node) error {
	var sb strings.Builder
	writeNode(&sb, ast, 0)
	_, err := io.WriteString(w, sb.String())
	return err
}

// SprintTree renders the indented tree dump of ast as a string.
func SprintTree(ast *Node) string {
	var sb strings.Builder
	writeNode(&sb, ast, 0)
	return sb.String()
}

// Print writes the indented tree dump of ast to stdout, matching the
// language-neutral `print(ast)` entry point of spec.md §6.
func Print(ast *Node) {
	_ = FprintTree(os.Stdout, ast)
}

func writeNode(sb *strings.Builder, n *Node, depth int) {
	indent := strings.Repeat(" ", depth*printIndentWidth)

	if n == nil {
		sb.WriteString(indent)
		sb.WriteString("null\n")
		return
	}

	switch n.Kind {
	case KindConstant:
		fmt.Fprintf(sb, "%s%f\n", indent, n.Value)

	case KindVariable:
		fmt.Fprintf(sb, "%sbound %p\n", indent, n.Ref)

	case KindFunction:
		label := n.Name
		if label == "" {
			label = operatorSymbol(n.Op)
		}
		if n.IsClosure {
			fmt.Fprintf(sb, "%sf%d %s ctx=%p\n", indent, len(n.Args), label, n.Ctx)
		} else {
			fmt.Fprintf(sb, "%sf%d %s\n", indent, len(n.Args), label)
		}
		for _, c := range n.Args {
			writeNode(sb, c, depth+1)
		}

	default:
		fmt.Fprintf(sb, "%s<unknown>\n", indent)
	}
}
