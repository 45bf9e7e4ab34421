// Package semafmt renders the three artifacts of a semantic run
// (diagnostics listing, symbol-table listing, decorated-tree dump)
// as deterministic text or JSON. Hosts pick the destination; the
// formats themselves are fixed.
package semafmt

import (
	"fmt"
	"io"
	"strings"

	"marlin/internal/ast"
	"marlin/internal/diag"
	"marlin/internal/sema"
	"marlin/internal/symbols"
)

// Diagnostics writes one formatted line per diagnostic, emission order.
func Diagnostics(w io.Writer, bag *diag.Bag) error {
	if bag == nil || bag.Len() == 0 {
		_, err := fmt.Fprintln(w, "(no diagnostics)")
		return err
	}
	for _, d := range bag.Items() {
		if _, err := fmt.Fprintln(w, d.Format()); err != nil {
			return err
		}
	}
	return nil
}

// SymbolTable writes the slot-ordered symbol listing.
func SymbolTable(w io.Writer, table *symbols.Table) error {
	if table == nil {
		_, err := fmt.Fprintln(w, "(no symbols)")
		return err
	}
	return table.Render(w)
}

// Tree writes the decorated-tree dump, two spaces of indent per depth.
// Per node: kind, inferred type, then the most informative token: the
// folded value when present, otherwise the operator, symbol name or
// literal spelling.
func Tree(w io.Writer, root *sema.Decorated) error {
	if root == nil {
		_, err := fmt.Fprintln(w, "(no tree)")
		return err
	}
	// Explicit work stack: decorated trees mirror the raw input and may
	// be as deep as the analyzer's depth limit allows.
	type frame struct {
		node  *sema.Decorated
		depth int
	}
	stack := []frame{{node: root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, err := fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", f.depth), nodeLine(f.node)); err != nil {
			return err
		}
		for i := len(f.node.Children) - 1; i >= 0; i-- {
			if child := f.node.Children[i]; child != nil {
				stack = append(stack, frame{node: child, depth: f.depth + 1})
			}
		}
	}
	return nil
}

func nodeLine(n *sema.Decorated) string {
	var b strings.Builder
	b.WriteString(n.Kind.String())
	fmt.Fprintf(&b, " <%s>", n.Type)
	switch {
	case n.Value != nil:
		fmt.Fprintf(&b, " = %s", n.Value)
	case n.Kind == ast.NodeBinary || n.Kind == ast.NodeUnary:
		fmt.Fprintf(&b, " '%s'", n.Op)
	case n.Lexeme != "":
		fmt.Fprintf(&b, " '%s'", n.Lexeme)
	}
	if n.Sym != nil {
		fmt.Fprintf(&b, " [slot %d]", n.Sym.Slot)
	}
	return b.String()
}
