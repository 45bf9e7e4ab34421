package sema

import (
	"marlin/internal/ast"
	"marlin/internal/source"
	"marlin/internal/symbols"
	"marlin/internal/types"
)

// Decorated is one node of the output tree. It mirrors exactly one raw
// node (same kind, same position, same child arity) and adds the
// semantic annotations: the inferred type, an optional folded constant
// and an optional resolved symbol. Each field is set once while the
// tree is built bottom-up; the finished tree is immutable and owned by
// the Result.
type Decorated struct {
	Kind     ast.NodeKind
	Op       ast.Op
	Lexeme   string
	Pos      source.Pos
	Type     types.Kind
	Value    *Value          // nil when no constant could be folded
	Sym      *symbols.Symbol // nil when the node resolves no name
	Children []*Decorated
}

// mirror starts a decoration for a raw node, carrying over the
// syntactic fields. The semantic fields are filled by the per-kind
// handlers before the node is linked into its parent.
func mirror(n *ast.Node) *Decorated {
	return &Decorated{
		Kind:   n.Kind,
		Op:     n.Op,
		Lexeme: n.Lexeme,
		Pos:    n.Pos,
	}
}

// errorMirror copies the whole subtree shape with every node carrying
// the error sentinel and no semantic work done. It walks with an
// explicit stack so pathologically deep inputs cannot exhaust the
// goroutine stack.
func errorMirror(root *ast.Node) *Decorated {
	out := mirror(root)
	out.Type = types.Error

	type frame struct {
		raw *ast.Node
		dec *Decorated
	}
	stack := []frame{{raw: root, dec: out}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, child := range f.raw.Children {
			if child == nil {
				f.dec.Children = append(f.dec.Children, &Decorated{Type: types.Error})
				continue
			}
			dc := mirror(child)
			dc.Type = types.Error
			f.dec.Children = append(f.dec.Children, dc)
			stack = append(stack, frame{raw: child, dec: dc})
		}
	}
	return out
}
