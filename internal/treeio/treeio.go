// Package treeio reads and writes raw syntax trees in the interchange
// formats the host pipeline uses: JSON for pipe-friendly text and
// msgpack for compact binary hand-off between stages. Decoding
// validates kind and operator names; deeper shape validation (arities,
// required children) is the analyzer's job so malformed trees still
// produce a full diagnostics run.
package treeio

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"marlin/internal/ast"
	"marlin/internal/source"
)

// WireNode is the serialized form of one raw node.
type WireNode struct {
	Kind     string     `json:"kind" msgpack:"kind"`
	Op       string     `json:"op,omitempty" msgpack:"op,omitempty"`
	Lexeme   string     `json:"lexeme,omitempty" msgpack:"lexeme,omitempty"`
	TypeName string     `json:"type,omitempty" msgpack:"type,omitempty"`
	Line     uint32     `json:"line" msgpack:"line"`
	Col      uint32     `json:"col" msgpack:"col"`
	Children []WireNode `json:"children,omitempty" msgpack:"children,omitempty"`
}

// DecodeJSON reads one raw tree from JSON.
func DecodeJSON(r io.Reader) (*ast.Node, error) {
	var wire WireNode
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&wire); err != nil {
		return nil, fmt.Errorf("decode raw tree: %w", err)
	}
	return fromWire(&wire)
}

// EncodeJSON writes one raw tree as indented JSON.
func EncodeJSON(w io.Writer, root *ast.Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toWire(root))
}

// DecodeMsgpack reads one raw tree from its binary form.
func DecodeMsgpack(data []byte) (*ast.Node, error) {
	var wire WireNode
	if err := msgpack.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("decode raw tree: %w", err)
	}
	return fromWire(&wire)
}

// EncodeMsgpack writes one raw tree in its binary form.
func EncodeMsgpack(root *ast.Node) ([]byte, error) {
	return msgpack.Marshal(toWire(root))
}

func fromWire(w *WireNode) (*ast.Node, error) {
	kind, ok := kindFromName(w.Kind)
	if !ok {
		return nil, fmt.Errorf("unknown node kind %q at %d:%d", w.Kind, w.Line, w.Col)
	}
	n := &ast.Node{
		Kind:     kind,
		Lexeme:   w.Lexeme,
		TypeName: w.TypeName,
		Pos:      source.Pos{Line: w.Line, Col: w.Col},
	}
	if w.Op != "" {
		op, ok := opFromName(kind, w.Op)
		if !ok {
			return nil, fmt.Errorf("unknown operator %q at %d:%d", w.Op, w.Line, w.Col)
		}
		n.Op = op
	}
	for i := range w.Children {
		child, err := fromWire(&w.Children[i])
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, child)
	}
	return n, nil
}

func toWire(n *ast.Node) WireNode {
	out := WireNode{
		Kind:     n.Kind.String(),
		Lexeme:   n.Lexeme,
		TypeName: n.TypeName,
		Line:     n.Pos.Line,
		Col:      n.Pos.Col,
	}
	if n.Op != ast.OpInvalid {
		out.Op = n.Op.String()
	}
	for _, child := range n.Children {
		if child != nil {
			out.Children = append(out.Children, toWire(child))
		}
	}
	return out
}

func kindFromName(name string) (ast.NodeKind, bool) {
	switch name {
	case "program":
		return ast.NodeProgram, true
	case "block":
		return ast.NodeBlock, true
	case "var-decl":
		return ast.NodeVarDecl, true
	case "assign":
		return ast.NodeAssign, true
	case "binary":
		return ast.NodeBinary, true
	case "unary":
		return ast.NodeUnary, true
	case "group":
		return ast.NodeGroup, true
	case "expr-stmt":
		return ast.NodeExprStmt, true
	case "if":
		return ast.NodeIf, true
	case "while":
		return ast.NodeWhile, true
	case "do-until":
		return ast.NodeDoUntil, true
	case "int-lit":
		return ast.NodeIntLit, true
	case "float-lit":
		return ast.NodeFloatLit, true
	case "bool-lit":
		return ast.NodeBoolLit, true
	case "string-lit":
		return ast.NodeStringLit, true
	case "ident":
		return ast.NodeIdent, true
	}
	return ast.NodeInvalid, false
}

// opFromName resolves an operator token. "-" and "+" are ambiguous
// between binary and unary use, so the node kind disambiguates.
func opFromName(kind ast.NodeKind, name string) (ast.Op, bool) {
	unary := kind == ast.NodeUnary
	switch name {
	case "+":
		if unary {
			return ast.OpPlus, true
		}
		return ast.OpAdd, true
	case "-":
		if unary {
			return ast.OpNeg, true
		}
		return ast.OpSub, true
	case "*":
		return ast.OpMul, true
	case "/":
		return ast.OpDiv, true
	case "%":
		return ast.OpMod, true
	case "^":
		return ast.OpPow, true
	case "<":
		return ast.OpLt, true
	case ">":
		return ast.OpGt, true
	case "<=":
		return ast.OpLe, true
	case ">=":
		return ast.OpGe, true
	case "==":
		return ast.OpEq, true
	case "!=":
		return ast.OpNe, true
	case "&&":
		return ast.OpAnd, true
	case "||":
		return ast.OpOr, true
	case "!":
		return ast.OpNot, true
	}
	return ast.OpInvalid, false
}
