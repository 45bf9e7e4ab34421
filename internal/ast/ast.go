package ast

import (
	"fmt"

	"marlin/internal/source"
)

// NodeKind enumerates every raw-tree node the parser may produce.
// The set is closed: semantic analysis dispatches exhaustively over it
// and treats anything else as a structural error.
type NodeKind uint8

const (
	NodeInvalid NodeKind = iota
	NodeProgram
	NodeBlock
	NodeVarDecl
	NodeAssign
	NodeBinary
	NodeUnary
	NodeGroup
	NodeExprStmt
	NodeIf
	NodeWhile
	NodeDoUntil
	NodeIntLit
	NodeFloatLit
	NodeBoolLit
	NodeStringLit
	NodeIdent
)

func (k NodeKind) String() string {
	switch k {
	case NodeProgram:
		return "program"
	case NodeBlock:
		return "block"
	case NodeVarDecl:
		return "var-decl"
	case NodeAssign:
		return "assign"
	case NodeBinary:
		return "binary"
	case NodeUnary:
		return "unary"
	case NodeGroup:
		return "group"
	case NodeExprStmt:
		return "expr-stmt"
	case NodeIf:
		return "if"
	case NodeWhile:
		return "while"
	case NodeDoUntil:
		return "do-until"
	case NodeIntLit:
		return "int-lit"
	case NodeFloatLit:
		return "float-lit"
	case NodeBoolLit:
		return "bool-lit"
	case NodeStringLit:
		return "string-lit"
	case NodeIdent:
		return "ident"
	default:
		return fmt.Sprintf("NodeKind(%d)", k)
	}
}

// Valid reports whether the kind belongs to the closed set.
func (k NodeKind) Valid() bool {
	return k > NodeInvalid && k <= NodeIdent
}

// Node is one raw syntax-tree node as handed over by the parser.
// It is immutable input: analysis never mutates it, decorations go into
// a parallel tree owned by sema.
//
// Shape conventions per kind:
//
//	VarDecl:  Lexeme = declared name, TypeName = spelled type,
//	          Children = [initializer] or empty
//	Assign:   Lexeme = target name, Children = [rhs]
//	Binary:   Children = [left, right]
//	Unary:    Children = [operand]
//	Group:    Children = [inner]
//	ExprStmt: Children = [expr]
//	If:       Children = [cond, then] or [cond, then, else]
//	While:    Children = [cond, body]
//	DoUntil:  Children = [body, cond]
//	literals: Lexeme = source spelling
//	Ident:    Lexeme = name
type Node struct {
	Kind     NodeKind
	Op       Op     // operators only
	Lexeme   string // literal spelling, identifier or target name
	TypeName string // VarDecl only: declared type as spelled
	Children []*Node
	Pos      source.Pos
}
