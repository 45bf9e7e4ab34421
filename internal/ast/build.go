package ast

import "marlin/internal/source"

// Constructor helpers. The real parser lives outside this module; these
// exist for tests, fixtures and the treeio decoders.

func IntLit(lexeme string, pos source.Pos) *Node {
	return &Node{Kind: NodeIntLit, Lexeme: lexeme, Pos: pos}
}

func FloatLit(lexeme string, pos source.Pos) *Node {
	return &Node{Kind: NodeFloatLit, Lexeme: lexeme, Pos: pos}
}

func BoolLit(lexeme string, pos source.Pos) *Node {
	return &Node{Kind: NodeBoolLit, Lexeme: lexeme, Pos: pos}
}

func StringLit(lexeme string, pos source.Pos) *Node {
	return &Node{Kind: NodeStringLit, Lexeme: lexeme, Pos: pos}
}

func Ident(name string, pos source.Pos) *Node {
	return &Node{Kind: NodeIdent, Lexeme: name, Pos: pos}
}

func Binary(op Op, left, right *Node, pos source.Pos) *Node {
	return &Node{Kind: NodeBinary, Op: op, Children: []*Node{left, right}, Pos: pos}
}

func Unary(op Op, operand *Node, pos source.Pos) *Node {
	return &Node{Kind: NodeUnary, Op: op, Children: []*Node{operand}, Pos: pos}
}

func Group(inner *Node, pos source.Pos) *Node {
	return &Node{Kind: NodeGroup, Children: []*Node{inner}, Pos: pos}
}

func ExprStmt(expr *Node, pos source.Pos) *Node {
	return &Node{Kind: NodeExprStmt, Children: []*Node{expr}, Pos: pos}
}

// VarDecl declares name with the spelled type; init may be nil.
func VarDecl(name, typeName string, init *Node, pos source.Pos) *Node {
	n := &Node{Kind: NodeVarDecl, Lexeme: name, TypeName: typeName, Pos: pos}
	if init != nil {
		n.Children = []*Node{init}
	}
	return n
}

func Assign(name string, rhs *Node, pos source.Pos) *Node {
	return &Node{Kind: NodeAssign, Lexeme: name, Children: []*Node{rhs}, Pos: pos}
}

func Block(pos source.Pos, stmts ...*Node) *Node {
	return &Node{Kind: NodeBlock, Children: stmts, Pos: pos}
}

func Program(stmts ...*Node) *Node {
	return &Node{Kind: NodeProgram, Children: stmts, Pos: source.Pos{Line: 1, Col: 1}}
}

// If builds a conditional; elseBlock may be nil.
func If(cond, then, elseBlock *Node, pos source.Pos) *Node {
	n := &Node{Kind: NodeIf, Children: []*Node{cond, then}, Pos: pos}
	if elseBlock != nil {
		n.Children = append(n.Children, elseBlock)
	}
	return n
}

func While(cond, body *Node, pos source.Pos) *Node {
	return &Node{Kind: NodeWhile, Children: []*Node{cond, body}, Pos: pos}
}

// DoUntil is the post-test loop: body runs before the condition.
func DoUntil(body, cond *Node, pos source.Pos) *Node {
	return &Node{Kind: NodeDoUntil, Children: []*Node{body, cond}, Pos: pos}
}
