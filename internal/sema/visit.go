package sema

import (
	"strconv"
	"strings"

	"marlin/internal/ast"
	"marlin/internal/diag"
	"marlin/internal/types"
)

// visit decorates one raw node. Traversal is strictly post-order: every
// child is fully decorated before its parent's handler runs, which is
// what lets type inference and folding read operand results directly.
func (c *checker) visit(n *ast.Node, depth int) *Decorated {
	if n == nil {
		// A nil child slot has no position of its own; the parent
		// handler reports the miss with its own position.
		return &Decorated{Type: types.Error}
	}
	if depth >= c.maxDepth {
		return c.structural(n, "expression too deeply nested (limit %d)", c.maxDepth)
	}
	if !n.Kind.Valid() {
		c.errorf(diag.CatStructural, n.Pos, "unknown node kind %d", uint8(n.Kind))
		d := mirror(n)
		d.Type = types.Error
		// Still descend: diagnostics inside the children remain useful.
		for _, child := range n.Children {
			d.Children = append(d.Children, c.visit(child, depth+1))
		}
		return d
	}

	switch n.Kind {
	case ast.NodeIntLit, ast.NodeFloatLit, ast.NodeBoolLit, ast.NodeStringLit:
		return c.visitLiteral(n)
	case ast.NodeIdent:
		return c.visitIdent(n)
	case ast.NodeVarDecl:
		return c.visitVarDecl(n, depth)
	case ast.NodeAssign:
		return c.visitAssign(n, depth)
	case ast.NodeBinary:
		return c.visitBinary(n, depth)
	case ast.NodeUnary:
		return c.visitUnary(n, depth)
	case ast.NodeGroup, ast.NodeExprStmt:
		return c.visitWrapper(n, depth)
	case ast.NodeIf:
		return c.visitIf(n, depth)
	case ast.NodeWhile:
		return c.visitWhile(n, depth)
	case ast.NodeDoUntil:
		return c.visitDoUntil(n, depth)
	case ast.NodeProgram, ast.NodeBlock:
		return c.visitSequence(n, depth)
	}
	return c.structural(n, "unhandled node kind %s", n.Kind)
}

func (c *checker) visitLiteral(n *ast.Node) *Decorated {
	d := mirror(n)
	switch n.Kind {
	case ast.NodeIntLit:
		d.Type = types.Int
		if v, err := strconv.ParseInt(n.Lexeme, 10, 64); err == nil {
			d.Value = intValue(v)
		}
	case ast.NodeFloatLit:
		d.Type = types.Float
		if v, err := strconv.ParseFloat(n.Lexeme, 64); err == nil {
			d.Value = floatValue(v)
		}
	case ast.NodeBoolLit:
		d.Type = types.Bool
		d.Value = boolValue(strings.EqualFold(n.Lexeme, "true"))
	case ast.NodeStringLit:
		d.Type = types.String
		d.Value = strValue(n.Lexeme)
	}
	return d
}

func (c *checker) visitIdent(n *ast.Node) *Decorated {
	d := mirror(n)
	sym := c.table.Lookup(n.Lexeme)
	if sym == nil {
		c.errorf(diag.CatUndeclared, n.Pos, "identifier '%s' is not declared", n.Lexeme)
		d.Type = types.Error
		return d
	}
	d.Type = sym.Type
	d.Sym = sym
	// Value stays unset: identifiers are never compile-time constants.
	return d
}

func (c *checker) visitVarDecl(n *ast.Node, depth int) *Decorated {
	if !wantChildren(n, 0, 1) {
		return c.structural(n, "declaration of '%s' has %d children, want at most one initializer", n.Lexeme, len(n.Children))
	}
	d := mirror(n)
	d.Type = types.Void

	declType, known := types.ParseKind(n.TypeName)
	if !known {
		c.errorf(diag.CatStructural, n.Pos, "unknown declared type '%s' for '%s'", n.TypeName, n.Lexeme)
		declType = types.Error
	}

	// Initializer first: the name is not in scope inside its own
	// initializer expression.
	var init *Decorated
	if len(n.Children) == 1 {
		init = c.visit(n.Children[0], depth+1)
		d.Children = append(d.Children, init)
	}

	sym, fresh := c.table.Declare(n.Lexeme, declType, n.Pos)
	if !fresh {
		c.errorf(diag.CatDuplicate, n.Pos,
			"'%s' is already declared in this scope (first declaration at %s)", n.Lexeme, sym.Decl)
	}
	d.Sym = sym

	if init != nil && !types.Assignable(declType, init.Type) {
		c.errorf(diag.CatTypeMismatch, n.Pos,
			"cannot initialize '%s' of type %s with %s", n.Lexeme, declType, init.Type)
	}
	return d
}

func (c *checker) visitAssign(n *ast.Node, depth int) *Decorated {
	if !wantChildren(n, 1, 1) {
		return c.structural(n, "assignment to '%s' has no right-hand side", n.Lexeme)
	}
	d := mirror(n)

	// The right-hand side is decorated regardless of whether the target
	// exists, keeping the diagnostics for it complete.
	rhs := c.visit(n.Children[0], depth+1)
	d.Children = append(d.Children, rhs)

	sym := c.table.Lookup(n.Lexeme)
	if sym == nil {
		c.errorf(diag.CatUndeclared, n.Pos, "assignment to undeclared identifier '%s'", n.Lexeme)
		d.Type = types.Error
		return d
	}
	d.Sym = sym
	if !types.Assignable(sym.Type, rhs.Type) {
		c.errorf(diag.CatTypeMismatch, n.Pos,
			"cannot assign %s to '%s' of type %s", rhs.Type, n.Lexeme, sym.Type)
		d.Type = types.Error
		return d
	}
	// The declared type never changes; the assignment carries it.
	d.Type = sym.Type
	return d
}

func (c *checker) visitBinary(n *ast.Node, depth int) *Decorated {
	if !wantChildren(n, 2, 2) {
		return c.structural(n, "operator '%s' requires two operands, got %d", n.Op, len(n.Children))
	}
	d := mirror(n)
	left := c.visit(n.Children[0], depth+1)
	right := c.visit(n.Children[1], depth+1)
	d.Children = []*Decorated{left, right}

	result, ok := types.BinaryResult(n.Op, left.Type, right.Type)
	if !ok {
		c.errorf(diag.CatTypeMismatch, n.Pos,
			"operator '%s' cannot combine %s and %s", n.Op, left.Type, right.Type)
		d.Type = types.Error
		return d
	}
	d.Type = result

	// Folding is arithmetic-only and needs both operands folded.
	if !n.Op.IsArithmetic() || left.Value == nil || right.Value == nil || result == types.Error {
		return d
	}
	if (n.Op == ast.OpDiv || n.Op == ast.OpMod) && right.Value.zeroDivisor() {
		// The result type is already determined and stays; only the
		// value is unavailable.
		c.errorf(diag.CatDivisionByZero, n.Pos, "division by zero")
		return d
	}
	d.Value = foldBinary(n.Op, result, left.Value, right.Value)
	return d
}

func (c *checker) visitUnary(n *ast.Node, depth int) *Decorated {
	if !wantChildren(n, 1, 1) {
		return c.structural(n, "unary operator '%s' requires one operand, got %d", n.Op, len(n.Children))
	}
	d := mirror(n)
	operand := c.visit(n.Children[0], depth+1)
	d.Children = []*Decorated{operand}

	result, ok := types.UnaryResult(n.Op, operand.Type)
	if !ok {
		c.errorf(diag.CatTypeMismatch, n.Pos,
			"operator '%s' cannot be applied to %s", n.Op, operand.Type)
		d.Type = types.Error
		return d
	}
	d.Type = result
	if operand.Value != nil && result != types.Error && n.Op != ast.OpNot {
		d.Value = foldUnary(n.Op, operand.Value)
	}
	return d
}

// visitWrapper handles the single-child pass-through kinds: grouping
// and expression statements propagate the child's annotations as-is.
func (c *checker) visitWrapper(n *ast.Node, depth int) *Decorated {
	if !wantChildren(n, 1, 1) {
		return c.structural(n, "%s node requires exactly one child, got %d", n.Kind, len(n.Children))
	}
	d := mirror(n)
	inner := c.visit(n.Children[0], depth+1)
	d.Children = []*Decorated{inner}
	d.Type = inner.Type
	d.Value = inner.Value
	d.Sym = inner.Sym
	return d
}

func (c *checker) visitIf(n *ast.Node, depth int) *Decorated {
	if !wantChildren(n, 2, 3) {
		return c.structural(n, "if node requires condition and body, got %d children", len(n.Children))
	}
	d := mirror(n)
	d.Type = types.Void

	cond := c.visit(n.Children[0], depth+1)
	d.Children = append(d.Children, cond)
	c.requireBoolCond(cond, "if")

	// Each branch body runs in its own scope; the scope is popped even
	// when the body raised diagnostics.
	d.Children = append(d.Children, c.visitBody(n.Children[1], depth))
	if len(n.Children) == 3 {
		d.Children = append(d.Children, c.visitBody(n.Children[2], depth))
	}
	return d
}

func (c *checker) visitWhile(n *ast.Node, depth int) *Decorated {
	if !wantChildren(n, 2, 2) {
		return c.structural(n, "while node requires condition and body, got %d children", len(n.Children))
	}
	d := mirror(n)
	d.Type = types.Void

	cond := c.visit(n.Children[0], depth+1)
	d.Children = append(d.Children, cond)
	c.requireBoolCond(cond, "while")

	d.Children = append(d.Children, c.visitBody(n.Children[1], depth))
	return d
}

// visitDoUntil handles the post-test loop: the body is decorated first
// (matching execution order) and the condition sits outside the body's
// scope.
func (c *checker) visitDoUntil(n *ast.Node, depth int) *Decorated {
	if !wantChildren(n, 2, 2) {
		return c.structural(n, "do-until node requires body and condition, got %d children", len(n.Children))
	}
	d := mirror(n)
	d.Type = types.Void

	d.Children = append(d.Children, c.visitBody(n.Children[0], depth))

	cond := c.visit(n.Children[1], depth+1)
	d.Children = append(d.Children, cond)
	c.requireBoolCond(cond, "do-until")
	return d
}

func (c *checker) visitSequence(n *ast.Node, depth int) *Decorated {
	d := mirror(n)
	d.Type = types.Void
	for _, child := range n.Children {
		if child == nil {
			c.errorf(diag.CatStructural, n.Pos, "%s node has a missing child", n.Kind)
		}
		d.Children = append(d.Children, c.visit(child, depth+1))
	}
	return d
}

// visitBody enters a scope for a control-flow body and always exits it,
// no matter what diagnostics the body produced.
func (c *checker) visitBody(body *ast.Node, depth int) *Decorated {
	c.table.EnterScope()
	defer c.table.ExitScope()
	return c.visit(body, depth+1)
}

// requireBoolCond flags a non-bool condition. An error-typed condition
// already carries its own diagnostic and is not flagged again.
func (c *checker) requireBoolCond(cond *Decorated, construct string) {
	if cond.Type == types.Bool || cond.Type == types.Error {
		return
	}
	c.errorf(diag.CatBadCondition, cond.Pos,
		"%s condition must be bool, got %s", construct, cond.Type)
}
