package types

import "marlin/internal/ast"

// Compatible reports whether two types may meet at an operator.
// Exact matches always pass; int and float are mutually compatible via
// promotion; bool and string only match themselves.
func Compatible(a, b Kind) bool {
	if a == Error || b == Error {
		return true
	}
	if a == b {
		return a != Invalid && a != Void
	}
	return a.Numeric() && b.Numeric()
}

// Promote computes the common type of two operands on the lattice
// bool < int < float. Mixed int/float widens to float.
func Promote(a, b Kind) Kind {
	if a == Error || b == Error {
		return Error
	}
	if a == Float || b == Float {
		if a.Numeric() && b.Numeric() {
			return Float
		}
		return Invalid
	}
	if a == Int && b == Int {
		return Int
	}
	if a == Bool && b == Bool {
		return Bool
	}
	return Invalid
}

// Assignable reports whether a value of type src may be stored into a
// binding declared as dst. The declared type is never changed by an
// assignment; only the source side may be promoted (int into float).
func Assignable(dst, src Kind) bool {
	if dst == Error || src == Error {
		return true
	}
	if dst == src {
		return dst != Invalid && dst != Void
	}
	return dst == Float && src == Int
}

// BinaryResult computes the result type of a binary operator applied to
// operands of the given types. ok=false means the combination is a
// type-incompatibility; the returned kind is then Error.
func BinaryResult(op ast.Op, left, right Kind) (Kind, bool) {
	// An already-failed operand poisons the result silently.
	if left == Error || right == Error {
		return Error, true
	}

	switch {
	case op.IsArithmetic():
		return arithmeticResult(op, left, right)

	case op.IsRelational():
		if !Compatible(left, right) {
			return Error, false
		}
		// Ordering comparisons need numeric operands; equality also
		// accepts bool and string.
		switch op {
		case ast.OpEq, ast.OpNe:
			return Bool, true
		default:
			if left.Numeric() && right.Numeric() {
				return Bool, true
			}
			return Error, false
		}

	case op.IsLogical():
		if left == Bool && right == Bool {
			return Bool, true
		}
		return Error, false
	}
	return Error, false
}

func arithmeticResult(op ast.Op, left, right Kind) (Kind, bool) {
	// Concatenation is the one string-typed operation.
	if left == String && right == String {
		if op == ast.OpAdd {
			return String, true
		}
		return Error, false
	}
	if !left.Numeric() || !right.Numeric() {
		return Error, false
	}
	// Modulo is defined on integers only, as in the reference language.
	if op == ast.OpMod && (left == Float || right == Float) {
		return Error, false
	}
	return Promote(left, right), true
}

// UnaryResult computes the result type of a unary operator.
func UnaryResult(op ast.Op, operand Kind) (Kind, bool) {
	if operand == Error {
		return Error, true
	}
	switch op {
	case ast.OpNot:
		if operand == Bool {
			return Bool, true
		}
	case ast.OpNeg, ast.OpPlus:
		if operand.Numeric() {
			return operand, true
		}
	}
	return Error, false
}
