package ast

import "fmt"

// Op enumerates binary and unary operators of the marlin language.
type Op uint8

const (
	OpInvalid Op = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpPow
	OpLt
	OpGt
	OpLe
	OpGe
	OpEq
	OpNe
	OpAnd
	OpOr
	OpNot
	OpNeg
	OpPlus
)

func (o Op) String() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpMod:
		return "%"
	case OpPow:
		return "^"
	case OpLt:
		return "<"
	case OpGt:
		return ">"
	case OpLe:
		return "<="
	case OpGe:
		return ">="
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpAnd:
		return "&&"
	case OpOr:
		return "||"
	case OpNot:
		return "!"
	case OpNeg:
		return "-"
	case OpPlus:
		return "+"
	default:
		return fmt.Sprintf("Op(%d)", o)
	}
}

// IsArithmetic reports whether the operator combines numeric operands
// into a numeric result. OpAdd doubles as string concatenation.
func (o Op) IsArithmetic() bool {
	switch o {
	case OpAdd, OpSub, OpMul, OpDiv, OpMod, OpPow:
		return true
	}
	return false
}

// IsRelational reports whether the operator compares operands into bool.
func (o Op) IsRelational() bool {
	switch o {
	case OpLt, OpGt, OpLe, OpGe, OpEq, OpNe:
		return true
	}
	return false
}

// IsLogical reports whether the operator requires bool operands.
func (o Op) IsLogical() bool {
	return o == OpAnd || o == OpOr
}

// IsUnary reports whether the operator takes a single operand.
func (o Op) IsUnary() bool {
	return o == OpNot || o == OpNeg || o == OpPlus
}
