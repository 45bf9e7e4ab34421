package sema

import (
	"math"
	"strconv"

	"marlin/internal/ast"
	"marlin/internal/types"
)

// Value is a folded compile-time constant. Values originate only from
// literal leaves and fully folded subexpressions; identifiers never
// carry one (there is no execution environment to read them from).
type Value struct {
	Kind  types.Kind
	Int   int64
	Float float64
	Bool  bool
	Str   string
}

func intValue(v int64) *Value     { return &Value{Kind: types.Int, Int: v} }
func floatValue(v float64) *Value { return &Value{Kind: types.Float, Float: v} }
func boolValue(v bool) *Value     { return &Value{Kind: types.Bool, Bool: v} }
func strValue(v string) *Value    { return &Value{Kind: types.String, Str: v} }

func (v *Value) String() string {
	if v == nil {
		return "<unset>"
	}
	switch v.Kind {
	case types.Int:
		return strconv.FormatInt(v.Int, 10)
	case types.Float:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case types.Bool:
		return strconv.FormatBool(v.Bool)
	case types.String:
		return strconv.Quote(v.Str)
	}
	return "<invalid>"
}

// asFloat widens an int value for promoted arithmetic.
func (v *Value) asFloat() float64 {
	if v.Kind == types.Int {
		return float64(v.Int)
	}
	return v.Float
}

// zeroDivisor reports whether using v as a divisor divides by zero.
func (v *Value) zeroDivisor() bool {
	switch v.Kind {
	case types.Int:
		return v.Int == 0
	case types.Float:
		return v.Float == 0
	}
	return false
}

// foldBinary evaluates an arithmetic operator over two folded operands.
// result selects int or float semantics per the promotion rules already
// computed by the type system. A nil result means folding failed
// (overflow or a non-foldable combination); the caller keeps the
// inferred type either way.
func foldBinary(op ast.Op, result types.Kind, left, right *Value) *Value {
	switch result {
	case types.String:
		if op == ast.OpAdd {
			return strValue(left.Str + right.Str)
		}
	case types.Float:
		return foldFloat(op, left.asFloat(), right.asFloat())
	case types.Int:
		return foldInt(op, left.Int, right.Int)
	}
	return nil
}

func foldFloat(op ast.Op, l, r float64) *Value {
	var out float64
	switch op {
	case ast.OpAdd:
		out = l + r
	case ast.OpSub:
		out = l - r
	case ast.OpMul:
		out = l * r
	case ast.OpDiv:
		out = l / r
	case ast.OpPow:
		out = math.Pow(l, r)
	default:
		return nil
	}
	if math.IsInf(out, 0) || math.IsNaN(out) {
		return nil
	}
	return floatValue(out)
}

// foldInt applies truncating integer semantics. Division truncates
// toward zero, the same rule Go itself uses; the divisor is known to be
// non-zero by the time folding runs.
func foldInt(op ast.Op, l, r int64) *Value {
	switch op {
	case ast.OpAdd:
		if out, ok := addInt(l, r); ok {
			return intValue(out)
		}
	case ast.OpSub:
		if out, ok := subInt(l, r); ok {
			return intValue(out)
		}
	case ast.OpMul:
		if out, ok := mulInt(l, r); ok {
			return intValue(out)
		}
	case ast.OpDiv:
		// MinInt64 / -1 is the one overflowing division.
		if l == math.MinInt64 && r == -1 {
			return nil
		}
		return intValue(l / r)
	case ast.OpMod:
		if l == math.MinInt64 && r == -1 {
			return nil
		}
		return intValue(l % r)
	case ast.OpPow:
		if out, ok := powInt(l, r); ok {
			return intValue(out)
		}
	}
	return nil
}

// foldUnary evaluates a unary arithmetic operator over a folded operand.
func foldUnary(op ast.Op, operand *Value) *Value {
	switch op {
	case ast.OpPlus:
		out := *operand
		return &out
	case ast.OpNeg:
		switch operand.Kind {
		case types.Int:
			if operand.Int == math.MinInt64 {
				return nil
			}
			return intValue(-operand.Int)
		case types.Float:
			return floatValue(-operand.Float)
		}
	}
	return nil
}

func addInt(l, r int64) (int64, bool) {
	out := l + r
	if (out > l) == (r > 0) {
		return out, true
	}
	return 0, false
}

func subInt(l, r int64) (int64, bool) {
	out := l - r
	if (out < l) == (r > 0) {
		return out, true
	}
	return 0, false
}

func mulInt(l, r int64) (int64, bool) {
	if l == 0 || r == 0 {
		return 0, true
	}
	out := l * r
	if out/r == l && !(l == math.MinInt64 && r == -1) && !(r == math.MinInt64 && l == -1) {
		return out, true
	}
	return 0, false
}

// powInt computes l^r by repeated squaring; negative exponents do not
// fold (the result type stays int, so there is nothing exact to store).
func powInt(l, r int64) (int64, bool) {
	if r < 0 {
		return 0, false
	}
	out := int64(1)
	base := l
	for r > 0 {
		if r&1 == 1 {
			var ok bool
			if out, ok = mulInt(out, base); !ok {
				return 0, false
			}
		}
		r >>= 1
		if r > 0 {
			var ok bool
			if base, ok = mulInt(base, base); !ok {
				return 0, false
			}
		}
	}
	return out, true
}
