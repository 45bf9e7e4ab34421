package types

import "fmt"

// Kind is a compact descriptor for the fixed primitive types of the
// marlin language. There are no composite or user-defined types, so a
// plain enum replaces the interner a richer language would need.
type Kind uint8

const (
	Invalid Kind = iota
	Int
	Float
	Bool
	String
	// Void types statements and blocks that produce no value.
	Void
	// Error is the sentinel for nodes whose type could not be
	// determined. It absorbs every operation so one mistake does not
	// cascade into a diagnostic per ancestor.
	Error
)

func (k Kind) String() string {
	switch k {
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case String:
		return "string"
	case Void:
		return "void"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Numeric reports whether the kind participates in arithmetic promotion.
func (k Kind) Numeric() bool {
	return k == Int || k == Float
}

// ParseKind maps a spelled type name from a declaration to its kind.
func ParseKind(name string) (Kind, bool) {
	switch name {
	case "int":
		return Int, true
	case "float":
		return Float, true
	case "bool", "boolean":
		return Bool, true
	case "string":
		return String, true
	case "void":
		return Void, true
	}
	return Invalid, false
}
