package diag

import "fmt"

// Category classifies semantic diagnostics. The set is the fixed
// taxonomy of the analysis phase; hosts key navigation and filtering
// off it, so String values are part of the output contract.
type Category uint8

const (
	CatOther Category = iota
	CatUndeclared
	CatDuplicate
	CatTypeMismatch
	CatDivisionByZero
	CatBadCondition
	CatStructural
)

func (c Category) String() string {
	switch c {
	case CatUndeclared:
		return "undeclared-identifier"
	case CatDuplicate:
		return "duplicate-declaration"
	case CatTypeMismatch:
		return "type-incompatibility"
	case CatDivisionByZero:
		return "division-by-zero"
	case CatBadCondition:
		return "invalid-condition-type"
	case CatStructural:
		return "structural"
	case CatOther:
		return "other"
	default:
		return fmt.Sprintf("Category(%d)", c)
	}
}
