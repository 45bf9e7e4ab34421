package symbols

import (
	"marlin/internal/source"
	"marlin/internal/types"
)

// ScopeID identifies one lexical scope within a Table. IDs are unique
// per table and never reused, so entries from an already-exited scope
// stay attributable in the rendered listing.
type ScopeID uint32

// GlobalScope is the id of the outermost scope every table opens with.
const GlobalScope ScopeID = 0

// Symbol is one declared name. A symbol belongs to exactly one scope;
// shadowing creates a new symbol in the inner scope and leaves the
// outer one untouched.
type Symbol struct {
	Name  string
	Type  types.Kind
	Scope ScopeID
	// Slot is a synthetic integer, strictly increasing in declaration
	// order within one analysis run. Display and ordering only.
	Slot uint32
	Decl source.Pos
}
