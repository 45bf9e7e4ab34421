package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"marlin/internal/source"
	"marlin/internal/types"
)

type scope struct {
	id    ScopeID
	names map[string]*Symbol
}

// Table is the scoped symbol store for one analysis run. It owns the
// scope stack, the scope-id counter and the slot counter; none of that
// state is shared across runs, so independent analyses never interfere.
type Table struct {
	stack     []*scope
	nextScope ScopeID
	nextSlot  uint32
	// all keeps every symbol ever declared, in slot order, including
	// symbols whose scope has already been exited.
	all []*Symbol
}

// NewTable creates a table with the global scope already open.
func NewTable() *Table {
	t := &Table{}
	t.push()
	return t
}

func (t *Table) push() ScopeID {
	id := t.nextScope
	t.nextScope++
	t.stack = append(t.stack, &scope{id: id, names: make(map[string]*Symbol)})
	return id
}

// EnterScope opens a nested scope and returns its id.
func (t *Table) EnterScope() ScopeID {
	return t.push()
}

// ExitScope closes the innermost scope. The global scope is never
// popped; exiting it is a no-op.
func (t *Table) ExitScope() {
	if len(t.stack) > 1 {
		t.stack = t.stack[:len(t.stack)-1]
	}
}

// Depth returns the number of open scopes (global counts as one).
func (t *Table) Depth() int {
	return len(t.stack)
}

// CurrentScope returns the id of the innermost open scope.
func (t *Table) CurrentScope() ScopeID {
	return t.stack[len(t.stack)-1].id
}

// Declare adds name to the current scope. On a same-scope duplicate it
// returns the original entry and false; the first declaration wins and
// is never overwritten.
func (t *Table) Declare(name string, typ types.Kind, pos source.Pos) (*Symbol, bool) {
	top := t.stack[len(t.stack)-1]
	if existing, ok := top.names[name]; ok {
		return existing, false
	}
	sym := &Symbol{
		Name:  name,
		Type:  typ,
		Scope: top.id,
		Slot:  t.takeSlot(),
		Decl:  pos,
	}
	top.names[name] = sym
	t.all = append(t.all, sym)
	return sym, true
}

// Lookup resolves name against the open scopes, innermost first.
// Returns nil when the name is not declared anywhere in scope.
func (t *Table) Lookup(name string) *Symbol {
	for i := len(t.stack) - 1; i >= 0; i-- {
		if sym, ok := t.stack[i].names[name]; ok {
			return sym
		}
	}
	return nil
}

// DeclaredInCurrentScope reports whether name exists in the innermost
// scope specifically, ignoring outer scopes.
func (t *Table) DeclaredInCurrentScope(name string) bool {
	_, ok := t.stack[len(t.stack)-1].names[name]
	return ok
}

// Symbols returns every declared symbol in slot order, including ones
// from scopes that have been exited. Read-only view.
func (t *Table) Symbols() []*Symbol {
	return t.all
}

func (t *Table) takeSlot() uint32 {
	slot := t.nextSlot
	next, err := safecast.Conv[uint32](uint64(t.nextSlot) + 1)
	if err != nil {
		panic(fmt.Errorf("slot counter overflow: %w", err))
	}
	t.nextSlot = next
	return slot
}
