package symbols

import (
	"fmt"
	"io"
)

// Render writes the deterministic symbol-table listing: one row per
// declared name, ordered by slot ascending. The layout is fixed-width
// so repeated runs over the same tree produce byte-identical output.
func (t *Table) Render(w io.Writer) error {
	if len(t.all) == 0 {
		_, err := fmt.Fprintln(w, "(no symbols)")
		return err
	}
	if _, err := fmt.Fprintf(w, "%-16s %-8s %-6s %-5s %s\n",
		"NAME", "TYPE", "SCOPE", "SLOT", "DECLARED"); err != nil {
		return err
	}
	for _, sym := range t.all {
		if _, err := fmt.Fprintf(w, "%-16s %-8s %-6d %-5d %s\n",
			sym.Name, sym.Type, sym.Scope, sym.Slot, sym.Decl); err != nil {
			return err
		}
	}
	return nil
}
