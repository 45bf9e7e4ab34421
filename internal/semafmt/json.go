package semafmt

import (
	"encoding/json"
	"io"

	"marlin/internal/ast"
	"marlin/internal/diag"
	"marlin/internal/sema"
	"marlin/internal/symbols"
)

// DiagnosticJSON is one diagnostic in JSON form.
type DiagnosticJSON struct {
	Severity string `json:"severity"`
	Category string `json:"category"`
	Message  string `json:"message"`
	Line     uint32 `json:"line"`
	Col      uint32 `json:"col"`
}

// SymbolJSON is one symbol-table row in JSON form.
type SymbolJSON struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Scope uint32 `json:"scope"`
	Slot  uint32 `json:"slot"`
	Line  uint32 `json:"line"`
	Col   uint32 `json:"col"`
}

// NodeJSON is one decorated node in JSON form.
type NodeJSON struct {
	Kind     string     `json:"kind"`
	Type     string     `json:"type"`
	Op       string     `json:"op,omitempty"`
	Lexeme   string     `json:"lexeme,omitempty"`
	Value    string     `json:"value,omitempty"`
	Symbol   *uint32    `json:"symbol_slot,omitempty"`
	Line     uint32     `json:"line"`
	Col      uint32     `json:"col"`
	Children []NodeJSON `json:"children,omitempty"`
}

// ResultJSON is the root structure for whole-run JSON output.
type ResultJSON struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Symbols     []SymbolJSON     `json:"symbols"`
	Tree        *NodeJSON        `json:"tree,omitempty"`
}

// WriteResultJSON encodes all three artifacts as one JSON document.
func WriteResultJSON(w io.Writer, res sema.Result) error {
	out := ResultJSON{
		Diagnostics: diagnosticsJSON(res.Bag),
		Symbols:     symbolsJSON(res.Symbols),
	}
	if res.Tree != nil {
		node := nodeJSON(res.Tree)
		out.Tree = &node
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func diagnosticsJSON(bag *diag.Bag) []DiagnosticJSON {
	if bag == nil {
		return []DiagnosticJSON{}
	}
	out := make([]DiagnosticJSON, 0, bag.Len())
	for _, d := range bag.Items() {
		out = append(out, DiagnosticJSON{
			Severity: d.Severity.String(),
			Category: d.Category.String(),
			Message:  d.Message,
			Line:     d.Pos.Line,
			Col:      d.Pos.Col,
		})
	}
	return out
}

func symbolsJSON(table *symbols.Table) []SymbolJSON {
	if table == nil {
		return []SymbolJSON{}
	}
	syms := table.Symbols()
	out := make([]SymbolJSON, 0, len(syms))
	for _, s := range syms {
		out = append(out, SymbolJSON{
			Name:  s.Name,
			Type:  s.Type.String(),
			Scope: uint32(s.Scope),
			Slot:  s.Slot,
			Line:  s.Decl.Line,
			Col:   s.Decl.Col,
		})
	}
	return out
}

func nodeJSON(n *sema.Decorated) NodeJSON {
	out := NodeJSON{
		Kind:   n.Kind.String(),
		Type:   n.Type.String(),
		Lexeme: n.Lexeme,
		Line:   n.Pos.Line,
		Col:    n.Pos.Col,
	}
	if n.Op != ast.OpInvalid {
		out.Op = n.Op.String()
	}
	if n.Value != nil {
		out.Value = n.Value.String()
	}
	if n.Sym != nil {
		slot := n.Sym.Slot
		out.Symbol = &slot
	}
	for _, child := range n.Children {
		if child != nil {
			out.Children = append(out.Children, nodeJSON(child))
		}
	}
	return out
}
