package diag

import (
	"fmt"

	"marlin/internal/source"
)

// Diagnostic is one recorded finding of the semantic pass.
type Diagnostic struct {
	Severity Severity
	Category Category
	Message  string
	Pos      source.Pos
}

// Format renders the stable per-diagnostic line:
// {SEVERITY} {category} ({line}:{col}): {message}
func (d Diagnostic) Format() string {
	return fmt.Sprintf("%s %s (%s): %s", d.Severity, d.Category, d.Pos, d.Message)
}
