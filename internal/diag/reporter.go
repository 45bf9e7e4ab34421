package diag

import (
	"fmt"

	"marlin/internal/source"
)

// Reporter is the minimal contract for receiving diagnostics from the
// analysis phase. Implementations: BagReporter (appends to a Bag),
// NopReporter (discards).
type Reporter interface {
	Report(sev Severity, cat Category, pos source.Pos, msg string)
}

// Reportf formats and reports in one call.
func Reportf(r Reporter, sev Severity, cat Category, pos source.Pos, format string, args ...any) {
	if r == nil {
		return
	}
	r.Report(sev, cat, pos, fmt.Sprintf(format, args...))
}

// BagReporter writes every diagnostic into a Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(sev Severity, cat Category, pos source.Pos, msg string) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(Diagnostic{Severity: sev, Category: cat, Message: msg, Pos: pos})
}

// NopReporter drops everything.
type NopReporter struct{}

func (NopReporter) Report(Severity, Category, source.Pos, string) {}

// MultiReporter fans a diagnostic out to several reporters.
type MultiReporter []Reporter

func (m MultiReporter) Report(sev Severity, cat Category, pos source.Pos, msg string) {
	for _, r := range m {
		if r != nil {
			r.Report(sev, cat, pos, msg)
		}
	}
}
