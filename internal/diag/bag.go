package diag

// Bag collects diagnostics in arrival order. There is no deduplication
// and no reordering: every occurrence is recorded independently and the
// emission order is the order hosts see.
type Bag struct {
	items []Diagnostic
	max   int
}

// NewBag creates a bag capped at max diagnostics; max <= 0 means no limit.
func NewBag(max int) *Bag {
	capHint := max
	if capHint <= 0 || capHint > 64 {
		capHint = 64
	}
	return &Bag{
		items: make([]Diagnostic, 0, capHint),
		max:   max,
	}
}

// Add appends a diagnostic, honoring the cap.
// Returns false if the diagnostic was not added (limit reached).
func (b *Bag) Add(d Diagnostic) bool {
	if b.max > 0 && len(b.items) >= b.max {
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns a read-only view of the diagnostics in emission order.
// Callers must not modify the returned slice.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// HasErrors reports whether at least one error-severity diagnostic exists.
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// Errors returns the error-severity diagnostics, emission order kept.
func (b *Bag) Errors() []Diagnostic {
	return b.filter(SevError)
}

// Warnings returns the warning-severity diagnostics, emission order kept.
func (b *Bag) Warnings() []Diagnostic {
	return b.filter(SevWarning)
}

func (b *Bag) filter(sev Severity) []Diagnostic {
	var out []Diagnostic
	for _, d := range b.items {
		if d.Severity == sev {
			out = append(out, d)
		}
	}
	return out
}
