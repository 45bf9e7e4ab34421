package source

import "fmt"

// Pos is a human-readable position in the analyzed source.
// The parser that produced the raw tree is responsible for the numbers;
// this core only carries them through to diagnostics and renderings.
type Pos struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}

// Zero reports whether the position was never set by the parser.
func (p Pos) Zero() bool {
	return p.Line == 0 && p.Col == 0
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Before orders positions line-first for deterministic output.
func (p Pos) Before(other Pos) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Col < other.Col
}
