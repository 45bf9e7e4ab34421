package sema

import (
	"marlin/internal/ast"
	"marlin/internal/diag"
	"marlin/internal/source"
	"marlin/internal/symbols"
)

// DefaultMaxDepth bounds recursion over the raw tree. Past it the
// offending subtree is decorated with the error sentinel instead of
// risking stack exhaustion.
const DefaultMaxDepth = 10000

// Options configure one semantic pass.
type Options struct {
	// Reporter, when set, receives every diagnostic in addition to the
	// Result bag.
	Reporter diag.Reporter
	// MaxDiagnostics caps the Result bag; 0 means no limit.
	MaxDiagnostics int
	// MaxDepth overrides DefaultMaxDepth when positive.
	MaxDepth int
}

// Result bundles the three artifacts of one analysis run.
type Result struct {
	Tree    *Decorated
	Symbols *symbols.Table
	Bag     *diag.Bag
}

// Analyze runs one semantic pass over a raw tree. Every call owns a
// fresh symbol table, diagnostics bag and slot counter, so separate
// calls (and separate goroutines running separate calls) never share
// state. Given the same tree the run is fully deterministic.
func Analyze(root *ast.Node, opts Options) Result {
	bag := diag.NewBag(opts.MaxDiagnostics)
	res := Result{
		Symbols: symbols.NewTable(),
		Bag:     bag,
	}

	var reporter diag.Reporter = diag.BagReporter{Bag: bag}
	if opts.Reporter != nil {
		reporter = diag.MultiReporter{reporter, opts.Reporter}
	}

	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	c := &checker{
		reporter: reporter,
		table:    res.Symbols,
		maxDepth: maxDepth,
	}

	if root == nil {
		c.report(diag.SevError, diag.CatStructural, source.Pos{}, "no raw tree to analyze")
		return res
	}
	res.Tree = c.visit(root, 0)
	return res
}

// checker drives the post-order traversal. It lives for exactly one
// Analyze call.
type checker struct {
	reporter diag.Reporter
	table    *symbols.Table
	maxDepth int
}

func (c *checker) report(sev diag.Severity, cat diag.Category, pos source.Pos, format string, args ...any) {
	diag.Reportf(c.reporter, sev, cat, pos, format, args...)
}

func (c *checker) errorf(cat diag.Category, pos source.Pos, format string, args ...any) {
	c.report(diag.SevError, cat, pos, format, args...)
}

// structural flags a malformed subtree. The node still gets a full
// error-typed decoration so the output tree keeps the input's shape,
// and the pass continues into siblings.
func (c *checker) structural(n *ast.Node, format string, args ...any) *Decorated {
	c.errorf(diag.CatStructural, n.Pos, format, args...)
	return errorMirror(n)
}

// wantChildren validates the arity contract of a node kind.
func wantChildren(n *ast.Node, min, max int) bool {
	if len(n.Children) < min {
		return false
	}
	return max < 0 || len(n.Children) <= max
}
