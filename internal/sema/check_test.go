package sema

import (
	"testing"

	"github.com/go-test/deep"

	"marlin/internal/ast"
	"marlin/internal/diag"
	"marlin/internal/source"
	"marlin/internal/types"
)

func at(line, col uint32) source.Pos {
	return source.Pos{Line: line, Col: col}
}

func analyze(t *testing.T, root *ast.Node) Result {
	t.Helper()
	return Analyze(root, Options{})
}

// onlyDiag asserts the bag holds exactly one diagnostic of the given
// category and returns it.
func onlyDiag(t *testing.T, res Result, cat diag.Category) diag.Diagnostic {
	t.Helper()
	items := res.Bag.Items()
	if len(items) != 1 {
		t.Fatalf("expected exactly 1 diagnostic, got %d: %+v", len(items), items)
	}
	if items[0].Category != cat {
		t.Fatalf("expected category %s, got %s (%s)", cat, items[0].Category, items[0].Message)
	}
	return items[0]
}

func countCat(res Result, cat diag.Category) int {
	n := 0
	for _, d := range res.Bag.Items() {
		if d.Category == cat {
			n++
		}
	}
	return n
}

func TestErrorFreeProgramHasCleanArtifacts(t *testing.T) {
	// var x: int = 5
	// var y: float = x + 2.5
	// if (x > 3) { y = 1.0 }
	root := ast.Program(
		ast.VarDecl("x", "int", ast.IntLit("5", at(1, 14)), at(1, 5)),
		ast.VarDecl("y", "float", ast.Binary(ast.OpAdd,
			ast.Ident("x", at(2, 16)),
			ast.FloatLit("2.5", at(2, 20)),
			at(2, 18)), at(2, 5)),
		ast.If(
			ast.Group(ast.Binary(ast.OpGt,
				ast.Ident("x", at(3, 5)),
				ast.IntLit("3", at(3, 9)),
				at(3, 7)), at(3, 4)),
			ast.Block(at(3, 12),
				ast.Assign("y", ast.FloatLit("1.0", at(3, 18)), at(3, 14))),
			nil, at(3, 1)),
	)

	res := analyze(t, root)
	if res.Bag.Len() != 0 {
		t.Fatalf("expected no diagnostics, got: %+v", res.Bag.Items())
	}

	var walk func(d *Decorated)
	walk = func(d *Decorated) {
		if d.Type == types.Error || d.Type == types.Invalid {
			t.Fatalf("node %s carries %s type in an error-free program", d.Kind, d.Type)
		}
		for _, child := range d.Children {
			walk(child)
		}
	}
	walk(res.Tree)
}

func TestDuplicateDeclarationKeepsFirstEntry(t *testing.T) {
	root := ast.Program(
		ast.VarDecl("x", "int", ast.IntLit("5", at(1, 14)), at(1, 5)),
		ast.VarDecl("x", "int", ast.IntLit("7", at(2, 14)), at(2, 5)),
	)
	res := analyze(t, root)

	d := onlyDiag(t, res, diag.CatDuplicate)
	if d.Pos != at(2, 5) {
		t.Fatalf("duplicate reported at %s, want second declaration's position 2:5", d.Pos)
	}

	syms := res.Symbols.Symbols()
	if len(syms) != 1 {
		t.Fatalf("expected one retained entry, got %d", len(syms))
	}
	if syms[0].Decl != at(1, 5) || syms[0].Type != types.Int {
		t.Fatalf("retained entry is not the first declaration: %+v", syms[0])
	}
}

func TestShadowingRestoresOuterEntry(t *testing.T) {
	// var x: int
	// if (true) { var x: float; x = 1.5 }
	// x = 2
	root := ast.Program(
		ast.VarDecl("x", "int", nil, at(1, 5)),
		ast.If(ast.BoolLit("true", at(2, 5)),
			ast.Block(at(2, 11),
				ast.VarDecl("x", "float", nil, at(2, 13)),
				ast.Assign("x", ast.FloatLit("1.5", at(2, 30)), at(2, 26))),
			nil, at(2, 1)),
		ast.Assign("x", ast.IntLit("2", at(3, 5)), at(3, 1)),
	)
	res := analyze(t, root)
	if res.Bag.Len() != 0 {
		t.Fatalf("shadowing must not raise diagnostics: %+v", res.Bag.Items())
	}

	syms := res.Symbols.Symbols()
	if len(syms) != 2 {
		t.Fatalf("expected outer and inner entries, got %d", len(syms))
	}
	if syms[0].Type != types.Int || syms[1].Type != types.Float {
		t.Fatalf("entries mutated by shadowing: %+v", syms)
	}

	// The trailing assignment resolves to the outer int entry again.
	assign := res.Tree.Children[2]
	if assign.Sym == nil || assign.Sym != syms[0] {
		t.Fatalf("assignment after the nested scope must target the outer entry")
	}
}

func TestPromotionRules(t *testing.T) {
	intPlusFloat := ast.Binary(ast.OpAdd, ast.IntLit("1", at(1, 1)), ast.FloatLit("2.0", at(1, 5)), at(1, 3))
	intPlusInt := ast.Binary(ast.OpAdd, ast.IntLit("1", at(2, 1)), ast.IntLit("2", at(2, 5)), at(2, 3))
	boolPlusInt := ast.Binary(ast.OpAdd, ast.BoolLit("true", at(3, 1)), ast.IntLit("2", at(3, 8)), at(3, 6))

	res := analyze(t, ast.Program(
		ast.ExprStmt(intPlusFloat, at(1, 1)),
		ast.ExprStmt(intPlusInt, at(2, 1)),
		ast.ExprStmt(boolPlusInt, at(3, 1)),
	))

	if got := res.Tree.Children[0].Type; got != types.Float {
		t.Fatalf("int + float = %s, want float", got)
	}
	if got := res.Tree.Children[1].Type; got != types.Int {
		t.Fatalf("int + int = %s, want int", got)
	}
	if got := res.Tree.Children[2].Type; got != types.Error {
		t.Fatalf("bool + int = %s, want error", got)
	}
	onlyDiag(t, res, diag.CatTypeMismatch)
}

func TestFoldingFixedExpression(t *testing.T) {
	// (5 - 3) * (8 / 2): integer division truncates and stays int.
	expr := ast.Binary(ast.OpMul,
		ast.Group(ast.Binary(ast.OpSub, ast.IntLit("5", at(1, 2)), ast.IntLit("3", at(1, 6)), at(1, 4)), at(1, 1)),
		ast.Group(ast.Binary(ast.OpDiv, ast.IntLit("8", at(1, 11)), ast.IntLit("2", at(1, 15)), at(1, 13)), at(1, 10)),
		at(1, 8))
	res := analyze(t, expr)

	if res.Bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", res.Bag.Items())
	}
	if res.Tree.Type != types.Int {
		t.Fatalf("folded type = %s, want int", res.Tree.Type)
	}
	if res.Tree.Value == nil || res.Tree.Value.Int != 8 {
		t.Fatalf("folded value = %s, want 8", res.Tree.Value)
	}
}

func TestTruncatingIntegerDivision(t *testing.T) {
	expr := ast.Binary(ast.OpDiv, ast.IntLit("7", at(1, 1)), ast.IntLit("2", at(1, 5)), at(1, 3))
	res := analyze(t, expr)
	if res.Tree.Value == nil || res.Tree.Value.Int != 3 {
		t.Fatalf("7 / 2 folded to %s, want 3", res.Tree.Value)
	}
	if res.Tree.Type != types.Int {
		t.Fatalf("7 / 2 typed as %s, want int", res.Tree.Type)
	}
}

func TestDivisionByZeroKeepsType(t *testing.T) {
	expr := ast.Binary(ast.OpDiv, ast.IntLit("10", at(1, 1)), ast.IntLit("0", at(1, 6)), at(1, 4))
	res := analyze(t, expr)

	d := onlyDiag(t, res, diag.CatDivisionByZero)
	if d.Severity != diag.SevError {
		t.Fatalf("division by zero must be an error, got %s", d.Severity)
	}
	if res.Tree.Value != nil {
		t.Fatalf("folded value must stay unset, got %s", res.Tree.Value)
	}
	if res.Tree.Type != types.Int {
		t.Fatalf("result type must stay determined, got %s", res.Tree.Type)
	}
}

func TestModuloByZero(t *testing.T) {
	expr := ast.Binary(ast.OpMod, ast.IntLit("10", at(1, 1)), ast.IntLit("0", at(1, 6)), at(1, 4))
	res := analyze(t, expr)
	onlyDiag(t, res, diag.CatDivisionByZero)
	if res.Tree.Type != types.Int || res.Tree.Value != nil {
		t.Fatalf("modulo by zero: type=%s value=%s", res.Tree.Type, res.Tree.Value)
	}
}

func TestNonBoolConditionStillDecoratesBody(t *testing.T) {
	// if (3) { var y: int = 1 }
	root := ast.If(ast.IntLit("3", at(1, 5)),
		ast.Block(at(1, 9),
			ast.VarDecl("y", "int", ast.IntLit("1", at(1, 24)), at(1, 15))),
		nil, at(1, 1))
	res := analyze(t, root)

	onlyDiag(t, res, diag.CatBadCondition)

	body := res.Tree.Children[1]
	if len(body.Children) != 1 {
		t.Fatalf("body was not decorated")
	}
	decl := body.Children[0]
	if decl.Type != types.Void || decl.Sym == nil || decl.Sym.Type != types.Int {
		t.Fatalf("body declaration not fully decorated: %+v", decl)
	}
}

func TestAssignToUndeclaredStillDecoratesRHS(t *testing.T) {
	root := ast.Assign("x",
		ast.Binary(ast.OpAdd, ast.IntLit("1", at(1, 5)), ast.IntLit("2", at(1, 9)), at(1, 7)),
		at(1, 1))
	res := analyze(t, root)

	onlyDiag(t, res, diag.CatUndeclared)
	if res.Tree.Type != types.Error {
		t.Fatalf("assignment node must be error-typed, got %s", res.Tree.Type)
	}
	rhs := res.Tree.Children[0]
	if rhs.Type != types.Int || rhs.Value == nil || rhs.Value.Int != 3 {
		t.Fatalf("right-hand side must still be fully decorated: %+v", rhs)
	}
}

func TestAssignmentNeverChangesDeclaredType(t *testing.T) {
	root := ast.Program(
		ast.VarDecl("x", "int", nil, at(1, 5)),
		ast.Assign("x", ast.FloatLit("2.5", at(2, 5)), at(2, 1)),
	)
	res := analyze(t, root)
	onlyDiag(t, res, diag.CatTypeMismatch)
	if sym := res.Symbols.Lookup("x"); sym.Type != types.Int {
		t.Fatalf("declared type changed to %s", sym.Type)
	}
	if res.Tree.Children[1].Type != types.Error {
		t.Fatalf("incompatible assignment must be error-typed")
	}
}

func TestIntAssignIntoFloatPromotes(t *testing.T) {
	root := ast.Program(
		ast.VarDecl("y", "float", nil, at(1, 5)),
		ast.Assign("y", ast.IntLit("2", at(2, 5)), at(2, 1)),
	)
	res := analyze(t, root)
	if res.Bag.Len() != 0 {
		t.Fatalf("int into float must promote silently: %+v", res.Bag.Items())
	}
	if res.Tree.Children[1].Type != types.Float {
		t.Fatalf("assignment carries %s, want the declared float", res.Tree.Children[1].Type)
	}
}

func TestIdentifiersNeverFold(t *testing.T) {
	root := ast.Program(
		ast.VarDecl("x", "int", ast.IntLit("5", at(1, 14)), at(1, 5)),
		ast.ExprStmt(ast.Binary(ast.OpAdd,
			ast.Ident("x", at(2, 1)),
			ast.IntLit("1", at(2, 5)),
			at(2, 3)), at(2, 1)),
	)
	res := analyze(t, root)
	if res.Bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", res.Bag.Items())
	}
	sum := res.Tree.Children[1]
	if sum.Type != types.Int {
		t.Fatalf("x + 1 typed %s, want int", sum.Type)
	}
	if sum.Value != nil {
		t.Fatalf("expression over an identifier must not fold, got %s", sum.Value)
	}
	if ident := sum.Children[0].Children[0]; ident.Value != nil {
		t.Fatalf("identifier leaf must not carry a value")
	}
}

func TestWrapperPropagatesAnnotations(t *testing.T) {
	root := ast.Group(ast.IntLit("5", at(1, 2)), at(1, 1))
	res := analyze(t, root)
	if res.Tree.Type != types.Int || res.Tree.Value == nil || res.Tree.Value.Int != 5 {
		t.Fatalf("group must propagate type and value: %+v", res.Tree)
	}
}

func TestUnaryOperators(t *testing.T) {
	res := analyze(t, ast.Program(
		ast.ExprStmt(ast.Unary(ast.OpNeg, ast.IntLit("5", at(1, 2)), at(1, 1)), at(1, 1)),
		ast.ExprStmt(ast.Unary(ast.OpNot, ast.BoolLit("true", at(2, 2)), at(2, 1)), at(2, 1)),
		ast.ExprStmt(ast.Unary(ast.OpNeg, ast.BoolLit("true", at(3, 2)), at(3, 1)), at(3, 1)),
	))

	neg := res.Tree.Children[0]
	if neg.Type != types.Int || neg.Value == nil || neg.Value.Int != -5 {
		t.Fatalf("-5 not folded: %+v", neg)
	}
	not := res.Tree.Children[1]
	if not.Type != types.Bool || not.Value != nil {
		t.Fatalf("!true must type bool without folding: %+v", not)
	}
	bad := res.Tree.Children[2]
	if bad.Type != types.Error {
		t.Fatalf("-true must be error-typed, got %s", bad.Type)
	}
	onlyDiag(t, res, diag.CatTypeMismatch)
}

func TestStringConcatenationFolds(t *testing.T) {
	res := analyze(t, ast.Program(
		ast.ExprStmt(ast.Binary(ast.OpAdd,
			ast.StringLit("foo", at(1, 1)), ast.StringLit("bar", at(1, 9)), at(1, 7)), at(1, 1)),
		ast.ExprStmt(ast.Binary(ast.OpSub,
			ast.StringLit("a", at(2, 1)), ast.StringLit("b", at(2, 7)), at(2, 5)), at(2, 1)),
		ast.ExprStmt(ast.Binary(ast.OpEq,
			ast.StringLit("a", at(3, 1)), ast.StringLit("a", at(3, 8)), at(3, 5)), at(3, 1)),
	))

	concat := res.Tree.Children[0]
	if concat.Type != types.String || concat.Value == nil || concat.Value.Str != "foobar" {
		t.Fatalf("string concat not folded: %+v", concat)
	}
	if res.Tree.Children[1].Type != types.Error {
		t.Fatalf("string - string must be error-typed")
	}
	if res.Tree.Children[2].Type != types.Bool {
		t.Fatalf("string == string must be bool")
	}
	onlyDiag(t, res, diag.CatTypeMismatch)
}

func TestPowFolding(t *testing.T) {
	res := analyze(t, ast.Binary(ast.OpPow, ast.IntLit("2", at(1, 1)), ast.IntLit("10", at(1, 5)), at(1, 3)))
	if res.Tree.Value == nil || res.Tree.Value.Int != 1024 {
		t.Fatalf("2 ^ 10 folded to %s, want 1024", res.Tree.Value)
	}
}

func TestOverflowClearsValueOnly(t *testing.T) {
	big := "9223372036854775807" // MaxInt64
	res := analyze(t, ast.Binary(ast.OpAdd,
		ast.IntLit(big, at(1, 1)), ast.IntLit("1", at(1, 22)), at(1, 20)))
	if res.Bag.Len() != 0 {
		t.Fatalf("overflow must not raise diagnostics: %+v", res.Bag.Items())
	}
	if res.Tree.Type != types.Int {
		t.Fatalf("overflowed fold must keep the inferred type, got %s", res.Tree.Type)
	}
	if res.Tree.Value != nil {
		t.Fatalf("overflowed fold must clear the value, got %s", res.Tree.Value)
	}
}

func TestDoUntilScopesBody(t *testing.T) {
	// do { var n: int = 1 } until (n > 0): the body scope is gone by
	// the time the condition is checked.
	root := ast.DoUntil(
		ast.Block(at(1, 4), ast.VarDecl("n", "int", ast.IntLit("1", at(1, 19)), at(1, 10))),
		ast.Binary(ast.OpGt, ast.Ident("n", at(2, 8)), ast.IntLit("0", at(2, 12)), at(2, 10)),
		at(1, 1))
	res := analyze(t, root)
	if countCat(res, diag.CatUndeclared) != 1 {
		t.Fatalf("condition must not see body-scoped names: %+v", res.Bag.Items())
	}
}

func TestWhileConditionChecked(t *testing.T) {
	root := ast.While(ast.IntLit("1", at(1, 8)),
		ast.Block(at(1, 11)), at(1, 1))
	res := analyze(t, root)
	onlyDiag(t, res, diag.CatBadCondition)
}

func TestUnknownKindDecoratesAndContinues(t *testing.T) {
	bogus := &ast.Node{Kind: ast.NodeKind(200), Pos: at(1, 1)}
	root := ast.Program(
		&ast.Node{Kind: ast.NodeExprStmt, Children: []*ast.Node{bogus}, Pos: at(1, 1)},
		ast.VarDecl("x", "int", nil, at(2, 5)),
	)
	res := analyze(t, root)
	if countCat(res, diag.CatStructural) != 1 {
		t.Fatalf("expected one structural diagnostic: %+v", res.Bag.Items())
	}
	// The sibling declaration is still processed.
	if res.Symbols.Lookup("x") == nil {
		t.Fatalf("pass must continue into siblings after a structural error")
	}
}

func TestDepthLimitEmitsDiagnosticNotPanic(t *testing.T) {
	leaf := ast.IntLit("1", at(1, 1))
	node := leaf
	for i := 0; i < 100; i++ {
		node = ast.Group(node, at(1, 1))
	}
	res := Analyze(node, Options{MaxDepth: 50})

	if countCat(res, diag.CatStructural) != 1 {
		t.Fatalf("expected one structural depth diagnostic: %+v", res.Bag.Items())
	}
	if res.Tree == nil {
		t.Fatalf("pass must still produce a tree")
	}
	// The truncated subtree keeps the raw shape, error-typed.
	depth := 0
	for d := res.Tree; d != nil && len(d.Children) > 0; d = d.Children[0] {
		depth++
	}
	if depth != 100 {
		t.Fatalf("decorated tree lost isomorphism: depth %d, want 100", depth)
	}
}

func TestRerunIsDeterministic(t *testing.T) {
	root := ast.Program(
		ast.VarDecl("x", "int", ast.IntLit("5", at(1, 14)), at(1, 5)),
		ast.VarDecl("x", "int", ast.IntLit("7", at(2, 14)), at(2, 5)),
		ast.If(ast.IntLit("3", at(3, 5)), ast.Block(at(3, 9)), nil, at(3, 1)),
	)
	first := analyze(t, root)
	second := analyze(t, root)

	if diff := deep.Equal(first.Tree, second.Tree); diff != nil {
		t.Fatalf("decorated trees differ between runs: %v", diff)
	}
	if diff := deep.Equal(first.Bag.Items(), second.Bag.Items()); diff != nil {
		t.Fatalf("diagnostics differ between runs: %v", diff)
	}
	if diff := deep.Equal(first.Symbols.Symbols(), second.Symbols.Symbols()); diff != nil {
		t.Fatalf("symbol tables differ between runs: %v", diff)
	}
}

func TestRunsShareNoState(t *testing.T) {
	root := ast.Program(ast.VarDecl("x", "int", nil, at(1, 5)))
	first := analyze(t, root)
	second := analyze(t, root)

	if first.Symbols == second.Symbols || first.Bag == second.Bag {
		t.Fatalf("runs must not share collaborator instances")
	}
	// Slot numbering restarts per run.
	if got := second.Symbols.Symbols()[0].Slot; got != 0 {
		t.Fatalf("slot counter leaked across runs: %d", got)
	}
}

func TestNilTreeReportsStructural(t *testing.T) {
	res := Analyze(nil, Options{})
	if countCat(res, diag.CatStructural) != 1 {
		t.Fatalf("nil input must raise a structural diagnostic")
	}
	if res.Tree != nil {
		t.Fatalf("nil input cannot produce a tree")
	}
}

func TestDeclUsesOwnNameInInitializer(t *testing.T) {
	// var x: int = x. The name is not in scope inside its own
	// initializer.
	root := ast.VarDecl("x", "int", ast.Ident("x", at(1, 14)), at(1, 5))
	res := analyze(t, root)
	onlyDiag(t, res, diag.CatUndeclared)
}
