package semafmt

import (
	"strings"
	"testing"

	"marlin/internal/ast"
	"marlin/internal/diag"
	"marlin/internal/sema"
	"marlin/internal/source"
)

func at(line, col uint32) source.Pos {
	return source.Pos{Line: line, Col: col}
}

func sampleResult() sema.Result {
	root := ast.Program(
		ast.VarDecl("x", "int", ast.IntLit("5", at(1, 14)), at(1, 5)),
		ast.ExprStmt(ast.Binary(ast.OpAdd,
			ast.Ident("x", at(2, 1)),
			ast.IntLit("1", at(2, 5)),
			at(2, 3)), at(2, 1)),
	)
	return sema.Analyze(root, sema.Options{})
}

func TestTreeDump(t *testing.T) {
	res := sampleResult()
	var sb strings.Builder
	if err := Tree(&sb, res.Tree); err != nil {
		t.Fatalf("tree: %v", err)
	}
	want := strings.Join([]string{
		"program <void>",
		"  var-decl <void> 'x' [slot 0]",
		"    int-lit <int> = 5",
		"  expr-stmt <int>",
		"    binary <int> '+'",
		"      ident <int> 'x' [slot 0]",
		"      int-lit <int> = 1",
		"",
	}, "\n")
	if sb.String() != want {
		t.Fatalf("tree dump mismatch:\ngot:\n%s\nwant:\n%s", sb.String(), want)
	}
}

func TestDiagnosticsListing(t *testing.T) {
	bag := diag.NewBag(0)
	bag.Add(diag.Diagnostic{Severity: diag.SevError, Category: diag.CatUndeclared,
		Message: "identifier 'y' is not declared", Pos: at(4, 2)})
	bag.Add(diag.Diagnostic{Severity: diag.SevWarning, Category: diag.CatOther,
		Message: "something minor", Pos: at(5, 1)})

	var sb strings.Builder
	if err := Diagnostics(&sb, bag); err != nil {
		t.Fatalf("diagnostics: %v", err)
	}
	want := "ERROR undeclared-identifier (4:2): identifier 'y' is not declared\n" +
		"WARNING other (5:1): something minor\n"
	if sb.String() != want {
		t.Fatalf("diagnostics listing mismatch:\ngot %q\nwant %q", sb.String(), want)
	}
}

func TestEmptyArtifacts(t *testing.T) {
	var sb strings.Builder
	if err := Diagnostics(&sb, diag.NewBag(0)); err != nil {
		t.Fatalf("diagnostics: %v", err)
	}
	if sb.String() != "(no diagnostics)\n" {
		t.Fatalf("empty bag rendering = %q", sb.String())
	}

	sb.Reset()
	if err := Tree(&sb, nil); err != nil {
		t.Fatalf("tree: %v", err)
	}
	if sb.String() != "(no tree)\n" {
		t.Fatalf("nil tree rendering = %q", sb.String())
	}
}

func TestRenderingIsStableAcrossRuns(t *testing.T) {
	render := func() string {
		res := sampleResult()
		var sb strings.Builder
		if err := SymbolTable(&sb, res.Symbols); err != nil {
			t.Fatalf("symbols: %v", err)
		}
		if err := Diagnostics(&sb, res.Bag); err != nil {
			t.Fatalf("diagnostics: %v", err)
		}
		if err := Tree(&sb, res.Tree); err != nil {
			t.Fatalf("tree: %v", err)
		}
		return sb.String()
	}
	if first, second := render(), render(); first != second {
		t.Fatalf("renderings differ across identical runs:\n%s\n---\n%s", first, second)
	}
}

func TestResultJSONShape(t *testing.T) {
	res := sampleResult()
	var sb strings.Builder
	if err := WriteResultJSON(&sb, res); err != nil {
		t.Fatalf("json: %v", err)
	}
	out := sb.String()
	for _, fragment := range []string{
		`"diagnostics": []`,
		`"name": "x"`,
		`"kind": "program"`,
		`"value": "5"`,
	} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("JSON output missing %q:\n%s", fragment, out)
		}
	}
}
