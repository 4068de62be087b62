package codegen

import (
	"strings"
	"testing"

	"github.com/lumenlang/lumen/ast"
	"github.com/lumenlang/lumen/diagnostics"
	"github.com/lumenlang/lumen/lexer"
	"github.com/lumenlang/lumen/parser"
	"github.com/lumenlang/lumen/preproc"
)

// TestSizeOf_FixedTable exercises spec.md §8 invariant 1: every scalar
// kind's byte size matches the §4.4 table exactly.
func TestSizeOf_FixedTable(t *testing.T) {
	dt := ast.NewDeclaredTypes()
	cases := []struct {
		kind ast.Kind
		want int64
	}{
		{ast.KindBoolean, 1}, {ast.KindChar, 1}, {ast.KindByte, 1},
		{ast.KindFloat, 4}, {ast.KindInt, 4}, {ast.KindUint, 4},
		{ast.KindDouble, 8}, {ast.KindLong, 8}, {ast.KindUlong, 8},
		{ast.KindInterface, 8}, {ast.KindPointer, 8}, {ast.KindString, 8},
	}
	for _, c := range cases {
		got := SizeOf(&ast.Type{Kind: c.kind}, dt)
		if got != c.want {
			t.Errorf("SizeOf(%v) = %d, want %d", c.kind, got, c.want)
		}
	}
}

// TestSizeOf_Void asserts SizeError on the incomplete/void case.
func TestSizeOf_Void(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for sizeof(void)")
		}
	}()
	SizeOf(&ast.Type{Kind: ast.KindVoid}, ast.NewDeclaredTypes())
}

// TestSizeOf_StructSumsFields asserts spec.md §8's worked example:
// sizeof(struct{a:int; b:long;}) == 12.
func TestSizeOf_StructSumsFields(t *testing.T) {
	st := &ast.Type{Kind: ast.KindStruct, Fields: []ast.Variable{
		{Name: "a", Type: &ast.Type{Kind: ast.KindInt}},
		{Name: "b", Type: &ast.Type{Kind: ast.KindLong}},
	}}
	if got := SizeOf(st, ast.NewDeclaredTypes()); got != 12 {
		t.Errorf("sizeof(struct{a:int;b:long}) = %d, want 12", got)
	}
}

// TestSizeOf_UnionTakesMax asserts spec.md §8's worked example:
// sizeof(union{a:int; b:long;}) == 8.
func TestSizeOf_UnionTakesMax(t *testing.T) {
	un := &ast.Type{Kind: ast.KindUnion, Fields: []ast.Variable{
		{Name: "a", Type: &ast.Type{Kind: ast.KindInt}},
		{Name: "b", Type: &ast.Type{Kind: ast.KindLong}},
	}}
	if got := SizeOf(un, ast.NewDeclaredTypes()); got != 8 {
		t.Errorf("sizeof(union{a:int;b:long}) = %d, want 8", got)
	}
}

// TestSizeOf_AliasResolves walks through a completed declared-type entry.
func TestSizeOf_AliasResolves(t *testing.T) {
	dt := ast.NewDeclaredTypes()
	dt.Forward("Node")
	dt.Complete("Node", &ast.Type{Kind: ast.KindLong})
	got := SizeOf(&ast.Type{Kind: ast.KindAlias, Identifier: "Node"}, dt)
	if got != 8 {
		t.Errorf("sizeof(alias Node) = %d, want 8", got)
	}
}

// TestSizeOf_IncompleteAliasFails covers the forward-declared-only case:
// a SizeError is the conservative, spec-sanctioned behaviour.
func TestSizeOf_IncompleteAliasFails(t *testing.T) {
	dt := ast.NewDeclaredTypes()
	dt.Forward("Node")
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for sizeof(incomplete alias)")
		}
	}()
	SizeOf(&ast.Type{Kind: ast.KindAlias, Identifier: "Node"}, dt)
}

// TestRegister_WidthRoundTrip is spec.md §8 invariant 5: every 64-bit
// register's to64->to32->to16->to08->to64 chain returns to its original
// 64-bit view.
func TestRegister_WidthRoundTrip(t *testing.T) {
	for r := RAX; r <= R15; r++ {
		got := r.To64().To32().To16().To08().To64()
		if got != r.To64() {
			t.Errorf("round-trip(%s) = %s, want %s", r, got, r.To64())
		}
	}
}

func TestRegister_ConvertPreservesRow(t *testing.T) {
	if RAX.To32() != EAX {
		t.Errorf("RAX.To32() = %s, want eax", RAX.To32())
	}
	if R15.To08() != R15B {
		t.Errorf("R15.To08() = %s, want r15b", R15.To08())
	}
}

func TestRegister_PromoteDemote(t *testing.T) {
	if got := EAX.Promote(); got != RAX {
		t.Errorf("EAX.Promote() = %s, want rax", got)
	}
	if got := RAX.Demote(); got != EAX {
		t.Errorf("RAX.Demote() = %s, want eax", got)
	}
}

func TestRegister_PromoteAtWidestFails(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic promoting an already-64-bit register")
		}
	}()
	RAX.Promote()
}

func TestRegister_DemoteAtNarrowestFails(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic demoting an already-8-bit register")
		}
	}()
	AL.Demote()
}

// --- full-pipeline smoke tests ----------------------------------------------

func compileProgram(t *testing.T, src string) string {
	t.Helper()
	toks := lexer.New(src, "test.lum").Lex()
	expanded := preproc.New(toks, "test.lum", diagnostics.Discard{}).Expand()
	p := parser.New(expanded, "test.lum", nil)
	program := p.ParseProgram()
	g := New(program, p.Functions(), p.Operators(), p.Casts(), p.Autocasts(), p.DeclaredTypes(), diagnostics.Discard{})
	return g.Output()
}

func TestGenerate_FourSectionSkeleton(t *testing.T) {
	out := compileProgram(t, `
func add(a: int, b: int): int {
  return a;
}
var result : int = add(1, 2);
`)
	for _, want := range []string{"global main", "section .bss", "section .data", "section .text"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestGenerate_FunctionGetsLabel(t *testing.T) {
	out := compileProgram(t, `
func add(a: int, b: int): int {
  return a;
}
`)
	if !strings.Contains(out, "add") {
		t.Errorf("expected a label mentioning function name %q in:\n%s", "add", out)
	}
}
