package parser

import (
	"testing"

	"github.com/lumenlang/lumen/ast"
	"github.com/lumenlang/lumen/diagnostics"
	"github.com/lumenlang/lumen/lexer"
	"github.com/lumenlang/lumen/preproc"
)

type mapImporter map[string]string

func (m mapImporter) Read(path string) (string, error) {
	if src, ok := m[path]; ok {
		return src, nil
	}
	return "", &notFoundErr{path}
}

type notFoundErr struct{ path string }

func (e *notFoundErr) Error() string { return "not found: " + e.path }

func tokensFor(t *testing.T, src string) []lexer.Token {
	t.Helper()
	toks := lexer.New(src, "test.lum").Lex()
	return preproc.New(toks, "test.lum", diagnostics.Discard{}).Expand()
}

func parseProgram(t *testing.T, src string) []*ast.NodeInstance {
	t.Helper()
	p := New(tokensFor(t, src), "test.lum", mapImporter{})
	return p.ParseProgram()
}

func TestParser_VarDecl(t *testing.T) {
	nodes := parseProgram(t, "var x : int = 42;")
	if len(nodes) != 1 {
		t.Fatalf("got %d nodes, want 1", len(nodes))
	}
	if nodes[0].ID != ast.NodeVarDecl {
		t.Fatalf("got %v, want NodeVarDecl", nodes[0].ID)
	}
	if name := ast.GetProperty[string](nodes[0], "name"); name != "x" {
		t.Errorf("name = %q, want x", name)
	}
	val := ast.GetProperty[*ast.Expression](nodes[0], "value")
	if val == nil || val.Literal == nil || val.Literal.Int != 42 {
		t.Errorf("value = %+v, want literal 42", val)
	}
}

func TestParser_FuncDeclAndCall(t *testing.T) {
	src := `
func add(a: int, b: int): int {
  return a;
}
var result : int = add(1, 2);
`
	nodes := parseProgram(t, src)
	if len(nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(nodes))
	}
	if nodes[0].ID != ast.NodeFuncDecl {
		t.Fatalf("got %v, want NodeFuncDecl", nodes[0].ID)
	}
	if nodes[1].ID != ast.NodeVarDecl {
		t.Fatalf("got %v, want NodeVarDecl", nodes[1].ID)
	}
	val := ast.GetProperty[*ast.Expression](nodes[1], "value")
	if val.Kind != ast.ExprFuncCall {
		t.Fatalf("got kind %v, want ExprFuncCall", val.Kind)
	}
	if len(val.FuncCall.Args) != 2 {
		t.Fatalf("got %d args, want 2", len(val.FuncCall.Args))
	}
}

func TestParser_IfWhileScope(t *testing.T) {
	src := `
func f(): void {
  var x : int = 1;
  if (true) {
    x = 2;
  } else {
    x = 3;
  }
  while (false) {
    x = 4;
  }
}
`
	nodes := parseProgram(t, src)
	if len(nodes) != 1 || nodes[0].ID != ast.NodeFuncDecl {
		t.Fatalf("got %+v", nodes)
	}
	body := ast.GetProperty[*ast.NodeInstance](nodes[0], "body")
	content := ast.GetProperty[[]*ast.NodeInstance](body, "content")
	if len(content) != 3 {
		t.Fatalf("got %d statements in function body, want 3", len(content))
	}
	if content[1].ID != ast.NodeIfStmt {
		t.Fatalf("got %v, want NodeIfStmt", content[1].ID)
	}
}

func TestParser_TypeDeclForwardThenStruct(t *testing.T) {
	src := `
type Node;
type Node struct { value: int; };
var n : Node;
`
	nodes := parseProgram(t, src)
	if len(nodes) != 3 {
		t.Fatalf("got %d nodes, want 3", len(nodes))
	}
	varType := ast.GetProperty[*ast.Type](nodes[2], "type")
	if varType.Kind != ast.KindStruct || len(varType.Fields) != 1 {
		t.Fatalf("got %+v, want completed struct with 1 field", varType)
	}
}

func TestParser_OperationDecl(t *testing.T) {
	src := `
operation +<a: int, b: int, none> int {
  return a;
}
`
	nodes := parseProgram(t, src)
	if len(nodes) != 0 {
		t.Fatalf("operation_decl should not add to output, got %d nodes", len(nodes))
	}
}

func TestParser_CustomBinaryOperator(t *testing.T) {
	src := `
operation +<a: int, b: int, none> int {
  return a;
}
var sum : int = 1 + 2;
`
	nodes := parseProgram(t, src)
	last := nodes[len(nodes)-1]
	val := ast.GetProperty[*ast.Expression](last, "value")
	if val.Kind != ast.ExprCustom {
		t.Fatalf("got kind %v, want ExprCustom", val.Kind)
	}
	if val.Custom.Op.Symbols != "+" || val.Custom.A.Literal.Int != 1 || val.Custom.B.Literal.Int != 2 {
		t.Fatalf("got %+v, want 1 + 2 custom expr", val.Custom)
	}
}

func TestParser_AliasDeclAndUse(t *testing.T) {
	src := `
@greet {
  var hello : int = 1;
}
greet;
`
	nodes := parseProgram(t, src)
	if len(nodes) != 1 {
		t.Fatalf("got %d nodes, want 1 (replayed alias body)", len(nodes))
	}
	if nodes[0].ID != ast.NodeVarDecl {
		t.Fatalf("got %v, want the replayed NodeVarDecl", nodes[0].ID)
	}
}

func TestParser_AutocastOnVarDecl(t *testing.T) {
	src := `
autocast<a: int> float {
  return a;
}
var x : float = 1;
`
	nodes := parseProgram(t, src)
	last := nodes[len(nodes)-1]
	val := ast.GetProperty[*ast.Expression](last, "value")
	if val.Kind != ast.ExprCast {
		t.Fatalf("got kind %v, want ExprCast (autocast int->float)", val.Kind)
	}
}

func TestParser_MissingSemicolonFails(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on missing semicolon")
		}
	}()
	parseProgram(t, "var x : int = 1")
}

func TestParser_ImportSplicesPublicField(t *testing.T) {
	importer := mapImporter{
		"math.lum": "public square $ func square(x: int): int { return x; } $",
	}
	p := New(tokensFor(t, "import math.square;\n"), "test.lum", importer)
	nodes := p.ParseProgram()
	if len(nodes) != 1 || nodes[0].ID != ast.NodeFuncDecl {
		t.Fatalf("got %+v, want spliced func_decl from import", nodes)
	}
}
