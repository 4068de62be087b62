package ast

import "testing"

func TestTypeEqual_Structural(t *testing.T) {
	a := &Type{Kind: KindStruct, Fields: []Variable{{Name: "x", Type: &Type{Kind: KindInt}}}}
	b := &Type{Kind: KindStruct, Fields: []Variable{{Name: "x", Type: &Type{Kind: KindInt}}}}
	c := &Type{Kind: KindStruct, Fields: []Variable{{Name: "y", Type: &Type{Kind: KindInt}}}}
	d := &Type{Kind: KindStruct, Fields: []Variable{{Name: "x", Type: &Type{Kind: KindUint}}}}

	if !Equal(a, b) {
		t.Error("expected structurally identical structs to be equal")
	}
	if !Equal(a, c) {
		t.Error("expected field names to be irrelevant to struct equality")
	}
	if Equal(a, d) {
		t.Error("expected structs with differing field types to be unequal")
	}
}

func TestTypeEqual_Pointer(t *testing.T) {
	a := &Type{Kind: KindPointer, Pointee: &Type{Kind: KindInt}}
	b := &Type{Kind: KindPointer, Pointee: &Type{Kind: KindInt}}
	c := &Type{Kind: KindPointer, Pointee: &Type{Kind: KindUint}}
	if !Equal(a, b) {
		t.Error("expected pointers to equal pointees to be equal")
	}
	if Equal(a, c) {
		t.Error("expected pointers to differing pointees to be unequal")
	}
}

func TestDeclaredTypes_ForwardThenComplete(t *testing.T) {
	dt := NewDeclaredTypes()
	dt.Forward("Node")

	_, incomplete, found := dt.Lookup("Node")
	if !found || !incomplete {
		t.Fatal("expected Node to be found and incomplete after Forward")
	}

	ok := dt.Complete("Node", &Type{Kind: KindStruct, Identifier: "Node"})
	if !ok {
		t.Fatal("expected Complete to succeed on a forward-declared entry")
	}

	_, incomplete, found = dt.Lookup("Node")
	if !found || incomplete {
		t.Fatal("expected Node to be complete after Complete")
	}

	if ok := dt.Complete("Node", &Type{Kind: KindStruct}); ok {
		t.Fatal("expected re-completing a completed entry to fail")
	}
}

func TestParseLiteral_Suffixes(t *testing.T) {
	cases := []struct {
		lexeme string
		kind   LiteralKind
	}{
		{"42", LiteralInt},
		{"42L", LiteralLong},
		{"3.14", LiteralDouble},
		{"3.14F", LiteralFloat},
		{"3.14D", LiteralDouble},
		{"101B", LiteralInt},
		{"17O", LiteralInt},
		{"1FH", LiteralInt},
		{"true", LiteralBoolean},
		{"false", LiteralBoolean},
	}
	for _, c := range cases {
		lit := ParseLiteral(c.lexeme, 1)
		if lit.Kind != c.kind {
			t.Errorf("ParseLiteral(%q).Kind = %v, want %v", c.lexeme, lit.Kind, c.kind)
		}
	}
}

func TestParseLiteral_DottedIntSuffixFails(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for dotted lexeme with integer-only suffix")
		}
	}()
	ParseLiteral("3.14L", 1)
}

func TestBuilderRegistry_DispatchesFirstMatch(t *testing.T) {
	reg := NewRegistry()
	var built []NodeId

	reg.Register(NewBuilder(NodeVarDecl, func() bool { return false }))
	reg.Register(NewBuilder(NodeVarSet, func() bool { return true }).
		Property("name", func(*NodeInstance) any { return "x" }).
		Finally(func(ni *NodeInstance) { built = append(built, ni.ID) }))

	ni := reg.ParseSingle()
	if ni == nil {
		t.Fatal("expected a builder to match")
	}
	if ni.ID != NodeVarSet {
		t.Fatalf("got %v, want NodeVarSet", ni.ID)
	}
	if name := GetProperty[string](ni, "name"); name != "x" {
		t.Errorf("name property = %q, want %q", name, "x")
	}
	if len(built) != 1 {
		t.Fatalf("finally hook ran %d times, want 1", len(built))
	}
}

func TestGetProperty_PanicsOnUndeclaredProperty(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic reading an undeclared property")
		}
	}()
	ni := newNodeInstance(NodeScope)
	GetProperty[string](ni, "missing")
}
