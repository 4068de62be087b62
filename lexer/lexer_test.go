package lexer

import "testing"

func kinds(toks []Token) []Kind {
	ks := make([]Kind, len(toks))
	for i, t := range toks {
		ks[i] = t.Kind
	}
	return ks
}

func TestNextToken_Punctuation(t *testing.T) {
	input := `(){}<>[];::.,|@$#->`
	want := []Kind{
		KindOpenParen, KindCloseParen, KindOpenCurly, KindCloseCurly,
		KindOpenAngle, KindCloseAngle, KindOpenSquare, KindCloseSquare,
		KindSemicolon, KindDColon, KindDot, KindComma, KindPipe, KindAt,
		KindPublicClosure, KindPreprocessor, KindArrow, KindNull,
	}
	toks := New(input, "").Lex()
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestNextToken_ColonVsDColon(t *testing.T) {
	toks := New("a:b::c", "").Lex()
	want := []Kind{KindIdentifier, KindColon, KindIdentifier, KindDColon, KindIdentifier, KindNull}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestNextToken_ReservedWords(t *testing.T) {
	toks := New("var int func struct autocast nothing", "").Lex()
	wantKinds := []Kind{KindVar, KindInt, KindFunc, KindStruct, KindAutocast, KindIdentifier, KindNull}
	got := kinds(toks)
	for i, k := range wantKinds {
		if got[i] != k {
			t.Errorf("token %d: got %s, want %s", i, got[i], k)
		}
	}
	if toks[5].Value != "nothing" {
		t.Errorf("identifier value = %q, want %q", toks[5].Value, "nothing")
	}
}

func TestNextToken_BooleanLiterals(t *testing.T) {
	toks := New("true false", "").Lex()
	if toks[0].Kind != KindLiteral || toks[0].Value != "true" {
		t.Errorf("got %+v, want literal 'true'", toks[0])
	}
	if toks[1].Kind != KindLiteral || toks[1].Value != "false" {
		t.Errorf("got %+v, want literal 'false'", toks[1])
	}
}

func TestNextToken_NumberSuffixes(t *testing.T) {
	cases := []string{"42", "42L", "3.14F", "3.14D", "101B", "17O", "1FH"}
	for _, in := range cases {
		toks := New(in, "").Lex()
		if toks[0].Kind != KindLiteral {
			t.Errorf("input %q: got kind %s, want literal", in, toks[0].Kind)
		}
		if toks[0].Value != in {
			t.Errorf("input %q: got value %q", in, toks[0].Value)
		}
	}
}

func TestNextToken_CharAndStringLiterals(t *testing.T) {
	toks := New(`'a' "hello\nworld"`, "").Lex()
	if toks[0].Kind != KindLiteral || toks[0].Value != "a" {
		t.Errorf("char literal = %+v", toks[0])
	}
	if toks[1].Kind != KindLiteral || toks[1].Value != "hello\nworld" {
		t.Errorf("string literal = %+v", toks[1])
	}
}

func TestNextToken_MissingClosingQuote(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on missing closing quote")
		}
	}()
	New(`'ab`, "").Lex()
}

func TestNextToken_Comments(t *testing.T) {
	input := "var // trailing comment\nint /* block\ncomment */ func"
	toks := New(input, "").Lex()
	want := []Kind{KindVar, KindInt, KindFunc, KindNull}
	got := kinds(toks)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
	// block comment spans a newline, so "func" should be on line 3.
	if toks[2].Line != 3 {
		t.Errorf("func line = %d, want 3", toks[2].Line)
	}
}

func TestNextToken_SlashAndStarAsSymbols(t *testing.T) {
	toks := New("a / b * c", "").Lex()
	if toks[1].Kind != KindSymbols || toks[1].Value != "/" {
		t.Errorf("got %+v, want symbols '/'", toks[1])
	}
	if toks[3].Kind != KindSymbols || toks[3].Value != "*" {
		t.Errorf("got %+v, want symbols '*'", toks[3])
	}
}

func TestNextToken_AsmBlock(t *testing.T) {
	input := "asm { mov rax, 1\n syscall }"
	toks := New(input, "").Lex()
	if toks[0].Kind != KindAsm {
		t.Fatalf("got kind %s, want asm", toks[0].Kind)
	}
	want := " mov rax, 1\n syscall "
	if toks[0].Value != want {
		t.Errorf("asm value = %q, want %q", toks[0].Value, want)
	}
}

func TestNextToken_SymbolsRun(t *testing.T) {
	toks := New("a += b", "").Lex()
	if toks[1].Kind != KindSymbols || toks[1].Value != "+=" {
		t.Errorf("got %+v, want symbols '+='", toks[1])
	}
}

func TestNextToken_InvalidCharacter(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on invalid character")
		}
	}()
	New("\x01", "").Lex()
}

func TestNextToken_LineTracking(t *testing.T) {
	toks := New("var\nint\nfunc", "").Lex()
	if toks[0].Line != 1 || toks[1].Line != 2 || toks[2].Line != 3 {
		t.Fatalf("lines = %d,%d,%d, want 1,2,3", toks[0].Line, toks[1].Line, toks[2].Line)
	}
}
