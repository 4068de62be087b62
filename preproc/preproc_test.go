package preproc

import (
	"testing"

	"github.com/lumenlang/lumen/diagnostics"
	"github.com/lumenlang/lumen/lexer"
)

func expand(t *testing.T, src string) []lexer.Token {
	t.Helper()
	toks := lexer.New(src, "test.lum").Lex()
	return New(toks, "test.lum", diagnostics.Discard{}).Expand()
}

func values(toks []lexer.Token) []string {
	var out []string
	for _, tok := range toks {
		if tok.Kind == lexer.KindNull {
			continue
		}
		if tok.Value != "" {
			out = append(out, tok.Value)
		} else {
			out = append(out, tok.Kind.String())
		}
	}
	return out
}

func assertValues(t *testing.T, got []lexer.Token, want []string) {
	t.Helper()
	gv := values(got)
	if len(gv) != len(want) {
		t.Fatalf("got %v, want %v", gv, want)
	}
	for i := range want {
		if gv[i] != want[i] {
			t.Errorf("token %d: got %q, want %q", i, gv[i], want[i])
		}
	}
}

// TestDefineAndUse is spec.md §8 end-to-end scenario 1: after
// preprocessing, the stream contains the substituted literal.
func TestDefineAndUse(t *testing.T) {
	toks := expand(t, "#define N 42 #\nvar x : int = N;")
	assertValues(t, toks, []string{"var", "x", ":", "int", "=", "42", ";"})
}

// TestUndefMakesNameUnresolvable is spec.md §8 invariant 4: after #undef,
// the name is emitted verbatim.
func TestUndefMakesNameUnresolvable(t *testing.T) {
	toks := expand(t, "#define N 42 #\n#undef N\nN;")
	assertValues(t, toks, []string{"N", ";"})
}

func TestUndefMissingNameFails(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic undef'ing an unregistered name")
		}
	}()
	expand(t, "#undef N")
}

// TestIfdefIfndefBranch is spec.md §8 end-to-end scenario 2.
func TestIfdefIfndefBranch(t *testing.T) {
	toks := expand(t, "#define A 1 #\n#ifndef A\nx\n#endif\n#ifdef A\ny\n#endif\n")
	assertValues(t, toks, []string{"y"})
}

func TestIfdefWithoutEndifFails(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on unterminated #ifdef")
		}
	}()
	expand(t, "#ifdef A\nx\n")
}

// TestMacroExpansion is spec.md §8 end-to-end scenario 3.
func TestMacroExpansion(t *testing.T) {
	toks := expand(t, "#macro M(a, b) a + b #\nM(3, 4);")
	assertValues(t, toks, []string{"3", "+", "4", ";"})
}

func TestMacroWrongArgCountFails(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on macro arity mismatch")
		}
	}()
	expand(t, "#macro M(a, b) a + b #\nM(3);")
}

func TestKeywordSingleArgument(t *testing.T) {
	toks := expand(t, "#keyword triple <x> x + x + x #\ntriple 5;")
	assertValues(t, toks, []string{"5", "+", "5", "+", "5", ";"})
}

func TestTemplateExpansion(t *testing.T) {
	toks := expand(t, "#template box <T>(n) [B] var n : T B #\nbox <int>(v){= 1;}\n")
	assertValues(t, toks, []string{"var", "v", ":", "int", "=", "1", ";"})
}

func TestIdentifierNotDefinedEmittedVerbatim(t *testing.T) {
	toks := expand(t, "plain;")
	assertValues(t, toks, []string{"plain", ";"})
}

func TestFragmentSubstitution(t *testing.T) {
	toks := expand(t, "#define SUF _two #\nfoo@SUF;")
	assertValues(t, toks, []string{"foo_two", ";"})
}

func TestFragmentFallsBackToLiteralTextWhenUndefined(t *testing.T) {
	toks := expand(t, "foo@bar;")
	assertValues(t, toks, []string{"foobar", ";"})
}

func TestRegistrationNamesMustBeUnique(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic redefining a name already registered")
		}
	}()
	expand(t, "#define N 1 #\n#define N 2 #\n")
}

func TestLogiDoesNotAbort(t *testing.T) {
	rec := &diagnostics.RecordingSink{}
	toks := lexer.New("#logi hello #\nafter;", "test.lum").Lex()
	out := New(toks, "test.lum", rec).Expand()
	assertValues(t, out, []string{"after", ";"})
	if len(rec.Infos) != 1 {
		t.Fatalf("got %d info messages, want 1", len(rec.Infos))
	}
}

func TestLogeAborts(t *testing.T) {
	rec := &diagnostics.RecordingSink{}
	toks := lexer.New("#loge fatal #\nafter;", "test.lum").Lex()
	defer func() {
		if recover() == nil {
			t.Fatal("expected #loge to panic")
		}
	}()
	New(toks, "test.lum", rec).Expand()
}

func TestUnknownDirectiveFails(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on an unrecognised directive")
		}
	}()
	expand(t, "#bogus x #\n")
}
