package preproc

import (
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/lumenlang/lumen/lexer"
)

// render joins a token stream's printable values with spaces, the way the
// CLI's `lumenc preprocess` output would read with one token per space
// instead of per line — stable and easy to eyeball in a snapshot diff.
func render(toks []lexer.Token) string {
	var parts []string
	for _, tok := range toks {
		if tok.Kind == lexer.KindNull {
			continue
		}
		if tok.Value != "" {
			parts = append(parts, tok.Value)
		} else {
			parts = append(parts, tok.Kind.String())
		}
	}
	return strings.Join(parts, " ")
}

// TestExpand_GoldenScenarios snapshots the expanded token stream for each
// of spec.md §8's named end-to-end preprocessor scenarios, so a future
// change to expansion ordering or fragment/keyword/template handling shows
// up as a reviewable diff rather than a silent behavior change.
func TestExpand_GoldenScenarios(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"define_and_use", "#define N 42 #\nvar x : int = N;"},
		{"ifdef_branch", "#define A 1 #\n#ifndef A\nx\n#endif\n#ifdef A\ny\n#endif\n"},
		{"macro_expansion", "#macro M(a, b) a + b #\nM(3, 4);"},
		{"keyword_call", "#keyword triple <x> x + x + x #\ntriple 5;"},
		{"template_call", "#template box <T>(n) [B] var n : T B #\nbox <int>(v){= 1;}\n"},
		{"nested_macro_in_macro", "#macro SQ(n) n * n #\n#macro SUM(a, b) SQ(a) + SQ(b) #\nSUM(2, 3);"},
	}

	for _, c := range cases {
		toks := expand(t, c.src)
		snaps.MatchSnapshot(t, c.name, render(toks))
	}
}
