package codegen

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// TestGenerate_GoldenAssembly snapshots the full assembly text for a
// handful of small representative programs, the way occam2go's own
// codegen tests assert against a fixed transpile-and-run output — here
// capturing the structural shape (section layout, label naming) rather
// than a runnable binary, since instruction selection itself isn't
// pinned down by spec.md §4.4.
func TestGenerate_GoldenAssembly(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"add_function", `
func add(a: int, b: int): int {
  return a;
}
var result : int = add(1, 2);
`},
		{"if_else", `
func choose(a: boolean): int {
  if (a) {
    return 1;
  } else {
    return 0;
  }
}
`},
		{"struct_global", `
type Point struct { x: int; y: int; };
var origin : Point;
`},
	}

	for _, c := range cases {
		out := compileProgram(t, c.src)
		snaps.MatchSnapshot(t, c.name, out)
	}
}
