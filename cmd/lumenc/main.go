// Command lumenc is the lumen compiler front-end's CLI driver: a thin
// wrapper around the lexer/preproc/parser/codegen pipeline that owns file
// I/O and import-path resolution, per spec.md §6's external-collaborator
// contract.
package main

import (
	"fmt"
	"os"

	"github.com/lumenlang/lumen/cmd/lumenc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
