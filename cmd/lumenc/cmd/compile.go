package cmd

import (
	"fmt"
	"os"

	"github.com/lumenlang/lumen/codegen"
	"github.com/lumenlang/lumen/diagnostics"
	"github.com/lumenlang/lumen/lexer"
	"github.com/lumenlang/lumen/parser"
	"github.com/lumenlang/lumen/preproc"
	"github.com/spf13/cobra"
)

var (
	compileOutput       string
	compileDefines      []string
	compileIncludePaths []string
)

var compileCmd = &cobra.Command{
	Use:   "compile [file]",
	Short: "Compile a lumen source file to x86-64 assembly",
	Long: `Run the full lex -> preprocess -> parse -> generate pipeline over a lumen
source file and write the resulting assembly text (global main, .bss,
.data, and two .text sections) to a file or stdout.

Examples:
  lumenc compile program.lum -o program.asm
  lumenc compile program.lum -I lib -D DEBUG=1`,
	Args: cobra.ExactArgs(1),
	RunE: runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().StringVarP(&compileOutput, "output", "o", "", "output file (default: stdout)")
	compileCmd.Flags().StringArrayVarP(&compileDefines, "define", "D", nil, "predefine NAME or NAME=VALUE (repeatable)")
	compileCmd.Flags().StringArrayVarP(&compileIncludePaths, "include", "I", nil, "import search path (repeatable)")
}

func runCompile(cmd *cobra.Command, args []string) error {
	filename := args[0]
	source, err := readSource(filename)
	if err != nil {
		return err
	}
	source = prependDefines(source, compileDefines)

	verbose, _ := cmd.Flags().GetBool("verbose")

	return withCompileError(filename, source, func() error {
		toks := lexer.New(source, filename).Lex()

		var sink diagnostics.Sink = diagnostics.StderrSink{}
		expanded := preproc.New(toks, filename, sink).Expand()

		importer := fileImporter{includePaths: compileIncludePaths}
		p := parser.New(expanded, filename, importer)
		program := p.ParseProgram()

		gen := codegen.New(
			program,
			p.Functions(),
			p.Operators(),
			p.Casts(),
			p.Autocasts(),
			p.DeclaredTypes(),
			sink,
		)
		asm := gen.Output()

		if compileOutput == "" || compileOutput == "-" {
			fmt.Print(asm)
			return nil
		}
		if err := os.WriteFile(compileOutput, []byte(asm), 0o644); err != nil {
			return fmt.Errorf("failed to write output file %s: %w", compileOutput, err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "wrote %s -> %s\n", filename, compileOutput)
		}
		return nil
	})
}
