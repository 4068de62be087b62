package cmd

import (
	"github.com/lumenlang/lumen/diagnostics"
	"github.com/lumenlang/lumen/lexer"
	"github.com/lumenlang/lumen/preproc"
	"github.com/spf13/cobra"
)

var preprocessDefines []string

var preprocessCmd = &cobra.Command{
	Use:   "preprocess [file]",
	Short: "Expand a lumen source file's macros and print the resulting tokens",
	Long: `Run the lexer then the preprocessor over a lumen source file and print
the expanded token stream, resolving #define/#macro/#keyword/#template/
#ifdef/#ifndef directives.

Examples:
  lumenc preprocess program.lum
  lumenc preprocess -D DEBUG=1 program.lum`,
	Args: cobra.ExactArgs(1),
	RunE: runPreprocess,
}

func init() {
	rootCmd.AddCommand(preprocessCmd)
	preprocessCmd.Flags().StringArrayVarP(&preprocessDefines, "define", "D", nil, "predefine NAME or NAME=VALUE (repeatable)")
}

func runPreprocess(_ *cobra.Command, args []string) error {
	filename := args[0]
	source, err := readSource(filename)
	if err != nil {
		return err
	}
	source = prependDefines(source, preprocessDefines)

	return withCompileError(filename, source, func() error {
		toks := lexer.New(source, filename).Lex()
		expanded := preproc.New(toks, filename, diagnostics.StderrSink{}).Expand()
		printTokens(expanded)
		return nil
	})
}
