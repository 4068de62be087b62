package cmd

import (
	"fmt"

	"github.com/lumenlang/lumen/diagnostics"
	"github.com/lumenlang/lumen/lexer"
	"github.com/lumenlang/lumen/parser"
	"github.com/lumenlang/lumen/preproc"
	"github.com/spf13/cobra"
)

var (
	parseDefines      []string
	parseIncludePaths []string
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a lumen source file and print its top-level statements",
	Long: `Run the full lex -> preprocess -> parse pipeline over a lumen source file
and print one line per top-level statement: the node's render procedure
output when it has one, otherwise its node kind (e.g. var_decl). The
parser's builders set no render procedure, so the output is the list of
node kinds.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringArrayVarP(&parseDefines, "define", "D", nil, "predefine NAME or NAME=VALUE (repeatable)")
	parseCmd.Flags().StringArrayVarP(&parseIncludePaths, "include", "I", nil, "import search path (repeatable)")
}

func runParse(_ *cobra.Command, args []string) error {
	filename := args[0]
	source, err := readSource(filename)
	if err != nil {
		return err
	}
	source = prependDefines(source, parseDefines)

	return withCompileError(filename, source, func() error {
		toks := lexer.New(source, filename).Lex()
		expanded := preproc.New(toks, filename, diagnostics.StderrSink{}).Expand()

		importer := fileImporter{includePaths: parseIncludePaths}
		p := parser.New(expanded, filename, importer)
		program := p.ParseProgram()

		for _, n := range program {
			if n.Render != nil {
				fmt.Println(n.Render(n))
			} else {
				fmt.Println(n.ID)
			}
		}
		return nil
	})
}
