package cmd

import (
	"github.com/lumenlang/lumen/lexer"
	"github.com/spf13/cobra"
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a lumen source file and print the resulting tokens",
	Long: `Tokenize (lex) a lumen source file and print the resulting token stream.

Examples:
  lumenc lex program.lum
  lumenc lex -     # read from stdin`,
	Args: cobra.ExactArgs(1),
	RunE: runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)
}

func runLex(_ *cobra.Command, args []string) error {
	filename := args[0]
	source, err := readSource(filename)
	if err != nil {
		return err
	}
	return withCompileError(filename, source, func() error {
		toks := lexer.New(source, filename).Lex()
		printTokens(toks)
		return nil
	})
}
