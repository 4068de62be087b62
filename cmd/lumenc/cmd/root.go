package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version information, set by build flags (-ldflags "-X ...").
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "lumenc",
	Short: "lumen compiler front-end",
	Long: `lumenc is the front-end of a compiler for lumen, a small statically
typed systems language.

It lexes source text, performs token-level macro substitution, parses the
expanded tokens into a typed AST, and lowers the tree into x86-64 assembly.
Each stage is independently inspectable via its own subcommand.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}
