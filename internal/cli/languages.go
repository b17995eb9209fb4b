package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qtracelabs/qtrace/internal/extract"
	"github.com/qtracelabs/qtrace/internal/lang"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List supported languages and their parse backends",
	Run: func(cmd *cobra.Command, args []string) {
		grammars := extract.DefaultGrammars()
		for _, l := range lang.All {
			backend := "line-oriented fallback"
			if grammars.HasGrammar(l) {
				backend = "structural (tree-sitter)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  %-12s %s\n", l, backend)
		}
	},
}

func init() {
	rootCmd.AddCommand(languagesCmd)
}
