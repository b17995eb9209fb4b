package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qtracelabs/qtrace/internal/redteam"
)

var redteamCount int

var redteamCmd = &cobra.Command{
	Use:   "redteam",
	Short: "Generate adversarial logic-bomb samples for detector testing",
	Long: `Emit randomized multi-function Python logic bombs (probabilistic
triggers, chained helpers, identifier obfuscation) to stress-test the
extractor and classifier. Samples are printed to stdout and never executed.`,
	RunE: redteamCommand,
}

func init() {
	redteamCmd.Flags().IntVarP(&redteamCount, "count", "n", 3, "Number of samples to generate")
	rootCmd.AddCommand(redteamCmd)
}

func redteamCommand(cmd *cobra.Command, args []string) error {
	gen := redteam.New(seedFlag)
	out := cmd.OutOrStdout()
	for i, sample := range gen.Suite(redteamCount) {
		fmt.Fprintf(out, "# --- sample %d ---\n%s\n", i+1, sample)
	}
	return nil
}
