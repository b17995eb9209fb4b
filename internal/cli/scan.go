package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/qtracelabs/qtrace/internal/config"
	"github.com/qtracelabs/qtrace/internal/report"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Self-test: verify qtrace detects the known-bad benchmark corpus",
	Long: `Run the built-in benchmark corpus through the full pipeline and check
that every expected pattern tag is detected. Nothing is executed; this only
verifies the detectors.

  qtrace scan`,
	RunE: scanCommand,
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func scanCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(packsDir, logPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx := cmd.Context()
	p, err := buildPipeline(ctx, cfg, false)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════")
	fmt.Fprintln(out, "  qtrace Self-Test")
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════")
	fmt.Fprintln(out)

	rows, err := report.Run(ctx, p)
	if err != nil {
		return err
	}

	pass := 0
	for _, row := range rows {
		icon := "✅"
		detail := ""
		if row.Passed() {
			pass++
		} else {
			icon = "❌"
			var missing []string
			for _, t := range row.Missing {
				missing = append(missing, string(t))
			}
			detail = fmt.Sprintf("  (missing: %s)", strings.Join(missing, ", "))
		}
		fmt.Fprintf(out, "  %s  %-28s [%s]%s\n", icon, row.Case, row.Language, detail)
	}

	fmt.Fprintf(out, "\n  %d/%d cases passed\n", pass, len(rows))
	if pass != len(rows) {
		return fmt.Errorf("self-test failed: %d/%d cases", pass, len(rows))
	}
	return nil
}
