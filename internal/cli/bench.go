package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/qtracelabs/qtrace/internal/config"
	"github.com/qtracelabs/qtrace/internal/report"
)

var benchOutput string

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Run the detection benchmark and export results as CSV",
	RunE:  benchCommand,
}

func init() {
	benchCmd.Flags().StringVarP(&benchOutput, "output", "o", "benchmark_results.csv", "CSV output path")
	rootCmd.AddCommand(benchCmd)
}

func benchCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(packsDir, logPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx := cmd.Context()
	p, err := buildPipeline(ctx, cfg, false)
	if err != nil {
		return err
	}

	rows, err := report.Run(ctx, p)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, row := range rows {
		fmt.Fprintf(out, "Test: %s\n", row.Case)
		fmt.Fprintf(out, "  - Detected: %v\n", row.Detected)
		fmt.Fprintf(out, "  - Expected: %v\n", row.Expected)
		if row.Risk != "" {
			fmt.Fprintf(out, "  - Risk: %s\n", row.Risk)
		}
	}

	f, err := os.Create(benchOutput)
	if err != nil {
		return fmt.Errorf("create %s: %w", benchOutput, err)
	}
	defer f.Close()

	if err := report.WriteCSV(f, rows); err != nil {
		return fmt.Errorf("write %s: %w", benchOutput, err)
	}
	fmt.Fprintf(out, "\nResults saved to %s\n", benchOutput)
	return nil
}
