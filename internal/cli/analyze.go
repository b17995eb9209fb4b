package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/qtracelabs/qtrace/internal/config"
	"github.com/qtracelabs/qtrace/internal/logger"
	"github.com/qtracelabs/qtrace/internal/pipeline"
	"github.com/qtracelabs/qtrace/internal/report"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Analyze a source snippet for suspicious logic patterns",
	Long: `Analyze one source file (or stdin with "-") in the language given by
--lang. Prints detected pattern tags, sampled risk scores where a risk model
exists, and Gemini explanations when GEMINI_API_KEY (or GOOGLE_API_KEY) is
set.

  qtrace analyze suspicious.py
  cat snippet.c | qtrace analyze --lang c -`,
	Args: cobra.MaximumNArgs(1),
	RunE: analyzeCommand,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func analyzeCommand(cmd *cobra.Command, args []string) error {
	source, name, err := readSource(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(packsDir, logPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx := cmd.Context()
	p, err := buildPipeline(ctx, cfg, true)
	if err != nil {
		return err
	}

	audit, err := logger.New(cfg.LogPath)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer audit.Close()

	result, err := p.Run(ctx, source, langFlag)
	if err != nil {
		_ = audit.Log(logger.ScanEvent{
			Language:    langFlag,
			Snippet:     source,
			SourceBytes: len(source),
			Error:       err.Error(),
		})
		return err
	}

	logScanResult(audit, source, result)
	printResult(cmd.OutOrStdout(), name, result)
	return nil
}

func readSource(args []string) (source, name string, err error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), "stdin", nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", err
	}
	return string(data), args[0], nil
}

func logScanResult(audit *logger.AuditLogger, source string, result *pipeline.Result) {
	event := logger.ScanEvent{
		Language:    result.Language,
		Snippet:     source,
		SourceBytes: len(source),
		BlockCount:  len(result.Blocks),
		Scores:      map[string]float64{},
	}
	for _, tag := range result.Tags {
		event.Tags = append(event.Tags, string(tag))
		ann := result.Annotations[tag]
		if ann.Score != nil {
			event.Scores[string(tag)] = *ann.Score
		}
		if ann.Explanation != "" {
			event.Explanations++
		}
	}
	_ = audit.Log(event)
}

func printResult(w io.Writer, name string, result *pipeline.Result) {
	decorated := term.IsTerminal(int(os.Stdout.Fd()))

	fmt.Fprintf(w, "Analysis: %s (%s)\n", name, result.Language)
	fmt.Fprintf(w, "Logic blocks extracted: %d\n\n", len(result.Blocks))

	for i, b := range result.Blocks {
		fmt.Fprintf(w, "  block %d: if %s\n", i+1, b.Condition)
		if len(b.Calls) > 0 {
			fmt.Fprintf(w, "           calls: %s\n", strings.Join(b.Calls, ", "))
		}
	}
	if len(result.Blocks) > 0 {
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "Detected patterns:")
	for _, tag := range result.Tags {
		ann := result.Annotations[tag]
		line := fmt.Sprintf("  %s", tag)
		if ann.Score != nil {
			pct, label := report.FormatScore(*ann.Score)
			if decorated {
				line += fmt.Sprintf("  →  %s %s", pct, label)
			} else {
				line += fmt.Sprintf("  %s %s", pct, label)
			}
		}
		fmt.Fprintln(w, line)
		if ann.Explanation != "" {
			fmt.Fprintf(w, "    %s\n", ann.Explanation)
		}
	}
}
