package cli

import (
	"github.com/spf13/cobra"
)

var (
	packsDir string
	logPath  string
	langFlag string
	noDeep   bool
	seedFlag int64
)

var rootCmd = &cobra.Command{
	Use:   "qtrace",
	Short: "qtrace - heuristic logic-bomb and backdoor scanner",
	Long: `qtrace scans source snippets for suspicious logical patterns: bitwise
backdoors, time bombs, randomness-gated logic bombs, hardcoded credentials,
and dangerous calls. Helper functions are recursively inlined to surface
logic split across functions, detected patterns get a sampled risk score,
and Gemini (when configured) explains each finding in plain English.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&packsDir, "packs", "", "Directory of extra YAML rule packs (default: ~/.qtrace/packs)")
	rootCmd.PersistentFlags().StringVar(&logPath, "log", "", "Path to audit log file (default: ~/.qtrace/audit.jsonl)")
	rootCmd.PersistentFlags().StringVar(&langFlag, "lang", "python", "Source language of the analyzed snippet")
	rootCmd.PersistentFlags().BoolVar(&noDeep, "no-deep", false, "Disable recursive helper inlining")
	rootCmd.PersistentFlags().Int64Var(&seedFlag, "seed", 0, "Risk-scorer sampling seed (0 = random)")
}

func Execute() error {
	return rootCmd.Execute()
}
