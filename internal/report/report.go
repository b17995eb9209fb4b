// Package report formats risk scores for display and runs the labelled
// benchmark corpus, optionally exporting results as CSV.
package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/qtracelabs/qtrace/internal/classify"
	"github.com/qtracelabs/qtrace/internal/lang"
	"github.com/qtracelabs/qtrace/internal/pipeline"
)

// FormatScore renders a risk value as a percentage plus a coarse label.
func FormatScore(risk float64) (pct string, label string) {
	pct = fmt.Sprintf("%.1f%%", risk*100)
	switch {
	case risk > 0.5:
		label = "EXTREME RISK"
	case risk > 0.3:
		label = "HIGH RISK"
	case risk > 0.1:
		label = "LOW RISK"
	default:
		label = "SAFE"
	}
	return pct, label
}

// BenchCase is one labelled snippet in the benchmark corpus.
type BenchCase struct {
	Name     string
	Language string
	Code     string
	Expected []classify.Tag
}

// Cases returns the built-in benchmark corpus.
func Cases() []BenchCase {
	return []BenchCase{
		{
			Name:     "Python XOR backdoor",
			Language: lang.Python,
			Code:     "if (a ^ b) == 42:\n    backdoor()",
			Expected: []classify.Tag{classify.TagXOR, classify.TagMagicConstant},
		},
		{
			Name:     "C dangerous function",
			Language: lang.C,
			Code:     `system("ls -la");`,
			Expected: []classify.Tag{classify.TagDangerousFunction},
		},
		{
			Name:     "Java unsafe deserialization",
			Language: lang.Java,
			Code:     `ObjectInputStream ois = new ObjectInputStream(f); ois.readObject();`,
			Expected: []classify.Tag{classify.TagUnsafeDeserialization},
		},
		{
			Name:     "JS eval and random",
			Language: lang.JavaScript,
			Code:     `eval(userInput); let t = Math.random();`,
			Expected: []classify.Tag{classify.TagDangerousFunction, classify.TagInsecureRandom},
		},
		{
			Name:     "Go syscall",
			Language: lang.Go,
			Code:     `syscall.Exec("ls", nil, nil)`,
			Expected: []classify.Tag{classify.TagDangerousFunction},
		},
		{
			Name:     "Solidity time bomb",
			Language: lang.Solidity,
			Code:     "if (block.timestamp > 1700000000) { owner = msg.sender; }",
			Expected: []classify.Tag{classify.TagTimeBomb},
		},
		{
			Name:     "Rust process",
			Language: lang.Rust,
			Code:     `std::process::Command::new("ls").spawn();`,
			Expected: []classify.Tag{classify.TagDangerousFunction},
		},
		{
			Name:     "Python probabilistic bomb",
			Language: lang.Python,
			Code:     "if random.random() < 0.14:\n    os.system('rm -rf /')",
			Expected: []classify.Tag{classify.TagProbabilisticBomb, classify.TagInsecureRandom},
		},
	}
}

// BenchRow is one benchmark outcome.
type BenchRow struct {
	Case     string
	Language string
	Detected []classify.Tag
	Expected []classify.Tag
	Missing  []classify.Tag
	Risk     string
}

// Passed reports whether every expected tag was detected.
func (r BenchRow) Passed() bool {
	return len(r.Missing) == 0
}

// Run executes every benchmark case through the pipeline.
func Run(ctx context.Context, p *pipeline.Pipeline) ([]BenchRow, error) {
	var rows []BenchRow
	for _, tc := range Cases() {
		result, err := p.Run(ctx, tc.Code, tc.Language)
		if err != nil {
			return nil, fmt.Errorf("benchmark case %q: %w", tc.Name, err)
		}

		row := BenchRow{
			Case:     tc.Name,
			Language: tc.Language,
			Detected: result.Tags,
			Expected: tc.Expected,
		}
		for _, want := range tc.Expected {
			if !result.HasTag(want) {
				row.Missing = append(row.Missing, want)
			}
		}
		for _, tag := range result.Tags {
			if ann := result.Annotations[tag]; ann.Score != nil {
				pct, label := FormatScore(*ann.Score)
				row.Risk = fmt.Sprintf("%s (%s)", pct, label)
				break
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WriteCSV exports benchmark rows as a flat table for offline comparison.
func WriteCSV(w io.Writer, rows []BenchRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Case", "Language", "Detected", "Expected", "Risk"}); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.Case,
			row.Language,
			joinTags(row.Detected),
			joinTags(row.Expected),
			row.Risk,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func joinTags(tags []classify.Tag) string {
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}
