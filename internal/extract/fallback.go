package extract

import (
	"regexp"
	"strings"

	"github.com/qtracelabs/qtrace/internal/lang"
)

// Line-oriented fallback extraction, used when no grammar exists for the
// language or the structural parse produced nothing. Tolerates syntactically
// invalid source.

var (
	colonHeaderRe = regexp.MustCompile(`^\s*(if|elif|while|for)\s+(.*?)\s*:`)
	braceHeaderRe = regexp.MustCompile(`^\s*(?:\}?\s*else\s+)?(if|while|for)\s*\(`)
)

// splitBraceHeader returns the balanced-paren condition and the remainder of
// the line after the closing paren, or ok=false when parens never balance.
func splitBraceHeader(line string, openIdx int) (cond, rest string, ok bool) {
	depth := 0
	for i := openIdx; i < len(line); i++ {
		switch line[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return strings.TrimSpace(line[openIdx+1 : i]), line[i+1:], true
			}
		}
	}
	return "", "", false
}

func fallbackBlocks(source, language string) []LogicBlock {
	if language == lang.Python {
		return colonBlocks(source)
	}
	return braceBlocks(source)
}

// colonBlocks scans python-style source: a conditional header opens a block,
// lines with strictly greater indentation belong to its body.
func colonBlocks(source string) []LogicBlock {
	var blocks []LogicBlock
	lines := strings.Split(source, "\n")
	for i := 0; i < len(lines); i++ {
		m := colonHeaderRe.FindStringSubmatch(lines[i])
		if m == nil {
			continue
		}
		cond := strings.TrimSpace(m[2])
		headerIndent := indentOf(lines[i])

		var body, calls []string
		j := i + 1
		for ; j < len(lines); j++ {
			line := lines[j]
			if strings.TrimSpace(line) == "" || indentOf(line) <= headerIndent {
				break
			}
			text := strings.TrimSpace(line)
			if isNoopStatement(text) {
				continue
			}
			body = append(body, text)
			calls = statementCalls(calls, text)
		}

		if cond != "" && len(body) > 0 {
			blocks = append(blocks, LogicBlock{Condition: cond, Body: body, Calls: calls})
		}
		// do not skip the body lines: nested conditionals in the body are
		// extracted as their own overlapping blocks
	}
	return blocks
}

// braceBlocks scans C-family source. The body runs from the header's opening
// brace until brace depth returns to zero; a header without braces takes the
// single following statement.
func braceBlocks(source string) []LogicBlock {
	var blocks []LogicBlock
	lines := strings.Split(source, "\n")
	for i := 0; i < len(lines); i++ {
		m := braceHeaderRe.FindString(lines[i])
		if m == "" {
			continue
		}
		cond, rest, ok := splitBraceHeader(lines[i], len(m)-1)
		if !ok {
			continue
		}
		var body, calls []string

		depth := strings.Count(rest, "{") - strings.Count(rest, "}")
		if depth > 0 {
			// header line may carry the first statement after the brace
			if open := strings.Index(rest, "{"); open >= 0 {
				body, calls = appendBodyLine(body, calls, rest[open+1:])
			}
			for j := i + 1; j < len(lines) && depth > 0; j++ {
				line := lines[j]
				depth += strings.Count(line, "{") - strings.Count(line, "}")
				if depth <= 0 {
					line = strings.TrimSuffix(strings.TrimSpace(line), "}")
				}
				body, calls = appendBodyLine(body, calls, line)
			}
		} else if strings.TrimSpace(rest) != "" {
			// braceless body on the same line
			body, calls = appendBodyLine(body, calls, rest)
		} else if i+1 < len(lines) {
			next := strings.TrimSpace(lines[i+1])
			if strings.HasPrefix(next, "{") {
				depth = strings.Count(lines[i+1], "{") - strings.Count(lines[i+1], "}")
				body, calls = appendBodyLine(body, calls, strings.TrimPrefix(next, "{"))
				for j := i + 2; j < len(lines) && depth > 0; j++ {
					line := lines[j]
					depth += strings.Count(line, "{") - strings.Count(line, "}")
					if depth <= 0 {
						line = strings.TrimSuffix(strings.TrimSpace(line), "}")
					}
					body, calls = appendBodyLine(body, calls, line)
				}
			} else {
				body, calls = appendBodyLine(body, calls, next)
			}
		}

		if cond != "" && len(body) > 0 {
			blocks = append(blocks, LogicBlock{Condition: cond, Body: body, Calls: calls})
		}
	}
	return blocks
}

func appendBodyLine(body, calls []string, line string) ([]string, []string) {
	text := strings.TrimSpace(line)
	if text == "" || isNoopStatement(text) {
		return body, calls
	}
	return append(body, text), statementCalls(calls, text)
}

func indentOf(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}
