package classify

import (
	"regexp"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Shell-payload escalation: when a unit carries a shell-execution call with a
// string-literal argument, the literal is parsed as a real shell command.
// This catches destructive payloads ("rm -rf /", pipe-to-shell) that the
// surface regexes see only as an opaque string.

var shellCallArgRe = regexp.MustCompile(`(?i)\b(?:os\.system|system|popen|exec\w*|shellexec)\s*\(\s*['"]([^'"]+)['"]`)

var destructiveExecutables = map[string]bool{
	"rm": true, "dd": true, "mkfs": true, "shutdown": true, "reboot": true,
	"halt": true, "wipefs": true, "shred": true, "format": true,
}

var shellInterpreters = map[string]bool{
	"sh": true, "bash": true, "zsh": true, "dash": true,
}

func shellPayloadTags(unit string) []Tag {
	matches := shellCallArgRe.FindAllStringSubmatch(unit, -1)
	if matches == nil {
		return nil
	}
	set := newTagSet()
	for _, m := range matches {
		for _, t := range analyzeShellPayload(m[1]) {
			set.add(t)
		}
	}
	// no UNKNOWN default here: this is an escalation pass, not a classifier
	return set.tags
}

// analyzeShellPayload parses one payload with the shell grammar and reports
// destructive commands, pipes into interpreters, and system-path redirects.
func analyzeShellPayload(payload string) []Tag {
	parser := syntax.NewParser(syntax.Variant(syntax.LangBash))
	file, err := parser.Parse(strings.NewReader(payload), "")
	if err != nil {
		// not parseable shell; the surface rules already tagged the call
		return nil
	}

	set := newTagSet()
	syntax.Walk(file, func(node syntax.Node) bool {
		switch n := node.(type) {
		case *syntax.CallExpr:
			if name := firstLiteral(n); name != "" {
				base := name[strings.LastIndex(name, "/")+1:]
				if destructiveExecutables[base] || shellInterpreters[base] {
					set.add(TagDangerousFunction)
				}
			}
		case *syntax.Stmt:
			for _, redir := range n.Redirs {
				if redir.Op == syntax.RdrOut || redir.Op == syntax.AppOut {
					if target := wordLiteral(redir.Word); strings.HasPrefix(target, "/") {
						set.add(TagUnrestrictedFileWrite)
					}
				}
			}
		}
		return true
	})
	return set.tags
}

func firstLiteral(call *syntax.CallExpr) string {
	if len(call.Args) == 0 {
		return ""
	}
	return wordLiteral(call.Args[0])
}

func wordLiteral(w *syntax.Word) string {
	if w == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range w.Parts {
		if lit, ok := part.(*syntax.Lit); ok {
			sb.WriteString(lit.Value)
		}
	}
	return sb.String()
}
