package extract

import (
	"regexp"
	"strings"
)

// Deep inlining: substituting helper-function bodies into call sites to
// surface logic split across functions ("split the bomb in three helpers").
// Bounded depth and a per-branch seen set make the recursion terminate on any
// call graph, including direct and mutual recursion.

var (
	defHeaderRe = regexp.MustCompile(`^def\s+([A-Za-z_][A-Za-z0-9_]*)\s*\(.*\)\s*:`)
	bareCallRe  = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s*\(.*\)\s*$`)
	predCallRe  = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s*\(.*\)$`)
)

// functionMap is an ephemeral index from top-level function name to its body
// statements, built once per extraction and discarded afterward.
type functionMap map[string][]string

// buildFunctionMap collects top-level `def` bodies from python source.
func buildFunctionMap(source string) functionMap {
	funcs := functionMap{}
	lines := strings.Split(source, "\n")
	for i := 0; i < len(lines); i++ {
		if indentOf(lines[i]) != 0 {
			continue
		}
		m := defHeaderRe.FindStringSubmatch(strings.TrimSpace(lines[i]))
		if m == nil {
			continue
		}
		var body []string
		for j := i + 1; j < len(lines); j++ {
			if strings.TrimSpace(lines[j]) == "" {
				continue
			}
			if indentOf(lines[j]) == 0 {
				break
			}
			body = append(body, strings.TrimSpace(lines[j]))
		}
		if len(body) > 0 {
			funcs[m[1]] = body
		}
	}
	return funcs
}

func (e *Extractor) inlineBlocks(blocks []LogicBlock, funcs functionMap) []LogicBlock {
	if len(funcs) == 0 {
		return blocks
	}
	out := make([]LogicBlock, 0, len(blocks))
	for _, b := range blocks {
		inlined := LogicBlock{Condition: b.Condition}
		if e.cfg.ExpandConditions {
			inlined.Condition = e.expandCondition(b.Condition, funcs, 0, map[string]bool{})
		}
		inlined.Body, inlined.Calls = e.expandStatements(b.Body, funcs, 0, map[string]bool{})
		if len(inlined.Body) == 0 {
			continue
		}
		out = append(out, inlined)
	}
	return out
}

// expandStatements replaces bare calls to known helpers with the helper's own
// (recursively expanded) body. The seen set is copied per call site, never
// shared across siblings: the same helper may be inlined on two independent
// branches, but never twice on one recursion path.
func (e *Extractor) expandStatements(stmts []string, funcs functionMap, depth int, seen map[string]bool) ([]string, []string) {
	var out, calls []string
	for _, stmt := range stmts {
		calls = statementCalls(calls, stmt)

		m := bareCallRe.FindStringSubmatch(strings.TrimSpace(stmt))
		if m == nil || depth >= e.cfg.MaxInlineDepth {
			out = append(out, stmt)
			continue
		}
		name := m[1]
		body, known := funcs[name]
		if !known || seen[name] {
			// unknown callee or a cycle: leave the call site as a literal line
			out = append(out, stmt)
			continue
		}

		branchSeen := copySeen(seen)
		branchSeen[name] = true
		inlined, nested := e.expandStatements(body, funcs, depth+1, branchSeen)
		out = append(out, inlined...)
		for _, c := range nested {
			calls = appendCall(calls, c)
		}
	}
	return out, calls
}

// expandCondition descends the boolean and/or structure of a condition,
// substituting any term that is a call to a known helper with that helper's
// own guard conditions, joined conjunctively.
func (e *Extractor) expandCondition(cond string, funcs functionMap, depth int, seen map[string]bool) string {
	if depth >= e.cfg.MaxInlineDepth {
		return cond
	}
	terms := splitBoolean(cond)
	if len(terms) == 0 {
		return cond
	}
	changed := false
	for i, t := range terms {
		if t.op {
			continue
		}
		m := predCallRe.FindStringSubmatch(strings.TrimSpace(trimOuterParens(t.text)))
		if m == nil {
			continue
		}
		name := m[1]
		body, known := funcs[name]
		if !known || seen[name] {
			continue
		}
		conds := predicateConditions(body)
		if len(conds) == 0 {
			continue
		}
		branchSeen := copySeen(seen)
		branchSeen[name] = true
		for j, c := range conds {
			conds[j] = e.expandCondition(c, funcs, depth+1, branchSeen)
		}
		terms[i].text = "(" + strings.Join(conds, " and ") + ")"
		changed = true
	}
	if !changed {
		return cond
	}
	parts := make([]string, len(terms))
	for i, t := range terms {
		parts[i] = t.text
	}
	return strings.Join(parts, " ")
}

// predicateConditions collects the guard conditions appearing in a helper's
// body statements.
func predicateConditions(body []string) []string {
	var conds []string
	for _, stmt := range body {
		if m := colonHeaderRe.FindStringSubmatch(stmt); m != nil {
			conds = append(conds, strings.TrimSpace(m[2]))
		}
	}
	return conds
}

type boolTerm struct {
	text string
	op   bool // true for "and" / "or"
}

// splitBoolean splits a condition on top-level "and"/"or" keywords, keeping
// the operators as separate terms so the expression can be reassembled.
func splitBoolean(cond string) []boolTerm {
	fields := strings.Fields(cond)
	var terms []boolTerm
	var current []string
	depth := 0
	for _, f := range fields {
		depth += strings.Count(f, "(") - strings.Count(f, ")")
		if depth == 0 && (f == "and" || f == "or") {
			if len(current) > 0 {
				terms = append(terms, boolTerm{text: strings.Join(current, " ")})
				current = nil
			}
			terms = append(terms, boolTerm{text: f, op: true})
			continue
		}
		current = append(current, f)
	}
	if len(current) > 0 {
		terms = append(terms, boolTerm{text: strings.Join(current, " ")})
	}
	return terms
}

func copySeen(seen map[string]bool) map[string]bool {
	c := make(map[string]bool, len(seen)+1)
	for k, v := range seen {
		c[k] = v
	}
	return c
}
