package extract

import (
	"context"
	"regexp"
	"strings"

	"github.com/qtracelabs/qtrace/internal/lang"
)

// Config controls optional extractor behavior.
type Config struct {
	// DeepInline substitutes helper-function bodies into call sites
	// (python only). Defaults on in the pipeline.
	DeepInline bool
	// ExpandConditions additionally substitutes predicate calls inside
	// boolean conditions with the predicate's own conditions.
	ExpandConditions bool
	// MaxInlineDepth bounds the inlining recursion. <=0 means the default (4).
	MaxInlineDepth int
}

// DefaultMaxInlineDepth bounds helper inlining on pathological call graphs.
const DefaultMaxInlineDepth = 4

// Extractor turns raw source text into LogicBlocks. It is a pure function of
// its inputs plus the capability table it was constructed with: identical
// (source, language) pairs always produce identical output.
//
// Output is ordered by source position, and duplicate conditions are
// preserved: a condition repeated in source counts multiply toward classifier
// signal. Nested conditionals produce overlapping blocks on purpose.
type Extractor struct {
	grammars *Grammars
	cfg      Config
}

// New creates an extractor over the given capability table.
func New(grammars *Grammars, cfg Config) *Extractor {
	if grammars == nil {
		grammars = DefaultGrammars()
	}
	if cfg.MaxInlineDepth <= 0 {
		cfg.MaxInlineDepth = DefaultMaxInlineDepth
	}
	return &Extractor{grammars: grammars, cfg: cfg}
}

// callRe matches a statement that begins with a function invocation and
// captures the (possibly dotted) callee name.
var callRe = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*(?:\.[A-Za-z_][A-Za-z0-9_]*)*)\s*\(`)

// Extract returns every conditional construct in the source as a LogicBlock.
//
// Empty or whitespace-only source yields a nil slice and no error. A language
// with neither grammar nor fallback rule set yields *lang.UnsupportedError.
// Structural parse failures are recovered by the line-oriented fallback and
// never surface to the caller.
func (e *Extractor) Extract(ctx context.Context, source, language string) ([]LogicBlock, error) {
	language = lang.Normalize(language)
	if !lang.Known(language) {
		return nil, &lang.UnsupportedError{Language: language}
	}
	if strings.TrimSpace(source) == "" {
		return nil, nil
	}

	var blocks []LogicBlock
	if e.grammars.HasGrammar(language) {
		parsed, err := e.structuralBlocks(ctx, []byte(source), language)
		if err == nil && len(parsed) > 0 {
			blocks = parsed
		}
	}
	if blocks == nil {
		blocks = fallbackBlocks(source, language)
	}

	if e.cfg.DeepInline && language == lang.Python {
		funcs := buildFunctionMap(source)
		blocks = e.inlineBlocks(blocks, funcs)
	}
	return blocks, nil
}

// Expressions is the expression-only mode: just the guard conditions, in
// source order, duplicates preserved.
func (e *Extractor) Expressions(ctx context.Context, source, language string) ([]string, error) {
	blocks, err := e.Extract(ctx, source, language)
	if err != nil {
		return nil, err
	}
	exprs := make([]string, 0, len(blocks))
	for _, b := range blocks {
		exprs = append(exprs, b.Condition)
	}
	return exprs, nil
}

// isNoopStatement reports statements that carry no logic worth assessing.
// "if x: pass" has nothing to classify and is dropped.
func isNoopStatement(stmt string) bool {
	switch strings.TrimSuffix(strings.TrimSpace(stmt), ";") {
	case "pass", "", "...", "{}", "{", "}":
		return true
	}
	return false
}

// statementCalls records call names found in body statements.
func statementCalls(calls []string, stmt string) []string {
	if m := callRe.FindStringSubmatch(strings.TrimSpace(stmt)); m != nil {
		calls = appendCall(calls, m[1])
	}
	return calls
}

// trimOuterParens strips one layer of balanced surrounding parentheses, as
// produced by C-family condition nodes.
func trimOuterParens(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return s
	}
	depth := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 && i != len(s)-1 {
				return s
			}
		}
	}
	return strings.TrimSpace(s[1 : len(s)-1])
}
