package extract

import (
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"

	"github.com/qtracelabs/qtrace/internal/lang"
)

// nodeSpec maps a language's conditional constructs onto the node types and
// field names of its tree-sitter grammar.
type nodeSpec struct {
	// conditional node types (if/while/for equivalents)
	conditionals []string
	// field names that hold the guard expression, tried in order
	condFields []string
	// field names that hold the body, tried in order
	bodyFields []string
	// node types that represent a statement block
	blockTypes []string
}

func (s nodeSpec) isConditional(nodeType string) bool {
	for _, t := range s.conditionals {
		if t == nodeType {
			return true
		}
	}
	return false
}

func (s nodeSpec) isBlock(nodeType string) bool {
	for _, t := range s.blockTypes {
		if t == nodeType {
			return true
		}
	}
	return false
}

// Grammars is the immutable parser-capability table: language name to grammar
// handle plus the node map for that grammar. Construct it once (NewGrammars or
// the memoized DefaultGrammars) and pass it into New; the extractor never
// reads ambient global state.
type Grammars struct {
	languages map[string]*sitter.Language
	nodes     map[string]nodeSpec
}

// NewGrammars builds the full capability table. Languages without a bundled
// grammar (solidity) are still analyzable through the line-oriented fallback.
func NewGrammars() *Grammars {
	return &Grammars{
		languages: map[string]*sitter.Language{
			lang.Python:     python.GetLanguage(),
			lang.JavaScript: javascript.GetLanguage(),
			lang.Java:       java.GetLanguage(),
			lang.C:          c.GetLanguage(),
			lang.Go:         golang.GetLanguage(),
			lang.Rust:       rust.GetLanguage(),
		},
		nodes: map[string]nodeSpec{
			lang.Python: {
				conditionals: []string{"if_statement", "while_statement", "for_statement"},
				condFields:   []string{"condition"},
				bodyFields:   []string{"consequence", "body"},
				blockTypes:   []string{"block"},
			},
			lang.JavaScript: {
				conditionals: []string{"if_statement", "while_statement", "for_statement"},
				condFields:   []string{"condition"},
				bodyFields:   []string{"consequence", "body"},
				blockTypes:   []string{"statement_block"},
			},
			lang.Java: {
				conditionals: []string{"if_statement", "while_statement", "for_statement"},
				condFields:   []string{"condition"},
				bodyFields:   []string{"consequence", "body"},
				blockTypes:   []string{"block"},
			},
			lang.C: {
				conditionals: []string{"if_statement", "while_statement", "for_statement"},
				condFields:   []string{"condition"},
				bodyFields:   []string{"consequence", "body"},
				blockTypes:   []string{"compound_statement"},
			},
			lang.Go: {
				// Go spells while as for
				conditionals: []string{"if_statement", "for_statement"},
				condFields:   []string{"condition"},
				bodyFields:   []string{"consequence", "body"},
				blockTypes:   []string{"block"},
			},
			lang.Rust: {
				conditionals: []string{"if_expression", "while_expression", "for_expression"},
				condFields:   []string{"condition"},
				bodyFields:   []string{"consequence", "body"},
				blockTypes:   []string{"block"},
			},
		},
	}
}

// HasGrammar reports whether a structural parser exists for the language.
func (g *Grammars) HasGrammar(language string) bool {
	_, ok := g.languages[language]
	return ok
}

func (g *Grammars) grammar(language string) (*sitter.Language, nodeSpec, bool) {
	l, ok := g.languages[language]
	if !ok {
		return nil, nodeSpec{}, false
	}
	return l, g.nodes[language], true
}

var (
	defaultGrammars *Grammars
	grammarsOnce    sync.Once
)

// DefaultGrammars returns the process-wide capability table, built on first
// use. The table is read-only after construction, so sharing it across
// goroutines is safe.
func DefaultGrammars() *Grammars {
	grammarsOnce.Do(func() {
		defaultGrammars = NewGrammars()
	})
	return defaultGrammars
}
