package extract

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// structuralBlocks walks the tree-sitter parse tree depth-first and lifts a
// LogicBlock out of every conditional node. Nested conditionals are captured
// independently: the outer block's body contains the inner construct as a
// body line, and the inner construct is also emitted as its own block.
func (e *Extractor) structuralBlocks(ctx context.Context, source []byte, language string) ([]LogicBlock, error) {
	grammar, spec, ok := e.grammars.grammar(language)
	if !ok {
		return nil, fmt.Errorf("no grammar for %q", language)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(grammar)
	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("structural parse: %w", err)
	}
	defer tree.Close()

	var blocks []LogicBlock
	var walk func(node *sitter.Node)
	walk = func(node *sitter.Node) {
		if node == nil {
			return
		}
		if spec.isConditional(node.Type()) {
			if block, ok := nodeToBlock(node, spec, source); ok {
				blocks = append(blocks, block)
			}
		}
		for i := 0; i < int(node.ChildCount()); i++ {
			walk(node.Child(i))
		}
	}
	walk(tree.RootNode())
	return blocks, nil
}

// nodeToBlock extracts condition and body from one conditional node.
// Blocks with no condition or no body statements are dropped: there is
// nothing to assess.
func nodeToBlock(node *sitter.Node, spec nodeSpec, source []byte) (LogicBlock, bool) {
	var cond string
	for _, field := range spec.condFields {
		if c := node.ChildByFieldName(field); c != nil {
			cond = trimOuterParens(c.Content(source))
			break
		}
	}

	var bodyNode *sitter.Node
	for _, field := range spec.bodyFields {
		if b := node.ChildByFieldName(field); b != nil {
			bodyNode = b
			break
		}
	}
	if bodyNode == nil {
		// some grammars attach the block as an unnamed child
		for i := 0; i < int(node.ChildCount()); i++ {
			if c := node.Child(i); c != nil && spec.isBlock(c.Type()) {
				bodyNode = c
				break
			}
		}
	}

	var body, calls []string
	if bodyNode != nil {
		if spec.isBlock(bodyNode.Type()) {
			for i := 0; i < int(bodyNode.NamedChildCount()); i++ {
				stmt := bodyNode.NamedChild(i)
				text := strings.TrimSpace(stmt.Content(source))
				if text == "" || isNoopStatement(text) {
					continue
				}
				body = append(body, text)
				calls = statementCalls(calls, text)
			}
		} else {
			// braceless single-statement body
			text := strings.TrimSpace(bodyNode.Content(source))
			if text != "" && !isNoopStatement(text) {
				body = append(body, text)
				calls = statementCalls(calls, text)
			}
		}
	}

	if cond == "" || len(body) == 0 {
		return LogicBlock{}, false
	}
	return LogicBlock{Condition: cond, Body: body, Calls: calls}, true
}
