// Package pipeline wires extractor, classifier, scorer, and explainer into
// one analysis run. Each run is a pure function of one source snippet: no
// state is shared across runs.
package pipeline

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/qtracelabs/qtrace/internal/classify"
	"github.com/qtracelabs/qtrace/internal/extract"
	"github.com/qtracelabs/qtrace/internal/lang"
	"github.com/qtracelabs/qtrace/internal/score"
)

// Scorer is the consumed scoring contract: a tag plus numeric parameters in,
// a bounded risk value plus raw measurements out. Tags without a risk model
// return an error and simply get no score attached.
type Scorer interface {
	Supported(tag classify.Tag) bool
	Score(tag classify.Tag, p score.Params) (float64, *score.Measurements, error)
}

// Explainer is the consumed explanation contract. May fail; failures leave
// the annotation empty instead of aborting the run.
type Explainer interface {
	Explain(ctx context.Context, risk float64, tag classify.Tag, snippet string) (string, error)
}

// Annotation is the optional per-tag enrichment from the external
// collaborators.
type Annotation struct {
	Score        *float64
	Measurements *score.Measurements
	Explanation  string
}

// Result is the per-run output: detected tags in first-seen order plus
// whatever annotations the collaborators produced. Built once, read-only.
type Result struct {
	Language    string
	Blocks      []extract.LogicBlock
	Expressions []string
	Tags        []classify.Tag
	Annotations map[classify.Tag]Annotation
}

// HasTag reports whether the run detected the given tag.
func (r *Result) HasTag(tag classify.Tag) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Pipeline runs one analysis start to finish. Safe for sequential reuse;
// collaborators may be nil, in which case their annotations are skipped.
type Pipeline struct {
	extractor  *extract.Extractor
	classifier *classify.Classifier
	scorer     Scorer
	explainer  Explainer
}

// New assembles a pipeline from explicit collaborators.
func New(extractor *extract.Extractor, classifier *classify.Classifier, scorer Scorer, explainer Explainer) *Pipeline {
	return &Pipeline{
		extractor:  extractor,
		classifier: classifier,
		scorer:     scorer,
		explainer:  explainer,
	}
}

// Run analyzes one source snippet. The only error it returns is an
// unsupported language; parse problems, scorer failures, and explainer
// failures are all absorbed per the error policy.
func (p *Pipeline) Run(ctx context.Context, source, language string) (*Result, error) {
	language = lang.Normalize(language)

	blocks, err := p.extractor.Extract(ctx, source, language)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Language:    language,
		Blocks:      blocks,
		Annotations: map[classify.Tag]Annotation{},
	}
	for _, b := range blocks {
		result.Expressions = append(result.Expressions, b.Condition)
	}

	// Static pass: every extracted expression plus the raw source text, so
	// dangerous statements outside any conditional are still tagged.
	units := append(append([]string{}, result.Expressions...), source)
	staticTags, err := p.classifier.ClassifyExpressions(units, language)
	if err != nil {
		return nil, err
	}

	// Adversarial pass over the (deep-inlined) blocks.
	blockTags, err := p.classifier.ClassifyBlocks(toClassifyBlocks(blocks), language)
	if err != nil {
		return nil, err
	}

	result.Tags = mergeTags(staticTags, blockTags)

	for _, tag := range result.Tags {
		result.Annotations[tag] = p.annotate(ctx, tag, source, blocks)
	}
	return result, nil
}

// annotate attaches score and explanation best-effort. A failed collaborator
// call leaves the corresponding field unset.
func (p *Pipeline) annotate(ctx context.Context, tag classify.Tag, source string, blocks []extract.LogicBlock) Annotation {
	var ann Annotation
	if p.scorer == nil || !p.scorer.Supported(tag) {
		return ann
	}

	risk, meas, err := p.scorer.Score(tag, paramsFor(tag, blocks))
	if err != nil {
		return ann
	}
	ann.Score = &risk
	ann.Measurements = meas

	if p.explainer != nil {
		if text, err := p.explainer.Explain(ctx, risk, tag, source); err == nil {
			ann.Explanation = text
		}
	}
	return ann
}

// probLiteralRe pulls a declared trigger probability out of conditions like
// "random.random() < 0.22".
var probLiteralRe = regexp.MustCompile(`<=?\s*(0?\.\d+)`)

// paramsFor derives scoring parameters from the extracted blocks: declared
// trigger probabilities where the source states them, call fan-out for chain
// length. Everything else falls back to the model defaults.
func paramsFor(tag classify.Tag, blocks []extract.LogicBlock) score.Params {
	var p score.Params
	var probs []float64
	maxCalls := 0
	for _, b := range blocks {
		if m := probLiteralRe.FindStringSubmatch(b.Condition); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				probs = append(probs, v)
			}
		}
		if len(b.Calls) > maxCalls {
			maxCalls = len(b.Calls)
		}
	}
	if len(probs) > 0 {
		p.Prob = probs[0]
	}
	if len(probs) >= 2 {
		p.Probs = probs
	}
	switch tag {
	case classify.TagChainedBomb:
		p.ChainLength = maxCalls
	case classify.TagCrossFunctionBomb:
		p.FuncProbs = probs
	}
	return p
}

func toClassifyBlocks(blocks []extract.LogicBlock) []classify.Block {
	out := make([]classify.Block, len(blocks))
	for i, b := range blocks {
		out[i] = classify.Block{Condition: b.Condition, Body: b.Body, Calls: b.Calls}
	}
	return out
}

// mergeTags unions the two classifier passes, keeping first-seen order and
// dropping UNKNOWN whenever any real tag is present.
func mergeTags(a, b []classify.Tag) []classify.Tag {
	var merged []classify.Tag
	seen := map[classify.Tag]bool{}
	for _, t := range append(append([]classify.Tag{}, a...), b...) {
		if t == classify.TagUnknown || seen[t] {
			continue
		}
		seen[t] = true
		merged = append(merged, t)
	}
	if len(merged) == 0 {
		return []classify.Tag{classify.TagUnknown}
	}
	return merged
}

// Snippet returns a display-safe truncation of source for logs and prompts.
func Snippet(source string, max int) string {
	source = strings.TrimSpace(source)
	if max > 0 && len(source) > max {
		return source[:max] + "…"
	}
	return source
}
