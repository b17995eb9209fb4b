package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/qtracelabs/qtrace/internal/classify"
	"github.com/qtracelabs/qtrace/internal/config"
	"github.com/qtracelabs/qtrace/internal/explain"
	"github.com/qtracelabs/qtrace/internal/extract"
	"github.com/qtracelabs/qtrace/internal/pipeline"
	"github.com/qtracelabs/qtrace/internal/score"
)

// buildPipeline assembles the analysis pipeline from config, flags, and the
// environment. The explainer is optional: no API key means no explanations,
// never a failure.
func buildPipeline(ctx context.Context, cfg *config.Config, withExplainer bool) (*pipeline.Pipeline, error) {
	if err := score.Validate(); err != nil {
		return nil, fmt.Errorf("risk model table: %w", err)
	}

	extra, packNames, err := classify.LoadPacks(cfg.PacksDir)
	if err != nil {
		return nil, fmt.Errorf("load rule packs: %w", err)
	}
	if len(packNames) > 0 {
		fmt.Fprintf(os.Stderr, "loaded rule packs: %v\n", packNames)
	}

	classifier, err := classify.New(extra...)
	if err != nil {
		return nil, err
	}

	extractor := extract.New(extract.DefaultGrammars(), extract.Config{
		DeepInline:       cfg.Analyzer.DeepInline && !noDeep,
		ExpandConditions: cfg.Analyzer.ExpandConditions && !noDeep,
		MaxInlineDepth:   cfg.Analyzer.MaxInlineDepth,
	})

	scorer := score.NewSimulator(cfg.Analyzer.Shots, seedFlag)

	var explainer pipeline.Explainer
	if withExplainer {
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			apiKey = os.Getenv("GOOGLE_API_KEY")
		}
		if apiKey != "" {
			g, err := explain.NewGemini(ctx, apiKey, cfg.Analyzer.GeminiModel)
			if err != nil {
				fmt.Fprintf(os.Stderr, "explainer disabled: %v\n", err)
			} else {
				explainer = g
			}
		}
	}

	return pipeline.New(extractor, classifier, scorer, explainer), nil
}
