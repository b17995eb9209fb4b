// Package explain turns a (score, tag, snippet) triple into a plain-English
// risk explanation via the Gemini API. The explanation is an optional
// annotation: callers must tolerate failure and continue without it.
package explain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/qtracelabs/qtrace/internal/classify"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-1.5-flash"

// maxSnippetLen bounds how much source is sent to the model.
const maxSnippetLen = 4000

// Explainer generates a human explanation for one finding.
type Explainer interface {
	Explain(ctx context.Context, score float64, tag classify.Tag, snippet string) (string, error)
}

// Gemini calls the Gemini text-completion API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini explainer. An empty API key is an error; callers
// treat that as "explainer disabled", not a pipeline failure.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("no API key")
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

// Explain sends the finding to Gemini and returns the generated explanation.
func (g *Gemini) Explain(ctx context.Context, score float64, tag classify.Tag, snippet string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(buildPrompt(score, tag, snippet)), nil)
	if err != nil {
		return "", fmt.Errorf("generate explanation: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.New("empty explanation from model")
	}
	return text, nil
}

func buildPrompt(score float64, tag classify.Tag, snippet string) string {
	if len(snippet) > maxSnippetLen {
		snippet = snippet[:maxSnippetLen]
	}
	return fmt.Sprintf(`You are a cybersecurity expert reviewing flagged source code.

Code being analyzed:
--------------------
%s
--------------------
Detected logic pattern: %s
Risk score: %.2f (0 = benign, 1 = highly suspicious)

Explain the risk in simple, non-technical English for a software team.
Include:
- What this logic pattern can mean in real attacks
- Whether this is rare or common
- Whether a code reviewer should investigate further
Respond in 4-8 sentences, clear and direct.`, snippet, tag, score)
}
