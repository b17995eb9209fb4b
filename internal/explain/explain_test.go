package explain

import (
	"context"
	"strings"
	"testing"

	"github.com/qtracelabs/qtrace/internal/classify"
)

func TestNewGemini_RequiresAPIKey(t *testing.T) {
	if _, err := NewGemini(context.Background(), "", ""); err == nil {
		t.Fatal("expected error for empty API key")
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt(0.14, classify.TagProbabilisticBomb, "if random.random() < 0.14:\n    os.system('rm -rf /')")
	for _, want := range []string{
		"PROBABILISTIC_BOMB",
		"0.14",
		"random.random()",
		"cybersecurity expert",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildPrompt_TruncatesLongSnippets(t *testing.T) {
	snippet := strings.Repeat("A", maxSnippetLen+100)
	prompt := buildPrompt(0.5, classify.TagXOR, snippet)
	if strings.Count(prompt, "A") != maxSnippetLen {
		t.Errorf("snippet not truncated to %d bytes", maxSnippetLen)
	}
}
