package classify

import (
	"fmt"
	"strings"

	"github.com/qtracelabs/qtrace/internal/lang"
)

// Classifier evaluates the detector catalog over extracted expressions or
// logic blocks. It holds only compiled rules and is safe for concurrent use.
type Classifier struct {
	rules []StaticRule
}

// New builds a classifier from the builtin catalog plus any extra rules
// (typically loaded from YAML packs). Every rule is validated up front so a
// misconfigured pack fails at startup, not silently at match time.
func New(extra ...StaticRule) (*Classifier, error) {
	rules := append(builtinRules(), extra...)
	for i := range rules {
		if err := rules[i].compile(); err != nil {
			return nil, fmt.Errorf("compile classifier rules: %w", err)
		}
	}
	return &Classifier{rules: rules}, nil
}

// Rules returns the compiled catalog (for inspection and the scan self-test).
func (c *Classifier) Rules() []StaticRule {
	return c.rules
}

// ClassifyExpressions runs the syntactic catalog over each text unit and
// returns the union of matched tags, never empty (UNKNOWN as the default
// member). Empty units are skipped, not errored.
func (c *Classifier) ClassifyExpressions(units []string, language string) ([]Tag, error) {
	language = lang.Normalize(language)
	if !lang.Known(language) {
		return nil, &lang.UnsupportedError{Language: language}
	}

	set := newTagSet()
	for _, unit := range units {
		if strings.TrimSpace(unit) == "" {
			continue
		}
		unitLower := strings.ToLower(unit)
		for i := range c.rules {
			r := &c.rules[i]
			if !r.appliesTo(language) {
				continue
			}
			if r.matches(unit, unitLower) {
				set.add(r.Tag)
			}
		}
		for _, t := range shellPayloadTags(unit) {
			set.add(t)
		}
	}
	return set.result(), nil
}
