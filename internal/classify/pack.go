package classify

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rule packs: extra static detectors distributed as YAML files. Loaded rules
// go through the same compile-time validation as the builtin catalog.

// Pack is one YAML rule-pack file.
type Pack struct {
	Name  string     `yaml:"name"`
	Rules []PackRule `yaml:"rules"`
}

// PackRule is the YAML form of a StaticRule.
type PackRule struct {
	ID        string   `yaml:"id"`
	Tag       string   `yaml:"tag"`
	Languages []string `yaml:"languages,omitempty"`
	Regex     string   `yaml:"regex,omitempty"`
	Keywords  []string `yaml:"keywords,omitempty"`
}

// LoadPack parses and validates a single rule-pack file.
func LoadPack(path string) (*Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var pack Pack
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return nil, fmt.Errorf("parse rule pack %s: %w", path, err)
	}
	if pack.Name == "" {
		pack.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	for _, r := range pack.Rules {
		rule := r.toStatic()
		if err := rule.compile(); err != nil {
			return nil, fmt.Errorf("rule pack %s: %w", pack.Name, err)
		}
	}
	return &pack, nil
}

// LoadPacks loads every *.yaml/*.yml pack under dir and returns the extra
// rules plus the loaded pack names. A missing directory is not an error.
func LoadPacks(dir string) ([]StaticRule, []string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	var names []string
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	var rules []StaticRule
	for _, name := range files {
		pack, err := LoadPack(filepath.Join(dir, name))
		if err != nil {
			return nil, nil, err
		}
		for _, r := range pack.Rules {
			rules = append(rules, r.toStatic())
		}
		names = append(names, pack.Name)
	}
	return rules, names, nil
}

func (r PackRule) toStatic() StaticRule {
	keywords := make([]string, len(r.Keywords))
	for i, kw := range r.Keywords {
		keywords[i] = strings.ToLower(kw)
	}
	return StaticRule{
		ID:        r.ID,
		Tag:       Tag(r.Tag),
		Languages: r.Languages,
		Regex:     r.Regex,
		Keywords:  keywords,
	}
}
