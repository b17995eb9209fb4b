package config

import (
	"os"
	"path/filepath"
)

const (
	DefaultConfigDir = ".qtrace"
	DefaultPacksDir  = "packs"
	DefaultLogFile   = "audit.jsonl"
)

type Config struct {
	ConfigDir string
	PacksDir  string
	LogPath   string
	Analyzer  AnalyzerConfig
}

// AnalyzerConfig controls the extraction and scoring pipeline.
type AnalyzerConfig struct {
	// DeepInline substitutes helper bodies into call sites (python).
	DeepInline bool
	// ExpandConditions expands predicate calls inside boolean conditions.
	ExpandConditions bool
	// MaxInlineDepth bounds inlining recursion. Default: 4.
	MaxInlineDepth int
	// Shots is the scorer's sample count. Default: 1024.
	Shots int
	// GeminiModel selects the explanation model.
	GeminiModel string
}

// DefaultAnalyzerConfig returns the default pipeline configuration.
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		DeepInline:       true,
		ExpandConditions: true,
		MaxInlineDepth:   4,
		Shots:            1024,
	}
}

func Load(packsDir, logPath string) (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	configDir := filepath.Join(homeDir, DefaultConfigDir)
	if err := ensureDir(configDir); err != nil {
		return nil, err
	}

	cfg := &Config{
		ConfigDir: configDir,
		Analyzer:  DefaultAnalyzerConfig(),
	}

	if packsDir != "" {
		cfg.PacksDir = packsDir
	} else {
		cfg.PacksDir = filepath.Join(configDir, DefaultPacksDir)
	}

	if logPath != "" {
		cfg.LogPath = logPath
	} else {
		cfg.LogPath = filepath.Join(configDir, DefaultLogFile)
	}

	return cfg, nil
}

func ensureDir(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, 0700)
	}
	return nil
}
