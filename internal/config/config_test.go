package config

import (
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("", "")
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(cfg.ConfigDir) != DefaultConfigDir {
		t.Errorf("ConfigDir = %q", cfg.ConfigDir)
	}
	if cfg.PacksDir != filepath.Join(cfg.ConfigDir, DefaultPacksDir) {
		t.Errorf("PacksDir = %q", cfg.PacksDir)
	}
	if cfg.LogPath != filepath.Join(cfg.ConfigDir, DefaultLogFile) {
		t.Errorf("LogPath = %q", cfg.LogPath)
	}
	if !cfg.Analyzer.DeepInline || cfg.Analyzer.Shots != 1024 {
		t.Errorf("Analyzer = %+v", cfg.Analyzer)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("/tmp/mypacks", "/tmp/my.jsonl")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.PacksDir != "/tmp/mypacks" {
		t.Errorf("PacksDir = %q", cfg.PacksDir)
	}
	if cfg.LogPath != "/tmp/my.jsonl" {
		t.Errorf("LogPath = %q", cfg.LogPath)
	}
}
