package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Clips.Max != 10 || c.Clips.MaxDurationSec != 60 {
		t.Fatalf("unexpected defaults: %+v", c.Clips)
	}
	if c.LLM.Provider != "gemini" {
		t.Fatalf("unexpected default provider: %q", c.LLM.Provider)
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
output_dir: /tmp/clips
clips:
  max: 6
  max_duration_sec: 45
llm:
  provider: openrouter
  model: openai/gpt-4.1-mini
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.OutputDir != "/tmp/clips" || c.Clips.Max != 6 || c.Clips.MaxDurationSec != 45 {
		t.Fatalf("overrides not applied: %+v", c)
	}
	if c.LLM.Provider != "openrouter" || c.LLM.Model != "openai/gpt-4.1-mini" {
		t.Fatalf("llm overrides not applied: %+v", c.LLM)
	}
	// Untouched keys keep their defaults.
	if c.Clips.Min != 3 || c.Tools.FFmpeg != "ffmpeg" {
		t.Fatalf("defaults lost: %+v", c)
	}
}

func TestLoad_MissingExplicitPath(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing explicit config path")
	}
}
