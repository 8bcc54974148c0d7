// Package config loads the optional YAML configuration file. Flags and
// environment variables are merged on top by the CLI layer; nothing in here
// reads the environment.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	OutputDir string `yaml:"output_dir"`
	CacheDir  string `yaml:"cache_dir"`

	Clips struct {
		Min            int `yaml:"min"`
		Max            int `yaml:"max"`
		MinDurationSec int `yaml:"min_duration_sec"`
		MaxDurationSec int `yaml:"max_duration_sec"`
	} `yaml:"clips"`

	Captions struct {
		Burn bool `yaml:"burn"`
	} `yaml:"captions"`

	Tools struct {
		YtDlp        string `yaml:"yt_dlp"`
		FFmpeg       string `yaml:"ffmpeg"`
		FFprobe      string `yaml:"ffprobe"`
		WhisperBin   string `yaml:"whisper_bin"`
		WhisperModel string `yaml:"whisper_model"`
	} `yaml:"tools"`

	LLM struct {
		Provider     string   `yaml:"provider"`
		Model        string   `yaml:"model"`
		BaseURL      string   `yaml:"base_url"`
		AllowedHosts []string `yaml:"allowed_hosts"`
	} `yaml:"llm"`
}

func Default() Config {
	var c Config
	c.OutputDir = "out"
	c.CacheDir = ".cache"
	c.Clips.Min = 3
	c.Clips.Max = 10
	c.Clips.MinDurationSec = 0
	c.Clips.MaxDurationSec = 60
	c.Captions.Burn = true
	c.Tools.YtDlp = "yt-dlp"
	c.Tools.FFmpeg = "ffmpeg"
	c.Tools.FFprobe = "ffprobe"
	c.Tools.WhisperBin = ".cache/bin/whisper.cpp"
	c.Tools.WhisperModel = ".cache/models/ggml-base.bin"
	c.LLM.Provider = "gemini"
	return c
}

// Load reads path over the defaults. An empty path returns the defaults; a
// missing file at an explicit path is an error.
func Load(path string) (Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return c, nil
}
