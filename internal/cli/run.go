package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fufufafaethon/clipper/internal/config"
	"github.com/fufufafaethon/clipper/internal/pipeline"
)

func run(cmd *cobra.Command, source string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		abs, err := filepath.Abs(source)
		if err != nil {
			return err
		}
		source = abs
	}
	cfg.Source = source

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Hour)
	defer cancel()
	return pipeline.Run(ctx, cfg)
}

// buildConfig merges defaults, the optional YAML config file, environment
// variables and flags into one pipeline config. Flags win, then env, then the
// file, then defaults.
func buildConfig(cmd *cobra.Command) (pipeline.Config, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	fc, err := config.Load(cfgPath)
	if err != nil {
		return pipeline.Config{}, err
	}

	provider := stringFlag(cmd, "provider", fc.LLM.Provider)
	apiKey, _ := cmd.Flags().GetString("api-key")
	if apiKey == "" {
		apiKey = os.Getenv(apiKeyEnv(provider))
	}

	intent, _ := cmd.Flags().GetString("prompt")
	categories, _ := cmd.Flags().GetString("categories")
	noCaptions, _ := cmd.Flags().GetBool("no-captions")

	cfg := pipeline.Config{
		OutDir:   stringFlag(cmd, "out", fc.OutputDir),
		CacheDir: stringFlag(cmd, "cache", fc.CacheDir),

		Intent:     intent,
		Categories: splitCategories(categories),

		MinClips:     intFlag(cmd, "min-clips", fc.Clips.Min),
		MaxClips:     intFlag(cmd, "max-clips", fc.Clips.Max),
		MinClipDur:   time.Duration(intFlag(cmd, "min-duration", fc.Clips.MinDurationSec)) * time.Second,
		MaxClipDur:   time.Duration(intFlag(cmd, "max-duration", fc.Clips.MaxDurationSec)) * time.Second,
		BurnCaptions: fc.Captions.Burn && !noCaptions,
		Logf:         logf,

		YtDlpPath:   stringFlag(cmd, "yt-dlp", fc.Tools.YtDlp),
		FFmpegPath:  stringFlag(cmd, "ffmpeg", fc.Tools.FFmpeg),
		FFprobePath: stringFlag(cmd, "ffprobe", fc.Tools.FFprobe),

		WhisperBin:   stringFlag(cmd, "whisper-bin", fc.Tools.WhisperBin),
		WhisperModel: stringFlag(cmd, "whisper-model", fc.Tools.WhisperModel),

		Provider:     provider,
		APIKey:       apiKey,
		Model:        stringFlag(cmd, "model", fc.LLM.Model),
		BaseURL:      stringFlag(cmd, "base-url", fc.LLM.BaseURL),
		AllowedHosts: fc.LLM.AllowedHosts,
	}
	return cfg, nil
}

func apiKeyEnv(provider string) string {
	switch provider {
	case pipeline.ProviderOpenAI:
		return "OPENAI_API_KEY"
	case pipeline.ProviderOpenRouter:
		return "OPENROUTER_API_KEY"
	default:
		return "GEMINI_API_KEY"
	}
}

func splitCategories(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func stringFlag(cmd *cobra.Command, name, fallback string) string {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetString(name)
		return v
	}
	return fallback
}

func intFlag(cmd *cobra.Command, name string, fallback int) int {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetInt(name)
		return v
	}
	return fallback
}

func logf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}
