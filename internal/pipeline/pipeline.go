package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/fufufafaethon/clipper/internal/domain/clips"
	"github.com/fufufafaethon/clipper/internal/ports"
	"github.com/fufufafaethon/clipper/internal/ports/adapters/ffmpeg"
	"github.com/fufufafaethon/clipper/internal/ports/adapters/gemini"
	"github.com/fufufafaethon/clipper/internal/ports/adapters/openaicompat"
	"github.com/fufufafaethon/clipper/internal/ports/adapters/whispercpp"
	"github.com/fufufafaethon/clipper/internal/ports/adapters/ytdlp"
	"github.com/fufufafaethon/clipper/internal/usecase"
)

const (
	ProviderGemini     = "gemini"
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"

	openRouterBaseURL = "https://openrouter.ai/api/v1"
)

type Config struct {
	// Source is a video URL or a local file path.
	Source string
	OutDir string

	// CacheDir is the base directory for local artifacts (downloads, audio,
	// transcripts). If empty, defaults to ".cache".
	CacheDir string

	Intent     string
	Categories []string

	MinClips     int
	MaxClips     int
	MinClipDur   time.Duration
	MaxClipDur   time.Duration
	BurnCaptions bool
	Logf         func(format string, args ...any)

	YtDlpPath   string
	FFmpegPath  string
	FFprobePath string

	WhisperBin   string
	WhisperModel string

	Provider     string
	APIKey       string
	Model        string
	BaseURL      string
	AllowedHosts []string
}

func (c Config) Validate() error {
	if c.Source == "" {
		return errors.New("source is empty")
	}
	if !isURL(c.Source) {
		if _, err := os.Stat(c.Source); err != nil {
			return fmt.Errorf("stat source: %w", err)
		}
	}
	if c.MinClips <= 0 {
		return fmt.Errorf("min clips must be > 0")
	}
	if c.MaxClips < c.MinClips {
		return fmt.Errorf("max clips must be >= min clips")
	}
	if c.MaxClipDur <= 0 {
		return fmt.Errorf("max clip duration must be > 0")
	}
	if c.MinClipDur < 0 {
		return fmt.Errorf("min clip duration must be >= 0")
	}
	if c.MinClipDur >= c.MaxClipDur {
		return fmt.Errorf("min clip duration must be < max clip duration")
	}
	if c.WhisperModel == "" {
		return fmt.Errorf("whisper model path is required")
	}
	switch c.Provider {
	case "", ProviderGemini:
		return gemini.ValidateBaseURL(c.BaseURL, c.AllowedHosts)
	case ProviderOpenAI, ProviderOpenRouter:
		return nil
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}
}

func Run(ctx context.Context, cfg Config) error {
	logf := cfg.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}

	// adapters
	dl := ytdlp.New(cfg.YtDlpPath)
	v := ffmpeg.New(cfg.FFmpegPath, cfg.FFprobePath)
	asr := whispercpp.New(cfg.WhisperBin, cfg.WhisperModel)
	gen := textGenerator(cfg, logf)

	if isURL(cfg.Source) {
		if err := dl.CheckBinary(); err != nil {
			return err
		}
	}

	uc := usecase.New(usecase.Deps{
		Downloader: dl,
		Video:      v,
		ASR:        asr,
		Gen:        gen,
	})

	jobID := hash(cfg.Source)
	baseCache := cfg.CacheDir
	if baseCache == "" {
		baseCache = ".cache"
	}
	cacheDir := filepath.Join(baseCache, "runs", jobID)
	logf("preparing workspace")
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return err
	}
	logf("cache: %s", cacheDir)

	outDir := cfg.OutDir
	if outDir == "" {
		outDir = "out"
	}
	runOutDir := buildRunOutDir(outDir, cfg.Source, time.Now().UTC())
	if err := os.MkdirAll(filepath.Join(runOutDir, "clips"), 0o755); err != nil {
		return err
	}
	if cfg.BurnCaptions {
		if err := os.MkdirAll(filepath.Join(runOutDir, "captions"), 0o755); err != nil {
			return err
		}
	}
	logf("output run dir: %s", runOutDir)

	res, err := uc.Run(ctx, usecase.Input{
		Source:       cfg.Source,
		Intent:       buildIntent(cfg.Intent, cfg.Categories),
		MinClips:     cfg.MinClips,
		MaxClips:     cfg.MaxClips,
		Bounds:       clips.Bounds{MinDur: cfg.MinClipDur, MaxDur: cfg.MaxClipDur},
		BurnCaptions: cfg.BurnCaptions,
		CacheDir:     cacheDir,
		OutDir:       runOutDir,
		Logf:         logf,
	})
	if err != nil {
		return err
	}

	b, err := json.MarshalIndent(res.Manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	manifestPath := filepath.Join(runOutDir, "manifest.json")
	if err := os.WriteFile(manifestPath, b, 0o644); err != nil {
		return err
	}
	logf("manifest written (%d clips): %s", len(res.Manifest.Clips), manifestPath)
	return nil
}

// textGenerator picks the adapter for the configured provider. No API key
// means no generator: selection runs on the deterministic fallback alone.
func textGenerator(cfg Config, logf func(string, ...any)) ports.TextGenerator {
	if cfg.APIKey == "" {
		logf("no API key configured; clip selection will use the transcript-only fallback")
		return nil
	}
	switch cfg.Provider {
	case ProviderOpenAI:
		return openaicompat.New(cfg.APIKey, cfg.Model, cfg.BaseURL)
	case ProviderOpenRouter:
		base := cfg.BaseURL
		if base == "" {
			base = openRouterBaseURL
		}
		return openaicompat.New(cfg.APIKey, cfg.Model, base)
	default:
		return gemini.New(cfg.APIKey, cfg.Model, cfg.BaseURL)
	}
}

// buildIntent folds the optional category labels into the user's free-text
// intent for the prompt.
func buildIntent(intent string, categories []string) string {
	intent = strings.TrimSpace(intent)
	kept := make([]string, 0, len(categories))
	for _, c := range categories {
		if c = strings.TrimSpace(c); c != "" {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		return intent
	}
	if intent == "" {
		return "moments about " + strings.Join(kept, ", ")
	}
	return intent + " (categories: " + strings.Join(kept, ", ") + ")"
}

func buildRunOutDir(outRoot, source string, now time.Time) string {
	name := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	name = normalizePathSegment(name)
	if name == "" {
		name = "input"
	}
	ts := now.UTC().Format("20060102-150405Z")
	runSeed := fmt.Sprintf("%s|%d", source, now.UTC().UnixNano())
	suffix := hash(runSeed)[:6]
	return filepath.Join(outRoot, fmt.Sprintf("%s-%s-%s", name, ts, suffix))
}

func normalizePathSegment(s string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:12]
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// ensure adapters implement ports
var _ ports.Downloader = (*ytdlp.Adapter)(nil)
var _ ports.VideoTool = (*ffmpeg.Adapter)(nil)
var _ ports.ASR = (*whispercpp.Adapter)(nil)
var _ ports.TextGenerator = (*gemini.Adapter)(nil)
var _ ports.TextGenerator = (*openaicompat.Adapter)(nil)
