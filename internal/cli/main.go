package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:          "clipper <video-url-or-path>",
		Short:        "AI powered video clipper: transcribe, pick moments, cut captioned clips",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0])
		},
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	pf := root.PersistentFlags()
	pf.String("config", "", "Path to YAML config file")
	pf.String("out", "out", "Output directory")
	pf.String("cache", ".cache", "Cache directory")
	pf.String("prompt", "", "What makes a good clip, e.g. \"most interesting moments\"")
	pf.String("categories", "", "Comma separated category labels")
	pf.String("api-key", "", "Text generation API key (falls back to provider env var)")
	pf.String("provider", "", "Text generation provider: gemini, openai or openrouter")
	pf.String("model", "", "Model name override")
	pf.Int("min-clips", 0, "Minimum number of clips to request")
	pf.Int("max-clips", 0, "Maximum number of clips to request")
	pf.Bool("no-captions", false, "Skip caption burn-in")

	// Tuning and tool-path flags (internal)
	pf.String("base-url", "", "Text generation base URL override")
	pf.Int("min-duration", -1, "Min clip duration seconds")
	pf.Int("max-duration", -1, "Max clip duration seconds")
	pf.String("yt-dlp", "", "yt-dlp binary path")
	pf.String("ffmpeg", "", "ffmpeg binary path")
	pf.String("ffprobe", "", "ffprobe binary path")
	pf.String("whisper-bin", "", "whisper.cpp binary path")
	pf.String("whisper-model", "", "whisper.cpp model path")
	for _, name := range []string{
		"base-url", "min-duration", "max-duration",
		"yt-dlp", "ffmpeg", "ffprobe", "whisper-bin", "whisper-model",
	} {
		_ = pf.MarkHidden(name)
	}

	root.AddCommand(serveCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
