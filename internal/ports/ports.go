package ports

import (
	"context"
	"time"

	"github.com/fufufafaethon/clipper/internal/types"
)

// Downloader acquires remote media into a local file.
type Downloader interface {
	Download(ctx context.Context, url, outDir string) (string, error)
}

type VideoTool interface {
	ExtractAudio(ctx context.Context, inVideo, outAudio string) error
	CutClip(ctx context.Context, inVideo string, start, end time.Duration, outVideo string) error
	BurnCaptions(ctx context.Context, inVideo, assPath, outVideo string) error
	ProbeDuration(ctx context.Context, inVideo string) (time.Duration, error)
}

type ASR interface {
	Transcribe(ctx context.Context, audioPath, cacheDir string) (types.Transcript, error)
}

// TextGenerator is the opaque prompt-in, text-out collaborator. All structure
// extraction from its output happens in the selection package, never here.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
