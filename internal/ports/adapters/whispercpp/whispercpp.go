package whispercpp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/fufufafaethon/clipper/internal/transcript"
	"github.com/fufufafaethon/clipper/internal/types"
)

type Adapter struct {
	bin   string
	model string
}

func New(binPath, modelPath string) *Adapter {
	return &Adapter{bin: binPath, model: modelPath}
}

// Transcribe runs whisper.cpp with JSON output and word-level timestamps, then
// builds the transcript index from it. The raw JSON stays in cacheDir so a
// re-run against the same media can be debugged without re-transcribing.
func (a *Adapter) Transcribe(ctx context.Context, audioPath, cacheDir string) (types.Transcript, error) {
	outPrefix := filepath.Join(cacheDir, "whisper")
	args := []string{
		"-m", a.model,
		"-f", audioPath,
		"-oj",
		"-of", outPrefix,
		"-owts",
	}
	cmd := exec.CommandContext(ctx, a.bin, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return types.Transcript{}, fmt.Errorf("whisper.cpp failed: %w\n%s", err, string(b))
	}

	jb, err := os.ReadFile(outPrefix + ".json")
	if err != nil {
		return types.Transcript{}, err
	}

	var raw struct {
		Segments []types.Segment `json:"segments"`
	}
	if err := json.Unmarshal(jb, &raw); err != nil {
		return types.Transcript{}, fmt.Errorf("parse whisper output: %w", err)
	}
	return transcript.Build(raw.Segments), nil
}
