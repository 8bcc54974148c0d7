package ytdlp

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

type Adapter struct {
	bin string
}

func New(binPath string) *Adapter {
	if binPath == "" {
		binPath = "yt-dlp"
	}
	return &Adapter{bin: binPath}
}

// CheckBinary verifies the configured yt-dlp executable can be found, so the
// pipeline fails before any network work when the tool is missing.
func (a *Adapter) CheckBinary() error {
	if _, err := exec.LookPath(a.bin); err != nil {
		return fmt.Errorf("yt-dlp not found (%s): %w", a.bin, err)
	}
	return nil
}

// Download fetches the best single-format rendition of url into outDir and
// returns the path of the downloaded file as reported by yt-dlp.
func (a *Adapter) Download(ctx context.Context, url, outDir string) (string, error) {
	if outDir == "" {
		outDir = "."
	}
	cmd := exec.CommandContext(ctx, a.bin,
		"-f", "best",
		"--no-playlist",
		"--quiet",
		"--no-simulate",
		"--print", "after_move:filepath",
		"-o", filepath.Join(outDir, "%(title)s.%(ext)s"),
		url,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("yt-dlp download: %w\n%s", err, string(b))
	}

	var path string
	for _, line := range strings.Split(string(b), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			path = line
		}
	}
	if path == "" {
		return "", fmt.Errorf("yt-dlp reported no output file for %s", url)
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("downloaded file missing: %w", err)
	}
	return path, nil
}
