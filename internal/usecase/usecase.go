package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/fufufafaethon/clipper/internal/domain/captions"
	"github.com/fufufafaethon/clipper/internal/domain/clips"
	"github.com/fufufafaethon/clipper/internal/domain/selection"
	"github.com/fufufafaethon/clipper/internal/ports"
	"github.com/fufufafaethon/clipper/internal/types"
)

type Deps struct {
	Downloader ports.Downloader
	Video      ports.VideoTool
	ASR        ports.ASR

	// Gen may be nil when no credential is configured; selection then goes
	// straight to the deterministic fallback.
	Gen ports.TextGenerator
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase { return Usecase{d: d} }

type Input struct {
	Source       string
	Intent       string
	MinClips     int
	MaxClips     int
	Bounds       clips.Bounds
	BurnCaptions bool
	CacheDir     string
	OutDir       string
	Logf         func(format string, args ...any)
}

type Result struct {
	Manifest types.Manifest
}

// Run drives the whole pipeline for one video. Upstream failures (download,
// audio extraction, transcription) abort the run; everything after that
// degrades per candidate or per clip instead of aborting.
func (u Usecase) Run(ctx context.Context, in Input) (Result, error) {
	logf := in.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}

	local := in.Source
	if isURL(local) {
		logf("downloading %s", local)
		p, err := u.d.Downloader.Download(ctx, local, in.CacheDir)
		if err != nil {
			return Result{}, fmt.Errorf("download: %w", err)
		}
		local = p
		logf("downloaded to %s", local)
	}

	wav := filepath.Join(in.CacheDir, "audio.wav")
	if err := u.d.Video.ExtractAudio(ctx, local, wav); err != nil {
		return Result{}, err
	}

	tr, err := u.d.ASR.Transcribe(ctx, wav, in.CacheDir)
	if err != nil {
		return Result{}, err
	}
	logf("transcribed %d segments (%s)", len(tr.Segments), tr.Duration)

	// The transcript, not the container, is the bound candidates are clamped
	// against; flag noticeable disagreement so truncated tails are explainable.
	if mediaDur, err := u.d.Video.ProbeDuration(ctx, local); err == nil && mediaDur > 0 {
		if diff := mediaDur - tr.Duration; diff > 2*time.Second || diff < -2*time.Second {
			logf("transcript covers %s of %s media", tr.Duration, mediaDur)
		}
	}

	raws := u.selectCandidates(ctx, tr, in, logf)

	accepted := make([]types.Clip, 0, len(raws))
	for _, raw := range raws {
		clip, err := clips.Validate(raw, tr, in.Bounds)
		if err != nil {
			logf("candidate rejected (%s - %s): %v", raw.Start, raw.End, err)
			continue
		}
		accepted = append(accepted, clip)
	}
	sort.Slice(accepted, func(i, j int) bool { return accepted[i].Start < accepted[j].Start })
	logf("%d of %d candidates accepted", len(accepted), len(raws))

	m := types.Manifest{Input: in.Source}
	for i, clip := range accepted {
		mc := u.renderClip(ctx, local, tr, clip, i+1, in, logf)
		m.Clips = append(m.Clips, mc)
	}
	return Result{Manifest: m}, nil
}

func (u Usecase) selectCandidates(ctx context.Context, tr types.Transcript, in Input, logf func(string, ...any)) []types.RawCandidate {
	if u.d.Gen == nil {
		logf("no text generator configured; using deterministic fallback")
		return clips.FallbackSelect(tr)
	}
	prompt := selection.BuildPrompt(in.Intent, tr, in.MinClips, in.MaxClips)
	text, err := u.d.Gen.Generate(ctx, prompt)
	if err != nil {
		logf("text generation failed: %v; using deterministic fallback", err)
		return clips.FallbackSelect(tr)
	}
	return selection.ParseResponse(text, tr)
}

// renderClip produces one output video. A failure here is fatal for this clip
// only: the error lands in the manifest entry and the remaining clips proceed.
func (u Usecase) renderClip(ctx context.Context, source string, tr types.Transcript, clip types.Clip, n int, in Input, logf func(string, ...any)) types.ManifestClip {
	base := fmt.Sprintf("%03d-%d-%d-%s",
		n,
		int(clip.Start.Seconds()),
		int(clip.End.Seconds()),
		captionSlug(clip.Caption),
	)
	mc := types.ManifestClip{
		ID:       fmt.Sprintf("%03d", n),
		StartSec: clip.Start.Seconds(),
		EndSec:   clip.End.Seconds(),
		Reason:   clip.Reason,
		Caption:  clip.Caption,
		File:     filepath.ToSlash(filepath.Join("clips", base+".mp4")),
	}
	outPath := filepath.Join(in.OutDir, "clips", base+".mp4")

	assPath := ""
	if in.BurnCaptions {
		events := captions.Synchronize(clip, tr)
		assPath = filepath.Join(in.OutDir, "captions", base+".ass")
		if err := os.WriteFile(assPath, []byte(captions.RenderASS(clip, events)), 0o644); err != nil {
			logf("clip %s: write captions: %v", mc.ID, err)
			mc.Error = err.Error()
			return mc
		}
		mc.Captions = filepath.ToSlash(filepath.Join("captions", base+".ass"))
	}

	cutPath := outPath
	if assPath != "" {
		cutPath = filepath.Join(in.CacheDir, base+".cut.mp4")
	}
	if err := u.d.Video.CutClip(ctx, source, clip.Start, clip.End, cutPath); err != nil {
		logf("clip %s: cut failed: %v", mc.ID, err)
		mc.Error = err.Error()
		return mc
	}
	if assPath != "" {
		if err := u.d.Video.BurnCaptions(ctx, cutPath, assPath, outPath); err != nil {
			logf("clip %s: caption burn-in failed: %v", mc.ID, err)
			mc.Error = err.Error()
			return mc
		}
		_ = os.Remove(cutPath)
	}
	logf("clip %s written: %s", mc.ID, mc.File)
	return mc
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// captionSlug turns a caption into a filesystem-safe path segment.
func captionSlug(s string) string {
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
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "clip"
	}
	if r := []rune(out); len(r) > 40 {
		out = strings.Trim(string(r[:40]), "-")
	}
	return out
}
