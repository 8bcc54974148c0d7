package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fufufafaethon/clipper/internal/domain/clips"
	"github.com/fufufafaethon/clipper/internal/transcript"
	"github.com/fufufafaethon/clipper/internal/types"
)

type fakeDownloader struct {
	calls []string
	path  string
	err   error
}

func (f *fakeDownloader) Download(_ context.Context, url, _ string) (string, error) {
	f.calls = append(f.calls, url)
	return f.path, f.err
}

type cut struct {
	start, end time.Duration
	out        string
}

type fakeVideoTool struct {
	cuts     []cut
	burns    []string
	cutErrAt int // 1-based index of the cut call that fails; 0 = never
}

func (f *fakeVideoTool) ExtractAudio(_ context.Context, _, _ string) error { return nil }

func (f *fakeVideoTool) CutClip(_ context.Context, _ string, start, end time.Duration, out string) error {
	f.cuts = append(f.cuts, cut{start: start, end: end, out: out})
	if f.cutErrAt == len(f.cuts) {
		return errors.New("boom")
	}
	return nil
}

func (f *fakeVideoTool) BurnCaptions(_ context.Context, _, assPath, _ string) error {
	f.burns = append(f.burns, assPath)
	return nil
}

func (f *fakeVideoTool) ProbeDuration(_ context.Context, _ string) (time.Duration, error) {
	return 0, nil
}

type fakeASR struct{ tr types.Transcript }

func (f fakeASR) Transcribe(_ context.Context, _, _ string) (types.Transcript, error) {
	return f.tr, nil
}

type fakeGen struct {
	text string
	err  error
}

func (f fakeGen) Generate(_ context.Context, _ string) (string, error) { return f.text, f.err }

func testTranscript() types.Transcript {
	segs := make([]types.Segment, 0, 10)
	for i := 0; i < 10; i++ {
		start := float64(i * 30)
		segs = append(segs, types.Segment{
			Start: start,
			End:   start + 30,
			Text:  fmt.Sprintf("segment %d", i),
			Words: []types.Word{
				{Start: start + 1, End: start + 2, Word: "alpha"},
				{Start: start + 3, End: start + 4, Word: "beta"},
				{Start: start + 5, End: start + 6, Word: "gamma"},
			},
		})
	}
	return transcript.Build(segs)
}

func testInput(t *testing.T, burn bool) Input {
	t.Helper()
	tmp := t.TempDir()
	outDir := filepath.Join(tmp, "out")
	cacheDir := filepath.Join(tmp, "cache")
	for _, d := range []string{filepath.Join(outDir, "clips"), filepath.Join(outDir, "captions"), cacheDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", d, err)
		}
	}
	return Input{
		Source:       filepath.Join(tmp, "in.mp4"),
		MinClips:     3,
		MaxClips:     10,
		Bounds:       clips.DefaultBounds(),
		BurnCaptions: burn,
		CacheDir:     cacheDir,
		OutDir:       outDir,
	}
}

func TestRun_StructuredResponse(t *testing.T) {
	t.Parallel()

	video := &fakeVideoTool{}
	// Out of timeline order on purpose; output must be sorted by start.
	gen := fakeGen{text: `{"clips":[
		{"start":"02:00","end":"02:30","reason":"late","caption":"Late One"},
		{"start":"00:10","end":"00:40","reason":"early","caption":"Early One"}
	]}`}
	uc := New(Deps{Video: video, ASR: fakeASR{tr: testTranscript()}, Gen: gen})

	res, err := uc.Run(context.Background(), testInput(t, true))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Manifest.Clips) != 2 {
		t.Fatalf("expected 2 clips, got %d", len(res.Manifest.Clips))
	}
	if res.Manifest.Clips[0].Caption != "Early One" || res.Manifest.Clips[1].Caption != "Late One" {
		t.Fatalf("clips not sorted by timeline: %+v", res.Manifest.Clips)
	}
	if got := res.Manifest.Clips[0].File; !strings.Contains(got, "early-one") {
		t.Fatalf("expected sanitized caption in file name, got %q", got)
	}
	if len(video.burns) != 2 {
		t.Fatalf("expected 2 caption burns, got %d", len(video.burns))
	}
	for _, c := range res.Manifest.Clips {
		if c.Error != "" {
			t.Fatalf("unexpected clip error: %+v", c)
		}
		if c.Captions == "" {
			t.Fatalf("expected captions path in manifest: %+v", c)
		}
	}
}

func TestRun_NoBurn(t *testing.T) {
	t.Parallel()

	video := &fakeVideoTool{}
	gen := fakeGen{text: `{"clips":[{"start":"00:10","end":"00:40","reason":"r","caption":"c"}]}`}
	uc := New(Deps{Video: video, ASR: fakeASR{tr: testTranscript()}, Gen: gen})

	res, err := uc.Run(context.Background(), testInput(t, false))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(video.burns) != 0 {
		t.Fatalf("expected no burns, got %d", len(video.burns))
	}
	if res.Manifest.Clips[0].Captions != "" {
		t.Fatalf("expected no captions path: %+v", res.Manifest.Clips[0])
	}
	// Without burn-in the cut goes straight to the output file.
	if strings.HasSuffix(video.cuts[0].out, ".cut.mp4") {
		t.Fatalf("expected direct output cut, got %q", video.cuts[0].out)
	}
	if !strings.Contains(video.cuts[0].out, filepath.Join("out", "clips")) {
		t.Fatalf("expected cut under out/clips, got %q", video.cuts[0].out)
	}
}

func TestRun_PerClipIsolation(t *testing.T) {
	t.Parallel()

	video := &fakeVideoTool{cutErrAt: 1}
	gen := fakeGen{text: `{"clips":[
		{"start":"00:10","end":"00:40","reason":"r","caption":"first"},
		{"start":"01:10","end":"01:40","reason":"r","caption":"second"}
	]}`}
	uc := New(Deps{Video: video, ASR: fakeASR{tr: testTranscript()}, Gen: gen})

	res, err := uc.Run(context.Background(), testInput(t, false))
	if err != nil {
		t.Fatalf("run should not fail for a per-clip error: %v", err)
	}
	if len(res.Manifest.Clips) != 2 {
		t.Fatalf("expected both clips in manifest, got %d", len(res.Manifest.Clips))
	}
	if res.Manifest.Clips[0].Error == "" {
		t.Fatalf("expected error recorded for first clip: %+v", res.Manifest.Clips[0])
	}
	if res.Manifest.Clips[1].Error != "" {
		t.Fatalf("expected second clip to succeed: %+v", res.Manifest.Clips[1])
	}
	if len(video.cuts) != 2 {
		t.Fatalf("expected processing to continue after failure, got %d cuts", len(video.cuts))
	}
}

func TestRun_RejectsBadCandidates(t *testing.T) {
	t.Parallel()

	video := &fakeVideoTool{}
	gen := fakeGen{text: `{"clips":[
		{"start":"05:00","end":"04:00","reason":"backwards","caption":"bad"},
		{"start":"not a time","end":"00:30","caption":"bad too"},
		{"start":"00:10","end":"00:40","reason":"r","caption":"good"}
	]}`}
	uc := New(Deps{Video: video, ASR: fakeASR{tr: testTranscript()}, Gen: gen})

	res, err := uc.Run(context.Background(), testInput(t, false))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Manifest.Clips) != 1 || res.Manifest.Clips[0].Caption != "good" {
		t.Fatalf("expected only the valid candidate, got %+v", res.Manifest.Clips)
	}
}

func TestRun_GeneratorErrorFallsBack(t *testing.T) {
	t.Parallel()

	tr := testTranscript()
	video := &fakeVideoTool{}
	uc := New(Deps{Video: video, ASR: fakeASR{tr: tr}, Gen: fakeGen{err: errors.New("down")}})

	res, err := uc.Run(context.Background(), testInput(t, false))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	want := clips.FallbackSelect(tr)
	if len(res.Manifest.Clips) != len(want) {
		t.Fatalf("expected %d fallback clips, got %d", len(want), len(res.Manifest.Clips))
	}
}

func TestRun_NilGeneratorFallsBack(t *testing.T) {
	t.Parallel()

	tr := testTranscript()
	uc := New(Deps{Video: &fakeVideoTool{}, ASR: fakeASR{tr: tr}})

	res, err := uc.Run(context.Background(), testInput(t, false))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Manifest.Clips) != len(clips.FallbackSelect(tr)) {
		t.Fatalf("expected fallback clips without generator, got %d", len(res.Manifest.Clips))
	}
}

func TestRun_DownloadsURLs(t *testing.T) {
	t.Parallel()

	in := testInput(t, false)
	localPath := filepath.Join(in.CacheDir, "video.mp4")
	dl := &fakeDownloader{path: localPath}
	uc := New(Deps{Downloader: dl, Video: &fakeVideoTool{}, ASR: fakeASR{tr: testTranscript()}})

	in.Source = "https://example.com/watch?v=abc"
	if _, err := uc.Run(context.Background(), in); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(dl.calls) != 1 || dl.calls[0] != in.Source {
		t.Fatalf("expected one download of the source URL, got %+v", dl.calls)
	}
}

func TestRun_DownloadFailureIsFatal(t *testing.T) {
	t.Parallel()

	in := testInput(t, false)
	in.Source = "https://example.com/v"
	dl := &fakeDownloader{err: errors.New("404")}
	uc := New(Deps{Downloader: dl, Video: &fakeVideoTool{}, ASR: fakeASR{tr: testTranscript()}})

	if _, err := uc.Run(context.Background(), in); err == nil {
		t.Fatalf("expected fatal error on download failure")
	}
}

func TestCaptionSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Check out this moment!", "check-out-this-moment"},
		{"  Hello,   World  ", "hello-world"},
		{"???", "clip"},
		{strings.Repeat("a", 60), strings.Repeat("a", 40)},
	}
	for _, tt := range tests {
		if got := captionSlug(tt.in); got != tt.want {
			t.Fatalf("captionSlug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
