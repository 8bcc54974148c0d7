package captions

import (
	"strings"
	"testing"
	"time"

	"github.com/fufufafaethon/clipper/internal/transcript"
	"github.com/fufufafaethon/clipper/internal/types"
)

func testTranscript() types.Transcript {
	return transcript.Build([]types.Segment{
		{Start: 8, End: 22, Text: "hello there world", Words: []types.Word{
			{Start: 9, End: 11, Word: "hello"},
			{Start: 11, End: 14, Word: "there"},
			{Start: 15, End: 19, Word: "world"},
			{Start: 19, End: 21, Word: "again"},
		}},
	})
}

func TestSynchronize_RelativeTimes(t *testing.T) {
	clip := types.Clip{Start: 10 * time.Second, End: 20 * time.Second, Caption: "c"}
	events := Synchronize(clip, testTranscript())

	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d: %+v", len(events), events)
	}
	if events[0].Text != "there" || events[1].Text != "world" {
		t.Fatalf("wrong words: %+v", events)
	}
	if events[0].Start != time.Second || events[0].End != 4*time.Second {
		t.Fatalf("wrong relative times: %+v", events[0])
	}

	length := clip.End - clip.Start
	var prev time.Duration
	for _, ev := range events {
		if ev.Start < 0 || ev.Start > ev.End || ev.End > length {
			t.Fatalf("event out of clip range: %+v", ev)
		}
		if ev.Start < prev {
			t.Fatalf("events out of order: %+v", events)
		}
		prev = ev.Start
	}
}

func TestSynchronize_NoWords(t *testing.T) {
	clip := types.Clip{Start: 100 * time.Second, End: 110 * time.Second}
	if events := Synchronize(clip, testTranscript()); len(events) != 0 {
		t.Fatalf("expected no events, got %+v", events)
	}
}

func TestRenderASS_OneDialoguePerWord(t *testing.T) {
	clip := types.Clip{Start: 10 * time.Second, End: 20 * time.Second, Caption: "c"}
	events := Synchronize(clip, testTranscript())
	ass := RenderASS(clip, events)

	if got := strings.Count(ass, "\nDialogue:"); got != len(events) {
		t.Fatalf("expected %d dialogue lines, got %d:\n%s", len(events), got, ass)
	}
	if !strings.Contains(ass, "Dialogue: 0,0:00:01.00,0:00:04.00,Word,,0,0,0,,there") {
		t.Fatalf("missing expected dialogue line:\n%s", ass)
	}
}

func TestRenderASS_PlainFallback(t *testing.T) {
	clip := types.Clip{Start: 0, End: 12 * time.Second, Caption: "the whole {clip}"}
	ass := RenderASS(clip, nil)

	if got := strings.Count(ass, "\nDialogue:"); got != 1 {
		t.Fatalf("expected a single dialogue line, got %d:\n%s", got, ass)
	}
	if !strings.Contains(ass, "0:00:12.00") {
		t.Fatalf("expected full clip duration in dialogue:\n%s", ass)
	}
	if !strings.Contains(ass, "the whole (clip)") {
		t.Fatalf("expected sanitized caption text:\n%s", ass)
	}
}

func TestAssTime(t *testing.T) {
	if got := assTime(61*time.Second + 234*time.Millisecond); got != "0:01:01.23" {
		t.Fatalf("unexpected assTime: %s", got)
	}
	if got := assTime(-time.Second); got != "0:00:00.00" {
		t.Fatalf("unexpected assTime for negative: %s", got)
	}
}
