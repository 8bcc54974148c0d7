// Package captions derives per-word caption schedules for a clip and renders
// them as ASS subtitles for burn-in.
package captions

import (
	"fmt"
	"strings"
	"time"

	"github.com/fufufafaethon/clipper/internal/transcript"
	"github.com/fufufafaethon/clipper/internal/types"
)

// Synchronize selects the transcript words fully contained in the clip and
// re-expresses their timing relative to the clip's own start. Every event
// satisfies 0 <= Start <= End <= clip length.
func Synchronize(clip types.Clip, tr types.Transcript) []types.CaptionEvent {
	words := transcript.WordsWithin(tr, clip.Start, clip.End)
	out := make([]types.CaptionEvent, 0, len(words))
	for _, w := range words {
		text := strings.TrimSpace(w.Word)
		if text == "" {
			continue
		}
		out = append(out, types.CaptionEvent{
			Text:  text,
			Start: dur(w.Start) - clip.Start,
			End:   dur(w.End) - clip.Start,
		})
	}
	return out
}

// RenderASS renders the caption schedule as an ASS file: one centered dialogue
// event per word, so exactly one word is active on screen at a time. When the
// clip contains no fully-enclosed words the clip caption is shown for the
// whole duration instead, which keeps burn-in useful for ASR output without
// word timestamps.
func RenderASS(clip types.Clip, events []types.CaptionEvent) string {
	var b strings.Builder
	b.WriteString(assHeader())
	b.WriteString("\n[Events]\n")
	b.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")

	if len(events) == 0 {
		b.WriteString("Dialogue: 0,0:00:00.00,")
		b.WriteString(assTime(clip.End - clip.Start))
		b.WriteString(",Word,,0,0,0,,")
		b.WriteString(sanitizeASS(clip.Caption))
		b.WriteString("\n")
		return b.String()
	}

	for _, ev := range events {
		b.WriteString("Dialogue: 0,")
		b.WriteString(assTime(ev.Start))
		b.WriteString(",")
		b.WriteString(assTime(ev.End))
		b.WriteString(",Word,,0,0,0,,")
		b.WriteString(sanitizeASS(ev.Text))
		b.WriteString("\n")
	}
	return b.String()
}

func assHeader() string {
	return strings.TrimSpace(`
[Script Info]
ScriptType: v4.00+
PlayResX: 1920
PlayResY: 1080
ScaledBorderAndShadow: yes

[V4+ Styles]
Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding
Style: Word, Inter, 96, &H00FFFFFF, &H00FFD200, &H00000000, &H64000000, 1,0,0,0,100,100,0,0,1,6,2,5, 80,80,0,1
`)
}

func assTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hs := int(d / time.Hour)
	d -= time.Duration(hs) * time.Hour
	ms := int(d / time.Minute)
	d -= time.Duration(ms) * time.Minute
	s := int(d / time.Second)
	d -= time.Duration(s) * time.Second
	cs := int(d / (10 * time.Millisecond))
	return fmt.Sprintf("%d:%02d:%02d.%02d", hs, ms, s, cs)
}

func sanitizeASS(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "{", "(")
	s = strings.ReplaceAll(s, "}", ")")
	return strings.TrimSpace(s)
}

func dur(sec float64) time.Duration { return time.Duration(sec * float64(time.Second)) }
