package clips

import (
	"strings"
	"time"

	"github.com/fufufafaethon/clipper/internal/timecode"
	"github.com/fufufafaethon/clipper/internal/transcript"
	"github.com/fufufafaethon/clipper/internal/types"
)

const fallbackReason = "Potentially interesting segment"

// FallbackSelect manufactures clip candidates from the transcript alone, for
// when the generative path is unavailable or fails outright. It picks up to
// five evenly spaced anchor words and centers a crude 50-second window on
// each — not content-aware, but reproducible byte-for-byte for a given
// transcript, with zero external calls.
func FallbackSelect(tr types.Transcript) []types.RawCandidate {
	words := transcript.Words(tr)
	n := len(words)
	if n == 0 {
		return nil
	}
	k := n / 3
	if k > 5 {
		k = 5
	}
	if k == 0 {
		k = 1
	}

	out := make([]types.RawCandidate, 0, k)
	for i := 0; i < k; i++ {
		anchor := words[i*n/k]
		ws := dur(anchor.Word.Start)
		we := dur(anchor.Word.End)
		mid := (ws + we) / 2

		start := mid - 25*time.Second
		if start < 0 {
			start = 0
		}
		end := mid + 25*time.Second
		if maxEnd := we + 30*time.Second; end > maxEnd {
			end = maxEnd
		}

		caption := strings.TrimSpace(tr.Segments[anchor.Segment].Text)
		if caption == "" {
			caption = anchor.Word.Word
		}
		out = append(out, types.RawCandidate{
			Start:   types.TimestampString(timecode.Format(start)),
			End:     types.TimestampString(timecode.Format(end)),
			Reason:  fallbackReason,
			Caption: truncateCaption(caption, 100),
		})
	}
	return out
}

func truncateCaption(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func dur(sec float64) time.Duration { return time.Duration(sec * float64(time.Second)) }
