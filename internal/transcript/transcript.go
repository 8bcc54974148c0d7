// Package transcript builds the read-only transcript index and answers
// time-range queries against it.
package transcript

import (
	"strings"
	"time"

	"github.com/fufufafaethon/clipper/internal/types"
)

// Build normalizes raw ASR segments into a Transcript. Segments are kept in
// input order and never dropped, including segments with no words. Upstream
// transcribers do not reliably keep words inside their segment bounds, so
// nothing here assumes they do.
func Build(segs []types.Segment) types.Transcript {
	tr := types.Transcript{Segments: make([]types.Segment, len(segs))}
	copy(tr.Segments, segs)
	for i := range tr.Segments {
		tr.Segments[i].Text = strings.TrimSpace(tr.Segments[i].Text)
		for j := range tr.Segments[i].Words {
			tr.Segments[i].Words[j].Word = strings.TrimSpace(tr.Segments[i].Words[j].Word)
		}
		if end := dur(tr.Segments[i].End); end > tr.Duration {
			tr.Duration = end
		}
	}
	return tr
}

// WordsWithin returns every word fully contained in [start, end], in
// transcript order. Words that merely overlap a boundary are excluded: a
// caption must never show a fragment of a word the clip does not contain.
func WordsWithin(tr types.Transcript, start, end time.Duration) []types.Word {
	var out []types.Word
	for _, s := range tr.Segments {
		for _, w := range s.Words {
			if dur(w.Start) >= start && dur(w.End) <= end {
				out = append(out, w)
			}
		}
	}
	return out
}

// IndexedWord is a flattened word paired with the index of its owning segment.
type IndexedWord struct {
	Word    types.Word
	Segment int
}

// Words flattens all words across all segments, preserving transcript order.
func Words(tr types.Transcript) []IndexedWord {
	var out []IndexedWord
	for i, s := range tr.Segments {
		for _, w := range s.Words {
			out = append(out, IndexedWord{Word: w, Segment: i})
		}
	}
	return out
}

func dur(sec float64) time.Duration { return time.Duration(sec * float64(time.Second)) }
