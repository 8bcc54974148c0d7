package selection

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/fufufafaethon/clipper/internal/domain/clips"
	"github.com/fufufafaethon/clipper/internal/types"
)

// Strategy attempts to read clip candidates out of a model response. It
// reports false when the text yields nothing usable, letting the caller move
// on to the next strategy.
type Strategy func(text string) ([]types.RawCandidate, bool)

// ParseResponse extracts clip candidates from free-form model output. The
// strategies run in decreasing order of confidence; the last resort discards
// the response entirely and selects deterministically from the transcript.
func ParseResponse(text string, tr types.Transcript) []types.RawCandidate {
	for _, s := range []Strategy{ParseStructured, ExtractLabeledFields} {
		if cands, ok := s(text); ok {
			return cands
		}
	}
	return clips.FallbackSelect(tr)
}

// ParseStructured locates the first {...} span in the text (stripping any
// markdown code fences first) and decodes it as the requested JSON shape.
// Garbled or partial JSON falls through to the next strategy.
func ParseStructured(text string) ([]types.RawCandidate, bool) {
	t := strings.TrimSpace(text)
	if strings.HasPrefix(t, "```") {
		if i := strings.Index(t, "\n"); i >= 0 {
			t = t[i+1:]
		}
		if j := strings.LastIndex(t, "```"); j >= 0 {
			t = t[:j]
		}
		t = strings.TrimSpace(t)
	}

	start := strings.Index(t, "{")
	end := strings.LastIndex(t, "}")
	if start < 0 || end <= start {
		return nil, false
	}

	var out struct {
		Clips []types.RawCandidate `json:"clips"`
	}
	if err := json.Unmarshal([]byte(t[start:end+1]), &out); err != nil {
		return nil, false
	}
	if len(out.Clips) == 0 {
		return nil, false
	}
	return out.Clips, true
}

var (
	reStart   = regexp.MustCompile(`(?i)\bstart(?:\s+time)?:\s*(\d+:\d+)`)
	reEnd     = regexp.MustCompile(`(?i)\bend(?:\s+time)?:\s*(\d+:\d+)`)
	reReason  = regexp.MustCompile(`(?i)\breason:[ \t]*(.+)`)
	reCaption = regexp.MustCompile(`(?i)\bcaption:[ \t]*(.+)`)
)

// ExtractLabeledFields pattern-matches labeled start/end/reason/caption fields
// anywhere in the text. The i-th start is paired with the i-th end by order of
// appearance, not by proximity; that fragile pairing is the established
// behavior and is deliberately confined to this function.
func ExtractLabeledFields(text string) ([]types.RawCandidate, bool) {
	starts := captures(reStart, text)
	ends := captures(reEnd, text)
	reasons := captures(reReason, text)
	captions := captures(reCaption, text)

	n := len(starts)
	if len(ends) < n {
		n = len(ends)
	}
	if n == 0 {
		return nil, false
	}

	out := make([]types.RawCandidate, 0, n)
	for i := 0; i < n; i++ {
		c := types.RawCandidate{
			Start:   types.TimestampString(starts[i]),
			End:     types.TimestampString(ends[i]),
			Reason:  clips.DefaultReason,
			Caption: clips.DefaultCaption,
		}
		if i < len(reasons) {
			c.Reason = reasons[i]
		}
		if i < len(captions) {
			c.Caption = captions[i]
		}
		out = append(out, c)
	}
	return out, true
}

func captures(re *regexp.Regexp, text string) []string {
	ms := re.FindAllStringSubmatch(text, -1)
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, strings.TrimSpace(m[1]))
	}
	return out
}

func dur(sec float64) time.Duration { return time.Duration(sec * float64(time.Second)) }
