// Package clips turns untrusted clip candidates into validated clips and
// provides the deterministic, model-free selection path.
package clips

import (
	"fmt"
	"strings"
	"time"

	"github.com/fufufafaethon/clipper/internal/timecode"
	"github.com/fufufafaethon/clipper/internal/types"
)

const (
	// DefaultReason and DefaultCaption substitute missing metadata. A bad
	// caption only degrades file naming; it is never a reason to reject.
	DefaultReason  = "Interesting moment"
	DefaultCaption = "Check out this moment!"
)

// Bounds is the acceptable clip duration band.
type Bounds struct {
	MinDur time.Duration
	MaxDur time.Duration
}

func DefaultBounds() Bounds {
	return Bounds{MinDur: 0, MaxDur: 60 * time.Second}
}

// Validate coerces a raw candidate into a well-formed clip or rejects it.
// Temporal bounds are strict (downstream media cuts are keyed by them);
// metadata is lenient and defaulted. The end is clamped to the transcript
// duration rather than rejected, because model-estimated timestamps and real
// media routinely disagree by a few seconds near the tail. A candidate is
// never clamped into a zero-length range.
func Validate(raw types.RawCandidate, tr types.Transcript, b Bounds) (types.Clip, error) {
	start, err := resolve(raw.Start)
	if err != nil {
		return types.Clip{}, fmt.Errorf("start: %w", err)
	}
	end, err := resolve(raw.End)
	if err != nil {
		return types.Clip{}, fmt.Errorf("end: %w", err)
	}
	if start < 0 {
		start = 0
	}
	if start >= end {
		return types.Clip{}, fmt.Errorf("non-positive duration: start %v >= end %v", start, end)
	}
	if end > tr.Duration {
		end = tr.Duration
	}
	if start >= tr.Duration {
		return types.Clip{}, fmt.Errorf("start %v beyond transcript end %v", start, tr.Duration)
	}
	if start >= end {
		return types.Clip{}, fmt.Errorf("empty range after clamping: start %v, end %v", start, end)
	}
	if d := end - start; d < b.MinDur || d > b.MaxDur {
		return types.Clip{}, fmt.Errorf("duration %v outside band [%v, %v]", d, b.MinDur, b.MaxDur)
	}

	reason := strings.TrimSpace(raw.Reason)
	if reason == "" {
		reason = DefaultReason
	}
	caption := strings.TrimSpace(raw.Caption)
	if caption == "" {
		caption = DefaultCaption
	}
	return types.Clip{Start: start, End: end, Reason: reason, Caption: caption}, nil
}

func resolve(t types.Timestamp) (time.Duration, error) {
	if t.Numeric {
		return time.Duration(t.Seconds * float64(time.Second)), nil
	}
	return timecode.Parse(t.Text)
}
