package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Transcript is built once per video and shared read-only by every downstream
// stage. Duration is the largest segment end seen at build time.
type Transcript struct {
	Segments []Segment `json:"segments"`
	Duration time.Duration
}

type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
	Words []Word  `json:"words,omitempty"`
}

type Word struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Word  string  `json:"word"`
}

// Timestamp is a clip boundary as produced by an LLM response or the fallback
// selector: either an "mm:ss" string or a bare number of seconds. It stays
// unresolved until the validator decides what to do with it.
type Timestamp struct {
	Text    string
	Seconds float64
	Numeric bool
}

func TimestampString(s string) Timestamp { return Timestamp{Text: s} }

func TimestampSeconds(sec float64) Timestamp { return Timestamp{Seconds: sec, Numeric: true} }

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var sec float64
	if err := json.Unmarshal(b, &sec); err == nil {
		*t = TimestampSeconds(sec)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = TimestampString(s)
		return nil
	}
	return fmt.Errorf("timestamp: not a string or number: %s", string(b))
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.Numeric {
		return json.Marshal(t.Seconds)
	}
	return json.Marshal(t.Text)
}

func (t Timestamp) String() string {
	if t.Numeric {
		return fmt.Sprintf("%gs", t.Seconds)
	}
	return t.Text
}

func (t Timestamp) IsZero() bool {
	return !t.Numeric && strings.TrimSpace(t.Text) == ""
}

// RawCandidate is an untrusted clip suggestion. Every field may be malformed,
// missing, or out of transcript bounds.
type RawCandidate struct {
	Start   Timestamp `json:"start"`
	End     Timestamp `json:"end"`
	Reason  string    `json:"reason"`
	Caption string    `json:"caption"`
}

// Clip is a validated, in-bounds, non-degenerate sub-range of the source
// video. Produced only by the validator.
type Clip struct {
	Start   time.Duration
	End     time.Duration
	Reason  string
	Caption string
}

// CaptionEvent schedules one word on screen, relative to its clip's start.
type CaptionEvent struct {
	Text  string
	Start time.Duration
	End   time.Duration
}

type Manifest struct {
	Input string         `json:"input"`
	Clips []ManifestClip `json:"clips"`
}

type ManifestClip struct {
	ID       string  `json:"id"`
	StartSec float64 `json:"start_sec"`
	EndSec   float64 `json:"end_sec"`
	Reason   string  `json:"reason"`
	Caption  string  `json:"caption"`
	File     string  `json:"file"`
	Captions string  `json:"captions,omitempty"`
	Error    string  `json:"error,omitempty"`
}
