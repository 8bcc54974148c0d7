package timecode

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrMalformedTime reports a timestamp that is not "mm:ss".
var ErrMalformedTime = errors.New("malformed mm:ss timestamp")

// Parse converts "mm:ss" into a duration. Exactly two integer parts are
// required; anything else fails with ErrMalformedTime.
func Parse(s string) (time.Duration, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, s)
	}
	m, err := strconv.Atoi(parts[0])
	if err != nil || m < 0 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, s)
	}
	sec, err := strconv.Atoi(parts[1])
	if err != nil || sec < 0 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, s)
	}
	return time.Duration(m)*time.Minute + time.Duration(sec)*time.Second, nil
}

// Format renders a duration as zero-padded "mm:ss", truncating sub-second
// precision. Spans of 100 minutes or more simply grow the minutes field.
func Format(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
