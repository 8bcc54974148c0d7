// Package selection builds the LLM prompt from a transcript and parses the
// model's response back into clip candidates.
package selection

import (
	"fmt"
	"strings"

	"github.com/fufufafaethon/clipper/internal/timecode"
	"github.com/fufufafaethon/clipper/internal/types"
)

const (
	DefaultMinClips = 3
	DefaultMaxClips = 10
)

// BuildPrompt serializes every segment as a "[mm:ss - mm:ss] text" line and
// embeds the clip-count bounds and the user's intent into the instructional
// template. The requested response shape matches what ParseResponse expects.
func BuildPrompt(intent string, tr types.Transcript, minClips, maxClips int) string {
	if minClips <= 0 {
		minClips = DefaultMinClips
	}
	if maxClips < minClips {
		maxClips = DefaultMaxClips
	}
	intent = strings.TrimSpace(intent)
	if intent == "" {
		intent = "the most interesting moments"
	}

	var body strings.Builder
	for _, s := range tr.Segments {
		body.WriteString(fmt.Sprintf("[%s - %s] %s\n",
			timecode.Format(dur(s.Start)),
			timecode.Format(dur(s.End)),
			s.Text,
		))
	}

	return fmt.Sprintf(`You are an expert video editor who finds the most compelling moments in videos.

Here's a transcript with timestamps:

%s
Please identify %d-%d moments that would make %s great short clips (arbitrary 0-60 seconds each). Focus on:
1. Interesting statements or stories
2. Emotional moments
3. Surprising revelations or insights
4. Quotable or memorable segments
5. Self-contained moments that work well in isolation
6. AND MOST IMPORTANT: %s

Format your response as JSON with this structure:
{
  "clips": [
    {
      "start": "mm:ss",
      "end": "mm:ss",
      "reason": "brief explanation",
      "caption": "suggested caption"
    },
    ...
  ]
}
`, body.String(), minClips, maxClips, intent, intent)
}
