package youtube

import (
	"fmt"
	"regexp"

	"vidbrief/internal/domain/models"
)

// videoIDPatterns is an ordered list; the first successful capture wins.
// Covers watch URLs, short youtu.be links, embeds, shorts, live links and
// bare 11-character IDs.
var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?(?:.*&)?v=)([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`(?:youtu\.be/)([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`(?:youtube\.com/embed/)([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`(?:youtube\.com/shorts/)([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`(?:youtube\.com/live/)([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`^([A-Za-z0-9_-]{11})$`),
}

// ResolveVideoID extracts the canonical 11-character video ID from any
// supported URL shape. Pure string operation: no network, always terminates,
// returns models.ErrInvalidURL when nothing matches.
func ResolveVideoID(input string) (string, error) {
	for _, pattern := range videoIDPatterns {
		if m := pattern.FindStringSubmatch(input); m != nil {
			return m[1], nil
		}
	}
	return "", fmt.Errorf("%w: %q", models.ErrInvalidURL, input)
}
