package summarizer

import (
	"regexp"
	"strings"
)

// Model output often opens with a conversational preamble before the actual
// summary. These patterns are anchored to the start of the text.
var preamblePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(sure[,!.]?\s*)?here('s| is) (a |the |your )?(brief |short |concise |comprehensive |structured )?summary[^:\n]*:\s*`),
	regexp.MustCompile(`(?i)^(okay|certainly|of course)[,!.]?\s+here('s| is)[^:\n]*:\s*`),
	regexp.MustCompile(`(?i)^(the )?key points( of the video)?:\s*\n`),
	regexp.MustCompile(`(?i)^(this video|the video) summary:\s*`),
	regexp.MustCompile(`(?i)^summary:\s*\n`),
}

// CleanSummary normalizes raw model output: strips a leading conversational
// preamble, trims surrounding whitespace, and collapses runs of blank lines.
// Idempotent by construction.
func CleanSummary(raw string) string {
	text := strings.TrimSpace(raw)

	// Strip until no pattern matches so reprocessing already-clean text is a
	// no-op.
	for stripped := true; stripped; {
		stripped = false
		for _, re := range preamblePatterns {
			if loc := re.FindStringIndex(text); loc != nil {
				text = strings.TrimSpace(text[loc[1]:])
				stripped = true
				break
			}
		}
	}

	return collapseBlankLines(text)
}

var blankRunRe = regexp.MustCompile(`\n{3,}`)

func collapseBlankLines(text string) string {
	return blankRunRe.ReplaceAllString(text, "\n\n")
}
