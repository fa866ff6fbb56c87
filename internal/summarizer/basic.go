package summarizer

import (
	"strings"

	"vidbrief/internal/domain/models"
)

// basicSentenceCounts limit how much transcript the extractive fallback
// surfaces per summary type.
const (
	basicShortSentences         = 4
	basicComprehensiveSentences = 10
)

// BasicSummarize is the last-resort extractive fallback. It builds a summary
// from the opening sentences of the transcript without any model call, so it
// cannot fail: given any non-empty transcript it produces output.
func BasicSummarize(transcript *models.Transcript, meta *models.VideoMetadata, summaryType models.SummaryType) string {
	limit := basicShortSentences
	if summaryType == models.SummaryComprehensive {
		limit = basicComprehensiveSentences
	}

	sentences := splitSentences(transcript.FullText())
	if len(sentences) > limit {
		sentences = sentences[:limit]
	}

	var b strings.Builder
	if meta != nil && !meta.Degraded && meta.Title != "" {
		b.WriteString(meta.Title)
		b.WriteString("\n\n")
	}
	for _, s := range sentences {
		b.WriteString("- ")
		b.WriteString(s)
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

// splitSentences does a rough split on terminal punctuation. Captions often
// carry no punctuation at all; in that case the whole text comes back as one
// sentence.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for _, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}
