package summarizer

import (
	"fmt"
	"strings"

	"vidbrief/internal/domain/models"
)

type PromptTemplates struct{}

func NewPromptTemplates() *PromptTemplates {
	return &PromptTemplates{}
}

// Build returns the prompt for a summary type. Metadata lines are included
// only when the field is actually known; placeholder values never reach the
// model.
func (p *PromptTemplates) Build(summaryType models.SummaryType, transcript string, meta *models.VideoMetadata) string {
	if summaryType == models.SummaryComprehensive {
		return p.buildComprehensivePrompt(transcript, meta)
	}
	return p.buildShortPrompt(transcript, meta)
}

func (p *PromptTemplates) buildShortPrompt(transcript string, meta *models.VideoMetadata) string {
	return fmt.Sprintf(`Summarize this video transcript as 3-5 concise bullet points.
%s
TRANSCRIPT:
%s

Requirements:
- Each bullet captures one main idea
- Plain language, no filler
- Start each line with "- "
- Do not add any introduction or closing line`, metadataContext(meta), transcript)
}

func (p *PromptTemplates) buildComprehensivePrompt(transcript string, meta *models.VideoMetadata) string {
	return fmt.Sprintf(`Write a structured summary of this video transcript.
%s
TRANSCRIPT:
%s

Structure:
## Overview
2-3 sentences on what the video covers.

## Key Points
Bullet points for each major idea, in the order presented.

## Takeaways
The most important conclusions for the viewer.

Do not add any text before the first heading.`, metadataContext(meta), transcript)
}

func metadataContext(meta *models.VideoMetadata) string {
	if meta == nil || meta.Degraded {
		return ""
	}
	var lines []string
	if meta.Title != "" {
		lines = append(lines, "Title: "+meta.Title)
	}
	if meta.ChannelTitle != "" {
		lines = append(lines, "Channel: "+meta.ChannelTitle)
	}
	if len(lines) == 0 {
		return ""
	}
	return "\nVIDEO:\n" + strings.Join(lines, "\n") + "\n"
}

// MaxTokensFor sizes the model output budget per summary type.
func MaxTokensFor(summaryType models.SummaryType) int {
	if summaryType == models.SummaryComprehensive {
		return 2048
	}
	return 512
}
