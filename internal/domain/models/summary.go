package models

import (
	"sort"
	"strings"
	"time"
)

type SummaryType string

const (
	SummaryShort         SummaryType = "short"
	SummaryComprehensive SummaryType = "comprehensive"
)

// TranscriptSegment is one timed caption line. Offsets are seconds from the
// start of the video.
type TranscriptSegment struct {
	Text     string  `json:"text"`
	Offset   float64 `json:"offset"`
	Duration float64 `json:"duration"`
}

// Transcript is an ordered sequence of segments for one video.
type Transcript struct {
	VideoID  string              `json:"video_id"`
	Segments []TranscriptSegment `json:"segments"`
}

// Sort orders segments by ascending offset. Upstream providers do not
// guarantee order, so this must run before FullText.
func (t *Transcript) Sort() {
	sort.SliceStable(t.Segments, func(i, j int) bool {
		return t.Segments[i].Offset < t.Segments[j].Offset
	})
}

// FullText concatenates segment text in ascending-offset order.
func (t *Transcript) FullText() string {
	t.Sort()
	parts := make([]string, 0, len(t.Segments))
	for _, seg := range t.Segments {
		if s := strings.TrimSpace(seg.Text); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// VideoMetadata describes a video. Degraded marks the placeholder record
// returned when every metadata source failed; callers must be able to tell
// it apart from a real fetch.
type VideoMetadata struct {
	VideoID      string `json:"video_id"`
	Title        string `json:"title"`
	ThumbnailURL string `json:"thumbnail_url"`
	ChannelTitle string `json:"channel_title,omitempty"`
	PublishedAt  string `json:"published_at,omitempty"`
	DurationISO  string `json:"duration,omitempty"`
	Degraded     bool   `json:"degraded,omitempty"`
}

// Summary providers, in fallback order.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderBasic  = "basic"
)

// SummaryResult is the pipeline output. Provider always names the path that
// actually produced the text; a basic extractive summary is never presented
// as AI-sourced.
type SummaryResult struct {
	Summary     string          `json:"summary"`
	Provider    string          `json:"provider"`
	SummaryType SummaryType     `json:"summary_type"`
	Degraded    bool            `json:"degraded"`
	Cached      bool            `json:"cached"`
	GeneratedAt time.Time       `json:"timestamp"`
	Metadata    VideoMetadata   `json:"metadata"`
	Limits      RemainingLimits `json:"limits"`
}

type RemainingLimits struct {
	Daily  int `json:"daily"`
	Minute int `json:"minute"`
}
