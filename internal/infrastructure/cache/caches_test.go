package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidbrief/internal/domain/models"
)

func TestSummaryCache_TTLBoundary(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store.WithNowFunc(func() time.Time { return now })

	c := NewSummaryCache(store)
	result := &models.SummaryResult{
		Summary:     "a summary",
		Provider:    models.ProviderGemini,
		SummaryType: models.SummaryShort,
		GeneratedAt: now,
	}
	require.NoError(t, c.Put(context.Background(), 7, "dQw4w9WgXcQ", result))

	// just inside the 7 day window
	now = now.Add(7*24*time.Hour - time.Minute)
	_, ok, err := c.Get(context.Background(), 7, "dQw4w9WgXcQ", models.SummaryShort)
	require.NoError(t, err)
	assert.True(t, ok)

	// just past it
	now = now.Add(2 * time.Minute)
	_, ok, err = c.Get(context.Background(), 7, "dQw4w9WgXcQ", models.SummaryShort)
	require.NoError(t, err)
	assert.False(t, ok, "expired entry must read as a miss")
}

func TestSummaryCache_KeyedPerUser(t *testing.T) {
	store := NewMemoryStore()
	c := NewSummaryCache(store)
	ctx := context.Background()

	result := &models.SummaryResult{
		Summary:     "user 1 summary",
		Provider:    models.ProviderOpenAI,
		SummaryType: models.SummaryShort,
		GeneratedAt: time.Now(),
	}
	require.NoError(t, c.Put(ctx, 1, "jNQXAC9IVRw", result))

	_, ok, err := c.Get(ctx, 2, "jNQXAC9IVRw", models.SummaryShort)
	require.NoError(t, err)
	assert.False(t, ok, "summaries are not shared across users")

	got, ok, err := c.Get(ctx, 1, "jNQXAC9IVRw", models.SummaryShort)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "user 1 summary", got.Summary)
	assert.True(t, got.Cached)
	assert.Equal(t, models.ProviderOpenAI, got.Provider)
}

func TestSummaryCache_KeyedPerType(t *testing.T) {
	store := NewMemoryStore()
	c := NewSummaryCache(store)
	ctx := context.Background()

	short := &models.SummaryResult{Summary: "short", Provider: models.ProviderGemini, SummaryType: models.SummaryShort, GeneratedAt: time.Now()}
	require.NoError(t, c.Put(ctx, 1, "jNQXAC9IVRw", short))

	_, ok, err := c.Get(ctx, 1, "jNQXAC9IVRw", models.SummaryComprehensive)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTranscriptCache_RoundTrip(t *testing.T) {
	store := NewMemoryStore()
	c := NewTranscriptCache(store)
	ctx := context.Background()

	transcript := &models.Transcript{
		VideoID: "dQw4w9WgXcQ",
		Segments: []models.TranscriptSegment{
			{Text: "hello", Offset: 0, Duration: 1.5},
			{Text: "world", Offset: 1.5, Duration: 2},
		},
	}
	require.NoError(t, c.Put(ctx, transcript))

	got, ok, err := c.Get(ctx, "dQw4w9WgXcQ")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, got.Segments, 2)
	assert.Equal(t, "hello world", got.FullText())
}

func TestMetadataCache_PreservesDegradedFlag(t *testing.T) {
	store := NewMemoryStore()
	c := NewMetadataCache(store)
	ctx := context.Background()

	meta := &models.VideoMetadata{
		VideoID:  "jNQXAC9IVRw",
		Title:    "Video Title Unavailable",
		Degraded: true,
	}
	require.NoError(t, c.Put(ctx, meta))

	got, ok, err := c.Get(ctx, "jNQXAC9IVRw")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.Degraded)
}
