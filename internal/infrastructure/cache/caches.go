package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"vidbrief/internal/domain/models"
)

// Cache TTL policies. Transcripts are stable once published; summaries are
// refreshed sooner so prompt/model iteration reaches returning users.
const (
	TranscriptTTL = 30 * 24 * time.Hour
	MetadataTTL   = 7 * 24 * time.Hour
	SummaryTTL    = 7 * 24 * time.Hour
)

// TranscriptCache is content-addressed by video ID and shared across users.
type TranscriptCache struct {
	store Store
}

func NewTranscriptCache(store Store) *TranscriptCache {
	return &TranscriptCache{store: store}
}

func (c *TranscriptCache) Get(ctx context.Context, videoID string) (*models.Transcript, bool, error) {
	var t models.Transcript
	ok, err := getJSON(ctx, c.store, transcriptKey(videoID), &t)
	if !ok || err != nil {
		return nil, false, err
	}
	return &t, true, nil
}

func (c *TranscriptCache) Put(ctx context.Context, t *models.Transcript) error {
	return setJSON(ctx, c.store, transcriptKey(t.VideoID), t, TranscriptTTL)
}

type MetadataCache struct {
	store Store
}

func NewMetadataCache(store Store) *MetadataCache {
	return &MetadataCache{store: store}
}

func (c *MetadataCache) Get(ctx context.Context, videoID string) (*models.VideoMetadata, bool, error) {
	var m models.VideoMetadata
	ok, err := getJSON(ctx, c.store, metadataKey(videoID), &m)
	if !ok || err != nil {
		return nil, false, err
	}
	return &m, true, nil
}

func (c *MetadataCache) Put(ctx context.Context, m *models.VideoMetadata) error {
	return setJSON(ctx, c.store, metadataKey(m.VideoID), m, MetadataTTL)
}

// SummaryCache is keyed per user: access to a stored summary is bound to the
// requester, not shared globally.
type SummaryCache struct {
	store Store
}

func NewSummaryCache(store Store) *SummaryCache {
	return &SummaryCache{store: store}
}

type cachedSummary struct {
	Summary     string    `json:"summary"`
	Provider    string    `json:"provider"`
	Degraded    bool      `json:"degraded"`
	GeneratedAt time.Time `json:"generated_at"`
}

func (c *SummaryCache) Get(ctx context.Context, userID int64, videoID string, summaryType models.SummaryType) (*models.SummaryResult, bool, error) {
	var cs cachedSummary
	ok, err := getJSON(ctx, c.store, summaryKey(userID, videoID, summaryType), &cs)
	if !ok || err != nil {
		return nil, false, err
	}
	return &models.SummaryResult{
		Summary:     cs.Summary,
		Provider:    cs.Provider,
		SummaryType: summaryType,
		Degraded:    cs.Degraded,
		Cached:      true,
		GeneratedAt: cs.GeneratedAt,
	}, true, nil
}

func (c *SummaryCache) Put(ctx context.Context, userID int64, videoID string, result *models.SummaryResult) error {
	cs := cachedSummary{
		Summary:     result.Summary,
		Provider:    result.Provider,
		Degraded:    result.Degraded,
		GeneratedAt: result.GeneratedAt,
	}
	return setJSON(ctx, c.store, summaryKey(userID, videoID, result.SummaryType), &cs, SummaryTTL)
}

func transcriptKey(videoID string) string {
	return "transcript:" + videoID
}

func metadataKey(videoID string) string {
	return "metadata:" + videoID
}

func summaryKey(userID int64, videoID string, summaryType models.SummaryType) string {
	return fmt.Sprintf("summary:%d:%s:%s", userID, videoID, summaryType)
}

func getJSON(ctx context.Context, store Store, key string, out interface{}) (bool, error) {
	data, ok, err := store.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return true, nil
}

func setJSON(ctx context.Context, store Store, key string, v interface{}, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := store.Set(ctx, key, data, ttl); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}
