package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"vidbrief/internal/domain/models"
	"vidbrief/internal/retry"
)

const defaultOEmbedBaseURL = "https://www.youtube.com"

// errMetadataDenied marks authorization/quota failures from the metadata
// provider. Not retried; distinct from "video not found".
var errMetadataDenied = errors.New("metadata access denied")

type MetadataConfig struct {
	HTTPClient    *http.Client
	Limiter       *rate.Limiter
	Retry         retry.Config
	OEmbedBaseURL string
}

// MetadataClient fetches video metadata. Fetch never fails the pipeline:
// when every provider path is exhausted it returns a deterministic
// placeholder derived from the video ID, tagged Degraded.
type MetadataClient struct {
	httpClient    *http.Client
	limiter       *rate.Limiter
	retryCfg      retry.Config
	oembedBaseURL string
}

func NewMetadataClient(cfg MetadataConfig) *MetadataClient {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	if cfg.Limiter == nil {
		cfg.Limiter = NewSourceLimiter(60)
	}
	if cfg.Retry.MaxRetries == 0 {
		cfg.Retry = retry.DefaultConfig()
	}
	if cfg.OEmbedBaseURL == "" {
		cfg.OEmbedBaseURL = defaultOEmbedBaseURL
	}
	return &MetadataClient{
		httpClient:    cfg.HTTPClient,
		limiter:       cfg.Limiter,
		retryCfg:      cfg.Retry,
		oembedBaseURL: cfg.OEmbedBaseURL,
	}
}

func metadataRetryable(err error) bool {
	if errors.Is(err, errMetadataDenied) || errors.Is(err, models.ErrNotFound) {
		return false
	}
	return retry.IsRetryable(err)
}

// Fetch returns metadata for the video, degrading to a placeholder record
// rather than failing. The degraded record is explicitly tagged.
func (c *MetadataClient) Fetch(ctx context.Context, videoID string) *models.VideoMetadata {
	var meta *models.VideoMetadata

	err := retry.Do(ctx, c.retryCfg, metadataRetryable, func(ctx context.Context) error {
		m, err := c.fetchOEmbed(ctx, videoID)
		if err != nil {
			return err
		}
		meta = m
		return nil
	})
	if err != nil {
		log.Printf("metadata fetch failed for %s, using placeholder: %v", videoID, err)
		return PlaceholderMetadata(videoID)
	}
	return meta
}

type oembedResponse struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ThumbnailURL string `json:"thumbnail_url"`
}

func (c *MetadataClient) fetchOEmbed(ctx context.Context, videoID string) (*models.VideoMetadata, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	watchURL := url.QueryEscape("https://www.youtube.com/watch?v=" + videoID)
	endpoint := fmt.Sprintf("%s/oembed?url=%s&format=json", c.oembedBaseURL, watchURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("oembed %d for %s: %w", resp.StatusCode, videoID, errMetadataDenied)
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("video %s: %w", videoID, models.ErrNotFound)
	default:
		return nil, fmt.Errorf("%w %d from oembed for %s", errUpstreamStatus, resp.StatusCode, videoID)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var oe oembedResponse
	if err := json.Unmarshal(body, &oe); err != nil {
		return nil, fmt.Errorf("decode oembed response: %w", err)
	}

	return &models.VideoMetadata{
		VideoID:      videoID,
		Title:        oe.Title,
		ThumbnailURL: oe.ThumbnailURL,
		ChannelTitle: oe.AuthorName,
	}, nil
}

// PlaceholderMetadata is the degraded record: derived purely from the video
// ID so it is deterministic, with the thumbnail constructed by convention.
func PlaceholderMetadata(videoID string) *models.VideoMetadata {
	return &models.VideoMetadata{
		VideoID:      videoID,
		Title:        "Video Title Unavailable",
		ThumbnailURL: fmt.Sprintf("https://i.ytimg.com/vi/%s/hqdefault.jpg", videoID),
		Degraded:     true,
	}
}
