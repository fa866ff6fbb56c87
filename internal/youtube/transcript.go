package youtube

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"vidbrief/internal/domain/models"
	"vidbrief/internal/retry"
)

const (
	defaultWatchBaseURL     = "https://www.youtube.com"
	defaultTimedTextBaseURL = "https://video.google.com"
)

// errPlayerDataUnavailable means the watch page could not be interpreted at
// all (blocked, reshaped, consent wall). Distinct from "this video has no
// captions": only this class falls through to the secondary provider.
var errPlayerDataUnavailable = errors.New("player data unavailable")

// errUpstreamStatus marks transient upstream responses (5xx, 429).
var errUpstreamStatus = errors.New("upstream status")

type TranscriptConfig struct {
	HTTPClient       *http.Client
	Limiter          *rate.Limiter
	Retry            retry.Config
	WatchBaseURL     string
	TimedTextBaseURL string
}

// TranscriptClient fetches caption data for a video. The primary provider is
// the watch-page caption track list; the timedtext endpoint is the secondary.
// All requests pass through the shared source limiter first.
type TranscriptClient struct {
	httpClient       *http.Client
	limiter          *rate.Limiter
	retryCfg         retry.Config
	watchBaseURL     string
	timedTextBaseURL string
}

func NewTranscriptClient(cfg TranscriptConfig) *TranscriptClient {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	if cfg.Limiter == nil {
		cfg.Limiter = NewSourceLimiter(30)
	}
	if cfg.Retry.MaxRetries == 0 {
		cfg.Retry = retry.DefaultConfig()
	}
	if cfg.WatchBaseURL == "" {
		cfg.WatchBaseURL = defaultWatchBaseURL
	}
	if cfg.TimedTextBaseURL == "" {
		cfg.TimedTextBaseURL = defaultTimedTextBaseURL
	}
	return &TranscriptClient{
		httpClient:       cfg.HTTPClient,
		limiter:          cfg.Limiter,
		retryCfg:         cfg.Retry,
		watchBaseURL:     cfg.WatchBaseURL,
		timedTextBaseURL: cfg.TimedTextBaseURL,
	}
}

// transcriptRetryable: permanent caption outcomes are never retried.
func transcriptRetryable(err error) bool {
	if errors.Is(err, models.ErrNoTranscript) || errors.Is(err, errPlayerDataUnavailable) {
		return false
	}
	return retry.IsRetryable(err)
}

// Fetch returns the decoded, offset-ordered transcript for a video.
// Returns models.ErrNoTranscript (terminal) when the video has no usable
// captions on any provider.
func (c *TranscriptClient) Fetch(ctx context.Context, videoID string) (*models.Transcript, error) {
	var transcript *models.Transcript

	err := retry.Do(ctx, c.retryCfg, transcriptRetryable, func(ctx context.Context) error {
		t, err := c.fetchFromWatchPage(ctx, videoID)
		if err != nil {
			return err
		}
		transcript = t
		return nil
	})

	// Only the "could not read player data" class falls through; a video
	// that definitively has no captions stays terminal.
	if errors.Is(err, errPlayerDataUnavailable) {
		err = retry.Do(ctx, c.retryCfg, transcriptRetryable, func(ctx context.Context) error {
			t, err := c.fetchFromTimedText(ctx, videoID)
			if err != nil {
				return err
			}
			transcript = t
			return nil
		})
	}
	if err != nil {
		return nil, err
	}

	transcript.Sort()
	return transcript, nil
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
}

var captionTracksRe = regexp.MustCompile(`"captionTracks":(\[.*?\])`)

func (c *TranscriptClient) fetchFromWatchPage(ctx context.Context, videoID string) (*models.Transcript, error) {
	body, err := c.get(ctx, fmt.Sprintf("%s/watch?v=%s", c.watchBaseURL, videoID))
	if err != nil {
		return nil, err
	}

	page := string(body)
	if !strings.Contains(page, "ytInitialPlayerResponse") {
		return nil, fmt.Errorf("watch page for %s: %w", videoID, errPlayerDataUnavailable)
	}

	m := captionTracksRe.FindStringSubmatch(page)
	if m == nil {
		return nil, fmt.Errorf("video %s: %w", videoID, models.ErrNoTranscript)
	}

	var tracks []captionTrack
	if err := json.Unmarshal([]byte(m[1]), &tracks); err != nil {
		return nil, fmt.Errorf("decode caption tracks for %s: %w", videoID, errPlayerDataUnavailable)
	}
	if len(tracks) == 0 {
		return nil, fmt.Errorf("video %s: %w", videoID, models.ErrNoTranscript)
	}

	track := pickTrack(tracks)
	segments, err := c.fetchTrackXML(ctx, track.BaseURL)
	if err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("video %s: empty caption track: %w", videoID, models.ErrNoTranscript)
	}

	return &models.Transcript{VideoID: videoID, Segments: segments}, nil
}

// pickTrack prefers manually-authored English captions, then any English,
// then the first track.
func pickTrack(tracks []captionTrack) captionTrack {
	for _, t := range tracks {
		if t.LanguageCode == "en" && t.Kind != "asr" {
			return t
		}
	}
	for _, t := range tracks {
		if strings.HasPrefix(t.LanguageCode, "en") {
			return t
		}
	}
	return tracks[0]
}

func (c *TranscriptClient) fetchFromTimedText(ctx context.Context, videoID string) (*models.Transcript, error) {
	url := fmt.Sprintf("%s/timedtext?lang=en&v=%s", c.timedTextBaseURL, videoID)
	segments, err := c.fetchTrackXML(ctx, url)
	if err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("video %s: %w", videoID, models.ErrNoTranscript)
	}
	return &models.Transcript{VideoID: videoID, Segments: segments}, nil
}

type timedTextDoc struct {
	Texts []struct {
		Start float64 `xml:"start,attr"`
		Dur   float64 `xml:"dur,attr"`
		Body  string  `xml:",innerxml"`
	} `xml:"text"`
}

func (c *TranscriptClient) fetchTrackXML(ctx context.Context, url string) ([]models.TranscriptSegment, error) {
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, nil
	}

	var doc timedTextDoc
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode caption xml: %w", err)
	}

	segments := make([]models.TranscriptSegment, 0, len(doc.Texts))
	for _, t := range doc.Texts {
		text := DecodeCaptionText(t.Body)
		if text == "" {
			continue
		}
		segments = append(segments, models.TranscriptSegment{
			Text:     text,
			Offset:   t.Start,
			Duration: t.Dur,
		})
	}
	return segments, nil
}

func (c *TranscriptClient) get(ctx context.Context, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept-Language", "en-US,en")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("%w %d from %s", errUpstreamStatus, resp.StatusCode, url)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", url, models.ErrNoTranscript)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: %w", url, errPlayerDataUnavailable)
	}

	return io.ReadAll(resp.Body)
}

var captionTagRe = regexp.MustCompile(`<[^>]+>`)

// DecodeCaptionText strips caption markup and unescapes HTML entities.
// Part of the fetch contract: callers always receive plain text.
func DecodeCaptionText(raw string) string {
	text := captionTagRe.ReplaceAllString(raw, " ")
	text = html.UnescapeString(text)
	text = strings.Join(strings.Fields(text), " ")
	return strings.TrimSpace(text)
}
