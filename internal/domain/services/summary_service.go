package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"vidbrief/internal/domain/models"
	"vidbrief/internal/domain/repositories"
	"vidbrief/internal/infrastructure/cache"
	"vidbrief/internal/ratelimit"
	"vidbrief/internal/summarizer"
	"vidbrief/internal/youtube"
)

// TranscriptProvider yields the caption transcript for a video.
type TranscriptProvider interface {
	Fetch(ctx context.Context, videoID string) (*models.Transcript, error)
}

// MetadataProvider yields video metadata. Implementations degrade to a
// placeholder rather than fail.
type MetadataProvider interface {
	Fetch(ctx context.Context, videoID string) *models.VideoMetadata
}

// SummaryGenerator produces summary text from a transcript. Implementations
// never fail; the worst case is a degraded extractive result.
type SummaryGenerator interface {
	Generate(ctx context.Context, transcript *models.Transcript, meta *models.VideoMetadata, summaryType models.SummaryType) summarizer.Result
}

type SummaryService interface {
	Summarize(ctx context.Context, req *SummarizeRequest) (*models.SummaryResult, error)
	Usage(ctx context.Context, userID int64, plan models.UserPlan) (models.RemainingLimits, error)
	// Drain blocks until all in-flight detached writes have finished.
	// Called during shutdown so cache entries and usage records spawned
	// by already-answered requests are not lost.
	Drain()
}

type SummarizeRequest struct {
	UserID      int64              `json:"user_id"`
	Plan        models.UserPlan    `json:"plan"`
	URL         string             `json:"url"`
	SummaryType models.SummaryType `json:"summary_type"`
}

type summaryService struct {
	transcripts     TranscriptProvider
	metadata        MetadataProvider
	generator       SummaryGenerator
	quota           *ratelimit.QuotaGate
	usage           repositories.UsageEventRepository
	transcriptCache *cache.TranscriptCache
	metadataCache   *cache.MetadataCache
	summaryCache    *cache.SummaryCache

	inflight      sync.WaitGroup
	recordTimeout time.Duration
	afterRecord   func() // test hook, called when the detached writes finish
}

type SummaryServiceOption func(*summaryService)

func WithRecordTimeout(d time.Duration) SummaryServiceOption {
	return func(s *summaryService) { s.recordTimeout = d }
}

func WithAfterRecord(fn func()) SummaryServiceOption {
	return func(s *summaryService) { s.afterRecord = fn }
}

func NewSummaryService(
	transcripts TranscriptProvider,
	metadata MetadataProvider,
	generator SummaryGenerator,
	quota *ratelimit.QuotaGate,
	usage repositories.UsageEventRepository,
	transcriptCache *cache.TranscriptCache,
	metadataCache *cache.MetadataCache,
	summaryCache *cache.SummaryCache,
	opts ...SummaryServiceOption,
) SummaryService {
	s := &summaryService{
		transcripts:     transcripts,
		metadata:        metadata,
		generator:       generator,
		quota:           quota,
		usage:           usage,
		transcriptCache: transcriptCache,
		metadataCache:   metadataCache,
		summaryCache:    summaryCache,
		recordTimeout:   5 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summarize runs the full pipeline for one request. Quota is evaluated
// before any model call and consumed per request: a cached summary still
// records a usage event. Failures here never leave a usage event behind.
func (s *summaryService) Summarize(ctx context.Context, req *SummarizeRequest) (*models.SummaryResult, error) {
	videoID, err := youtube.ResolveVideoID(req.URL)
	if err != nil {
		return nil, &models.PipelineError{
			Kind:    models.KindInvalidURL,
			Message: "could not extract a video ID from the provided URL",
			Err:     err,
		}
	}

	summaryType := req.SummaryType
	if summaryType == "" {
		summaryType = models.SummaryShort
	}

	// Served-from-cache path: quota still applies and usage is still
	// recorded, because accounting is per request, not per compute cost.
	if cached, ok := s.summaryCacheGet(ctx, req.UserID, videoID, summaryType); ok {
		decision := s.quota.Check(ctx, req.UserID, req.Plan)
		if !decision.Allowed {
			return nil, quotaError(decision)
		}
		cached.Metadata = *s.fetchMetadata(ctx, videoID)
		cached.Limits = consume(decision.Remaining)
		s.recordCompletion(req.UserID, videoID, nil)
		return cached, nil
	}

	transcript, meta, err := s.fetchInputs(ctx, videoID)
	if err != nil {
		if errors.Is(err, models.ErrNoTranscript) {
			return nil, &models.PipelineError{
				Kind:    models.KindTranscriptUnavailable,
				Message: "this video has no transcript available",
				Err:     err,
			}
		}
		return nil, models.AsPipelineError(fmt.Errorf("fetch transcript for %s: %w", videoID, err))
	}

	decision := s.quota.Check(ctx, req.UserID, req.Plan)
	if !decision.Allowed {
		return nil, quotaError(decision)
	}

	gen := s.generator.Generate(ctx, transcript, meta, summaryType)

	result := &models.SummaryResult{
		Summary:     summarizer.CleanSummary(gen.Text),
		Provider:    gen.Provider,
		SummaryType: summaryType,
		Degraded:    gen.Degraded || meta.Degraded,
		GeneratedAt: time.Now().UTC(),
		Metadata:    *meta,
		Limits:      consume(decision.Remaining),
	}

	s.recordCompletion(req.UserID, videoID, result)
	return result, nil
}

// Drain waits for the detached write goroutines spawned by recordCompletion.
func (s *summaryService) Drain() {
	s.inflight.Wait()
}

// Usage reports the requester's remaining window allowances.
func (s *summaryService) Usage(ctx context.Context, userID int64, plan models.UserPlan) (models.RemainingLimits, error) {
	return s.quota.Check(ctx, userID, plan).Remaining, nil
}

// fetchInputs resolves transcript and metadata concurrently, reading through
// the caches. Metadata cannot fail; a transcript failure aborts the join.
func (s *summaryService) fetchInputs(ctx context.Context, videoID string) (*models.Transcript, *models.VideoMetadata, error) {
	var (
		transcript *models.Transcript
		meta       *models.VideoMetadata
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := s.fetchTranscript(gctx, videoID)
		if err != nil {
			return err
		}
		transcript = t
		return nil
	})
	g.Go(func() error {
		meta = s.fetchMetadata(gctx, videoID)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return transcript, meta, nil
}

func (s *summaryService) fetchTranscript(ctx context.Context, videoID string) (*models.Transcript, error) {
	if t, ok, err := s.transcriptCache.Get(ctx, videoID); err != nil {
		log.Printf("transcript cache read failed for %s, treating as miss: %v", videoID, err)
	} else if ok {
		return t, nil
	}

	t, err := s.transcripts.Fetch(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if err := s.transcriptCache.Put(ctx, t); err != nil {
		log.Printf("transcript cache write failed for %s: %v", videoID, err)
	}
	return t, nil
}

func (s *summaryService) fetchMetadata(ctx context.Context, videoID string) *models.VideoMetadata {
	if m, ok, err := s.metadataCache.Get(ctx, videoID); err != nil {
		log.Printf("metadata cache read failed for %s, treating as miss: %v", videoID, err)
	} else if ok {
		return m
	}

	m := s.metadata.Fetch(ctx, videoID)
	// placeholder records are not worth pinning for a week
	if !m.Degraded {
		if err := s.metadataCache.Put(ctx, m); err != nil {
			log.Printf("metadata cache write failed for %s: %v", videoID, err)
		}
	}
	return m
}

func (s *summaryService) summaryCacheGet(ctx context.Context, userID int64, videoID string, summaryType models.SummaryType) (*models.SummaryResult, bool) {
	result, ok, err := s.summaryCache.Get(ctx, userID, videoID, summaryType)
	if err != nil {
		log.Printf("summary cache read failed for user %d video %s, treating as miss: %v", userID, videoID, err)
		return nil, false
	}
	return result, ok
}

// recordCompletion runs the post-response writes: the summary cache entry
// (fresh generations only) and the usage event. Detached from the request
// context so a client disconnect cannot lose the quota record; best-effort
// so a storage failure cannot retract an already-computed summary.
func (s *summaryService) recordCompletion(userID int64, videoID string, fresh *models.SummaryResult) {
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.recordTimeout)
		defer cancel()

		if fresh != nil {
			if err := s.summaryCache.Put(ctx, userID, videoID, fresh); err != nil {
				log.Printf("summary cache write failed for user %d video %s: %v", userID, videoID, err)
			}
		}

		event := &models.UsageEvent{
			UserID:    userID,
			VideoID:   videoID,
			Action:    models.ActionSummarize,
			Counted:   true,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.usage.Append(ctx, event); err != nil {
			log.Printf("usage record failed for user %d video %s: %v", userID, videoID, err)
		}

		if s.afterRecord != nil {
			s.afterRecord()
		}
	}()
}

func quotaError(d ratelimit.Decision) *models.PipelineError {
	return &models.PipelineError{
		Kind:      models.KindQuotaExceeded,
		Message:   "plan limit reached",
		Reason:    d.Reason,
		Remaining: d.Remaining,
	}
}

// consume adjusts the displayed remaining counts for the request being
// admitted right now.
func consume(r models.RemainingLimits) models.RemainingLimits {
	if r.Daily > 0 {
		r.Daily--
	}
	if r.Minute > 0 {
		r.Minute--
	}
	return r
}
