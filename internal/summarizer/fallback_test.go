package summarizer

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"vidbrief/internal/domain/models"
	"vidbrief/internal/retry"
)

type fakeClient struct {
	name     string
	response string
	err      error
	calls    int
}

func (f *fakeClient) SendRequest(ctx context.Context, prompt string, maxTokens int) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeClient) Name() string { return f.name }

func testTranscript() *models.Transcript {
	return &models.Transcript{
		VideoID: "dQw4w9WgXcQ",
		Segments: []models.TranscriptSegment{
			{Text: "First we cover the basics.", Offset: 0},
			{Text: "Then we go deeper into the topic.", Offset: 5},
			{Text: "Finally some closing thoughts.", Offset: 10},
		},
	}
}

func chainRetry() retry.Config {
	return retry.Config{MaxRetries: 1, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond, Multiplier: 1.0}
}

func TestChain_PrimarySucceeds(t *testing.T) {
	primary := &fakeClient{name: models.ProviderGemini, response: "- point one\n- point two"}
	secondary := &fakeClient{name: models.ProviderOpenAI, response: "should not be used"}

	chain := NewChain([]APIClient{primary, secondary}, WithRetryConfig(chainRetry()))
	result := chain.Generate(context.Background(), testTranscript(), nil, models.SummaryShort)

	assert.Equal(t, "- point one\n- point two", result.Text)
	assert.Equal(t, models.ProviderGemini, result.Provider)
	assert.False(t, result.Degraded)
	assert.Zero(t, secondary.calls)
}

func TestChain_FallsToSecondary(t *testing.T) {
	primary := &fakeClient{name: models.ProviderGemini, err: newProviderError(models.ProviderGemini, ErrorClassAuth, fmt.Errorf("bad key"))}
	secondary := &fakeClient{name: models.ProviderOpenAI, response: "secondary output"}

	chain := NewChain([]APIClient{primary, secondary}, WithRetryConfig(chainRetry()))
	result := chain.Generate(context.Background(), testTranscript(), nil, models.SummaryShort)

	assert.Equal(t, "secondary output", result.Text)
	assert.Equal(t, models.ProviderOpenAI, result.Provider)
	assert.False(t, result.Degraded)
	assert.Equal(t, 1, primary.calls, "auth failures are not retried")
}

func TestChain_QuotaErrorSkipsRetryAndFallsThrough(t *testing.T) {
	primary := &fakeClient{name: models.ProviderGemini, err: newProviderError(models.ProviderGemini, ErrorClassQuota, fmt.Errorf("rate limited"))}
	secondary := &fakeClient{name: models.ProviderOpenAI, response: "secondary output"}

	chain := NewChain([]APIClient{primary, secondary}, WithRetryConfig(chainRetry()))
	result := chain.Generate(context.Background(), testTranscript(), nil, models.SummaryShort)

	assert.Equal(t, 1, primary.calls, "a throttled provider is not re-asked")
	assert.Equal(t, models.ProviderOpenAI, result.Provider)
	assert.False(t, result.Degraded)
}

func TestChain_TransientErrorRetriedBeforeFallthrough(t *testing.T) {
	primary := &fakeClient{name: models.ProviderGemini, err: newProviderError(models.ProviderGemini, ErrorClassNetwork, fmt.Errorf("timeout"))}
	secondary := &fakeClient{name: models.ProviderOpenAI, response: "secondary output"}

	chain := NewChain([]APIClient{primary, secondary}, WithRetryConfig(chainRetry()))
	result := chain.Generate(context.Background(), testTranscript(), nil, models.SummaryShort)

	assert.Equal(t, 2, primary.calls, "one retry on network errors")
	assert.Equal(t, models.ProviderOpenAI, result.Provider)
}

func TestChain_AllProvidersFailUsesExtractive(t *testing.T) {
	primary := &fakeClient{name: models.ProviderGemini, err: newProviderError(models.ProviderGemini, ErrorClassQuota, fmt.Errorf("rate limited"))}
	secondary := &fakeClient{name: models.ProviderOpenAI, err: newProviderError(models.ProviderOpenAI, ErrorClassAuth, fmt.Errorf("bad key"))}

	chain := NewChain([]APIClient{primary, secondary}, WithRetryConfig(chainRetry()))
	result := chain.Generate(context.Background(), testTranscript(), nil, models.SummaryShort)

	assert.Equal(t, models.ProviderBasic, result.Provider)
	assert.True(t, result.Degraded)
	assert.Contains(t, result.Text, "First we cover the basics.")
}

func TestChain_NoProvidersStillProducesOutput(t *testing.T) {
	chain := NewChain(nil, WithRetryConfig(chainRetry()))
	result := chain.Generate(context.Background(), testTranscript(), nil, models.SummaryComprehensive)

	assert.Equal(t, models.ProviderBasic, result.Provider)
	assert.True(t, result.Degraded)
	assert.NotEmpty(t, result.Text)
}

func TestBasicSummarize(t *testing.T) {
	meta := &models.VideoMetadata{VideoID: "dQw4w9WgXcQ", Title: "A Talk"}
	text := BasicSummarize(testTranscript(), meta, models.SummaryShort)

	assert.Contains(t, text, "A Talk")
	assert.Contains(t, text, "- First we cover the basics.")

	// degraded metadata title must not leak into output
	degraded := &models.VideoMetadata{VideoID: "dQw4w9WgXcQ", Title: "Video Title Unavailable", Degraded: true}
	text = BasicSummarize(testTranscript(), degraded, models.SummaryShort)
	assert.NotContains(t, text, "Video Title Unavailable")
}

func TestBasicSummarize_UnpunctuatedCaptions(t *testing.T) {
	transcript := &models.Transcript{
		VideoID: "abc123def45",
		Segments: []models.TranscriptSegment{
			{Text: "no punctuation anywhere in these captions", Offset: 0},
			{Text: "just a stream of words", Offset: 3},
		},
	}
	text := BasicSummarize(transcript, nil, models.SummaryShort)
	assert.Equal(t, "- no punctuation anywhere in these captions just a stream of words", text)
}
