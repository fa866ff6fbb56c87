package summarizer

import (
	"context"
	"log"

	"vidbrief/internal/domain/models"
	"vidbrief/internal/retry"
)

// Result is the outcome of one summary generation, including which backend
// actually produced the text. Provider always names the real producer, never
// the one that was merely attempted first.
type Result struct {
	Text     string
	Provider string
	Degraded bool
}

// Chain runs the provider fallback order: primary model, then secondary
// model, then the extractive fallback. Generate never returns an error; the
// extractive fallback always produces output and tags the result degraded.
type Chain struct {
	providers []APIClient
	prompts   *PromptTemplates
	retryCfg  retry.Config
}

func NewChain(providers []APIClient, opts ...ChainOption) *Chain {
	retryCfg := retry.DefaultConfig()
	retryCfg.MaxRetries = 1

	c := &Chain{
		providers: providers,
		prompts:   NewPromptTemplates(),
		retryCfg:  retryCfg,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type ChainOption func(*Chain)

func WithRetryConfig(cfg retry.Config) ChainOption {
	return func(c *Chain) { c.retryCfg = cfg }
}

// Generate produces a summary, walking the provider chain until one
// succeeds. Each model provider gets a bounded retry on transient failures
// before the chain moves on.
func (c *Chain) Generate(ctx context.Context, transcript *models.Transcript, meta *models.VideoMetadata, summaryType models.SummaryType) Result {
	prompt := c.prompts.Build(summaryType, transcript.FullText(), meta)
	maxTokens := MaxTokensFor(summaryType)

	for _, provider := range c.providers {
		var text string
		err := retry.Do(ctx, c.retryCfg, retryableClass, func(ctx context.Context) error {
			out, err := provider.SendRequest(ctx, prompt, maxTokens)
			if err != nil {
				return err
			}
			text = out
			return nil
		})
		if err == nil {
			return Result{Text: text, Provider: provider.Name()}
		}
		log.Printf("⚠️ summary provider %s failed (%s), falling back: %v", provider.Name(), classOf(err), err)
	}

	log.Printf("all model providers exhausted for %s, using extractive fallback", transcript.VideoID)
	return Result{
		Text:     BasicSummarize(transcript, meta, summaryType),
		Provider: models.ProviderBasic,
		Degraded: true,
	}
}
