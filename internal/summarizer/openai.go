package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"vidbrief/internal/domain/models"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

type OpenAIClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

type OpenAIOption func(*OpenAIClient)

func WithOpenAIBaseURL(url string) OpenAIOption {
	return func(c *OpenAIClient) { c.baseURL = url }
}

func WithOpenAIHTTPClient(client *http.Client) OpenAIOption {
	return func(c *OpenAIClient) { c.httpClient = client }
}

func NewOpenAIClient(apiKey, model string, opts ...OpenAIOption) *OpenAIClient {
	c := &OpenAIClient{
		apiKey:     apiKey,
		model:      model,
		baseURL:    defaultOpenAIBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *OpenAIClient) Name() string {
	return models.ProviderOpenAI
}

func (c *OpenAIClient) SendRequest(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if c.apiKey == "" {
		return "", newProviderError(c.Name(), ErrorClassAuth, fmt.Errorf("no API key configured"))
	}

	requestBody := map[string]interface{}{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"max_tokens":  maxTokens,
		"temperature": 0.7,
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return "", newProviderError(c.Name(), ErrorClassMalformed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", newProviderError(c.Name(), ErrorClassNetwork, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", newProviderError(c.Name(), ErrorClassNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", newProviderError(c.Name(), ErrorClassNetwork, err)
	}

	if class, ok := classifyStatus(resp.StatusCode); ok {
		return "", newProviderError(c.Name(), class, fmt.Errorf("status %d: %s", resp.StatusCode, truncate(body, 200)))
	}

	var response struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.Unmarshal(body, &response); err != nil {
		return "", newProviderError(c.Name(), ErrorClassMalformed, fmt.Errorf("parse response: %w", err))
	}

	if response.Error != nil {
		return "", newProviderError(c.Name(), ErrorClassMalformed, fmt.Errorf("API error: %s", response.Error.Message))
	}

	if len(response.Choices) == 0 {
		return "", newProviderError(c.Name(), ErrorClassMalformed, fmt.Errorf("empty response"))
	}

	return response.Choices[0].Message.Content, nil
}
