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

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

type GeminiClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

type GeminiOption func(*GeminiClient)

func WithGeminiBaseURL(url string) GeminiOption {
	return func(c *GeminiClient) { c.baseURL = url }
}

func WithGeminiHTTPClient(client *http.Client) GeminiOption {
	return func(c *GeminiClient) { c.httpClient = client }
}

func NewGeminiClient(apiKey, model string, opts ...GeminiOption) *GeminiClient {
	c := &GeminiClient{
		apiKey:     apiKey,
		model:      model,
		baseURL:    defaultGeminiBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *GeminiClient) Name() string {
	return models.ProviderGemini
}

func (c *GeminiClient) SendRequest(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if c.apiKey == "" {
		return "", newProviderError(c.Name(), ErrorClassAuth, fmt.Errorf("no API key configured"))
	}

	requestBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"maxOutputTokens": maxTokens,
			"temperature":     0.7,
		},
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return "", newProviderError(c.Name(), ErrorClassMalformed, err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", newProviderError(c.Name(), ErrorClassNetwork, err)
	}
	req.Header.Set("Content-Type", "application/json")

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
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
		Error *struct {
			Message string `json:"message"`
			Code    int    `json:"code"`
		} `json:"error"`
	}

	if err := json.Unmarshal(body, &response); err != nil {
		return "", newProviderError(c.Name(), ErrorClassMalformed, fmt.Errorf("parse response: %w", err))
	}

	if response.Error != nil {
		return "", newProviderError(c.Name(), ErrorClassMalformed,
			fmt.Errorf("API error %d: %s", response.Error.Code, response.Error.Message))
	}

	if len(response.Candidates) == 0 || len(response.Candidates[0].Content.Parts) == 0 {
		return "", newProviderError(c.Name(), ErrorClassMalformed, fmt.Errorf("empty response"))
	}

	return response.Candidates[0].Content.Parts[0].Text, nil
}

// classifyStatus maps non-200 HTTP statuses to a failure class.
func classifyStatus(status int) (ErrorClass, bool) {
	switch {
	case status == http.StatusOK:
		return "", false
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrorClassAuth, true
	case status == http.StatusTooManyRequests:
		return ErrorClassQuota, true
	case status >= 500:
		return ErrorClassNetwork, true
	default:
		return ErrorClassMalformed, true
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
