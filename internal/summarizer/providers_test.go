package summarizer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidbrief/internal/domain/models"
)

var testMeta = models.VideoMetadata{VideoID: "dQw4w9WgXcQ", Title: "A Talk", ChannelTitle: "A Channel"}

func TestGeminiClient_SendRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-1.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req, "contents")

		fmt.Fprint(w, `{"candidates":[{"content":{"parts":[{"text":"- generated summary"}]}}]}`)
	}))
	defer srv.Close()

	client := NewGeminiClient("test-key", "gemini-1.5-flash",
		WithGeminiBaseURL(srv.URL), WithGeminiHTTPClient(srv.Client()))

	out, err := client.SendRequest(context.Background(), "summarize this", 512)
	require.NoError(t, err)
	assert.Equal(t, "- generated summary", out)
}

func TestGeminiClient_ErrorClasses(t *testing.T) {
	cases := []struct {
		status int
		class  ErrorClass
	}{
		{http.StatusUnauthorized, ErrorClassAuth},
		{http.StatusForbidden, ErrorClassAuth},
		{http.StatusTooManyRequests, ErrorClassQuota},
		{http.StatusInternalServerError, ErrorClassNetwork},
		{http.StatusBadRequest, ErrorClassMalformed},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("status_%d", tc.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer srv.Close()

			client := NewGeminiClient("test-key", "gemini-1.5-flash",
				WithGeminiBaseURL(srv.URL), WithGeminiHTTPClient(srv.Client()))

			_, err := client.SendRequest(context.Background(), "prompt", 512)
			require.Error(t, err)
			assert.Equal(t, tc.class, classOf(err))
		})
	}
}

func TestGeminiClient_MissingKeyIsAuthError(t *testing.T) {
	client := NewGeminiClient("", "gemini-1.5-flash")
	_, err := client.SendRequest(context.Background(), "prompt", 512)
	require.Error(t, err)
	assert.Equal(t, ErrorClassAuth, classOf(err))
}

func TestOpenAIClient_SendRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req["model"])

		fmt.Fprint(w, `{"choices":[{"message":{"content":"- openai summary"}}]}`)
	}))
	defer srv.Close()

	client := NewOpenAIClient("test-key", "gpt-4o-mini",
		WithOpenAIBaseURL(srv.URL), WithOpenAIHTTPClient(srv.Client()))

	out, err := client.SendRequest(context.Background(), "summarize this", 512)
	require.NoError(t, err)
	assert.Equal(t, "- openai summary", out)
}

func TestOpenAIClient_EmptyChoicesIsMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[]}`)
	}))
	defer srv.Close()

	client := NewOpenAIClient("test-key", "gpt-4o-mini",
		WithOpenAIBaseURL(srv.URL), WithOpenAIHTTPClient(srv.Client()))

	_, err := client.SendRequest(context.Background(), "prompt", 512)
	require.Error(t, err)
	assert.Equal(t, ErrorClassMalformed, classOf(err))
}

func TestPromptTemplates_MetadataContext(t *testing.T) {
	p := NewPromptTemplates()

	withMeta := p.Build("short", "the transcript", &testMeta)
	assert.Contains(t, withMeta, "Title: A Talk")
	assert.Contains(t, withMeta, "Channel: A Channel")

	degraded := testMeta
	degraded.Degraded = true
	withoutMeta := p.Build("short", "the transcript", &degraded)
	assert.NotContains(t, withoutMeta, "A Talk")

	assert.NotContains(t, p.Build("short", "the transcript", nil), "Title:")
}
