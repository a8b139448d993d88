package commentary

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishal13230/BellCurve-Securities/internal/domain/models"
	"github.com/vishal13230/BellCurve-Securities/pkg/config"
)

func testClient(baseURL string) *Client {
	cfg := &config.Config{}
	cfg.Commentary.BaseURL = baseURL
	cfg.Commentary.Model = "gemini-1.5-flash"
	cfg.Commentary.APIKey = "test-key"
	cfg.Commentary.Timeout = 2 * time.Second
	return NewClient(cfg)
}

func TestCommentary(t *testing.T) {
	var gotBody generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "gemini-1.5-flash")
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"parts": []map[string]string{{"text": "Diversification looks adequate."}},
				},
			}},
		})
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	got, err := c.Commentary(context.Background(), &models.CommentaryRequest{
		Subject: "frontier",
		Prompt:  "Assess the allocation.",
		Context: map[string]interface{}{"max_sharpe": "60% AAA, 40% BBB"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Diversification looks adequate.", got.Text)
	assert.Equal(t, "gemini-1.5-flash", got.Model)

	require.Len(t, gotBody.Contents, 1)
	require.Len(t, gotBody.Contents[0].Parts, 1)
	assert.Contains(t, gotBody.Contents[0].Parts[0].Text, "max_sharpe")
	assert.Contains(t, gotBody.Contents[0].Parts[0].Text, "Assess the allocation.")
}

func TestCommentaryEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{"finishReason": "SAFETY"}},
		})
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Commentary(context.Background(), &models.CommentaryRequest{Prompt: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SAFETY")
}

func TestCommentaryMissingKey(t *testing.T) {
	cfg := &config.Config{}
	cfg.Commentary.BaseURL = "http://localhost:1"
	cfg.Commentary.Timeout = time.Second
	c := NewClient(cfg)

	_, err := c.Commentary(context.Background(), &models.CommentaryRequest{Prompt: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api key")
}

func TestCommentaryUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Commentary(context.Background(), &models.CommentaryRequest{Prompt: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}