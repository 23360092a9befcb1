package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestComplete(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	t.Run("returns joined text blocks", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/messages", r.URL.Path)
			assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
			assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
			_, _ = w.Write([]byte(`{
				"content": [
					{"type": "text", "text": "Hello "},
					{"type": "thinking", "text": "ignored"},
					{"type": "text", "text": "world"}
				],
				"usage": {"input_tokens": 10, "output_tokens": 5}
			}`))
		}))
		defer srv.Close()

		client := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL}, logger)
		text, err := client.Complete(ctx, "say hello")

		require.NoError(t, err)
		assert.Equal(t, "Hello world", text)
	})

	t.Run("missing api key fails fast", func(t *testing.T) {
		client := NewClient(Config{}, logger)

		_, err := client.Complete(ctx, "prompt")

		assert.ErrorIs(t, err, ErrNoAPIKey)
	})

	t.Run("api error is surfaced", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":{"type":"rate_limit_error","message":"slow down"}}`))
		}))
		defer srv.Close()

		client := NewClient(Config{APIKey: "k", BaseURL: srv.URL}, logger)
		_, err := client.Complete(ctx, "prompt")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "rate_limit_error")
		assert.Contains(t, err.Error(), "slow down")
	})

	t.Run("empty completion is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"content":[]}`))
		}))
		defer srv.Close()

		client := NewClient(Config{APIKey: "k", BaseURL: srv.URL}, logger)
		_, err := client.Complete(ctx, "prompt")

		assert.Error(t, err)
	})
}

func TestNewClientDefaults(t *testing.T) {
	client := NewClient(Config{APIKey: "k"}, nil)

	assert.Equal(t, "https://api.anthropic.com/v1", client.baseURL)
	assert.NotEmpty(t, client.model)
	assert.Greater(t, client.maxTokens, 0)
	assert.NotNil(t, client.logger)
}
