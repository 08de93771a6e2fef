package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/PharmaLens/internal/config"
	"github.com/turtacn/PharmaLens/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/PharmaLens/pkg/errors"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.GenerativeConfig{
		BaseURL:     srv.URL,
		APIKey:      "sk-test",
		Model:       "gpt-4o-mini",
		Temperature: 0.2,
		MaxTokens:   1024,
		Timeout:     time.Second,
	}, logging.NewNopLogger(), nil)
}

func TestGenerate(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req["model"])
		assert.InDelta(t, 0.2, req["temperature"].(float64), 1e-9)

		w.Write([]byte(`{
			"choices": [{"message": {"role": "assistant", "content": "{\"confidence\": 0.8}"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 120, "completion_tokens": 45}
		}`))
	}))

	text, err := client.Generate(context.Background(), "analyze aspirin")
	require.NoError(t, err)
	assert.Equal(t, `{"confidence": 0.8}`, text)
}

func TestGenerate_NoChoices(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))

	_, err := client.Generate(context.Background(), "analyze aspirin")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeGenerativeUpstream))
}

func TestGenerate_UpstreamError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"message": "invalid api key"}}`))
	}))

	_, err := client.Generate(context.Background(), "analyze aspirin")
	require.Error(t, err)
}
