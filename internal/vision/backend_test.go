// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package vision

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/slidedeck/internal/httputil"
	"github.com/pdiddy/slidedeck/pkg/types"
)

// chatServer emulates the chat completions endpoint. It answers 429 for the
// first `limited` requests and records the last request body.
func chatServer(t *testing.T, answer string, limited int32, lastBody *map[string]any) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body map[string]any
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&body)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		*lastBody = body

		if n <= limited {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "gpt-4o",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": answer},
				"finish_reason": "stop",
			}},
			"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 2, "total_tokens": 12},
		})
	}))
	t.Cleanup(ts.Close)
	return ts, &calls
}

func TestOpenAIBackendComplete(t *testing.T) {
	var body map[string]any
	ts, calls := chatServer(t, "  Quarterly Review \n", 1, &body)

	old := httputil.RetryBaseDelay
	httputil.RetryBaseDelay = time.Millisecond
	defer func() { httputil.RetryBaseDelay = old }()

	cfg := types.AIConfig{Model: "gpt-4o", APIKey: "test-key", BaseURL: ts.URL}
	b, err := NewOpenAIBackend(cfg, httputil.NewRetryClient(5*time.Second, 2, nil))
	require.NoError(t, err)

	got, err := b.Complete(context.Background(), TitleInstruction, "data:image/png;base64,AAAA")
	require.NoError(t, err)
	assert.Equal(t, "Quarterly Review", got)
	assert.Equal(t, int32(2), atomic.LoadInt32(calls), "the 429 is retried")

	assert.Equal(t, "gpt-4o", body["model"])
	raw, err := json.Marshal(body["messages"])
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"image_url"`)
	assert.Contains(t, string(raw), "data:image/png;base64,AAAA")
	assert.Contains(t, string(raw), "slide title")
}

func TestOpenAIBackendRequiresKey(t *testing.T) {
	_, err := NewOpenAIBackend(types.AIConfig{Model: "gpt-4o"}, nil)
	assert.ErrorContains(t, err, "empty API key")
}

func TestOpenAIBackendServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"message": "invalid api key", "type": "invalid_request_error"}}`))
	}))
	defer ts.Close()

	b, err := NewOpenAIBackend(types.AIConfig{APIKey: "test-key", BaseURL: ts.URL}, nil)
	require.NoError(t, err)

	_, err = b.Complete(context.Background(), TitleInstruction, "data:image/png;base64,AAAA")
	assert.Error(t, err)
}
