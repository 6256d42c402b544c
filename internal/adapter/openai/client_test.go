package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) string {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv.URL + "/v1"
}

func TestEmbeddingClient_Embed(t *testing.T) {
	var got map[string]any
	url := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[{"object":"embedding","index":0,"embedding":[0.1,0.2,0.3]}],"model":"text-embedding-3-small"}`))
	})

	c := NewEmbeddingClient(NewClient("test-key", url), "text-embedding-3-small", 3)
	vec, err := c.Embed(context.Background(), "cap rate")
	require.NoError(t, err)

	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
	assert.Equal(t, "text-embedding-3-small", got["model"])
	assert.Equal(t, float64(3), got["dimensions"])
}

func TestEmbeddingClient_EmptyResponse(t *testing.T) {
	url := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[]}`))
	})

	c := NewEmbeddingClient(NewClient("test-key", url), "text-embedding-3-small", 3)
	_, err := c.Embed(context.Background(), "cap rate")
	assert.Error(t, err)
}

func TestChatClient_Generate(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	url := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"Occupancy is 92%."},"finish_reason":"stop"}]}`))
	})

	c := NewChatClient(NewClient("test-key", url), "gpt-4o-mini")
	answer, err := c.Generate(context.Background(), "What is occupancy?")
	require.NoError(t, err)

	assert.Equal(t, "Occupancy is 92%.", answer)
	assert.Equal(t, "gpt-4o-mini", got.Model)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "What is occupancy?", got.Messages[0].Content)
}

func TestChatClient_ServerError(t *testing.T) {
	url := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	})

	c := NewChatClient(NewClient("test-key", url), "gpt-4o-mini")
	_, err := c.Generate(context.Background(), "question")
	assert.Error(t, err)
}
