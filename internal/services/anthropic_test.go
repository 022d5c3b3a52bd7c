package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quickquiz-chat/internal/models"
)

const messageWithMixedBlocks = `{
  "id": "msg_01",
  "type": "message",
  "role": "assistant",
  "model": "claude-sonnet-4-20250514",
  "content": [
    {"type": "text", "text": "foo"},
    {"type": "image", "source": {"type": "base64", "media_type": "image/png", "data": "AAAA"}},
    {"type": "text", "text": "bar"}
  ],
  "stop_reason": "end_turn",
  "stop_sequence": null,
  "usage": {"input_tokens": 10, "output_tokens": 2}
}`

func newAnthropicTestServer(t *testing.T, handler http.HandlerFunc) *AnthropicService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewAnthropicService(AnthropicConfig{
		APIKey:    "test-key",
		BaseURL:   srv.URL,
		Model:     "claude-sonnet-4-20250514",
		MaxTokens: 1024,
	})
}

func TestAnthropicService_ConcatenatesTextBlocks(t *testing.T) {
	var gotBody map[string]any
	var gotHeader http.Header
	var gotPath string

	svc := newAnthropicTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Clone()
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(messageWithMixedBlocks))
	})

	reply, err := svc.Complete(context.Background(), CompletionRequest{
		System:   "SYSTEM",
		Messages: []models.ChatMessage{user("q"), assistant("a"), user("q2")},
	})

	require.NoError(t, err)
	assert.Equal(t, "foobar", reply)

	assert.Equal(t, "/v1/messages", gotPath)
	assert.Equal(t, "test-key", gotHeader.Get("X-Api-Key"))
	assert.NotEmpty(t, gotHeader.Get("Anthropic-Version"))
	assert.Contains(t, gotHeader.Get("Content-Type"), "application/json")

	assert.Equal(t, "claude-sonnet-4-20250514", gotBody["model"])
	assert.EqualValues(t, 1024, gotBody["max_tokens"])
	assert.Contains(t, mustJSON(t, gotBody["system"]), "SYSTEM")

	msgs, ok := gotBody["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 3)
	roles := make([]string, 0, len(msgs))
	for _, m := range msgs {
		roles = append(roles, m.(map[string]any)["role"].(string))
	}
	assert.Equal(t, []string{"user", "assistant", "user"}, roles)
}

func TestAnthropicService_NoTextBlocksIsEmptyReply(t *testing.T) {
	svc := newAnthropicTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"msg_02","type":"message","role":"assistant","model":"m","content":[],"stop_reason":"end_turn","usage":{"input_tokens":1,"output_tokens":0}}`))
	})

	reply, err := svc.Complete(context.Background(), CompletionRequest{Messages: []models.ChatMessage{user("q")}})

	require.NoError(t, err)
	assert.Empty(t, reply)
}

func TestAnthropicService_UpstreamStatusIsPreserved(t *testing.T) {
	calls := 0
	svc := newAnthropicTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"type":"error","error":{"type":"overloaded_error","message":"upstream secret detail"}}`))
	})

	_, err := svc.Complete(context.Background(), CompletionRequest{Messages: []models.ChatMessage{user("q")}})

	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, http.StatusServiceUnavailable, upErr.StatusCode)
	assert.NotContains(t, upErr.Error(), "upstream secret detail")
	assert.Equal(t, 1, calls, "requests must not be retried")
}

func TestAnthropicService_TransportFailureIsInternal(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	svc := NewAnthropicService(AnthropicConfig{APIKey: "k", BaseURL: baseURL, Model: "m"})

	_, err := svc.Complete(context.Background(), CompletionRequest{Messages: []models.ChatMessage{user("q")}})

	var inErr *InternalError
	require.ErrorAs(t, err, &inErr)
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return strings.TrimSpace(string(b))
}
