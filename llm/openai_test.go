package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bitrise-io/testmycode/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedChatRequest struct {
	Model       string   `json:"model"`
	Temperature *float64 `json:"temperature"`
	MaxTokens   int      `json:"max_tokens"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newOpenAITestServer(t *testing.T, status int, body string, captured *capturedChatRequest) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		if captured != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestNewOpenAI_MissingKey(t *testing.T) {
	_, err := NewOpenAI("")
	require.Error(t, err)
	assert.True(t, common.IsKind(err, common.KindAuthentication))
}

func TestOpenAIModel_Prompt(t *testing.T) {
	var captured capturedChatRequest
	server := newOpenAITestServer(t, http.StatusOK, `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"created": 1,
		"model": "gpt-3.5-turbo",
		"choices": [{"index": 0, "message": {"role": "assistant", "content": "<tests>"}, "finish_reason": "stop"}]
	}`, &captured)

	client, err := NewOpenAI("sk-test", WithBaseURL(server.URL+"/v1"), WithModel("gpt-4o"))
	require.NoError(t, err)

	resp, err := client.Prompt(context.Background(), Request{
		Model:       "gpt-3.5-turbo",
		Temperature: 0,
		UserPrompt:  "write tests",
	})
	require.NoError(t, err)

	assert.Equal(t, FinishReasonStop, resp.FinishReason)
	assert.Equal(t, "<tests>", resp.Content)

	assert.Equal(t, "gpt-3.5-turbo", captured.Model)
	require.NotNil(t, captured.Temperature, "zero temperature must still be sent")
	assert.InDelta(t, 0, *captured.Temperature, 1e-9)
	assert.Zero(t, captured.MaxTokens)
	require.Len(t, captured.Messages, 1)
	assert.Equal(t, "user", captured.Messages[0].Role)
	assert.Equal(t, "write tests", captured.Messages[0].Content)
}

func TestOpenAIModel_PromptUsesDefaultModelAndLength(t *testing.T) {
	var captured capturedChatRequest
	server := newOpenAITestServer(t, http.StatusOK, `{
		"choices": [{"index": 0, "message": {"role": "assistant", "content": "partial"}, "finish_reason": "length"}]
	}`, &captured)

	client, err := NewOpenAI("sk-test", WithBaseURL(server.URL+"/v1"), WithModel("gpt-4o"), WithMaxTokens(64))
	require.NoError(t, err)

	resp, err := client.Prompt(context.Background(), Request{Temperature: 0.7, UserPrompt: "p"})
	require.NoError(t, err)

	assert.Equal(t, FinishReasonLength, resp.FinishReason)
	assert.Equal(t, "partial", resp.Content)
	assert.Equal(t, "gpt-4o", captured.Model)
	assert.Equal(t, 64, captured.MaxTokens)
	require.NotNil(t, captured.Temperature)
	assert.InDelta(t, 0.7, *captured.Temperature, 1e-6)
}

func TestOpenAIModel_PromptErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		kind   common.ErrorKind
	}{
		{
			name:   "unauthorized",
			status: http.StatusUnauthorized,
			body:   `{"error": {"message": "Incorrect API key provided", "type": "invalid_request_error", "code": "invalid_api_key"}}`,
			kind:   common.KindAuthentication,
		},
		{
			name:   "rate limited",
			status: http.StatusTooManyRequests,
			body:   `{"error": {"message": "Rate limit reached", "type": "requests", "code": "rate_limit_exceeded"}}`,
			kind:   common.KindService,
		},
		{
			name:   "server error without json body",
			status: http.StatusBadGateway,
			body:   `upstream unavailable`,
			kind:   common.KindService,
		},
		{
			name:   "undecodable body with success status",
			status: http.StatusOK,
			body:   `<html>gateway</html>`,
			kind:   common.KindService,
		},
		{
			name:   "no choices",
			status: http.StatusOK,
			body:   `{"id": "chatcmpl-1", "choices": []}`,
			kind:   common.KindService,
		},
		{
			name:   "no finish reason",
			status: http.StatusOK,
			body:   `{"choices": [{"index": 0, "message": {"role": "assistant", "content": "x"}}]}`,
			kind:   common.KindService,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newOpenAITestServer(t, tt.status, tt.body, nil)

			client, err := NewOpenAI("sk-test", WithBaseURL(server.URL+"/v1"))
			require.NoError(t, err)

			_, err = client.Prompt(context.Background(), Request{UserPrompt: "p"})
			require.Error(t, err)
			assert.Equal(t, tt.kind, common.KindOf(err), err.Error())
		})
	}
}

func TestOpenAIModel_PromptNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client, err := NewOpenAI("sk-test", WithBaseURL(url+"/v1"))
	require.NoError(t, err)

	_, err = client.Prompt(context.Background(), Request{UserPrompt: "p"})
	require.Error(t, err)
	assert.True(t, common.IsKind(err, common.KindNetwork), err.Error())
}

func TestOpenAITemperature(t *testing.T) {
	assert.Greater(t, openAITemperature(0), float32(0))
	assert.Equal(t, float32(0.5), openAITemperature(0.5))
}
