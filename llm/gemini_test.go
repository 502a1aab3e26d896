package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bitrise-io/testmycode/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedGenerateRequest struct {
	Contents []struct {
		Role  string `json:"role"`
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"contents"`
	GenerationConfig struct {
		Temperature *float64 `json:"temperature"`
	} `json:"generationConfig"`
}

func newGeminiTestClient(t *testing.T, status int, body string, captured *capturedGenerateRequest) *GeminiModel {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, ":generateContent"), r.URL.Path)
		if captured != nil {
			assert.Contains(t, r.URL.Path, "models/gemini-test")
			assert.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	client, err := NewGemini(context.Background(), "gm-test",
		WithBaseURL(server.URL),
		WithHTTPClient(server.Client()),
		WithModel("gemini-test"))
	require.NoError(t, err)
	return client
}

func TestGeminiModel_Prompt(t *testing.T) {
	var captured capturedGenerateRequest
	client := newGeminiTestClient(t, http.StatusOK, `{
		"candidates": [{
			"content": {"role": "model", "parts": [{"text": "<tests>"}]},
			"finishReason": "STOP"
		}]
	}`, &captured)

	resp, err := client.Prompt(context.Background(), Request{UserPrompt: "write tests"})
	require.NoError(t, err)

	assert.Equal(t, FinishReasonStop, resp.FinishReason)
	assert.Equal(t, "<tests>", resp.Content)

	require.Len(t, captured.Contents, 1)
	require.Len(t, captured.Contents[0].Parts, 1)
	assert.Equal(t, "write tests", captured.Contents[0].Parts[0].Text)
	require.NotNil(t, captured.GenerationConfig.Temperature)
	assert.Zero(t, *captured.GenerationConfig.Temperature)
}

func TestGeminiModel_PromptMaxTokens(t *testing.T) {
	client := newGeminiTestClient(t, http.StatusOK, `{
		"candidates": [{
			"content": {"role": "model", "parts": [{"text": "partial"}]},
			"finishReason": "MAX_TOKENS"
		}]
	}`, nil)

	resp, err := client.Prompt(context.Background(), Request{UserPrompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, FinishReasonLength, resp.FinishReason)
	assert.Equal(t, "partial", resp.Content)
}

func TestGeminiModel_PromptErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		kind   common.ErrorKind
	}{
		{
			name:   "unauthorized",
			status: http.StatusUnauthorized,
			body:   `{"error": {"code": 401, "message": "API key not valid", "status": "UNAUTHENTICATED"}}`,
			kind:   common.KindAuthentication,
		},
		{
			name:   "server error",
			status: http.StatusInternalServerError,
			body:   `{"error": {"code": 500, "message": "internal error", "status": "INTERNAL"}}`,
			kind:   common.KindService,
		},
		{
			name:   "no candidates",
			status: http.StatusOK,
			body:   `{"candidates": []}`,
			kind:   common.KindService,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newGeminiTestClient(t, tt.status, tt.body, nil)

			_, err := client.Prompt(context.Background(), Request{UserPrompt: "p"})
			require.Error(t, err)
			assert.Equal(t, tt.kind, common.KindOf(err), err.Error())
		})
	}
}

func TestGeminiFinishReason(t *testing.T) {
	assert.Equal(t, FinishReasonStop, geminiFinishReason("STOP"))
	assert.Equal(t, FinishReasonLength, geminiFinishReason("MAX_TOKENS"))
	assert.Equal(t, FinishReason("safety"), geminiFinishReason("SAFETY"))
}
