package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/bitrise-io/testmycode/common"
	"github.com/bitrise-io/testmycode/logger"
	"google.golang.org/genai"
)

// GeminiModel implements the LLM interface using the Gemini API
type GeminiModel struct {
	client     *genai.Client
	modelName  string
	maxTokens  int
	apiTimeout int // in seconds
}

// NewGemini creates a new Gemini client
func NewGemini(ctx context.Context, apiKey string, opts ...Option) (*GeminiModel, error) {
	if apiKey == "" {
		err := NewAuthError(common.ProviderGemini, nil)
		logger.Error(err)
		return nil, err
	}

	o := applyOptions(clientOptions{modelName: "gemini-2.5-flash"}, opts)

	config := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: o.httpClient,
	}
	if o.baseURL != "" {
		config.HTTPOptions.BaseURL = o.baseURL
	}

	client, err := genai.NewClient(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := &GeminiModel{
		client:     client,
		modelName:  o.modelName,
		maxTokens:  o.maxTokens,
		apiTimeout: o.apiTimeout,
	}

	logger.Debugf("Gemini client initialized with model: %s, max tokens: %d, timeout: %d seconds",
		model.modelName, model.maxTokens, model.apiTimeout)

	return model, nil
}

// Prompt sends a request to Gemini and returns the response
func (g *GeminiModel) Prompt(ctx context.Context, req Request) (Response, error) {
	ctx, cancel := withTimeout(ctx, g.apiTimeout)
	defer cancel()

	modelName := req.Model
	if modelName == "" {
		modelName = g.modelName
	}

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(req.Temperature)),
		MaxOutputTokens: int32(g.maxTokens),
	}

	logger.Infof("Sending request to Gemini with model %s, temperature %g", modelName, req.Temperature)

	resp, err := g.client.Models.GenerateContent(ctx, modelName, genai.Text(req.UserPrompt), config)
	if err != nil {
		logger.Errorf("failed to generate content: %v", err)
		return Response{}, translateGeminiError(err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return Response{}, NewInvalidResponseError(common.ProviderGemini, "no candidates")
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == "" {
		return Response{}, NewInvalidResponseError(common.ProviderGemini, "no finish reason")
	}

	return Response{
		FinishReason: geminiFinishReason(string(candidate.FinishReason)),
		Content:      resp.Text(),
	}, nil
}

func geminiFinishReason(reason string) FinishReason {
	switch genai.FinishReason(reason) {
	case genai.FinishReasonStop:
		return FinishReasonStop
	case genai.FinishReasonMaxTokens:
		return FinishReasonLength
	}
	return normalizeFinishReason(reason)
}

func translateGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return statusError(common.ProviderGemini, apiErr.Code, err)
	}
	if isDecodeError(err) {
		return NewMalformedResponseError(common.ProviderGemini, err)
	}
	return NewNetworkError(common.ProviderGemini, err)
}
