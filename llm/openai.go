package llm

import (
	"context"
	"errors"
	"math"

	"github.com/bitrise-io/testmycode/common"
	"github.com/bitrise-io/testmycode/logger"
	"github.com/sashabaranov/go-openai"
)

// OpenAIModel implements the LLM interface using OpenAI's API
type OpenAIModel struct {
	client     *openai.Client
	modelName  string
	maxTokens  int
	apiTimeout int // in seconds
}

// NewOpenAI creates a new OpenAI client
func NewOpenAI(apiKey string, opts ...Option) (*OpenAIModel, error) {
	if apiKey == "" {
		err := NewAuthError(common.ProviderOpenAI, nil)
		logger.Error(err)
		return nil, err
	}

	o := applyOptions(clientOptions{modelName: "gpt-4.1"}, opts)

	config := openai.DefaultConfig(apiKey)
	config.HTTPClient = o.httpClient
	if o.baseURL != "" {
		config.BaseURL = o.baseURL
	}

	model := &OpenAIModel{
		client:     openai.NewClientWithConfig(config),
		modelName:  o.modelName,
		maxTokens:  o.maxTokens,
		apiTimeout: o.apiTimeout,
	}

	logger.Debugf("OpenAI client initialized with model: %s, max tokens: %d, timeout: %d seconds",
		model.modelName, model.maxTokens, model.apiTimeout)

	return model, nil
}

// Prompt sends a request to OpenAI and returns the response
func (o *OpenAIModel) Prompt(ctx context.Context, req Request) (Response, error) {
	ctx, cancel := withTimeout(ctx, o.apiTimeout)
	defer cancel()

	modelName := req.Model
	if modelName == "" {
		modelName = o.modelName
	}

	chatReq := openai.ChatCompletionRequest{
		Model: modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: req.UserPrompt,
			},
		},
		MaxTokens:   o.maxTokens,
		Temperature: openAITemperature(req.Temperature),
	}

	logger.Infof("Sending request to OpenAI with model %s, temperature %g", modelName, req.Temperature)

	resp, err := o.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		logger.Errorf("failed to create chat completion: %v", err)
		return Response{}, translateOpenAIError(err)
	}

	if len(resp.Choices) == 0 {
		return Response{}, NewInvalidResponseError(common.ProviderOpenAI, "no choices")
	}

	choice := resp.Choices[0]
	if choice.FinishReason == "" {
		return Response{}, NewInvalidResponseError(common.ProviderOpenAI, "no finish reason")
	}

	return Response{
		FinishReason: normalizeFinishReason(string(choice.FinishReason)),
		Content:      choice.Message.Content,
	}, nil
}

// openAITemperature keeps a zero temperature in the request body, the
// client drops the field when it holds the zero value.
func openAITemperature(t float64) float32 {
	if t == 0 {
		return math.SmallestNonzeroFloat32
	}
	return float32(t)
}

func translateOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return statusError(common.ProviderOpenAI, apiErr.HTTPStatusCode, err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return statusError(common.ProviderOpenAI, reqErr.HTTPStatusCode, err)
	}

	if isDecodeError(err) {
		return NewMalformedResponseError(common.ProviderOpenAI, err)
	}
	return NewNetworkError(common.ProviderOpenAI, err)
}
