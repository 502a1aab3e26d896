package llm

import (
	"context"
	"errors"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/bitrise-io/testmycode/common"
	"github.com/bitrise-io/testmycode/logger"
)

const anthropicDefaultMaxTokens = 4000

// Short names accepted for --model, anything else is sent unchanged
var anthropicModelAliases = map[string]string{
	"claude-3.7-sonnet": "claude-3-7-sonnet-latest",
	"claude-3.5-sonnet": "claude-3-5-sonnet-latest",
	"claude-3.5-haiku":  "claude-3-5-haiku-latest",
}

// AnthropicModel implements the LLM interface using Anthropic's API
type AnthropicModel struct {
	client     anthropic.Client
	modelName  string
	maxTokens  int
	apiTimeout int // in seconds
}

// NewAnthropic creates a new Anthropic client
func NewAnthropic(apiKey string, opts ...Option) (*AnthropicModel, error) {
	if apiKey == "" {
		err := NewAuthError(common.ProviderAnthropic, nil)
		logger.Error(err)
		return nil, err
	}

	o := applyOptions(clientOptions{
		modelName: "claude-3.7-sonnet",
		maxTokens: anthropicDefaultMaxTokens,
	}, opts)
	if o.maxTokens <= 0 {
		o.maxTokens = anthropicDefaultMaxTokens
	}

	requestOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(o.httpClient),
		option.WithMaxRetries(0),
	}
	if o.baseURL != "" {
		requestOpts = append(requestOpts, option.WithBaseURL(o.baseURL))
	}

	model := &AnthropicModel{
		client:     anthropic.NewClient(requestOpts...),
		modelName:  o.modelName,
		maxTokens:  o.maxTokens,
		apiTimeout: o.apiTimeout,
	}

	logger.Debugf("Anthropic client initialized with model: %s, max tokens: %d, timeout: %d seconds",
		model.modelName, model.maxTokens, model.apiTimeout)

	return model, nil
}

// Prompt sends a request to Anthropic and returns the response
func (a *AnthropicModel) Prompt(ctx context.Context, req Request) (Response, error) {
	ctx, cancel := withTimeout(ctx, a.apiTimeout)
	defer cancel()

	modelName := req.Model
	if modelName == "" {
		modelName = a.modelName
	}
	if alias, ok := anthropicModelAliases[modelName]; ok {
		modelName = alias
	}

	messageParams := anthropic.MessageNewParams{
		Model:     anthropic.Model(modelName),
		MaxTokens: int64(a.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.UserPrompt)),
		},
		Temperature: anthropic.Float(req.Temperature),
	}

	logger.Infof("Sending request to Anthropic with model %s, temperature %g", modelName, req.Temperature)

	message, err := a.client.Messages.New(ctx, messageParams)
	if err != nil {
		logger.Errorf("failed to create message: %v", err)
		return Response{}, translateAnthropicError(err)
	}

	if message.StopReason == "" {
		return Response{}, NewInvalidResponseError(common.ProviderAnthropic, "no stop reason")
	}

	var content string
	for _, block := range message.Content {
		switch b := block.AsAny().(type) {
		case anthropic.TextBlock:
			content += b.Text
		}
	}

	return Response{
		FinishReason: anthropicFinishReason(string(message.StopReason)),
		Content:      content,
	}, nil
}

func anthropicFinishReason(reason string) FinishReason {
	switch anthropic.StopReason(reason) {
	case anthropic.StopReasonEndTurn, anthropic.StopReasonStopSequence:
		return FinishReasonStop
	case anthropic.StopReasonMaxTokens:
		return FinishReasonLength
	}
	return normalizeFinishReason(reason)
}

func translateAnthropicError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return statusError(common.ProviderAnthropic, apiErr.StatusCode, err)
	}
	if isDecodeError(err) {
		return NewMalformedResponseError(common.ProviderAnthropic, err)
	}
	return NewNetworkError(common.ProviderAnthropic, err)
}
