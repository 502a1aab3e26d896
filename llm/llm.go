package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bitrise-io/testmycode/common"
	"github.com/bitrise-io/testmycode/logger"
)

// OptionType defines the type of option
type OptionType string

// Available option types
const (
	ModelNameOption  OptionType = "model"
	MaxTokensOption  OptionType = "max_tokens"
	APITimeoutOption OptionType = "api_timeout"
	BaseURLOption    OptionType = "base_url"
	HTTPClientOption OptionType = "http_client"
)

// Option represents a generic configuration option for any LLM provider
type Option struct {
	Type  OptionType
	Value any
}

// WithModel sets the model used when a request does not name one
func WithModel(model string) Option {
	return Option{
		Type:  ModelNameOption,
		Value: model,
	}
}

// WithMaxTokens caps the generated tokens, 0 leaves it to the backend where allowed
func WithMaxTokens(maxTokens int) Option {
	return Option{
		Type:  MaxTokensOption,
		Value: maxTokens,
	}
}

// WithAPITimeout sets the request timeout in seconds, 0 disables it
func WithAPITimeout(timeout int) Option {
	return Option{
		Type:  APITimeoutOption,
		Value: timeout,
	}
}

// WithBaseURL points the client at a different API endpoint
func WithBaseURL(baseURL string) Option {
	return Option{
		Type:  BaseURLOption,
		Value: baseURL,
	}
}

// WithHTTPClient sets the HTTP client used for the backend calls
func WithHTTPClient(client *http.Client) Option {
	return Option{
		Type:  HTTPClientOption,
		Value: client,
	}
}

// FinishReason tells why the backend stopped generating
type FinishReason string

const (
	FinishReasonStop   FinishReason = "stop"
	FinishReasonLength FinishReason = "length"
)

// Request is a single user message sent to the model
type Request struct {
	Model       string
	Temperature float64
	UserPrompt  string
}

// Response is the completion returned by the model
type Response struct {
	FinishReason FinishReason
	Content      string
}

// LLM defines the interface for language model prompting
type LLM interface {
	// Prompt sends a request to the language model and returns its response
	Prompt(ctx context.Context, req Request) (Response, error)
}

type clientOptions struct {
	modelName  string
	maxTokens  int
	apiTimeout int
	baseURL    string
	httpClient *http.Client
}

func applyOptions(defaults clientOptions, opts []Option) clientOptions {
	o := defaults
	for _, opt := range opts {
		switch opt.Type {
		case ModelNameOption:
			if modelName, ok := opt.Value.(string); ok && modelName != "" {
				o.modelName = modelName
			}
		case MaxTokensOption:
			if maxTokens, ok := opt.Value.(int); ok {
				o.maxTokens = maxTokens
			}
		case APITimeoutOption:
			if timeout, ok := opt.Value.(int); ok {
				o.apiTimeout = timeout
			}
		case BaseURLOption:
			if baseURL, ok := opt.Value.(string); ok {
				o.baseURL = baseURL
			}
		case HTTPClientOption:
			if client, ok := opt.Value.(*http.Client); ok && client != nil {
				o.httpClient = client
			}
		}
	}

	if o.httpClient == nil {
		o.httpClient = common.NewRetryableClient(common.DefaultRetryConfig()).StandardClient()
	}
	return o
}

func withTimeout(ctx context.Context, seconds int) (context.Context, context.CancelFunc) {
	if seconds <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, time.Duration(seconds)*time.Second)
}

func normalizeFinishReason(reason string) FinishReason {
	return FinishReason(strings.ToLower(reason))
}

// NewLLM creates the client for the named provider. The credential is
// passed in by the caller; an empty one is an authentication error.
func NewLLM(providerName, apiKey string, opts ...Option) (LLM, error) {
	var llmClient LLM

	switch providerName {
	case common.ProviderOpenAI:
		client, err := NewOpenAI(apiKey, opts...)
		if err != nil {
			return nil, err
		}
		llmClient = client
	case common.ProviderAnthropic:
		client, err := NewAnthropic(apiKey, opts...)
		if err != nil {
			return nil, err
		}
		llmClient = client
	case common.ProviderGemini:
		client, err := NewGemini(context.Background(), apiKey, opts...)
		if err != nil {
			return nil, err
		}
		llmClient = client
	default:
		return nil, fmt.Errorf("unsupported provider: %s", providerName)
	}

	logger.Infof("Using LLM provider: %s", providerName)
	return llmClient, nil
}
