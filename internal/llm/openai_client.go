// ABOUTME: OpenAI-compatible chat client for function-calling requests
// ABOUTME: Resolves the API key per call, applies a per-attempt timeout and optional retries
package llm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/harper/hospital-navigator/internal/logging"
	"github.com/harper/hospital-navigator/internal/util"
)

const (
	// DefaultChatModel is the default model for routing
	DefaultChatModel = "gpt-4o-mini"
	// DefaultAPIKeyEnv names the credential variable
	DefaultAPIKeyEnv = "OPENAI_API_KEY"
)

// ClientConfig holds configuration for the OpenAI client
type ClientConfig struct {
	APIKeyEnv  string
	BaseURL    string
	ChatModel  string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
	HTTPClient *http.Client
}

// DefaultConfig returns the default client configuration
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		APIKeyEnv:  DefaultAPIKeyEnv,
		ChatModel:  DefaultChatModel,
		Timeout:    30 * time.Second,
		MaxRetries: 0,
		RetryDelay: 2 * time.Second,
	}
}

// CompletionRequest is a single-turn chat request with callable tools
type CompletionRequest struct {
	SystemPrompt string
	UserMessage  string
	Tools        []openai.Tool
	Temperature  float32
}

// ToolCall is one function invocation returned by the model
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// Completion is the model's answer: tool calls, plain text, or both
type Completion struct {
	ToolCalls    []ToolCall
	Text         string
	FinishReason string
}

// OpenAIClient sends function-calling chat completions
type OpenAIClient struct {
	apiKeyEnv  string
	baseURL    string
	chatModel  string
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
	httpClient *http.Client
	logger     *log.Logger
}

// NewOpenAIClient creates a client. The credential is not read here.
func NewOpenAIClient(config *ClientConfig, logger *log.Logger) *OpenAIClient {
	if config == nil {
		config = DefaultConfig()
	}
	c := &OpenAIClient{
		apiKeyEnv:  config.APIKeyEnv,
		baseURL:    config.BaseURL,
		chatModel:  config.ChatModel,
		timeout:    config.Timeout,
		maxRetries: config.MaxRetries,
		retryDelay: config.RetryDelay,
		httpClient: config.HTTPClient,
		logger:     logging.OrDiscard(logger),
	}
	if c.apiKeyEnv == "" {
		c.apiKeyEnv = DefaultAPIKeyEnv
	}
	if c.chatModel == "" {
		c.chatModel = DefaultChatModel
	}
	if c.timeout <= 0 {
		c.timeout = 30 * time.Second
	}
	return c
}

// Model returns the configured chat model
func (c *OpenAIClient) Model() string {
	return c.chatModel
}

// newAPIClient builds a go-openai client for the current credential
func (c *OpenAIClient) newAPIClient() (*openai.Client, error) {
	apiKey := os.Getenv(c.apiKeyEnv)
	if apiKey == "" {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("%s is not set", c.apiKeyEnv)}
	}

	cfg := openai.DefaultConfig(apiKey)
	if c.baseURL != "" {
		cfg.BaseURL = c.baseURL
	}
	if c.httpClient != nil {
		cfg.HTTPClient = c.httpClient
	}
	return openai.NewClientWithConfig(cfg), nil
}

// Complete sends one request/response exchange. Only the current message is
// sent; no history is carried between calls.
func (c *OpenAIClient) Complete(ctx context.Context, req CompletionRequest) (*Completion, error) {
	client, err := c.newAPIClient()
	if err != nil {
		return nil, err
	}

	chatReq := openai.ChatCompletionRequest{
		Model: c.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: req.SystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: req.UserMessage,
			},
		},
		Tools:       req.Tools,
		Temperature: wireTemperature(req.Temperature),
	}

	var completion *Completion
	err = util.Retry(ctx, c.maxRetries, c.retryDelay, func(attempt int) error {
		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		resp, err := client.CreateChatCompletion(attemptCtx, chatReq)
		if err != nil {
			c.logger.Debug("chat completion failed", "attempt", attempt+1, "err", err)
			if !retryable(err) || ctx.Err() != nil {
				return util.Stop(fmt.Errorf("attempt %d: %w", attempt+1, err))
			}
			return fmt.Errorf("attempt %d: %w", attempt+1, err)
		}

		if len(resp.Choices) == 0 {
			return fmt.Errorf("attempt %d: no completion choices returned", attempt+1)
		}

		completion = toCompletion(resp.Choices[0])
		return nil
	})
	if err != nil {
		return nil, &TransportError{Op: "chat completion", Err: err}
	}

	return completion, nil
}

func toCompletion(choice openai.ChatCompletionChoice) *Completion {
	out := &Completion{
		Text:         choice.Message.Content,
		FinishReason: string(choice.FinishReason),
	}
	for _, tc := range choice.Message.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	// Legacy function_call responses from older compatible servers
	if len(out.ToolCalls) == 0 && choice.Message.FunctionCall != nil {
		out.ToolCalls = append(out.ToolCalls, ToolCall{
			Name:      choice.Message.FunctionCall.Name,
			Arguments: choice.Message.FunctionCall.Arguments,
		})
	}
	return out
}

// retryable reports whether a failed call is worth repeating. Client errors
// other than rate limiting will fail the same way again.
func retryable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= 500
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusTooManyRequests || reqErr.HTTPStatusCode >= 500
	}
	return true
}

// wireTemperature keeps a zero temperature on the wire. go-openai omits a
// zero value, which would leave the server on its default of 1.0.
func wireTemperature(t float32) float32 {
	if t == 0 {
		return math.SmallestNonzeroFloat32
	}
	return t
}
