package llm

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"followupgen/internal/config"

	openai "github.com/sashabaranov/go-openai"
)

var (
	ErrInvalidModel  = errors.New("model is required")
	ErrEmptyResponse = errors.New("empty response from model")
)

// OpenAIClient ходит в OpenAI-совместимый /chat/completions.
// BaseURL позволяет направить его в OpenRouter или локальный прокси.
type OpenAIClient struct {
	api    *openai.Client
	model  string
	logger *slog.Logger
}

func NewOpenAIClient(cfg config.OpenAIConfig, doer openai.HTTPDoer, logger *slog.Logger) *OpenAIClient {
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	if doer != nil {
		apiCfg.HTTPClient = doer
	}
	return &OpenAIClient{
		api:    openai.NewClientWithConfig(apiCfg),
		model:  cfg.Model,
		logger: logger,
	}
}

func (c *OpenAIClient) ChatCompletion(ctx context.Context, req CompletionRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}
	if model == "" {
		return "", ErrInvalidModel
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	temperature := req.Temperature
	if temperature == 0 {
		// go-openai опускает нулевую temperature (omitempty), и провайдер подставляет свою 1.0.
		temperature = math.SmallestNonzeroFloat32
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	if c.logger != nil {
		c.logger.Debug("chat completion",
			slog.String("model", resp.Model),
			slog.String("finish_reason", string(resp.Choices[0].FinishReason)),
			slog.Int("prompt_tokens", resp.Usage.PromptTokens),
			slog.Int("completion_tokens", resp.Usage.CompletionTokens))
	}
	return resp.Choices[0].Message.Content, nil
}
