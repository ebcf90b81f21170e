package interview

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"followupgen/internal/llm"
)

const DefaultMaxTokens = 250

var errEmptyFollowup = fmt.Errorf("model returned empty follow-up: %w", llm.ErrEmptyResponse)

type ServiceConfig struct {
	Client      llm.Client
	Model       string
	MaxTokens   int
	Temperature float32
	Logger      *slog.Logger
}

// Service генерирует уточняющие вопросы по одному ходу интервью.
// Состояния между запросами нет, поэтому один экземпляр обслуживает все запросы параллельно.
type Service struct {
	client      llm.Client
	model       string
	maxTokens   int
	temperature float32
	logger      *slog.Logger
}

func NewService(cfg ServiceConfig) *Service {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		client:      cfg.Client,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		logger:      cfg.Logger,
	}
}

// Validate проверяет обязательные поля. Пробельная строка считается пустой.
func Validate(turn Turn) error {
	var fields []FieldError
	if strings.TrimSpace(turn.Question) == "" {
		fields = append(fields, FieldError{Field: "question", Message: "field required", Type: "value_error.missing"})
	}
	if strings.TrimSpace(turn.Answer) == "" {
		fields = append(fields, FieldError{Field: "answer", Message: "field required", Type: "value_error.missing"})
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// GenerateFollowups возвращает *ValidationError до вызова LLM или *GenerationError на любой сбой после.
func (s *Service) GenerateFollowups(ctx context.Context, turn Turn) (Envelope, error) {
	if err := Validate(turn); err != nil {
		return Envelope{}, err
	}

	prompt := BuildPrompt(turn)

	text, err := s.client.ChatCompletion(ctx, llm.CompletionRequest{
		Model: s.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: prompt.System},
			{Role: llm.RoleUser, Content: prompt.User},
		},
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
	})
	if err != nil {
		return Envelope{}, &GenerationError{Cause: err}
	}

	followup := strings.TrimSpace(text)
	if followup == "" {
		return Envelope{}, &GenerationError{Cause: errEmptyFollowup}
	}

	s.logger.DebugContext(ctx, "follow-up generated",
		slog.String("model", s.model),
		slog.Int("chars", len(followup)))

	return Envelope{
		Result:  ResultSuccess,
		Message: successMessage,
		Data:    EnvelopeData{FollowupQuestion: followup},
	}, nil
}
