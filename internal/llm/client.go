package llm

import "context"

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

type Message struct {
	Role    string
	Content string
}

// CompletionRequest описывает один вызов chat completion.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float32
}

// Client минимальный публичный интерфейс LLM клиента.
// Возвращает текст первого варианта ответа как есть, без обрезки.
type Client interface {
	ChatCompletion(ctx context.Context, req CompletionRequest) (string, error)
}
