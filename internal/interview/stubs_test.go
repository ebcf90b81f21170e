package interview

import (
	"context"
	"sync"

	"followupgen/internal/llm"
)

// recordingClient запоминает запросы и отвечает через reply.
type recordingClient struct {
	mu    sync.Mutex
	calls []llm.CompletionRequest
	reply func(req llm.CompletionRequest) (string, error)
}

func (c *recordingClient) ChatCompletion(ctx context.Context, req llm.CompletionRequest) (string, error) {
	c.mu.Lock()
	c.calls = append(c.calls, req)
	c.mu.Unlock()
	if c.reply == nil {
		return "", nil
	}
	return c.reply(req)
}

func (c *recordingClient) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

func answering(text string) func(llm.CompletionRequest) (string, error) {
	return func(llm.CompletionRequest) (string, error) { return text, nil }
}

func failing(err error) func(llm.CompletionRequest) (string, error) {
	return func(llm.CompletionRequest) (string, error) { return "", err }
}
