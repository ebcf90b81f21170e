package retry

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// Doer повторяет исходящие запросы по Policy. Подходит как HTTPClient для go-openai.
// Тело запроса перечитывается через GetBody на каждой попытке.
type Doer struct {
	client *http.Client
	policy Policy
	logger *slog.Logger
}

func NewDoer(client *http.Client, policy Policy, logger *slog.Logger) *Doer {
	if client == nil {
		client = http.DefaultClient
	}
	return &Doer{client: client, policy: policy, logger: logger}
}

func (d *Doer) Do(req *http.Request) (*http.Response, error) {
	if req.Body != nil && req.Body != http.NoBody && req.GetBody == nil {
		// Без GetBody тело нельзя переотправить.
		return d.client.Do(req)
	}

	logger := d.logger
	if logger != nil {
		logger = logger.With(
			slog.String("provider", req.URL.Host),
			slog.String("endpoint", req.URL.Path))
	}

	resp, body, err := DoHTTP(req.Context(), d.policy, logger, func(ctx context.Context) (*http.Response, []byte, error) {
		attempt := req.Clone(ctx)
		if req.GetBody != nil {
			rc, err := req.GetBody()
			if err != nil {
				return nil, nil, fmt.Errorf("rewind request body: %w", err)
			}
			attempt.Body = rc
		}

		resp, err := d.client.Do(attempt)
		if err != nil {
			return nil, nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return resp, nil, fmt.Errorf("read response: %w", err)
		}
		return resp, body, nil
	})
	if err != nil {
		return nil, err
	}

	resp.Body = io.NopCloser(bytes.NewReader(body))
	resp.ContentLength = int64(len(body))
	return resp, nil
}
