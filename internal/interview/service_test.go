package interview

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"followupgen/internal/llm"
)

func newTestService(client llm.Client) *Service {
	return NewService(ServiceConfig{
		Client:      client,
		Model:       "gpt-4o-mini",
		MaxTokens:   250,
		Temperature: 0.7,
	})
}

func TestGenerateFollowupsSuccess(t *testing.T) {
	const followup = "Why did you choose that approach? — to probe decision rationale"
	client := &recordingClient{reply: answering("\n  " + followup + "  \n")}
	service := newTestService(client)

	env, err := service.GenerateFollowups(context.Background(), Turn{
		Question:      "Tell me about a challenge you faced",
		Answer:        "I led a migration project",
		Role:          "Senior Engineer",
		InterviewType: []string{"technical"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := Envelope{
		Result:  "success",
		Message: "Follow-up question generated.",
		Data:    EnvelopeData{FollowupQuestion: followup},
	}
	if env != want {
		t.Fatalf("unexpected envelope: %+v", env)
	}

	if client.callCount() != 1 {
		t.Fatalf("expected 1 call, got %d", client.callCount())
	}
	req := client.calls[0]
	if req.Model != "gpt-4o-mini" || req.MaxTokens != 250 || req.Temperature != 0.7 {
		t.Fatalf("unexpected request params: %+v", req)
	}
	if len(req.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(req.Messages))
	}
	if req.Messages[0].Role != llm.RoleSystem || req.Messages[1].Role != llm.RoleUser {
		t.Fatalf("unexpected message order: %+v", req.Messages)
	}
	if !strings.Contains(req.Messages[1].Content, "Interview Type: technical") {
		t.Fatalf("user message not interpolated: %s", req.Messages[1].Content)
	}
}

func TestGenerateFollowupsRejectsBeforeRemoteCall(t *testing.T) {
	cases := map[string]Turn{
		"empty":          {},
		"missing answer": {Question: "q"},
		"blank question": {Question: "   ", Answer: "a"},
		"blank answer":   {Question: "q", Answer: "\n\t"},
	}
	for name, turn := range cases {
		t.Run(name, func(t *testing.T) {
			client := &recordingClient{reply: answering("never")}
			service := newTestService(client)

			_, err := service.GenerateFollowups(context.Background(), turn)
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			var genErr *GenerationError
			if errors.As(err, &genErr) {
				t.Fatalf("validation must not be reported as generation failure")
			}
			if client.callCount() != 0 {
				t.Fatalf("remote client called %d times", client.callCount())
			}
		})
	}
}

func TestValidateListsAllMissingFields(t *testing.T) {
	err := Validate(Turn{})
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(validationErr.Fields) != 2 {
		t.Fatalf("expected 2 field errors, got %+v", validationErr.Fields)
	}
	if validationErr.Fields[0].Field != "question" || validationErr.Fields[1].Field != "answer" {
		t.Fatalf("unexpected fields: %+v", validationErr.Fields)
	}
}

func TestGenerateFollowupsWrapsProviderFailure(t *testing.T) {
	cause := errors.New("connection refused")
	client := &recordingClient{reply: failing(cause)}
	service := newTestService(client)

	_, err := service.GenerateFollowups(context.Background(), Turn{Question: "q", Answer: "a"})
	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause must be preserved")
	}
	if !strings.Contains(err.Error(), "Error generating follow-up:") || !strings.Contains(err.Error(), "connection refused") {
		t.Fatalf("unexpected message: %s", err.Error())
	}
	if client.callCount() != 1 {
		t.Fatalf("failures must not be retried, got %d calls", client.callCount())
	}
}

func TestGenerateFollowupsEmptyModelOutput(t *testing.T) {
	service := newTestService(&recordingClient{reply: answering("   \n")})

	_, err := service.GenerateFollowups(context.Background(), Turn{Question: "q", Answer: "a"})
	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
}

func TestGenerateFollowupsConcurrent(t *testing.T) {
	client := &recordingClient{reply: func(req llm.CompletionRequest) (string, error) {
		return "echo: " + req.Messages[1].Content, nil
	}}
	service := newTestService(client)

	const n = 32
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			question := strings.Repeat("x", i+1)
			env, err := service.GenerateFollowups(context.Background(), Turn{Question: question, Answer: "a"})
			if err != nil {
				errs <- err
				return
			}
			if !strings.Contains(env.Data.FollowupQuestion, "Original Question: "+question+"\n") {
				errs <- errors.New("response mixed up between requests")
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
	if client.callCount() != n {
		t.Fatalf("expected %d calls, got %d", n, client.callCount())
	}
}
