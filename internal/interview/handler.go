package interview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"followupgen/internal/httpserver"
	"followupgen/internal/llm"
	"followupgen/internal/middleware"
)

const maxBodyBytes = 1 << 20

// Generator то, что нужно хендлеру от сервиса.
type Generator interface {
	GenerateFollowups(ctx context.Context, turn Turn) (Envelope, error)
}

type HandlerDeps struct {
	Generator Generator
	Logger    *slog.Logger
}

// Handler обслуживает POST /interview/generate-followups.
type Handler struct {
	generator Generator
	logger    *slog.Logger
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{
		generator: deps.Generator,
		logger:    deps.Logger,
	}
}

type validationIssue struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	turn, err := decodeTurn(r.Body)
	if err != nil {
		h.writeDecodeError(w, err)
		return
	}

	envelope, err := h.generator.GenerateFollowups(r.Context(), turn)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httpserver.WriteJSON(w, http.StatusOK, envelope)
}

var errTrailingData = errors.New("unexpected data after JSON body")

// decodeTurn принимает ровно один JSON-объект, хвост после него считается ошибкой.
func decodeTurn(body io.Reader) (Turn, error) {
	dec := json.NewDecoder(body)

	var turn Turn
	if err := dec.Decode(&turn); err != nil {
		return Turn{}, err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return Turn{}, err
		}
		return Turn{}, errTrailingData
	}
	return turn, nil
}

func (h *Handler) writeDecodeError(w http.ResponseWriter, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		httpserver.WriteDetail(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}

	issue := validationIssue{Loc: []string{"body"}, Msg: "invalid JSON body", Type: "value_error.jsondecode"}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		loc := []string{"body"}
		if typeErr.Field != "" {
			loc = append(loc, typeErr.Field)
		}
		issue = validationIssue{
			Loc:  loc,
			Msg:  fmt.Sprintf("expected %s, got %s", typeErr.Type, typeErr.Value),
			Type: "type_error",
		}
	}
	httpserver.WriteDetail(w, http.StatusUnprocessableEntity, []validationIssue{issue})
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		issues := make([]validationIssue, 0, len(validationErr.Fields))
		for _, f := range validationErr.Fields {
			issues = append(issues, validationIssue{Loc: []string{"body", f.Field}, Msg: f.Message, Type: f.Type})
		}
		httpserver.WriteDetail(w, http.StatusUnprocessableEntity, issues)
		return
	}

	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		genErr = &GenerationError{Cause: err}
	}
	if h.logger != nil {
		h.logger.ErrorContext(r.Context(), "follow-up generation failed",
			slog.String("error", genErr.Cause.Error()),
			slog.String("kind", llm.Classify(genErr.Cause)),
			slog.String("request_id", middleware.RequestIDFromContext(r.Context())))
	}
	httpserver.WriteDetail(w, http.StatusInternalServerError, genErr.Error())
}
