package httpserver

import (
	"net/http"

	"followupgen/internal/middleware"

	"log/slog"

	"github.com/go-chi/chi/v5"
)

const (
	serviceTitle       = "Interview Follow-Up Question Generator"
	serviceDescription = "API to generate follow-up interview questions using OpenAI"
)

type RouterDeps struct {
	Logger           *slog.Logger
	FollowupsHandler http.Handler
}

// NewRouter собирает chi-роутер с общими middleware.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recover(deps.Logger))
	r.Use(middleware.Logging(deps.Logger))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{
			"title":       serviceTitle,
			"description": serviceDescription,
		})
	})

	r.Route("/interview", func(r chi.Router) {
		r.Method(http.MethodPost, "/generate-followups", deps.FollowupsHandler)
	})

	return r
}
