package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

func newTestRouter(h http.Handler) http.Handler {
	return NewRouter(RouterDeps{
		Logger:           slog.New(slog.NewTextHandler(os.Stdout, nil)),
		FollowupsHandler: h,
	})
}

func TestRouterDispatchesFollowups(t *testing.T) {
	var called bool
	router := newTestRouter(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		WriteJSON(w, http.StatusOK, map[string]string{"result": "success"})
	}))

	req := httptest.NewRequest(http.MethodPost, "/interview/generate-followups", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if !called {
		t.Fatalf("followups handler was not called")
	}
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected request id header")
	}
}

func TestRouterRejectsGetOnFollowups(t *testing.T) {
	router := newTestRouter(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler must not be called for GET")
	}))

	req := httptest.NewRequest(http.MethodGet, "/interview/generate-followups", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}
}

func TestRouterPingAndMetadata(t *testing.T) {
	router := newTestRouter(http.NotFoundHandler())

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if rr.Code != http.StatusOK || rr.Body.String() != "pong" {
		t.Fatalf("unexpected ping response: %d %q", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	var meta map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &meta); err != nil {
		t.Fatalf("decode metadata: %v", err)
	}
	if meta["title"] != "Interview Follow-Up Question Generator" {
		t.Fatalf("unexpected metadata: %v", meta)
	}
}

func TestRouterRecoversPanic(t *testing.T) {
	router := newTestRouter(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/interview/generate-followups", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
}

func TestWriteDetail(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteDetail(rr, http.StatusInternalServerError, "Error generating follow-up: boom")

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	if strings.TrimSpace(rr.Body.String()) != `{"detail":"Error generating follow-up: boom"}` {
		t.Fatalf("unexpected body: %s", rr.Body.String())
	}
}
