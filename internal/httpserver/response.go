package httpserver

import (
	"encoding/json"
	"net/http"
)

type detailEnvelope struct {
	Detail any `json:"detail"`
}

// WriteJSON отдаёт v со статусом status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteDetail возвращает ошибку в едином формате {"detail": ...}.
// detail строка для серверных ошибок или список нарушений для 422.
func WriteDetail(w http.ResponseWriter, status int, detail any) {
	WriteJSON(w, status, detailEnvelope{Detail: detail})
}
