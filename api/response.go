package api

import (
	"dm-chat/errors"
	"encoding/json"
	"log/slog"
	"net/http"
)

const (
	codeSuccess = "SUCCESS"
	codeCreated = "CREATED"

	codeMethodNotAllowed = "METHOD_NOT_ALLOWED"
)

// Response is the envelope of every HTTP reply. Code is SUCCESS, CREATED or an error kind.
type Response struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, status int, body Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Warn("Failed to write response", "error", err)
	}
}

func success(w http.ResponseWriter, log *slog.Logger, message string, data any) {
	writeJSON(w, log, http.StatusOK, Response{Code: codeSuccess, Message: message, Data: data})
}

func created(w http.ResponseWriter, log *slog.Logger, message string, data any) {
	writeJSON(w, log, http.StatusCreated, Response{Code: codeCreated, Message: message, Data: data})
}

// failure renders the kind and the caller-safe message. Internal detail never leaves the process.
func failure(w http.ResponseWriter, log *slog.Logger, err error) {
	writeJSON(w, log, errors.HTTPStatus(err), Response{
		Code:    string(errors.KindOf(err)),
		Message: errors.PublicMessage(err),
	})
}
