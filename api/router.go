package api

import (
	"dm-chat/auth"
	"dm-chat/errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.Use(loggingMiddleware(h.log), auth.Middleware)

	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/auth/register", h.Register).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)

	r.HandleFunc("/chats", h.OpenOrCreateDirectChat).Methods(http.MethodPost)
	r.HandleFunc("/chats", h.ListMyChats).Methods(http.MethodGet)
	r.HandleFunc("/chats/{chatId}/messages", h.RetrieveMessages).Methods(http.MethodGet)
	r.HandleFunc("/messages", h.SendMessage).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, h.log, http.StatusNotFound, Response{Code: string(errors.KindNotFound), Message: "route not found"})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, h.log, http.StatusMethodNotAllowed, Response{Code: codeMethodNotAllowed, Message: "method not allowed"})
	})
	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(log *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			log.Debug("http call",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"latency", time.Since(start))
		})
	}
}
