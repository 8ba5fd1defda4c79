package api

import (
	"context"
	"dm-chat/auth"
	"dm-chat/contract"
	"dm-chat/errors"
	"dm-chat/observability"
	"dm-chat/services"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
)

const maxBodyBytes = 1 << 20

// Pinger reports whether the store answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	log           *slog.Logger
	gate          auth.IGate
	authService   services.IAuthService
	conversations services.IConversationService
	store         Pinger
	monitoring    *observability.MonitoringManager
}

func NewHandler(log *slog.Logger, gate auth.IGate, authService services.IAuthService,
	conversations services.IConversationService, store Pinger,
	monitoring *observability.MonitoringManager) *Handler {
	return &Handler{
		log:           log,
		gate:          gate,
		authService:   authService,
		conversations: conversations,
		store:         store,
		monitoring:    monitoring,
	}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req contract.RegisterRequest
	if !h.decode(w, r, &req) {
		return
	}
	session, err := h.authService.Register(r.Context(), req)
	if h.fail(w, err) {
		return
	}
	created(w, h.log, "account created", contract.AuthResponse{Token: session.Token.String(), User: session.User})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req contract.LoginRequest
	if !h.decode(w, r, &req) {
		return
	}
	session, err := h.authService.Login(r.Context(), req)
	if h.fail(w, err) {
		return
	}
	success(w, h.log, "logged in", contract.AuthResponse{Token: session.Token.String(), User: session.User})
}

func (h *Handler) OpenOrCreateDirectChat(w http.ResponseWriter, r *http.Request) {
	var req contract.OpenChatRequest
	if !h.decodeProtected(w, r, &req) {
		return
	}
	chat, err := h.conversations.OpenOrCreateDirectChat(r.Context(), auth.AuthorizationFrom(r.Context()), req)
	if h.fail(w, err) {
		return
	}
	success(w, h.log, "chat ready", contract.FromChat(chat))
}

func (h *Handler) ListMyChats(w http.ResponseWriter, r *http.Request) {
	chats, err := h.conversations.ListMyChats(r.Context(), auth.AuthorizationFrom(r.Context()))
	if h.fail(w, err) {
		return
	}
	success(w, h.log, "chats retrieved", contract.FromChatSummaries(chats))
}

func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req contract.SendMessageRequest
	if !h.decodeProtected(w, r, &req) {
		return
	}
	message, err := h.conversations.SendMessage(r.Context(), auth.AuthorizationFrom(r.Context()), req)
	if h.fail(w, err) {
		return
	}
	created(w, h.log, "message sent", contract.FromMessage(message))
}

func (h *Handler) RetrieveMessages(w http.ResponseWriter, r *http.Request) {
	req := contract.RetrieveMessagesRequest{ChatID: mux.Vars(r)["chatId"]}
	if cursor := r.URL.Query().Get("cursor"); cursor != "" {
		req.Cursor = &cursor
	}
	page, err := h.conversations.RetrieveMessages(r.Context(), auth.AuthorizationFrom(r.Context()), req)
	if h.fail(w, err) {
		return
	}
	message := "messages retrieved"
	if page.NoMessagesYet {
		message = "no messages yet"
	}
	success(w, h.log, message, contract.FromMessagePage(page))
}

type healthReport struct {
	Store   string                        `json:"store"`
	Process observability.MonitoringStats `json:"process"`
}

// Health answers 503 when the store does not respond.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	report := healthReport{Store: "up", Process: h.monitoring.GetLatest()}
	if err := h.store.Ping(r.Context()); err != nil {
		h.log.Warn("Health check failed", "error", err)
		report.Store = "down"
		writeJSON(w, h.log, http.StatusServiceUnavailable,
			Response{Code: "UNAVAILABLE", Message: "store unreachable", Data: report})
		return
	}
	success(w, h.log, "ok", report)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		h.fail(w, errors.Validation("", "request body must be a JSON object"))
		return false
	}
	return true
}

// decodeProtected decodes the body of a protected route.
// An unreadable body from an unresolved caller is reported as the authentication failure.
func (h *Handler) decodeProtected(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if _, authErr := h.gate.ResolveCaller(r.Context(), auth.AuthorizationFrom(r.Context())); authErr != nil {
			if errors.KindOf(authErr) == errors.KindInternal {
				h.log.Error("Caller resolution failed", "path", r.URL.Path, "error", authErr)
			}
			h.fail(w, authErr)
			return false
		}
		h.fail(w, errors.Validation("", "request body must be a JSON object"))
		return false
	}
	return true
}

func (h *Handler) fail(w http.ResponseWriter, err error) bool {
	h.monitoring.Observe(err)
	if err == nil {
		return false
	}
	failure(w, h.log, err)
	return true
}
