package chat

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	chatService "github.com/manamitra/companion/backend/internal/service/chat"
	"github.com/manamitra/companion/backend/pkg/utils"
)

// Handler serves anonymous identities and conversation turns.
type Handler struct {
	chatSvc *chatService.Service
	logger  *zap.Logger
}

// New creates the chat handler.
func New(chatSvc *chatService.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{chatSvc: chatSvc, logger: logger}
}

// RegisterRoutes mounts the user and message routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/users", h.handleCreateUser)
	r.Post("/users/{userID}/messages", h.handleSendMessage)
	r.Get("/users/{userID}/messages", h.handleListMessages)
}

// handleCreateUser issues a fresh anonymous user id. Nothing is stored until the
// first message arrives.
func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusCreated, map[string]string{"userId": uuid.NewString()})
}

func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var payload struct {
		Message string `json:"message"`
	}
	if err := utils.DecodeJSON(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	reply, err := h.chatSvc.Send(r.Context(), userID, payload.Message)
	switch {
	case err == nil:
		utils.RespondJSON(w, http.StatusOK, reply)
	case errors.Is(err, chatService.ErrMessageRequired), errors.Is(err, chatService.ErrUserRequired):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, chatService.ErrReplyUnavailable):
		// The message is stored; tell the client the reply part failed.
		utils.RespondJSON(w, http.StatusBadGateway, map[string]any{
			"error":     "assistant reply unavailable",
			"turn":      reply.Turn,
			"intent":    reply.Intent,
			"crisis":    reply.Crisis,
			"helplines": reply.Helplines,
		})
	default:
		h.logger.Error("failed to send message", zap.String("user_id", userID), zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "failed to send message")
	}
}

func (h *Handler) handleListMessages(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	turns, err := h.chatSvc.History(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list messages", zap.String("user_id", userID), zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "failed to list messages")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{"userId": userID, "turns": turns})
}
