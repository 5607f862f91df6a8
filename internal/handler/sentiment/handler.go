package sentiment

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	sentimentservice "github.com/manamitra/companion/backend/internal/service/sentiment"
	"github.com/manamitra/companion/backend/pkg/utils"
)

// Evaluator is the slice of the sentiment engine the handler needs.
type Evaluator interface {
	Evaluate(ctx context.Context, userID string) (sentimentservice.Evaluation, error)
	History(ctx context.Context, userID string) (sentimentservice.History, error)
}

// Handler serves the sentiment dashboard endpoints.
type Handler struct {
	engine Evaluator
	logger *zap.Logger
}

// New creates the sentiment handler.
func New(engine Evaluator, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{engine: engine, logger: logger}
}

// RegisterRoutes mounts the sentiment routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/users/{userID}/sentiment", h.handleEvaluate)
	r.Get("/users/{userID}/sentiment/history", h.handleHistory)
}

// handleEvaluate returns the cached or freshly scored sentiment. A user without
// scorable conversation gets 200 with state insufficient_data.
func (h *Handler) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	evaluation, err := h.engine.Evaluate(r.Context(), userID)
	switch {
	case err == nil, errors.Is(err, sentimentservice.ErrInsufficientData):
		utils.RespondJSON(w, http.StatusOK, evaluation)
	case errors.Is(err, sentimentservice.ErrUserRequired):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, sentimentservice.ErrScoringUnavailable):
		utils.RespondError(w, http.StatusServiceUnavailable, "sentiment scoring is temporarily unavailable")
	case errors.Is(err, sentimentservice.ErrProfileUnavailable):
		h.logger.Error("user profile unavailable", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "user profile unavailable")
	default:
		h.logger.Error("sentiment evaluation failed", zap.String("user_id", userID), zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "sentiment evaluation failed")
	}
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	history, err := h.engine.History(r.Context(), userID)
	if err != nil {
		h.logger.Error("sentiment history failed", zap.String("user_id", userID), zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "sentiment history failed")
		return
	}

	utils.RespondJSON(w, http.StatusOK, history)
}
